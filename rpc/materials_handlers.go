package rpc

import (
	"net/http"

	"recyclechain/native/materials"
)

type submitMaterialParams struct {
	Caller      string `json:"caller"`
	WasteType   string `json:"wasteType"`
	WeightGrams uint64 `json:"weightGrams"`
}

type transferMaterialParams struct {
	Caller     string `json:"caller"`
	MaterialID uint64 `json:"materialId"`
	To         string `json:"to"`
}

type materialLifecycleParams struct {
	Caller     string `json:"caller"`
	MaterialID uint64 `json:"materialId"`
}

type materialQueryParams struct {
	MaterialID uint64 `json:"materialId"`
}

func (s *Server) handleSubmitMaterial(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params submitMaterialParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	wasteType, ok := materials.ParseWasteType(params.WasteType)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid waste type", params.WasteType)
		return
	}
	material, err := s.node.SubmitMaterial(caller, wasteType, params.WeightGrams)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatMaterial(material))
}

func (s *Server) handleTransferMaterial(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params transferMaterialParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	to, err := decodeBech32(params.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid recipient address", err.Error())
		return
	}
	if err := s.node.TransferMaterial(params.MaterialID, caller, to); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleVerifyMaterial(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params materialLifecycleParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.VerifyMaterial(caller, params.MaterialID); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleGetMaterial(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params materialQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	material, ok, err := s.node.Material(params.MaterialID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load material", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeNotFound, "material not found", params.MaterialID)
		return
	}
	writeResult(w, req.ID, formatMaterial(material))
}

func (s *Server) handleGetTransferHistory(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params materialQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	history, err := s.node.TransferHistory(params.MaterialID)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	out := make([]transferResult, 0, len(history))
	for _, record := range history {
		out = append(out, formatTransfer(record))
	}
	writeResult(w, req.ID, out)
}
