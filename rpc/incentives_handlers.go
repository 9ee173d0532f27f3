package rpc

import (
	"net/http"

	"recyclechain/native/materials"
)

type createIncentiveParams struct {
	Caller      string `json:"caller"`
	WasteType   string `json:"wasteType"`
	RewardPerKg uint64 `json:"rewardPerKg"`
	TotalBudget uint64 `json:"totalBudget"`
}

type updateIncentiveParams struct {
	Caller      string `json:"caller"`
	ID          uint64 `json:"id"`
	RewardPerKg uint64 `json:"rewardPerKg"`
	TotalBudget uint64 `json:"totalBudget"`
}

type incentiveLifecycleParams struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
}

type incentiveQueryParams struct {
	ID uint64 `json:"id"`
}

type rewarderQueryParams struct {
	Rewarder string `json:"rewarder"`
}

type wasteTypeQueryParams struct {
	WasteType string `json:"wasteType"`
}

type bestIncentiveParams struct {
	Rewarder  string `json:"rewarder"`
	WasteType string `json:"wasteType"`
}

func (s *Server) handleCreateIncentive(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params createIncentiveParams
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
	incentive, err := s.node.CreateIncentive(caller, wasteType, params.RewardPerKg, params.TotalBudget)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatIncentive(incentive))
}

func (s *Server) handleUpdateIncentive(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params updateIncentiveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.UpdateIncentive(caller, params.ID, params.RewardPerKg, params.TotalBudget); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleDeactivateIncentive(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params incentiveLifecycleParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.DeactivateIncentive(caller, params.ID); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleGetIncentive(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params incentiveQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	incentive, ok, err := s.node.Incentive(params.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load incentive", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeNotFound, "incentive not found", params.ID)
		return
	}
	writeResult(w, req.ID, formatIncentive(incentive))
}

func (s *Server) handleListIncentivesByRewarder(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params rewarderQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	rewarder, err := decodeBech32(params.Rewarder)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid rewarder address", err.Error())
		return
	}
	list, err := s.node.IncentivesByRewarder(rewarder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to list incentives", err.Error())
		return
	}
	out := make([]incentiveResult, 0, len(list))
	for _, in := range list {
		out = append(out, formatIncentive(in))
	}
	writeResult(w, req.ID, out)
}

func (s *Server) handleListIncentivesByWasteType(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params wasteTypeQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	wasteType, ok := materials.ParseWasteType(params.WasteType)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid waste type", params.WasteType)
		return
	}
	list, err := s.node.IncentivesByWasteType(wasteType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to list incentives", err.Error())
		return
	}
	out := make([]incentiveResult, 0, len(list))
	for _, in := range list {
		out = append(out, formatIncentive(in))
	}
	writeResult(w, req.ID, out)
}

func (s *Server) handleBestIncentive(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params bestIncentiveParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	rewarder, err := decodeBech32(params.Rewarder)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid rewarder address", err.Error())
		return
	}
	wasteType, ok := materials.ParseWasteType(params.WasteType)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid waste type", params.WasteType)
		return
	}
	best, ok, err := s.node.BestActiveIncentive(rewarder, wasteType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to resolve incentive", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeNotFound, "no active incentive", params.WasteType)
		return
	}
	writeResult(w, req.ID, formatIncentive(best))
}
