package rpc

import (
	"net/http"

	"recyclechain/native/participants"
)

type registerParticipantParams struct {
	Caller   string `json:"caller"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

type participantQueryParams struct {
	Address string `json:"address"`
}

func (s *Server) handleRegisterParticipant(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params registerParticipantParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	addr := caller
	if params.Address != "" {
		if addr, err = decodeBech32(params.Address); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
			return
		}
	}
	role, ok := participants.ParseRole(params.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid role", params.Role)
		return
	}
	participant, err := s.node.RegisterParticipant(caller, addr, role, params.Name, params.Location)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatParticipant(participant))
}

func (s *Server) handleGetParticipant(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params participantQueryParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	addr, err := decodeBech32(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	participant, ok, err := s.node.Participant(addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load participant", err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeNotFound, "participant not found", params.Address)
		return
	}
	writeResult(w, req.ID, formatParticipant(participant))
}
