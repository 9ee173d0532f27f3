package rpc

import (
	"math/big"
	"net/http"
)

type distributeParams struct {
	Caller      string `json:"caller"`
	MaterialID  uint64 `json:"materialId"`
	IncentiveID uint64 `json:"incentiveId"`
}

type distributeResult struct {
	MaterialID  uint64 `json:"materialId"`
	IncentiveID uint64 `json:"incentiveId"`
	TotalReward uint64 `json:"totalReward"`
}

type addressParams struct {
	Address string `json:"address"`
}

type setAdminParams struct {
	Caller string `json:"caller"`
	Admin  string `json:"admin"`
}

type setTokenSymbolParams struct {
	Caller string `json:"caller"`
	Symbol string `json:"symbol"`
}

type setCharityParams struct {
	Caller  string `json:"caller"`
	Charity string `json:"charity"`
}

type setPercentagesParams struct {
	Caller       string `json:"caller"`
	CollectorPct uint32 `json:"collectorPct"`
	OwnerPct     uint32 `json:"ownerPct"`
}

type setPausedParams struct {
	Caller string `json:"caller"`
	Module string `json:"module"`
	Paused bool   `json:"paused"`
}

type mintParams struct {
	Caller  string `json:"caller"`
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

type balanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

func (s *Server) handleDistributeReward(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params distributeParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	total, err := s.node.DistributeReward(params.MaterialID, params.IncentiveID, caller)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, distributeResult{
		MaterialID:  params.MaterialID,
		IncentiveID: params.IncentiveID,
		TotalReward: total,
	})
}

func (s *Server) handleGetParticipantStats(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	addr, err := decodeBech32(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	stats, err := s.node.ParticipantStats(addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load stats", err.Error())
		return
	}
	writeResult(w, req.ID, statsResult{
		Address:            params.Address,
		TotalEarned:        stats.TotalEarned,
		MaterialsSubmitted: stats.MaterialsSubmitted,
		TransfersIn:        stats.TransfersIn,
		VerifiedCount:      stats.VerifiedCount,
	})
}

func (s *Server) handleGetBalance(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params addressParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	addr, err := decodeBech32(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	balance, err := s.node.Balance(addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load balance", err.Error())
		return
	}
	writeResult(w, req.ID, balanceResult{Address: params.Address, Balance: balance.String()})
}

func (s *Server) handleGetRewardConfig(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	cfg, err := s.node.GetRewardConfig()
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load config", err.Error())
		return
	}
	writeResult(w, req.ID, rewardConfigResult{
		Admin:        formatAddr(cfg.Admin),
		TokenSymbol:  cfg.TokenSymbol,
		Charity:      formatAddr(cfg.Charity),
		CollectorPct: cfg.CollectorPct,
		OwnerPct:     cfg.OwnerPct,
	})
}

func (s *Server) handleSetAdmin(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params setAdminParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	admin, err := decodeBech32(params.Admin)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid admin address", err.Error())
		return
	}
	if err := s.node.SetAdmin(caller, admin); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleSetTokenSymbol(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params setTokenSymbolParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.SetTokenSymbol(caller, params.Symbol); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleSetCharity(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params setCharityParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	charity, err := decodeBech32(params.Charity)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid charity address", err.Error())
		return
	}
	if err := s.node.SetCharity(caller, charity); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleSetRewardPercentages(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params setPercentagesParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.SetRewardPercentages(caller, params.CollectorPct, params.OwnerPct); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleSetPaused(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params setPausedParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.node.SetPaused(caller, params.Module, params.Paused); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleMint(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params mintParams
	if err := decodeParams(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid parameter object", err.Error())
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	addr, err := decodeBech32(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	if err := s.node.MintBalance(caller, addr, new(big.Int).SetUint64(params.Amount)); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleGetTotals(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	count, err := s.node.MaterialCount()
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load material count", err.Error())
		return
	}
	distributed, err := s.node.TotalDistributed()
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load distribution total", err.Error())
		return
	}
	writeResult(w, req.ID, totalsResult{MaterialCount: count, TotalDistributed: distributed})
}

func (s *Server) handleGetEvents(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	writeResult(w, req.ID, s.node.Events())
}
