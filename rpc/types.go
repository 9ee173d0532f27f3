package rpc

import (
	"errors"
	"net/http"

	"recyclechain/core"
	"recyclechain/crypto"
	nativecommon "recyclechain/native/common"
	"recyclechain/native/incentives"
	"recyclechain/native/materials"
	"recyclechain/native/participants"
	"recyclechain/native/rewards"
)

type participantResult struct {
	Address      string `json:"address"`
	Role         string `json:"role"`
	Name         string `json:"name"`
	Location     string `json:"location,omitempty"`
	RegisteredAt uint64 `json:"registeredAt"`
}

type incentiveResult struct {
	ID              uint64 `json:"id"`
	Rewarder        string `json:"rewarder"`
	WasteType       string `json:"wasteType"`
	RewardPerKg     uint64 `json:"rewardPerKg"`
	TotalBudget     uint64 `json:"totalBudget"`
	RemainingBudget uint64 `json:"remainingBudget"`
	Active          bool   `json:"active"`
	CreatedAt       uint64 `json:"createdAt"`
}

type materialResult struct {
	ID           uint64 `json:"id"`
	WasteType    string `json:"wasteType"`
	WeightGrams  uint64 `json:"weightGrams"`
	Submitter    string `json:"submitter"`
	CurrentOwner string `json:"currentOwner"`
	SubmittedAt  uint64 `json:"submittedAt"`
	Verified     bool   `json:"verified"`
}

type transferResult struct {
	MaterialID uint64 `json:"materialId"`
	From       string `json:"from"`
	To         string `json:"to"`
	Timestamp  uint64 `json:"timestamp"`
}

type statsResult struct {
	Address            string `json:"address"`
	TotalEarned        uint64 `json:"totalEarned"`
	MaterialsSubmitted uint64 `json:"materialsSubmitted"`
	TransfersIn        uint64 `json:"transfersIn"`
	VerifiedCount      uint64 `json:"verifiedCount"`
}

type rewardConfigResult struct {
	Admin        string `json:"admin"`
	TokenSymbol  string `json:"tokenSymbol"`
	Charity      string `json:"charity"`
	CollectorPct uint32 `json:"collectorPct"`
	OwnerPct     uint32 `json:"ownerPct"`
}

type totalsResult struct {
	MaterialCount    uint64 `json:"materialCount"`
	TotalDistributed uint64 `json:"totalDistributed"`
}

func decodeBech32(addr string) ([20]byte, error) {
	var out [20]byte
	decoded, err := crypto.DecodeAddress(addr)
	if err != nil {
		return out, err
	}
	copy(out[:], decoded.Bytes())
	return out, nil
}

func formatAddr(b [20]byte) string {
	return crypto.NewAddress(crypto.RCYPrefix, b[:]).String()
}

func formatParticipant(p *participants.Participant) participantResult {
	return participantResult{
		Address:      formatAddr(p.Addr),
		Role:         p.Role.String(),
		Name:         p.Name,
		Location:     p.Location,
		RegisteredAt: p.RegisteredAt,
	}
}

func formatIncentive(in *incentives.Incentive) incentiveResult {
	return incentiveResult{
		ID:              in.ID,
		Rewarder:        formatAddr(in.Rewarder),
		WasteType:       in.WasteType.String(),
		RewardPerKg:     in.RewardPerKg,
		TotalBudget:     in.TotalBudget,
		RemainingBudget: in.RemainingBudget,
		Active:          in.Active,
		CreatedAt:       in.CreatedAt,
	}
}

func formatMaterial(m *materials.Material) materialResult {
	return materialResult{
		ID:           m.ID,
		WasteType:    m.WasteType.String(),
		WeightGrams:  m.WeightGrams,
		Submitter:    formatAddr(m.Submitter),
		CurrentOwner: formatAddr(m.CurrentOwner),
		SubmittedAt:  m.SubmittedAt,
		Verified:     m.Verified,
	}
}

func formatTransfer(r materials.TransferRecord) transferResult {
	return transferResult{
		MaterialID: r.MaterialID,
		From:       formatAddr(r.From),
		To:         formatAddr(r.To),
		Timestamp:  r.Timestamp,
	}
}

// writeModuleError maps module sentinel errors onto JSON-RPC error codes.
func writeModuleError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, participants.ErrNotFound),
		errors.Is(err, incentives.ErrNotFound),
		errors.Is(err, materials.ErrNotFound),
		errors.Is(err, rewards.ErrMaterialNotFound),
		errors.Is(err, rewards.ErrIncentiveNotFound):
		writeError(w, http.StatusNotFound, id, codeNotFound, err.Error(), nil)
	case errors.Is(err, participants.ErrUnauthorized),
		errors.Is(err, incentives.ErrUnauthorized),
		errors.Is(err, rewards.ErrUnauthorized),
		errors.Is(err, materials.ErrNotOwner),
		errors.Is(err, core.ErrUnauthorized):
		writeError(w, http.StatusForbidden, id, codeUnauthorized, err.Error(), nil)
	case errors.Is(err, nativecommon.ErrModulePaused):
		writeError(w, http.StatusServiceUnavailable, id, codeServerError, err.Error(), nil)
	default:
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, err.Error(), nil)
	}
}
