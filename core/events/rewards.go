package events

import "recyclechain/core/types"

const (
	// TypeRewardDistributed is emitted after a successful multi-party reward
	// payout.
	TypeRewardDistributed = "rewards.distributed"
)

// RewardPayout is one leg of a distribution.
type RewardPayout struct {
	Payee  [20]byte
	Amount uint64
}

// RewardDistributed captures the full split of one payout.
type RewardDistributed struct {
	MaterialID  uint64
	IncentiveID uint64
	TotalReward uint64
	Payouts     []RewardPayout
}

// EventType implements the Event interface.
func (RewardDistributed) EventType() string { return TypeRewardDistributed }

// Event converts the payload into its flat attribute form. Each payout leg is
// rendered as an indexed payee/amount attribute pair.
func (e RewardDistributed) Event() *types.Event {
	attrs := map[string]string{
		"materialId":  uintString(e.MaterialID),
		"incentiveId": uintString(e.IncentiveID),
		"totalReward": uintString(e.TotalReward),
		"payouts":     uintString(uint64(len(e.Payouts))),
	}
	for i, p := range e.Payouts {
		attrs["payee."+uintString(uint64(i))] = addrString(p.Payee)
		attrs["amount."+uintString(uint64(i))] = uintString(p.Amount)
	}
	return &types.Event{Type: TypeRewardDistributed, Attributes: attrs}
}
