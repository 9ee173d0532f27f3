package events

import "recyclechain/core/types"

const (
	// TypeIncentiveCreated is emitted when a manufacturer funds a new
	// incentive.
	TypeIncentiveCreated = "incentives.created"
	// TypeIncentiveUpdated is emitted when the rewarder replaces the reward
	// rate and budget of an active incentive.
	TypeIncentiveUpdated = "incentives.updated"
	// TypeIncentiveDeactivated is emitted when the rewarder retires an
	// incentive.
	TypeIncentiveDeactivated = "incentives.deactivated"
	// TypeIncentiveExhausted is emitted when a debit drains the remaining
	// budget to exactly zero.
	TypeIncentiveExhausted = "incentives.exhausted"
)

// IncentiveCreated captures the initial configuration of an incentive.
type IncentiveCreated struct {
	ID          uint64
	Rewarder    [20]byte
	WasteType   uint8
	RewardPerKg uint64
	TotalBudget uint64
}

// EventType implements the Event interface.
func (IncentiveCreated) EventType() string { return TypeIncentiveCreated }

// Event converts the payload into its flat attribute form.
func (e IncentiveCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeIncentiveCreated,
		Attributes: map[string]string{
			"id":          uintString(e.ID),
			"rewarder":    addrString(e.Rewarder),
			"wasteType":   uintString(uint64(e.WasteType)),
			"rewardPerKg": uintString(e.RewardPerKg),
			"totalBudget": uintString(e.TotalBudget),
		},
	}
}

// IncentiveUpdated captures the replacement reward rate and budget.
type IncentiveUpdated struct {
	ID          uint64
	RewardPerKg uint64
	TotalBudget uint64
}

// EventType implements the Event interface.
func (IncentiveUpdated) EventType() string { return TypeIncentiveUpdated }

// Event converts the payload into its flat attribute form.
func (e IncentiveUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeIncentiveUpdated,
		Attributes: map[string]string{
			"id":          uintString(e.ID),
			"rewardPerKg": uintString(e.RewardPerKg),
			"totalBudget": uintString(e.TotalBudget),
		},
	}
}

// IncentiveDeactivated records an explicit deactivation by the rewarder.
type IncentiveDeactivated struct {
	ID     uint64
	Caller [20]byte
}

// EventType implements the Event interface.
func (IncentiveDeactivated) EventType() string { return TypeIncentiveDeactivated }

// Event converts the payload into its flat attribute form.
func (e IncentiveDeactivated) Event() *types.Event {
	return &types.Event{
		Type: TypeIncentiveDeactivated,
		Attributes: map[string]string{
			"id":     uintString(e.ID),
			"caller": addrString(e.Caller),
		},
	}
}

// IncentiveExhausted records an automatic deactivation on budget exhaustion.
type IncentiveExhausted struct {
	ID uint64
}

// EventType implements the Event interface.
func (IncentiveExhausted) EventType() string { return TypeIncentiveExhausted }

// Event converts the payload into its flat attribute form.
func (e IncentiveExhausted) Event() *types.Event {
	return &types.Event{
		Type:       TypeIncentiveExhausted,
		Attributes: map[string]string{"id": uintString(e.ID)},
	}
}
