package incentives

import "recyclechain/native/materials"

// Incentive is a manufacturer-funded reward program for one waste type. It
// pays a fixed per-kilogram rate until the remaining budget is drained, at
// which point it permanently deactivates.
type Incentive struct {
	ID              uint64
	Rewarder        [20]byte
	WasteType       materials.WasteType
	RewardPerKg     uint64
	TotalBudget     uint64
	RemainingBudget uint64
	Active          bool
	CreatedAt       uint64
}
