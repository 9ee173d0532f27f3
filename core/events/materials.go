package events

import "recyclechain/core/types"

const (
	// TypeMaterialSubmitted is emitted when a material record enters the
	// ledger.
	TypeMaterialSubmitted = "materials.submitted"
	// TypeMaterialTransferred is emitted on every custody transfer.
	TypeMaterialTransferred = "materials.transferred"
	// TypeMaterialVerified is emitted when a material is marked verified.
	TypeMaterialVerified = "materials.verified"
)

// MaterialSubmitted captures a new material record.
type MaterialSubmitted struct {
	ID          uint64
	WasteType   uint8
	WeightGrams uint64
	Submitter   [20]byte
}

// EventType implements the Event interface.
func (MaterialSubmitted) EventType() string { return TypeMaterialSubmitted }

// Event converts the payload into its flat attribute form.
func (e MaterialSubmitted) Event() *types.Event {
	return &types.Event{
		Type: TypeMaterialSubmitted,
		Attributes: map[string]string{
			"id":          uintString(e.ID),
			"wasteType":   uintString(uint64(e.WasteType)),
			"weightGrams": uintString(e.WeightGrams),
			"submitter":   addrString(e.Submitter),
		},
	}
}

// MaterialTransferred captures one custody hop.
type MaterialTransferred struct {
	ID   uint64
	From [20]byte
	To   [20]byte
}

// EventType implements the Event interface.
func (MaterialTransferred) EventType() string { return TypeMaterialTransferred }

// Event converts the payload into its flat attribute form.
func (e MaterialTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeMaterialTransferred,
		Attributes: map[string]string{
			"id":   uintString(e.ID),
			"from": addrString(e.From),
			"to":   addrString(e.To),
		},
	}
}

// MaterialVerified marks the one-way verification flag flip.
type MaterialVerified struct {
	ID     uint64
	Caller [20]byte
}

// EventType implements the Event interface.
func (MaterialVerified) EventType() string { return TypeMaterialVerified }

// Event converts the payload into its flat attribute form.
func (e MaterialVerified) Event() *types.Event {
	return &types.Event{
		Type: TypeMaterialVerified,
		Attributes: map[string]string{
			"id":     uintString(e.ID),
			"caller": addrString(e.Caller),
		},
	}
}
