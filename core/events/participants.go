package events

import "recyclechain/core/types"

const (
	// TypeParticipantRegistered is emitted when a participant joins the
	// ledger.
	TypeParticipantRegistered = "participants.registered"
)

// ParticipantRegistered captures the key metadata of a newly registered
// participant.
type ParticipantRegistered struct {
	Addr [20]byte
	Role uint8
	Name string
}

// EventType implements the Event interface.
func (ParticipantRegistered) EventType() string { return TypeParticipantRegistered }

// Event converts the payload into its flat attribute form.
func (e ParticipantRegistered) Event() *types.Event {
	return &types.Event{
		Type: TypeParticipantRegistered,
		Attributes: map[string]string{
			"addr": addrString(e.Addr),
			"role": uintString(uint64(e.Role)),
			"name": e.Name,
		},
	}
}
