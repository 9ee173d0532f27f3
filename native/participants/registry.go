package participants

import (
	"fmt"
	"strings"
	"time"

	"recyclechain/core/events"
	nativecommon "recyclechain/native/common"
)

const moduleName = "participants"

var participantPrefix = []byte("participants/record/")

func participantKey(addr [20]byte) []byte {
	buf := make([]byte, len(participantPrefix)+len(addr))
	copy(buf, participantPrefix)
	copy(buf[len(participantPrefix):], addr[:])
	return buf
}

type registryState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Registry manages persistence and retrieval of participant records.
type Registry struct {
	st      registryState
	emitter events.Emitter
	pauses  nativecommon.PauseView
	nowFn   func() int64
}

// NewRegistry creates a registry backed by the provided state manager.
func NewRegistry(st registryState) *Registry {
	return &Registry{
		st:      st,
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetEmitter configures the event emitter used to broadcast registry updates.
// Passing nil resets the emitter to a no-op implementation.
func (r *Registry) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		r.emitter = events.NoopEmitter{}
		return
	}
	r.emitter = emitter
}

func (r *Registry) SetPauses(p nativecommon.PauseView) {
	if r == nil {
		return
	}
	r.pauses = p
}

// SetNowFunc overrides the time source. Primarily intended for tests.
func (r *Registry) SetNowFunc(now func() int64) {
	if now == nil {
		r.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	r.nowFn = now
}

// Register records a new participant. Registration is self-authorized: the
// caller must be the address being registered.
func (r *Registry) Register(caller, addr [20]byte, role Role, name, location string) (*Participant, error) {
	if err := nativecommon.Guard(r.pauses, moduleName); err != nil {
		return nil, err
	}
	if caller != addr {
		return nil, ErrUnauthorized
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %d", ErrInvalidParticipant, role)
	}
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalidParticipant)
	}
	exists, err := r.st.KVGet(participantKey(addr), new(Participant))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}
	participant := &Participant{
		Addr:         addr,
		Role:         role,
		Name:         trimmedName,
		Location:     strings.TrimSpace(location),
		RegisteredAt: uint64(r.nowFn()),
	}
	if err := r.st.KVPut(participantKey(addr), participant); err != nil {
		return nil, err
	}
	r.emit(events.ParticipantRegistered{
		Addr: addr,
		Role: uint8(role),
		Name: participant.Name,
	})
	return participant, nil
}

// Get retrieves a participant by address.
func (r *Registry) Get(addr [20]byte) (*Participant, bool, error) {
	out := new(Participant)
	ok, err := r.st.KVGet(participantKey(addr), out)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return out, true, nil
}

// IsRegistered reports whether the address belongs to a known participant.
func (r *Registry) IsRegistered(addr [20]byte) bool {
	ok, err := r.st.KVGet(participantKey(addr), nil)
	return err == nil && ok
}

func (r *Registry) emit(event events.Event) {
	if r.emitter == nil {
		return
	}
	r.emitter.Emit(event)
}
