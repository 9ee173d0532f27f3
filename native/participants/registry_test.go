package participants_test

import (
	"errors"
	"testing"

	"recyclechain/core/events"
	"recyclechain/core/state"
	"recyclechain/native/participants"
	"recyclechain/storage"
)

type capturingEmitter struct {
	events []events.Event
}

func (c *capturingEmitter) Emit(e events.Event) {
	c.events = append(c.events, e)
}

func newTestRegistry(t *testing.T) *participants.Registry {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	manager := state.NewManager(db)
	registry := participants.NewRegistry(manager)
	registry.SetNowFunc(func() int64 { return 1_700_000_000 })
	return registry
}

func TestRegisterAndGet(t *testing.T) {
	registry := newTestRegistry(t)
	var addr [20]byte
	addr[19] = 0x11

	emitter := &capturingEmitter{}
	registry.SetEmitter(emitter)

	created, err := registry.Register(addr, addr, participants.RoleRecycler, "  Riverside Recycling ", "Rotterdam")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Name != "Riverside Recycling" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.RegisteredAt != 1_700_000_000 {
		t.Fatalf("unexpected registration time %d", created.RegisteredAt)
	}

	stored, ok, err := registry.Get(addr)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || stored.Role != participants.RoleRecycler {
		t.Fatalf("expected stored recycler, got %+v ok=%v", stored, ok)
	}
	if !registry.IsRegistered(addr) {
		t.Fatalf("expected IsRegistered true")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType() != events.TypeParticipantRegistered {
		t.Fatalf("expected registration event, got %#v", emitter.events)
	}
}

func TestRegisterSelfAuthorization(t *testing.T) {
	registry := newTestRegistry(t)
	var addr [20]byte
	addr[0] = 0x01
	var caller [20]byte
	caller[0] = 0x02

	_, err := registry.Register(caller, addr, participants.RoleCollector, "Depot", "")
	if !errors.Is(err, participants.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	registry := newTestRegistry(t)
	var addr [20]byte
	addr[0] = 0x03

	if _, err := registry.Register(addr, addr, participants.RoleManufacturer, "Maker", ""); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := registry.Register(addr, addr, participants.RoleManufacturer, "Maker", "")
	if !errors.Is(err, participants.ErrAlreadyRegistered) {
		t.Fatalf("expected already registered error, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	registry := newTestRegistry(t)
	var addr [20]byte
	addr[0] = 0x04

	if _, err := registry.Register(addr, addr, participants.Role(9), "X", ""); !errors.Is(err, participants.ErrInvalidParticipant) {
		t.Fatalf("expected invalid participant for bad role, got %v", err)
	}
	if _, err := registry.Register(addr, addr, participants.RoleRecycler, "   ", ""); !errors.Is(err, participants.ErrInvalidParticipant) {
		t.Fatalf("expected invalid participant for empty name, got %v", err)
	}
}

func TestRolePredicates(t *testing.T) {
	cases := []struct {
		role        participants.Role
		manufacture bool
		collect     bool
		verify      bool
	}{
		{participants.RoleRecycler, false, true, true},
		{participants.RoleCollector, false, true, false},
		{participants.RoleManufacturer, true, false, false},
	}
	for _, tc := range cases {
		if tc.role.CanManufacture() != tc.manufacture {
			t.Fatalf("%s: CanManufacture mismatch", tc.role)
		}
		if tc.role.CanCollect() != tc.collect {
			t.Fatalf("%s: CanCollect mismatch", tc.role)
		}
		if tc.role.CanVerify() != tc.verify {
			t.Fatalf("%s: CanVerify mismatch", tc.role)
		}
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := participants.ParseRole("collector"); !ok || role != participants.RoleCollector {
		t.Fatalf("parse collector failed: %v %v", role, ok)
	}
	if _, ok := participants.ParseRole("wizard"); ok {
		t.Fatalf("expected unknown role to fail")
	}
}
