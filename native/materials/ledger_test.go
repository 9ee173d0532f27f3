package materials_test

import (
	"errors"
	"testing"

	"recyclechain/core/events"
	"recyclechain/core/state"
	"recyclechain/native/materials"
	"recyclechain/native/participants"
	"recyclechain/storage"
)

type capturingEmitter struct {
	events []events.Event
}

func (c *capturingEmitter) Emit(e events.Event) {
	c.events = append(c.events, e)
}

type fixture struct {
	ledger   *materials.Ledger
	registry *participants.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	manager := state.NewManager(db)
	registry := participants.NewRegistry(manager)
	ledger := materials.NewLedger(manager, registry)
	ledger.SetNowFunc(func() int64 { return 1_700_000_000 })
	return &fixture{ledger: ledger, registry: registry}
}

func (f *fixture) register(t *testing.T, addr [20]byte, role participants.Role) {
	t.Helper()
	if _, err := f.registry.Register(addr, addr, role, "p", ""); err != nil {
		t.Fatalf("register participant: %v", err)
	}
}

func addr(b byte) [20]byte {
	var a [20]byte
	a[0] = b
	return a
}

func TestSubmit(t *testing.T) {
	f := newFixture(t)
	recycler := addr(0x01)
	f.register(t, recycler, participants.RoleRecycler)

	emitter := &capturingEmitter{}
	f.ledger.SetEmitter(emitter)

	material, err := f.ledger.Submit(recycler, materials.WastePET, 5000)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if material.ID != 1 {
		t.Fatalf("expected first id 1, got %d", material.ID)
	}
	if material.CurrentOwner != recycler || material.Submitter != recycler {
		t.Fatalf("submitter must start as owner")
	}
	if material.Verified {
		t.Fatalf("new material must be unverified")
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType() != events.TypeMaterialSubmitted {
		t.Fatalf("expected submit event, got %#v", emitter.events)
	}

	second, err := f.ledger.Submit(recycler, materials.WasteGlass, 800)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.ID != 2 {
		t.Fatalf("expected sequential id 2, got %d", second.ID)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	recycler := addr(0x01)
	f.register(t, recycler, participants.RoleRecycler)

	if _, err := f.ledger.Submit(recycler, materials.WasteType(42), 100); !errors.Is(err, materials.ErrInvalidMaterial) {
		t.Fatalf("expected invalid material for bad waste type, got %v", err)
	}
	if _, err := f.ledger.Submit(recycler, materials.WastePaper, 0); !errors.Is(err, materials.ErrInvalidMaterial) {
		t.Fatalf("expected invalid material for zero weight, got %v", err)
	}
	if _, err := f.ledger.Submit(addr(0x99), materials.WastePaper, 100); !errors.Is(err, materials.ErrNotRegistered) {
		t.Fatalf("expected not registered error, got %v", err)
	}
}

func TestTransferChain(t *testing.T) {
	f := newFixture(t)
	recycler := addr(0x01)
	collectorA := addr(0x02)
	collectorB := addr(0x03)
	f.register(t, recycler, participants.RoleRecycler)
	f.register(t, collectorA, participants.RoleCollector)
	f.register(t, collectorB, participants.RoleCollector)

	material, err := f.ledger.Submit(recycler, materials.WasteMetal, 12_000)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.ledger.Transfer(material.ID, recycler, collectorA); err != nil {
		t.Fatalf("transfer 1: %v", err)
	}
	if err := f.ledger.Transfer(material.ID, collectorA, collectorB); err != nil {
		t.Fatalf("transfer 2: %v", err)
	}

	stored, ok, err := f.ledger.Get(material.ID)
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if stored.CurrentOwner != collectorB {
		t.Fatalf("owner must follow latest transfer")
	}
	if stored.Submitter != recycler {
		t.Fatalf("submitter must never change")
	}

	history, err := f.ledger.TransferHistory(material.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	// Chain contiguity: each record starts where the previous ended.
	for i := 1; i < len(history); i++ {
		if history[i].From != history[i-1].To {
			t.Fatalf("broken chain at record %d", i)
		}
	}
	if history[len(history)-1].To != stored.CurrentOwner {
		t.Fatalf("current owner must equal last record destination")
	}
}

func TestTransferFailures(t *testing.T) {
	f := newFixture(t)
	recycler := addr(0x01)
	collector := addr(0x02)
	f.register(t, recycler, participants.RoleRecycler)
	f.register(t, collector, participants.RoleCollector)

	material, err := f.ledger.Submit(recycler, materials.WastePlastic, 3000)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := f.ledger.Transfer(99, recycler, collector); !errors.Is(err, materials.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := f.ledger.Transfer(material.ID, collector, recycler); !errors.Is(err, materials.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if err := f.ledger.Transfer(material.ID, recycler, addr(0x77)); !errors.Is(err, materials.ErrNotRegistered) {
		t.Fatalf("expected not registered, got %v", err)
	}
}

func TestVerifyOneWay(t *testing.T) {
	f := newFixture(t)
	recycler := addr(0x01)
	f.register(t, recycler, participants.RoleRecycler)

	material, err := f.ledger.Submit(recycler, materials.WasteGlass, 900)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	emitter := &capturingEmitter{}
	f.ledger.SetEmitter(emitter)

	if err := f.ledger.Verify(recycler, material.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}
	stored, _, err := f.ledger.Get(material.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.Verified {
		t.Fatalf("expected verified flag set")
	}
	if err := f.ledger.Verify(recycler, material.ID); !errors.Is(err, materials.ErrAlreadyVerified) {
		t.Fatalf("expected already verified, got %v", err)
	}
	if err := f.ledger.Verify(recycler, 1234); !errors.Is(err, materials.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(emitter.events) != 1 || emitter.events[0].EventType() != events.TypeMaterialVerified {
		t.Fatalf("expected a single verify event, got %#v", emitter.events)
	}
}

func TestTransferHistoryEmpty(t *testing.T) {
	f := newFixture(t)
	recycler := addr(0x01)
	f.register(t, recycler, participants.RoleRecycler)

	material, err := f.ledger.Submit(recycler, materials.WastePaper, 100)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	history, err := f.ledger.TransferHistory(material.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d", len(history))
	}
	if _, err := f.ledger.TransferHistory(42); !errors.Is(err, materials.ErrNotFound) {
		t.Fatalf("expected not found for unknown material, got %v", err)
	}
}

func TestParseWasteType(t *testing.T) {
	for _, name := range []string{"paper", "pet", "plastic", "metal", "glass"} {
		wt, ok := materials.ParseWasteType(name)
		if !ok || wt.String() != name {
			t.Fatalf("round trip failed for %q", name)
		}
	}
	if _, ok := materials.ParseWasteType("cardboard"); ok {
		t.Fatalf("expected unknown waste type to fail")
	}
}
