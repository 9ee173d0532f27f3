package rewards_test

import (
	"errors"
	"math"
	"testing"

	"recyclechain/core/state"
	"recyclechain/native/rewards"
	"recyclechain/storage"
)

func newTestStats(t *testing.T) *rewards.Stats {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return rewards.NewStats(state.NewManager(db))
}

func TestStatsLazyCreation(t *testing.T) {
	stats := newTestStats(t)
	var addr [20]byte
	addr[0] = 0x01

	record, err := stats.Get(addr)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.TotalEarned != 0 || record.MaterialsSubmitted != 0 {
		t.Fatalf("expected zeroed record, got %+v", record)
	}

	if err := stats.RecordEarning(addr, 250); err != nil {
		t.Fatalf("record earning: %v", err)
	}
	if err := stats.RecordEarning(addr, 250); err != nil {
		t.Fatalf("record earning: %v", err)
	}
	record, err = stats.Get(addr)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.TotalEarned != 500 {
		t.Fatalf("expected cumulative 500, got %d", record.TotalEarned)
	}
}

func TestStatsCounters(t *testing.T) {
	stats := newTestStats(t)
	var addr [20]byte
	addr[0] = 0x02

	if err := stats.MaterialSubmitted(addr); err != nil {
		t.Fatalf("material submitted: %v", err)
	}
	if err := stats.TransferRecorded(addr); err != nil {
		t.Fatalf("transfer recorded: %v", err)
	}
	if err := stats.MaterialVerified(addr); err != nil {
		t.Fatalf("material verified: %v", err)
	}
	record, err := stats.Get(addr)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.MaterialsSubmitted != 1 || record.TransfersIn != 1 || record.VerifiedCount != 1 {
		t.Fatalf("unexpected counters %+v", record)
	}
}

func TestStatsOverflow(t *testing.T) {
	stats := newTestStats(t)
	var addr [20]byte
	addr[0] = 0x03

	if err := stats.RecordEarning(addr, math.MaxUint64); err != nil {
		t.Fatalf("record earning: %v", err)
	}
	if err := stats.RecordEarning(addr, 1); !errors.Is(err, rewards.ErrAmountOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}
