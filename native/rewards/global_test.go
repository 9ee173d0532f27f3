package rewards

import (
	"errors"
	"testing"
)

func TestGlobalConfigValidate(t *testing.T) {
	cfg := &GlobalConfig{CollectorPct: 5, OwnerPct: 50}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cfg = &GlobalConfig{CollectorPct: 50, OwnerPct: 50}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("boundary sum 100 rejected: %v", err)
	}
	cfg = &GlobalConfig{CollectorPct: 51, OwnerPct: 50}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidPercentages) {
		t.Fatalf("expected ErrInvalidPercentages, got %v", err)
	}
}

func TestGlobalConfigClone(t *testing.T) {
	cfg := &GlobalConfig{TokenSymbol: "RCY", CollectorPct: 5, OwnerPct: 50}
	clone := cfg.Clone()
	clone.CollectorPct = 99
	if cfg.CollectorPct != 5 {
		t.Fatalf("clone must not alias the original")
	}
}

func TestShare(t *testing.T) {
	if got := share(500, 5); got != 25 {
		t.Fatalf("share(500, 5) = %d, want 25", got)
	}
	if got := share(500, 50); got != 250 {
		t.Fatalf("share(500, 50) = %d, want 250", got)
	}
	// Truncation, never rounding.
	if got := share(99, 50); got != 49 {
		t.Fatalf("share(99, 50) = %d, want 49", got)
	}
	if got := share(0, 100); got != 0 {
		t.Fatalf("share(0, 100) = %d, want 0", got)
	}
	// Intermediate product larger than 64 bits stays exact.
	const huge = uint64(1) << 62
	if got := share(huge, 100); got != huge {
		t.Fatalf("share(huge, 100) = %d, want %d", got, huge)
	}
}

func TestCheckedMul(t *testing.T) {
	if _, err := checkedMul(1<<33, 1<<33); !errors.Is(err, ErrAmountOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
	got, err := checkedMul(100, 5)
	if err != nil || got != 500 {
		t.Fatalf("checkedMul(100, 5) = %d, %v", got, err)
	}
}
