package rewards

import "fmt"

// GlobalConfig controls the reward split and the admin surface around it. It
// is owned by the ledger root and threaded into every distribution; there is
// no ambient global state.
type GlobalConfig struct {
	Admin        [20]byte
	TokenSymbol  string
	Charity      [20]byte
	CollectorPct uint32
	OwnerPct     uint32
}

// Clone produces a copy of the configuration.
func (c *GlobalConfig) Clone() *GlobalConfig {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Validate enforces the split invariant. It runs on every mutation of either
// percentage, before any reward math can observe the new values.
func (c *GlobalConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("nil reward config")
	}
	if uint64(c.CollectorPct)+uint64(c.OwnerPct) > 100 {
		return fmt.Errorf("%w: collector %d + owner %d", ErrInvalidPercentages, c.CollectorPct, c.OwnerPct)
	}
	return nil
}
