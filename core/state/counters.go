package state

import (
	"fmt"
	"math"
)

// Entity counters hand out sequential identifiers. IDs start at 1, are never
// reused and can only be obtained through the allocate-next operations below.
var (
	incentiveCounterKey = []byte("counter:incentive")
	materialCounterKey  = []byte("counter:material")
	totalDistributedKey = []byte("counter:total-distributed")
)

func (m *Manager) nextID(key []byte) (uint64, error) {
	var current uint64
	if _, err := m.KVGet(key, &current); err != nil {
		return 0, err
	}
	if current == math.MaxUint64 {
		return 0, fmt.Errorf("counter overflow")
	}
	next := current + 1
	if err := m.KVPut(key, next); err != nil {
		return 0, err
	}
	return next, nil
}

// NextIncentiveID allocates the next incentive identifier.
func (m *Manager) NextIncentiveID() (uint64, error) {
	return m.nextID(incentiveCounterKey)
}

// NextMaterialID allocates the next material identifier.
func (m *Manager) NextMaterialID() (uint64, error) {
	return m.nextID(materialCounterKey)
}

// MaterialCount returns the number of materials submitted so far. Identifiers
// are sequential and never reused, so the latest one doubles as a count.
func (m *Manager) MaterialCount() (uint64, error) {
	var current uint64
	if _, err := m.KVGet(materialCounterKey, &current); err != nil {
		return 0, err
	}
	return current, nil
}

// TotalDistributed returns the cumulative reward points paid out across all
// distributions.
func (m *Manager) TotalDistributed() (uint64, error) {
	var total uint64
	if _, err := m.KVGet(totalDistributedKey, &total); err != nil {
		return 0, err
	}
	return total, nil
}

// AddTotalDistributed increases the process-wide distribution counter.
func (m *Manager) AddTotalDistributed(amount uint64) error {
	total, err := m.TotalDistributed()
	if err != nil {
		return err
	}
	if total > math.MaxUint64-amount {
		return fmt.Errorf("distribution counter overflow")
	}
	return m.KVPut(totalDistributedKey, total+amount)
}
