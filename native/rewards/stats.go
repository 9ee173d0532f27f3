package rewards

import (
	"fmt"
	"math"
)

// ParticipantStats holds cumulative per-participant counters. Records are
// created lazily on first write and only ever grow.
type ParticipantStats struct {
	Addr               [20]byte
	TotalEarned        uint64
	MaterialsSubmitted uint64
	TransfersIn        uint64
	VerifiedCount      uint64
}

var statsPrefix = []byte("rewards/stats/")

func statsKey(addr [20]byte) []byte {
	buf := make([]byte, len(statsPrefix)+len(addr))
	copy(buf, statsPrefix)
	copy(buf[len(statsPrefix):], addr[:])
	return buf
}

type statsState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Stats aggregates per-participant counters. It satisfies the material
// ledger's counter sink so submissions, transfers and verifications feed the
// same records as reward payouts.
type Stats struct {
	st statsState
}

// NewStats creates an aggregator backed by the provided state manager.
func NewStats(st statsState) *Stats {
	return &Stats{st: st}
}

// Get retrieves the stats record for a participant. Participants without any
// recorded activity resolve to a zeroed record.
func (s *Stats) Get(addr [20]byte) (*ParticipantStats, error) {
	out := new(ParticipantStats)
	ok, err := s.st.KVGet(statsKey(addr), out)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ParticipantStats{Addr: addr}, nil
	}
	return out, nil
}

func (s *Stats) mutate(addr [20]byte, fn func(*ParticipantStats) error) error {
	record, err := s.Get(addr)
	if err != nil {
		return err
	}
	if err := fn(record); err != nil {
		return err
	}
	return s.st.KVPut(statsKey(addr), record)
}

func checkedAdd(current, delta uint64) (uint64, error) {
	if current > math.MaxUint64-delta {
		return 0, fmt.Errorf("%w: stats counter", ErrAmountOverflow)
	}
	return current + delta, nil
}

// RecordEarning adds a payout to the participant's cumulative earnings.
func (s *Stats) RecordEarning(addr [20]byte, amount uint64) error {
	return s.mutate(addr, func(record *ParticipantStats) error {
		next, err := checkedAdd(record.TotalEarned, amount)
		if err != nil {
			return err
		}
		record.TotalEarned = next
		return nil
	})
}

// MaterialSubmitted increments the submission counter.
func (s *Stats) MaterialSubmitted(addr [20]byte) error {
	return s.mutate(addr, func(record *ParticipantStats) error {
		next, err := checkedAdd(record.MaterialsSubmitted, 1)
		if err != nil {
			return err
		}
		record.MaterialsSubmitted = next
		return nil
	})
}

// TransferRecorded increments the incoming-transfer counter.
func (s *Stats) TransferRecorded(to [20]byte) error {
	return s.mutate(to, func(record *ParticipantStats) error {
		next, err := checkedAdd(record.TransfersIn, 1)
		if err != nil {
			return err
		}
		record.TransfersIn = next
		return nil
	})
}

// MaterialVerified increments the verified-material counter for the original
// submitter.
func (s *Stats) MaterialVerified(addr [20]byte) error {
	return s.mutate(addr, func(record *ParticipantStats) error {
		next, err := checkedAdd(record.VerifiedCount, 1)
		if err != nil {
			return err
		}
		record.VerifiedCount = next
		return nil
	})
}
