package materials

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rlp"

	"recyclechain/core/events"
	nativecommon "recyclechain/native/common"
)

const moduleName = "materials"

var (
	materialPrefix = []byte("materials/record/")
	historyPrefix  = []byte("materials/history/")
)

func materialKey(id uint64) []byte {
	buf := make([]byte, len(materialPrefix)+8)
	copy(buf, materialPrefix)
	binary.BigEndian.PutUint64(buf[len(materialPrefix):], id)
	return buf
}

func historyKey(id uint64) []byte {
	buf := make([]byte, len(historyPrefix)+8)
	copy(buf, historyPrefix)
	binary.BigEndian.PutUint64(buf[len(historyPrefix):], id)
	return buf
}

type ledgerState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
	NextMaterialID() (uint64, error)
}

type participantView interface {
	IsRegistered(addr [20]byte) bool
}

// CounterSink receives per-participant activity counters as a side effect of
// ledger operations. The node wires this to the stats aggregator.
type CounterSink interface {
	MaterialSubmitted(addr [20]byte) error
	TransferRecorded(to [20]byte) error
	MaterialVerified(addr [20]byte) error
}

// Ledger manages material records and their custody chains.
type Ledger struct {
	st           ledgerState
	participants participantView
	emitter      events.Emitter
	pauses       nativecommon.PauseView
	counters     CounterSink
	nowFn        func() int64
}

// NewLedger creates a material ledger backed by the provided state manager and
// participant registry.
func NewLedger(st ledgerState, participants participantView) *Ledger {
	return &Ledger{
		st:           st,
		participants: participants,
		emitter:      events.NoopEmitter{},
		nowFn:        func() int64 { return time.Now().Unix() },
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

func (l *Ledger) SetPauses(p nativecommon.PauseView) {
	if l == nil {
		return
	}
	l.pauses = p
}

// SetCounters wires the optional per-participant activity counters.
func (l *Ledger) SetCounters(sink CounterSink) {
	l.counters = sink
}

// SetNowFunc overrides the time source. Primarily intended for tests.
func (l *Ledger) SetNowFunc(now func() int64) {
	if now == nil {
		l.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	l.nowFn = now
}

// Submit records a new material owned by its submitter.
func (l *Ledger) Submit(submitter [20]byte, wasteType WasteType, weightGrams uint64) (*Material, error) {
	if err := nativecommon.Guard(l.pauses, moduleName); err != nil {
		return nil, err
	}
	if !wasteType.Valid() {
		return nil, fmt.Errorf("%w: unknown waste type %d", ErrInvalidMaterial, wasteType)
	}
	if weightGrams == 0 {
		return nil, fmt.Errorf("%w: weight must be positive", ErrInvalidMaterial)
	}
	if !l.participants.IsRegistered(submitter) {
		return nil, ErrNotRegistered
	}
	id, err := l.st.NextMaterialID()
	if err != nil {
		return nil, err
	}
	material := &Material{
		ID:           id,
		WasteType:    wasteType,
		WeightGrams:  weightGrams,
		Submitter:    submitter,
		CurrentOwner: submitter,
		SubmittedAt:  uint64(l.nowFn()),
	}
	if err := l.st.KVPut(materialKey(id), material); err != nil {
		return nil, err
	}
	if l.counters != nil {
		if err := l.counters.MaterialSubmitted(submitter); err != nil {
			return nil, err
		}
	}
	l.emit(events.MaterialSubmitted{
		ID:          id,
		WasteType:   uint8(wasteType),
		WeightGrams: weightGrams,
		Submitter:   submitter,
	})
	return material, nil
}

// Transfer appends a custody record and moves ownership to the destination.
func (l *Ledger) Transfer(materialID uint64, from, to [20]byte) error {
	if err := nativecommon.Guard(l.pauses, moduleName); err != nil {
		return err
	}
	material, ok, err := l.Get(materialID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if !l.participants.IsRegistered(from) || !l.participants.IsRegistered(to) {
		return ErrNotRegistered
	}
	if material.CurrentOwner != from {
		return ErrNotOwner
	}
	record := &TransferRecord{
		MaterialID: materialID,
		From:       from,
		To:         to,
		Timestamp:  uint64(l.nowFn()),
	}
	encoded, err := rlp.EncodeToBytes(record)
	if err != nil {
		return err
	}
	if err := l.st.KVAppend(historyKey(materialID), encoded); err != nil {
		return err
	}
	material.CurrentOwner = to
	if err := l.st.KVPut(materialKey(materialID), material); err != nil {
		return err
	}
	if l.counters != nil {
		if err := l.counters.TransferRecorded(to); err != nil {
			return err
		}
	}
	l.emit(events.MaterialTransferred{ID: materialID, From: from, To: to})
	return nil
}

// Verify flips the one-way verified flag. The caller must be a registered
// participant; which roles may verify is deployment policy enforced outside
// the ledger.
func (l *Ledger) Verify(caller [20]byte, materialID uint64) error {
	if err := nativecommon.Guard(l.pauses, moduleName); err != nil {
		return err
	}
	material, ok, err := l.Get(materialID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if !l.participants.IsRegistered(caller) {
		return ErrNotRegistered
	}
	if material.Verified {
		return ErrAlreadyVerified
	}
	material.Verified = true
	if err := l.st.KVPut(materialKey(materialID), material); err != nil {
		return err
	}
	if l.counters != nil {
		if err := l.counters.MaterialVerified(material.Submitter); err != nil {
			return err
		}
	}
	l.emit(events.MaterialVerified{ID: materialID, Caller: caller})
	return nil
}

// Get retrieves a material by id.
func (l *Ledger) Get(materialID uint64) (*Material, bool, error) {
	out := new(Material)
	ok, err := l.st.KVGet(materialKey(materialID), out)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return out, true, nil
}

// TransferHistory returns the ordered custody chain for a material. A material
// with no transfers yields an empty slice.
func (l *Ledger) TransferHistory(materialID uint64) ([]TransferRecord, error) {
	if _, ok, err := l.Get(materialID); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrNotFound
	}
	var raw [][]byte
	if err := l.st.KVGetList(historyKey(materialID), &raw); err != nil {
		return nil, err
	}
	records := make([]TransferRecord, 0, len(raw))
	for _, b := range raw {
		var record TransferRecord
		if err := rlp.DecodeBytes(b, &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (l *Ledger) emit(event events.Event) {
	if l.emitter == nil {
		return
	}
	l.emitter.Emit(event)
}
