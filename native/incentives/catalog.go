package incentives

import (
	"encoding/binary"
	"fmt"
	"time"

	"recyclechain/core/events"
	nativecommon "recyclechain/native/common"
	"recyclechain/native/materials"
	"recyclechain/native/participants"
)

const moduleName = "incentives"

var (
	incentivePrefix  = []byte("incentives/record/")
	byRewarderPrefix = []byte("incentives/by-rewarder/")
	byWastePrefix    = []byte("incentives/by-waste/")
)

func incentiveKey(id uint64) []byte {
	buf := make([]byte, len(incentivePrefix)+8)
	copy(buf, incentivePrefix)
	binary.BigEndian.PutUint64(buf[len(incentivePrefix):], id)
	return buf
}

func rewarderIdxKey(addr [20]byte) []byte {
	buf := make([]byte, len(byRewarderPrefix)+len(addr))
	copy(buf, byRewarderPrefix)
	copy(buf[len(byRewarderPrefix):], addr[:])
	return buf
}

func wasteIdxKey(wt materials.WasteType) []byte {
	buf := make([]byte, len(byWastePrefix)+1)
	copy(buf, byWastePrefix)
	buf[len(byWastePrefix)] = byte(wt)
	return buf
}

func idBytes(id uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, id)
	return buf
}

type catalogState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVAppend(key []byte, value []byte) error
	KVGetList(key []byte, out interface{}) error
	NextIncentiveID() (uint64, error)
}

type participantView interface {
	Get(addr [20]byte) (*participants.Participant, bool, error)
}

// Catalog manages persistence and lifecycle of incentives.
type Catalog struct {
	st           catalogState
	participants participantView
	emitter      events.Emitter
	pauses       nativecommon.PauseView
	nowFn        func() int64
}

// NewCatalog creates a catalog backed by the provided state manager and
// participant registry.
func NewCatalog(st catalogState, participants participantView) *Catalog {
	return &Catalog{
		st:           st,
		participants: participants,
		emitter:      events.NoopEmitter{},
		nowFn:        func() int64 { return time.Now().Unix() },
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (c *Catalog) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		c.emitter = events.NoopEmitter{}
		return
	}
	c.emitter = emitter
}

func (c *Catalog) SetPauses(p nativecommon.PauseView) {
	if c == nil {
		return
	}
	c.pauses = p
}

// SetNowFunc overrides the time source. Primarily intended for tests.
func (c *Catalog) SetNowFunc(now func() int64) {
	if now == nil {
		c.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	c.nowFn = now
}

// Create funds a new incentive. The rewarder must be a registered participant
// with manufacturing capability.
func (c *Catalog) Create(rewarder [20]byte, wasteType materials.WasteType, rewardPerKg, totalBudget uint64) (*Incentive, error) {
	if err := nativecommon.Guard(c.pauses, moduleName); err != nil {
		return nil, err
	}
	participant, ok, err := c.participants.Get(rewarder)
	if err != nil {
		return nil, err
	}
	if !ok || !participant.Role.CanManufacture() {
		return nil, ErrUnauthorized
	}
	if !wasteType.Valid() {
		return nil, fmt.Errorf("%w: unknown waste type %d", ErrInvalidIncentive, wasteType)
	}
	if rewardPerKg == 0 {
		return nil, fmt.Errorf("%w: reward per kg must be positive", ErrInvalidIncentive)
	}
	if totalBudget == 0 {
		return nil, fmt.Errorf("%w: total budget must be positive", ErrInvalidIncentive)
	}
	id, err := c.st.NextIncentiveID()
	if err != nil {
		return nil, err
	}
	incentive := &Incentive{
		ID:              id,
		Rewarder:        rewarder,
		WasteType:       wasteType,
		RewardPerKg:     rewardPerKg,
		TotalBudget:     totalBudget,
		RemainingBudget: totalBudget,
		Active:          true,
		CreatedAt:       uint64(c.nowFn()),
	}
	if err := c.st.KVPut(incentiveKey(id), incentive); err != nil {
		return nil, err
	}
	if err := c.st.KVAppend(rewarderIdxKey(rewarder), idBytes(id)); err != nil {
		return nil, err
	}
	if err := c.st.KVAppend(wasteIdxKey(wasteType), idBytes(id)); err != nil {
		return nil, err
	}
	c.emit(events.IncentiveCreated{
		ID:          id,
		Rewarder:    rewarder,
		WasteType:   uint8(wasteType),
		RewardPerKg: rewardPerKg,
		TotalBudget: totalBudget,
	})
	return incentive, nil
}

// Update replaces the reward rate and budget of an active incentive. The new
// total budget also replaces the remaining budget: prior consumption is
// discarded rather than topped up.
func (c *Catalog) Update(caller [20]byte, id, rewardPerKg, totalBudget uint64) error {
	if err := nativecommon.Guard(c.pauses, moduleName); err != nil {
		return err
	}
	incentive, ok, err := c.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if caller != incentive.Rewarder {
		return ErrUnauthorized
	}
	if !incentive.Active {
		return ErrInactive
	}
	if rewardPerKg == 0 {
		return fmt.Errorf("%w: reward per kg must be positive", ErrInvalidIncentive)
	}
	if totalBudget == 0 {
		return fmt.Errorf("%w: total budget must be positive", ErrInvalidIncentive)
	}
	incentive.RewardPerKg = rewardPerKg
	incentive.TotalBudget = totalBudget
	incentive.RemainingBudget = totalBudget
	if err := c.st.KVPut(incentiveKey(id), incentive); err != nil {
		return err
	}
	c.emit(events.IncentiveUpdated{ID: id, RewardPerKg: rewardPerKg, TotalBudget: totalBudget})
	return nil
}

// Deactivate retires an active incentive. Only the rewarder may deactivate and
// the transition is terminal.
func (c *Catalog) Deactivate(caller [20]byte, id uint64) error {
	if err := nativecommon.Guard(c.pauses, moduleName); err != nil {
		return err
	}
	incentive, ok, err := c.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if caller != incentive.Rewarder {
		return ErrUnauthorized
	}
	if !incentive.Active {
		return ErrInactive
	}
	incentive.Active = false
	if err := c.st.KVPut(incentiveKey(id), incentive); err != nil {
		return err
	}
	c.emit(events.IncentiveDeactivated{ID: id, Caller: caller})
	return nil
}

// Debit consumes budget from an active incentive. Draining the budget to
// exactly zero deactivates the incentive permanently.
func (c *Catalog) Debit(id, amount uint64) error {
	incentive, ok, err := c.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if !incentive.Active {
		return ErrInactive
	}
	if amount > incentive.RemainingBudget {
		return fmt.Errorf("%w: %d exceeds remaining %d", ErrInsufficientBudget, amount, incentive.RemainingBudget)
	}
	incentive.RemainingBudget -= amount
	if incentive.RemainingBudget == 0 {
		incentive.Active = false
	}
	if err := c.st.KVPut(incentiveKey(id), incentive); err != nil {
		return err
	}
	if !incentive.Active {
		c.emit(events.IncentiveExhausted{ID: id})
	}
	return nil
}

// Get retrieves an incentive by id.
func (c *Catalog) Get(id uint64) (*Incentive, bool, error) {
	out := new(Incentive)
	ok, err := c.st.KVGet(incentiveKey(id), out)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return out, true, nil
}

func (c *Catalog) listIndex(key []byte) ([]*Incentive, error) {
	var raw [][]byte
	if err := c.st.KVGetList(key, &raw); err != nil {
		return nil, err
	}
	list := make([]*Incentive, 0, len(raw))
	for _, b := range raw {
		if len(b) != 8 {
			continue
		}
		incentive, ok, err := c.Get(binary.BigEndian.Uint64(b))
		if err != nil {
			return nil, err
		}
		if ok {
			list = append(list, incentive)
		}
	}
	return list, nil
}

// ListByRewarder returns all incentives funded by the provided address in
// creation order.
func (c *Catalog) ListByRewarder(rewarder [20]byte) ([]*Incentive, error) {
	return c.listIndex(rewarderIdxKey(rewarder))
}

// ListByWasteType returns all incentives for the provided waste type in
// creation order.
func (c *Catalog) ListByWasteType(wt materials.WasteType) ([]*Incentive, error) {
	return c.listIndex(wasteIdxKey(wt))
}

// BestActive returns the active incentive with the highest per-kilogram reward
// among those funded by the rewarder for the given waste type. Ties resolve to
// the earliest created candidate; that order is a property of this store, not
// a portable guarantee.
func (c *Catalog) BestActive(rewarder [20]byte, wt materials.WasteType) (*Incentive, bool, error) {
	list, err := c.ListByRewarder(rewarder)
	if err != nil {
		return nil, false, err
	}
	var best *Incentive
	for _, incentive := range list {
		if !incentive.Active || incentive.WasteType != wt {
			continue
		}
		if best == nil || incentive.RewardPerKg > best.RewardPerKg {
			best = incentive
		}
	}
	if best == nil {
		return nil, false, nil
	}
	return best, true, nil
}

func (c *Catalog) emit(event events.Event) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(event)
}
