package rewards

import (
	"math"
	"math/big"
	"math/bits"

	"recyclechain/core/events"
	"recyclechain/core/types"
	nativecommon "recyclechain/native/common"
	"recyclechain/native/incentives"
	"recyclechain/native/materials"
	"recyclechain/native/participants"
)

const moduleName = "rewards"

type materialView interface {
	Get(materialID uint64) (*materials.Material, bool, error)
	TransferHistory(materialID uint64) ([]materials.TransferRecord, error)
}

type incentiveAccess interface {
	Get(id uint64) (*incentives.Incentive, bool, error)
	Debit(id, amount uint64) error
}

type participantView interface {
	Get(addr [20]byte) (*participants.Participant, bool, error)
}

type payoutState interface {
	GetAccount(addr []byte) (*types.Account, error)
	Transfer(from, to []byte, amount *big.Int) error
	TotalDistributed() (uint64, error)
	AddTotalDistributed(amount uint64) error
}

type statsSink interface {
	Get(addr [20]byte) (*ParticipantStats, error)
	RecordEarning(addr [20]byte, amount uint64) error
}

type configView interface {
	RewardConfig() (*GlobalConfig, error)
}

// Engine computes and applies the multi-party reward split for verified
// materials. All checks and payout planning happen before any state write so a
// failed distribution leaves budgets, balances and stats untouched.
type Engine struct {
	materials  materialView
	incentives incentiveAccess
	registry   participantView
	state      payoutState
	stats      statsSink
	config     configView
	emitter    events.Emitter
	pauses     nativecommon.PauseView
}

// NewEngine wires the distributor against its collaborators.
func NewEngine(mats materialView, cat incentiveAccess, registry participantView, state payoutState, stats statsSink, config configView) *Engine {
	return &Engine{
		materials:  mats,
		incentives: cat,
		registry:   registry,
		state:      state,
		stats:      stats,
		config:     config,
		emitter:    events.NoopEmitter{},
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

type payout struct {
	payee  [20]byte
	amount uint64
}

// checkedMul multiplies two uint64 reward quantities, failing instead of
// wrapping.
func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrAmountOverflow
	}
	return lo, nil
}

// share computes amount*pct/100 with truncation. pct is at most 100, so the
// intermediate product needs at worst 7 extra bits; bits.Mul64/Div64 keep it
// exact without big.Int.
func share(amount uint64, pct uint32) uint64 {
	hi, lo := bits.Mul64(amount, uint64(pct))
	quo, _ := bits.Div64(hi, lo, 100)
	return quo
}

// Distribute pays the reward for a verified material out of the incentive's
// budget and returns the total reward. The split: collectorShare to the
// destination of every transfer record held by a Collector (once per record,
// so a collector appearing twice is paid twice), ownerShare to the original
// submitter, and any remainder to the current owner.
func (e *Engine) Distribute(materialID, incentiveID uint64, caller [20]byte) (uint64, error) {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}

	material, ok, err := e.materials.Get(materialID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrMaterialNotFound
	}
	incentive, ok, err := e.incentives.Get(incentiveID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrIncentiveNotFound
	}
	if caller != incentive.Rewarder {
		return 0, ErrUnauthorized
	}
	if !material.Verified {
		return 0, ErrNotVerified
	}
	if incentive.WasteType != material.WasteType {
		return 0, ErrWasteTypeMismatch
	}
	if !incentive.Active {
		return 0, ErrNotActive
	}

	cfg, err := e.config.RewardConfig()
	if err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	weightKg := material.WeightGrams / 1000
	totalReward, err := checkedMul(incentive.RewardPerKg, weightKg)
	if err != nil {
		return 0, err
	}
	if totalReward > incentive.RemainingBudget {
		return 0, ErrInsufficientBudget
	}

	collectorShare := share(totalReward, cfg.CollectorPct)
	ownerShare := share(totalReward, cfg.OwnerPct)

	history, err := e.materials.TransferHistory(materialID)
	if err != nil {
		return 0, err
	}

	var payouts []payout
	var distributed uint64
	for _, record := range history {
		participant, ok, err := e.registry.Get(record.To)
		if err != nil {
			return 0, err
		}
		if !ok || participant.Role != participants.RoleCollector {
			continue
		}
		if collectorShare == 0 {
			continue
		}
		next, err := checkedAdd(distributed, collectorShare)
		if err != nil {
			return 0, err
		}
		distributed = next
		payouts = append(payouts, payout{payee: record.To, amount: collectorShare})
	}
	if ownerShare > 0 {
		payouts = append(payouts, payout{payee: material.Submitter, amount: ownerShare})
	}
	paid, err := checkedAdd(distributed, ownerShare)
	if err != nil {
		return 0, err
	}
	if totalReward > paid {
		payouts = append(payouts, payout{payee: material.CurrentOwner, amount: totalReward - paid})
		paid = totalReward
	}

	// Every counter the apply phase touches must have headroom for its
	// planned amount, otherwise a late overflow would abort after funds
	// have already moved. A payee can appear in several payouts, so sum
	// per payee before checking its earnings counter.
	planned := make(map[[20]byte]uint64)
	for _, p := range payouts {
		next, err := checkedAdd(planned[p.payee], p.amount)
		if err != nil {
			return 0, err
		}
		planned[p.payee] = next
	}
	for payee, amount := range planned {
		record, err := e.stats.Get(payee)
		if err != nil {
			return 0, err
		}
		if _, err := checkedAdd(record.TotalEarned, amount); err != nil {
			return 0, err
		}
	}
	lifetime, err := e.state.TotalDistributed()
	if err != nil {
		return 0, err
	}
	if _, err := checkedAdd(lifetime, totalReward); err != nil {
		return 0, err
	}

	// Everything below mutates state; all failure paths have been exhausted
	// except storage errors. The rewarder's balance is checked up front so
	// the transfer loop cannot fail midway on funds.
	rewarderAcc, err := e.state.GetAccount(incentive.Rewarder[:])
	if err != nil {
		return 0, err
	}
	if rewarderAcc.BalanceRCY.Cmp(new(big.Int).SetUint64(paid)) < 0 {
		return 0, ErrInsufficientFunds
	}

	eventPayouts := make([]events.RewardPayout, 0, len(payouts))
	for _, p := range payouts {
		if err := e.state.Transfer(incentive.Rewarder[:], p.payee[:], new(big.Int).SetUint64(p.amount)); err != nil {
			return 0, err
		}
		if err := e.stats.RecordEarning(p.payee, p.amount); err != nil {
			return 0, err
		}
		eventPayouts = append(eventPayouts, events.RewardPayout{Payee: p.payee, Amount: p.amount})
	}
	if err := e.incentives.Debit(incentiveID, totalReward); err != nil {
		return 0, err
	}
	if err := e.state.AddTotalDistributed(totalReward); err != nil {
		return 0, err
	}

	e.emit(events.RewardDistributed{
		MaterialID:  materialID,
		IncentiveID: incentiveID,
		TotalReward: totalReward,
		Payouts:     eventPayouts,
	})
	return totalReward, nil
}

func (e *Engine) emit(event events.Event) {
	if e.emitter == nil {
		return
	}
	e.emitter.Emit(event)
}

// MustTotalReward returns the reward that a material of the given weight earns
// under the provided rate, ignoring budget. Intended for diagnostics and
// tests.
func MustTotalReward(rewardPerKg, weightGrams uint64) uint64 {
	weightKg := weightGrams / 1000
	if rewardPerKg != 0 && weightKg > math.MaxUint64/rewardPerKg {
		return math.MaxUint64
	}
	return rewardPerKg * weightKg
}
