package core

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"recyclechain/core/events"
	"recyclechain/core/state"
	"recyclechain/core/types"
	nativecommon "recyclechain/native/common"
	"recyclechain/native/incentives"
	"recyclechain/native/materials"
	"recyclechain/native/participants"
	"recyclechain/native/rewards"
	"recyclechain/observability"
	"recyclechain/storage"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ErrUnauthorized is returned when a caller attempts an admin-only operation
// without holding the admin identity.
var ErrUnauthorized = errors.New("core: caller is not the admin")

var rewardConfigKey = ethcrypto.Keccak256([]byte("rewards/config"))

// DefaultTokenSymbol is the reward token seeded at first boot.
const DefaultTokenSymbol = "RCY"

const (
	defaultCollectorPct = 5
	defaultOwnerPct     = 50
)

// pauseRegistry is an in-memory pause switchboard consulted by every module
// guard. It carries its own lock because guards fire while the node mutex is
// already held.
type pauseRegistry struct {
	mu     sync.RWMutex
	paused map[string]bool
}

func newPauseRegistry() *pauseRegistry {
	return &pauseRegistry{paused: make(map[string]bool)}
}

// IsPaused implements the common.PauseView interface.
func (p *pauseRegistry) IsPaused(module string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused[module]
}

func (p *pauseRegistry) set(module string, paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused[module] = paused
}

// Node is the central controller, wiring state, engines and the event log
// together. Every public mutating operation runs serialized under one mutex,
// so each call is a single atomic state transition.
type Node struct {
	db       storage.Database
	state    *state.Manager
	registry *participants.Registry
	catalog  *incentives.Catalog
	ledger   *materials.Ledger
	stats    *rewards.Stats
	engine   *rewards.Engine
	pauses   *pauseRegistry

	mu     sync.Mutex
	events []types.Event
}

// NewNode wires a node on top of the given database. The admin address owns
// the configuration surface; on a fresh database it is persisted together
// with the default reward split.
func NewNode(db storage.Database, admin [20]byte) (*Node, error) {
	manager := state.NewManager(db)
	registry := participants.NewRegistry(manager)
	ledger := materials.NewLedger(manager, registry)
	catalog := incentives.NewCatalog(manager, registry)
	stats := rewards.NewStats(manager)
	ledger.SetCounters(stats)

	n := &Node{
		db:       db,
		state:    manager,
		registry: registry,
		catalog:  catalog,
		ledger:   ledger,
		stats:    stats,
		pauses:   newPauseRegistry(),
	}
	n.engine = rewards.NewEngine(ledger, catalog, registry, manager, stats, n)

	emitter := nodeEventEmitter{node: n}
	registry.SetEmitter(emitter)
	catalog.SetEmitter(emitter)
	ledger.SetEmitter(emitter)
	n.engine.SetEmitter(emitter)

	registry.SetPauses(n.pauses)
	catalog.SetPauses(n.pauses)
	ledger.SetPauses(n.pauses)
	n.engine.SetPauses(n.pauses)

	if err := n.seedRewardConfig(admin); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) seedRewardConfig(admin [20]byte) error {
	var cfg rewards.GlobalConfig
	ok, err := n.state.KVGet(rewardConfigKey, &cfg)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	cfg = rewards.GlobalConfig{
		Admin:        admin,
		TokenSymbol:  DefaultTokenSymbol,
		CollectorPct: defaultCollectorPct,
		OwnerPct:     defaultOwnerPct,
	}
	return n.state.KVPut(rewardConfigKey, &cfg)
}

// nodeEventEmitter funnels typed module events into the node's flat event log.
type nodeEventEmitter struct {
	node *Node
}

func (e nodeEventEmitter) Emit(evt events.Event) {
	if e.node == nil || evt == nil {
		return
	}
	recordMetrics(evt)
	if provider, ok := evt.(interface{ Event() *types.Event }); ok {
		if payload := provider.Event(); payload != nil {
			e.node.appendEvent(payload)
		}
		return
	}
	e.node.appendEvent(&types.Event{Type: evt.EventType(), Attributes: map[string]string{}})
}

func recordMetrics(evt events.Event) {
	m := observability.Ledger()
	switch e := evt.(type) {
	case events.MaterialSubmitted:
		m.MaterialsSubmitted.Inc()
	case events.MaterialTransferred:
		m.Transfers.Inc()
	case events.MaterialVerified:
		m.MaterialsVerified.Inc()
	case events.RewardDistributed:
		m.Distributions.Inc()
		m.RewardsPaid.Add(float64(e.TotalReward))
	}
}

func (n *Node) appendEvent(evt *types.Event) {
	attrs := make(map[string]string, len(evt.Attributes))
	for k, v := range evt.Attributes {
		attrs[k] = v
	}
	n.events = append(n.events, types.Event{Type: evt.Type, Attributes: attrs})
}

// Events returns a copy of the accumulated event log.
func (n *Node) Events() []types.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]types.Event, len(n.events))
	for i := range n.events {
		attrs := make(map[string]string, len(n.events[i].Attributes))
		for k, v := range n.events[i].Attributes {
			attrs[k] = v
		}
		out[i] = types.Event{Type: n.events[i].Type, Attributes: attrs}
	}
	return out
}

// RewardConfig loads the persisted global reward configuration. It satisfies
// the distribution engine's config dependency.
func (n *Node) RewardConfig() (*rewards.GlobalConfig, error) {
	var cfg rewards.GlobalConfig
	ok, err := n.state.KVGet(rewardConfigKey, &cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("core: reward config not initialised")
	}
	return &cfg, nil
}

func (n *Node) mutateRewardConfig(caller [20]byte, fn func(*rewards.GlobalConfig)) error {
	cfg, err := n.RewardConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return ErrUnauthorized
	}
	fn(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return n.state.KVPut(rewardConfigKey, cfg)
}

// --- Admin configuration surface ---

// GetRewardConfig returns a copy of the current configuration.
func (n *Node) GetRewardConfig() (*rewards.GlobalConfig, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cfg, err := n.RewardConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Clone(), nil
}

// SetAdmin hands the configuration surface to a new admin identity.
func (n *Node) SetAdmin(caller, newAdmin [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mutateRewardConfig(caller, func(cfg *rewards.GlobalConfig) {
		cfg.Admin = newAdmin
	})
}

// SetTokenSymbol replaces the reward token symbol.
func (n *Node) SetTokenSymbol(caller [20]byte, symbol string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mutateRewardConfig(caller, func(cfg *rewards.GlobalConfig) {
		cfg.TokenSymbol = symbol
	})
}

// SetCharity replaces the charity beneficiary address.
func (n *Node) SetCharity(caller, charity [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mutateRewardConfig(caller, func(cfg *rewards.GlobalConfig) {
		cfg.Charity = charity
	})
}

// SetRewardPercentages replaces the collector and owner split. The pair is
// validated before any persisted state changes.
func (n *Node) SetRewardPercentages(caller [20]byte, collectorPct, ownerPct uint32) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.mutateRewardConfig(caller, func(cfg *rewards.GlobalConfig) {
		cfg.CollectorPct = collectorPct
		cfg.OwnerPct = ownerPct
	})
}

// SetPaused flips the administrative pause switch for a module.
func (n *Node) SetPaused(caller [20]byte, module string, paused bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cfg, err := n.RewardConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return ErrUnauthorized
	}
	n.pauses.set(module, paused)
	return nil
}

// --- Participant surface ---

// RegisterParticipant registers the caller under the given role.
func (n *Node) RegisterParticipant(caller, addr [20]byte, role participants.Role, name, location string) (*participants.Participant, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.Register(caller, addr, role, name, location)
}

// Participant looks up a registered participant.
func (n *Node) Participant(addr [20]byte) (*participants.Participant, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.Get(addr)
}

// --- Incentive surface ---

// CreateIncentive funds a new incentive owned by the rewarder.
func (n *Node) CreateIncentive(rewarder [20]byte, wasteType materials.WasteType, rewardPerKg, totalBudget uint64) (*incentives.Incentive, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.Create(rewarder, wasteType, rewardPerKg, totalBudget)
}

// UpdateIncentive replaces the reward rate and budget of an active incentive.
func (n *Node) UpdateIncentive(caller [20]byte, id, rewardPerKg, totalBudget uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.Update(caller, id, rewardPerKg, totalBudget)
}

// DeactivateIncentive retires an incentive permanently.
func (n *Node) DeactivateIncentive(caller [20]byte, id uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.Deactivate(caller, id)
}

// Incentive looks up an incentive by id.
func (n *Node) Incentive(id uint64) (*incentives.Incentive, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.Get(id)
}

// IncentivesByRewarder lists every incentive funded by the rewarder.
func (n *Node) IncentivesByRewarder(rewarder [20]byte) ([]*incentives.Incentive, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.ListByRewarder(rewarder)
}

// IncentivesByWasteType lists every incentive keyed to the waste type.
func (n *Node) IncentivesByWasteType(wt materials.WasteType) ([]*incentives.Incentive, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.ListByWasteType(wt)
}

// BestActiveIncentive returns the rewarder's active incentive with the highest
// per-kilogram rate for the waste type.
func (n *Node) BestActiveIncentive(rewarder [20]byte, wt materials.WasteType) (*incentives.Incentive, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.catalog.BestActive(rewarder, wt)
}

// --- Material surface ---

// SubmitMaterial records a new material under the submitter's custody.
func (n *Node) SubmitMaterial(submitter [20]byte, wasteType materials.WasteType, weightGrams uint64) (*materials.Material, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Submit(submitter, wasteType, weightGrams)
}

// TransferMaterial appends one custody hop to the material's chain.
func (n *Node) TransferMaterial(materialID uint64, from, to [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Transfer(materialID, from, to)
}

// VerifyMaterial flips the one-way verified flag.
func (n *Node) VerifyMaterial(caller [20]byte, materialID uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Verify(caller, materialID)
}

// Material looks up a material by id.
func (n *Node) Material(materialID uint64) (*materials.Material, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Get(materialID)
}

// TransferHistory returns the ordered custody chain for a material.
func (n *Node) TransferHistory(materialID uint64) ([]materials.TransferRecord, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.TransferHistory(materialID)
}

// --- Reward surface ---

// DistributeReward pays the three-way reward split for a verified material and
// returns the total amount distributed.
func (n *Node) DistributeReward(materialID, incentiveID uint64, caller [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.engine.Distribute(materialID, incentiveID, caller)
}

// ParticipantStats returns the lazily created per-participant aggregates.
func (n *Node) ParticipantStats(addr [20]byte) (*rewards.ParticipantStats, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stats.Get(addr)
}

// MaterialCount reports how many materials have ever been submitted.
func (n *Node) MaterialCount() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.MaterialCount()
}

// TotalDistributed reports the cumulative reward volume paid out.
func (n *Node) TotalDistributed() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state.TotalDistributed()
}

// --- Account surface ---

// Balance returns the RCY balance of an account.
func (n *Node) Balance(addr [20]byte) (*big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	acc, err := n.state.GetAccount(addr[:])
	if err != nil {
		return nil, err
	}
	return acc.BalanceRCY, nil
}

// MintBalance credits an account. The operation is admin-gated; it exists so
// deployments can fund rewarder treasuries.
func (n *Node) MintBalance(caller, addr [20]byte, amount *big.Int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	cfg, err := n.RewardConfig()
	if err != nil {
		return err
	}
	if caller != cfg.Admin {
		return ErrUnauthorized
	}
	return n.state.Mint(addr[:], amount)
}

var _ nativecommon.PauseView = (*pauseRegistry)(nil)
