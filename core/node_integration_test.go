package core

import (
	"errors"
	"math/big"
	"testing"

	"recyclechain/core/events"
	nativecommon "recyclechain/native/common"
	"recyclechain/native/materials"
	"recyclechain/native/participants"
	"recyclechain/native/rewards"
	"recyclechain/storage"
)

func testAddr(b byte) [20]byte {
	var a [20]byte
	a[0] = b
	return a
}

func newTestNode(t *testing.T) (*Node, [20]byte) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	admin := testAddr(0xAA)
	node, err := NewNode(db, admin)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node, admin
}

func TestNodeFullLifecycle(t *testing.T) {
	node, admin := newTestNode(t)
	maker := testAddr(0x01)
	recycler := testAddr(0x02)
	collector := testAddr(0x03)

	if _, err := node.RegisterParticipant(maker, maker, participants.RoleManufacturer, "Loop Industries", "Oslo"); err != nil {
		t.Fatalf("register maker: %v", err)
	}
	if _, err := node.RegisterParticipant(recycler, recycler, participants.RoleRecycler, "Riku", ""); err != nil {
		t.Fatalf("register recycler: %v", err)
	}
	if _, err := node.RegisterParticipant(collector, collector, participants.RoleCollector, "City Pickup", ""); err != nil {
		t.Fatalf("register collector: %v", err)
	}

	if err := node.MintBalance(admin, maker, big.NewInt(1_000_000)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	incentive, err := node.CreateIncentive(maker, materials.WastePET, 100, 100_000)
	if err != nil {
		t.Fatalf("create incentive: %v", err)
	}
	material, err := node.SubmitMaterial(recycler, materials.WastePET, 5000)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := node.TransferMaterial(material.ID, recycler, collector); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if err := node.VerifyMaterial(recycler, material.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}

	total, err := node.DistributeReward(material.ID, incentive.ID, maker)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	if total != 500 {
		t.Fatalf("expected total 500, got %d", total)
	}

	collectorStats, err := node.ParticipantStats(collector)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if collectorStats.TotalEarned != 250 {
		t.Fatalf("collector earned %d, want 250", collectorStats.TotalEarned)
	}
	recyclerStats, err := node.ParticipantStats(recycler)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if recyclerStats.TotalEarned != 250 {
		t.Fatalf("recycler earned %d, want 250", recyclerStats.TotalEarned)
	}
	if recyclerStats.MaterialsSubmitted != 1 || recyclerStats.VerifiedCount != 1 {
		t.Fatalf("recycler activity counters off: %+v", recyclerStats)
	}
	if collectorStats.TransfersIn != 1 {
		t.Fatalf("collector transfers in %d, want 1", collectorStats.TransfersIn)
	}

	balance, err := node.Balance(collector)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("collector balance %s, want 250", balance)
	}

	count, err := node.MaterialCount()
	if err != nil {
		t.Fatalf("material count: %v", err)
	}
	if count != 1 {
		t.Fatalf("material count %d, want 1", count)
	}
	distributed, err := node.TotalDistributed()
	if err != nil {
		t.Fatalf("total distributed: %v", err)
	}
	if distributed != 500 {
		t.Fatalf("total distributed %d, want 500", distributed)
	}

	history, err := node.TransferHistory(material.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].To != collector {
		t.Fatalf("unexpected history: %+v", history)
	}

	log := node.Events()
	var sawDistribution bool
	for _, evt := range log {
		if evt.Type == events.TypeRewardDistributed {
			sawDistribution = true
			if evt.Attributes["totalReward"] != "500" {
				t.Fatalf("distribution event total %q", evt.Attributes["totalReward"])
			}
		}
	}
	if !sawDistribution {
		t.Fatalf("distribution event missing from log: %+v", log)
	}
}

func TestNodeAdminGating(t *testing.T) {
	node, admin := newTestNode(t)
	outsider := testAddr(0x09)

	if err := node.SetRewardPercentages(outsider, 10, 10); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := node.SetCharity(outsider, testAddr(0x0C)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := node.MintBalance(outsider, outsider, big.NewInt(1)); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	if err := node.SetRewardPercentages(admin, 60, 50); !errors.Is(err, rewards.ErrInvalidPercentages) {
		t.Fatalf("expected invalid percentages, got %v", err)
	}
	cfg, err := node.GetRewardConfig()
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.CollectorPct != 5 || cfg.OwnerPct != 50 {
		t.Fatalf("rejected mutation must not persist: %+v", cfg)
	}

	if err := node.SetRewardPercentages(admin, 10, 80); err != nil {
		t.Fatalf("set percentages: %v", err)
	}
	if err := node.SetTokenSymbol(admin, "GRN"); err != nil {
		t.Fatalf("set token: %v", err)
	}
	cfg, err = node.GetRewardConfig()
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.CollectorPct != 10 || cfg.OwnerPct != 80 || cfg.TokenSymbol != "GRN" {
		t.Fatalf("config mutation lost: %+v", cfg)
	}
}

func TestNodeAdminHandover(t *testing.T) {
	node, admin := newTestNode(t)
	successor := testAddr(0x0B)

	if err := node.SetAdmin(admin, successor); err != nil {
		t.Fatalf("handover: %v", err)
	}
	if err := node.SetTokenSymbol(admin, "OLD"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old admin must lose the surface, got %v", err)
	}
	if err := node.SetTokenSymbol(successor, "NEW"); err != nil {
		t.Fatalf("new admin: %v", err)
	}
}

func TestNodePauseSwitch(t *testing.T) {
	node, admin := newTestNode(t)
	recycler := testAddr(0x02)
	if _, err := node.RegisterParticipant(recycler, recycler, participants.RoleRecycler, "r", ""); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := node.SetPaused(admin, "materials", true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if _, err := node.SubmitMaterial(recycler, materials.WastePaper, 1000); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected paused, got %v", err)
	}
	if err := node.SetPaused(admin, "materials", false); err != nil {
		t.Fatalf("unpause: %v", err)
	}
	if _, err := node.SubmitMaterial(recycler, materials.WastePaper, 1000); err != nil {
		t.Fatalf("submit after unpause: %v", err)
	}

	outsider := testAddr(0x09)
	if err := node.SetPaused(outsider, "materials", true); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("pause must be admin-gated, got %v", err)
	}
}

func TestNodeConfigSurvivesRestart(t *testing.T) {
	db := storage.NewMemDB()
	defer db.Close()
	admin := testAddr(0xAA)

	node, err := NewNode(db, admin)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	if err := node.SetRewardPercentages(admin, 20, 70); err != nil {
		t.Fatalf("set percentages: %v", err)
	}

	// A second boot on the same database must not reseed defaults.
	restarted, err := NewNode(db, testAddr(0xBB))
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	cfg, err := restarted.GetRewardConfig()
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if cfg.Admin != admin || cfg.CollectorPct != 20 || cfg.OwnerPct != 70 {
		t.Fatalf("config lost across restart: %+v", cfg)
	}
}
