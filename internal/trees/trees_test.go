package trees

import (
	"io"
	"log"
	"os"
	"testing"
	"time"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/farming"
	"harvestbot.ai/internal/game"
	"harvestbot.ai/internal/sim"
)

func TestMain(m *testing.M) {
	game.SetLogger(log.New(io.Discard, "", 0))
	os.Exit(m.Run())
}

var (
	outputChest   = game.Position{X: 4, Y: 64, Z: -6}
	bonesShulker  = game.Position{X: -2, Y: 64, Z: -6}
	fleshShulker  = game.Position{X: 2, Y: 64, Z: -6}
	bed           = game.Position{X: 6, Y: 64, Z: 6}
	despawnStand  = game.Position{X: 0, Y: 65, Z: 9}
	buyingStand   = game.Position{X: 0, Y: 65, Z: -4}
	testScanRange = 12
)

func loadFarm(t *testing.T) *sim.Client {
	t.Helper()
	sc, err := sim.LoadScenario("../../configs/farm.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	c := sim.New("BCHarvestBot")
	if err := sc.Apply(c); err != nil {
		t.Fatalf("apply scenario: %v", err)
	}
	return c
}

// scannedFarm is loadFarm plus the sign scan Root starts with.
func scannedFarm(t *testing.T) *sim.Client {
	t.Helper()
	c := loadFarm(t)
	if st := farming.InitializeHarvestBlocks(c, testScanRange, nil); st != bt.Success {
		t.Fatalf("initialize: %s", st)
	}
	return c
}

type leafCounter map[string][2]int

func (l leafCounter) LeafDone(name string, status bt.Status, _ time.Duration) {
	n := l[name]
	n[status]++
	l[name] = n
}

func TestRoot_FullPass(t *testing.T) {
	c := loadFarm(t)
	leaves := leafCounter{}
	c.SetTracer(leaves)
	c.SetTree(Root(Options{ScanRadius: testScanRange}))

	if st := c.TickOnce(c); st != bt.Success {
		t.Fatalf("root: %s (said %q)", st, c.Said())
	}

	if n := c.ContainerCount(outputChest, Dispenser); n != 1 {
		t.Fatalf("dispensers stored=%d want 1", n)
	}
	// 3 to start, 12 for white dye, 2 for rotten flesh, 1 per crop; minus
	// golden carrots, bow, redstone and pickaxe.
	if n := c.InventoryCount(Emerald); n != 12 {
		t.Fatalf("emeralds=%d want 12", n)
	}
	if c.IsHungry() {
		t.Fatalf("still hungry")
	}
	if n := c.ContainerCount(bonesShulker, "minecraft:string"); n != 0 {
		t.Fatalf("bones shulker not cleaned")
	}
	if n := c.ContainerCount(fleshShulker, "minecraft:arrow"); n != 0 {
		t.Fatalf("rotten flesh shulker not cleaned")
	}
	if n := c.InventoryCount(PoisonousPotato); n != 0 {
		t.Fatalf("poisonous potatoes kept: %d", n)
	}
	if len(c.Said()) != 0 || c.Tree() == nil {
		t.Fatalf("behaviour stopped: %q", c.Said())
	}
	if leaves["InitializeHarvestBlocks"][bt.Success] != 1 {
		t.Fatalf("scan count: %v", leaves["InitializeHarvestBlocks"])
	}
	if leaves["CollectCropsAndReplant"][bt.Success] != 2 {
		t.Fatalf("harvests: %v", leaves["CollectCropsAndReplant"])
	}
	if leaves["MineCobblestone"][bt.Success] != 7 {
		t.Fatalf("cobblestone mined: %v", leaves["MineCobblestone"])
	}

	// The second pass skips the scan.
	c.TickOnce(c)
	if leaves["InitializeHarvestBlocks"][bt.Success] != 1 {
		t.Fatalf("farm scanned twice")
	}
}

func TestBuy(t *testing.T) {
	c := scannedFarm(t)
	tree := Buy(Bow, farming.VillagerKey(Fletcher))
	if st := tree.Tick(c); st != bt.Success {
		t.Fatalf("buy: %s", st)
	}
	if c.InventoryCount(Bow) != 1 || c.InventoryCount(Emerald) != 1 {
		t.Fatalf("bow=%d emeralds=%d", c.InventoryCount(Bow), c.InventoryCount(Emerald))
	}
	if c.Self().Pos.Floor() != buyingStand {
		t.Fatalf("bought from %v", c.Self().Pos.Floor())
	}
	if st := tree.Tick(c); st != bt.Success || c.InventoryCount(Emerald) != 1 {
		t.Fatalf("second buy should be a no-op: %s", st)
	}
	if c.FirstOpenedWindowID() != -1 {
		t.Fatalf("trade window left open")
	}
}

func TestBuy_TradeFailureClosesWindow(t *testing.T) {
	c := scannedFarm(t)
	if st := Buy(Redstone, farming.VillagerKey(Fletcher)).Tick(c); st != bt.Failure {
		t.Fatalf("fletchers sell no redstone: %s", st)
	}
	if c.FirstOpenedWindowID() != -1 {
		t.Fatalf("trade window left open")
	}
	if st := Buy(Bow, farming.VillagerKey("librarian")).Tick(c); st != bt.Failure {
		t.Fatalf("no librarian: %s", st)
	}
}

func TestEat(t *testing.T) {
	c := scannedFarm(t)
	c.SetHungry(false)
	if st := Eat().Tick(c); st != bt.Success || c.InventoryCount(Emerald) != 3 {
		t.Fatalf("not hungry: %s", st)
	}
	c.SetHungry(true)
	if st := Eat().Tick(c); st != bt.Success {
		t.Fatalf("eat: %s", st)
	}
	if c.IsHungry() || c.InventoryCount(GoldenCarrot) != 2 || c.InventoryCount(Emerald) != 0 {
		t.Fatalf("hungry=%v carrots=%d emeralds=%d", c.IsHungry(), c.InventoryCount(GoldenCarrot), c.InventoryCount(Emerald))
	}
	c.SetHungry(true)
	if st := Eat().Tick(c); st != bt.Failure {
		t.Fatalf("eat without emeralds: %s", st)
	}
}

func TestCropEmerald(t *testing.T) {
	c := scannedFarm(t)
	if st := CropEmerald(Carrot, farming.CropKey("minecraft:carrots")).Tick(c); st != bt.Success {
		t.Fatalf("crop emerald: %s", st)
	}
	// 45 harvested, 15 replanted, 22 sold.
	if c.InventoryCount(Carrot) != 8 || c.InventoryCount(Emerald) != 4 {
		t.Fatalf("carrots=%d emeralds=%d", c.InventoryCount(Carrot), c.InventoryCount(Emerald))
	}
}

func TestDespawnMobs(t *testing.T) {
	c := scannedFarm(t)
	if st := DespawnMobs().Tick(c); st != bt.Success {
		t.Fatalf("despawn: %s", st)
	}
	if c.Self().Pos.Floor() != despawnStand {
		t.Fatalf("bot at %v, want the despawn spot", c.Self().Pos.Floor())
	}

	c.SetSelfPos(game.Vec3{X: 0.5, Y: 64, Z: 0.5})
	c.Blackboard().Set(farming.KeyHostileTypes, []game.EntityType{"drowned"})
	if st := DespawnMobs().Tick(c); st != bt.Success {
		t.Fatalf("despawn: %s", st)
	}
	if c.Self().Pos.Floor() != (game.Position{Y: 64}) {
		t.Fatalf("walked away from harmless mobs")
	}
}

func TestSleep(t *testing.T) {
	c := scannedFarm(t)
	if st := Sleep().Tick(c); st != bt.Success || len(c.Interactions()) != 0 {
		t.Fatalf("sleep during the day: %s", st)
	}
	c.SetDayTime(game.NightStart + 100)
	if st := Sleep().Tick(c); st != bt.Success {
		t.Fatalf("sleep: %s", st)
	}
	if c.IsNightTime() {
		t.Fatalf("still night")
	}
	if in := c.Interactions(); len(in) != 1 || in[0] != bed {
		t.Fatalf("interactions=%v", in)
	}
}

func TestCraftDispenser_FullOutputStops(t *testing.T) {
	c := scannedFarm(t)
	c.AddInventory(Cobblestone, 7)
	c.AddInventory(Bow, 1)
	c.AddInventory(Redstone, 1)
	for slot := 0; slot < 27; slot++ {
		c.SetContainerSlot(outputChest, slot, "minecraft:dirt", 64)
	}
	c.SetTree(CraftDispenser())
	if st := c.TickOnce(c); st != bt.Failure {
		t.Fatalf("craft dispenser: %s", st)
	}
	if c.InventoryCount(Dispenser) != 1 {
		t.Fatalf("dispenser not crafted")
	}
	if said := c.Said(); len(said) != 1 {
		t.Fatalf("said=%q", said)
	}
	if c.Tree() != nil {
		t.Fatalf("behaviour not stopped")
	}
}

func TestCollectCobblestone_BuysPickaxe(t *testing.T) {
	c := scannedFarm(t)
	if st := CollectCobblestone().Tick(c); st != bt.Success {
		t.Fatalf("collect: %s", st)
	}
	if c.InventoryCount(Cobblestone) != 7 || c.Holding() != StonePickaxe || c.InventoryCount(Emerald) != 2 {
		t.Fatalf("cobblestone=%d holding=%q emeralds=%d", c.InventoryCount(Cobblestone), c.Holding(), c.InventoryCount(Emerald))
	}
}

func TestBonesEmerald(t *testing.T) {
	c := scannedFarm(t)
	if st := BonesEmerald().Tick(c); st != bt.Success {
		t.Fatalf("bones emerald: %s", st)
	}
	// 64 bones, 192 white dye, 12 trades before the shepherd locks.
	if n := c.InventoryCount(Emerald); n != 15 {
		t.Fatalf("emeralds=%d want 15", n)
	}
	if c.InventoryCount(Bone) != 0 || c.InventoryCount(BoneMeal) != 0 || c.InventoryCount(WhiteDye) != 48 {
		t.Fatalf("bones=%d bone meal=%d dye=%d", c.InventoryCount(Bone), c.InventoryCount(BoneMeal), c.InventoryCount(WhiteDye))
	}
	if n := c.ContainerCount(bonesShulker, Bone); n != 64 {
		t.Fatalf("bones left in shulker=%d want 64", n)
	}
	if c.FirstOpenedWindowID() != -1 {
		t.Fatalf("window left open")
	}
}

func TestRottenFleshEmerald(t *testing.T) {
	c := scannedFarm(t)
	if st := RottenFleshEmerald().Tick(c); st != bt.Success {
		t.Fatalf("rotten flesh emerald: %s", st)
	}
	if c.InventoryCount(Emerald) != 5 || c.InventoryCount(RottenFlesh) != 0 {
		t.Fatalf("emeralds=%d flesh=%d", c.InventoryCount(Emerald), c.InventoryCount(RottenFlesh))
	}
	if n := c.ContainerCount(fleshShulker, RottenFlesh); n != 64 {
		t.Fatalf("flesh left in shulker=%d want 64", n)
	}

	// Enough flesh on hand skips the shulker.
	c.AddInventory(RottenFlesh, 64)
	if st := RottenFleshEmerald().Tick(c); st != bt.Success {
		t.Fatalf("second pass: %s", st)
	}
	if c.ContainerCount(fleshShulker, RottenFlesh) != 64 || c.InventoryCount(Emerald) != 7 {
		t.Fatalf("shulker=%d emeralds=%d", c.ContainerCount(fleshShulker, RottenFlesh), c.InventoryCount(Emerald))
	}
}

func TestCleanStorage(t *testing.T) {
	c := scannedFarm(t)
	if st := CleanStorage().Tick(c); st != bt.Success {
		t.Fatalf("clean storage: %s", st)
	}
	if c.ContainerCount(bonesShulker, "minecraft:string") != 0 || c.ContainerCount(fleshShulker, "minecraft:arrow") != 0 {
		t.Fatalf("foreign items left")
	}
	if c.ContainerCount(bonesShulker, Bone) != 128 || c.ContainerCount(fleshShulker, RottenFlesh) != 128 {
		t.Fatalf("kept items removed")
	}
	if c.InventoryCount("minecraft:string") != 0 || c.InventoryCount("minecraft:arrow") != 0 {
		t.Fatalf("foreign items kept in inventory")
	}
}

func TestCollectEmeralds(t *testing.T) {
	c := scannedFarm(t)
	if st := CollectEmeralds(Options{}).Tick(c); st != bt.Success {
		t.Fatalf("collect emeralds: %s", st)
	}
	// 3 to start, 12 for white dye, 2 for rotten flesh, 1 per crop.
	if n := c.InventoryCount(Emerald); n != 19 {
		t.Fatalf("emeralds=%d want 19", n)
	}

	c = scannedFarm(t)
	if st := CollectEmeralds(Options{Crops: []string{"minecraft:carrots"}}).Tick(c); st != bt.Success {
		t.Fatalf("collect emeralds: %s", st)
	}
	if n := c.InventoryCount(Emerald); n != 18 {
		t.Fatalf("carrots only: emeralds=%d want 18", n)
	}
}
