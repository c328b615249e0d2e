package farming_test

import (
	"io"
	"log"
	"os"
	"testing"

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
	bonesShulker  = game.Position{X: -2, Y: 64, Z: -6}
	outputChest   = game.Position{X: 4, Y: 64, Z: -6}
	stoneShulker  = game.Position{X: 10, Y: 64, Z: 0}
	noteBlock     = game.Position{X: 8, Y: 65, Z: 2}
	disposalStand = game.Position{X: -8, Y: 65, Z: -8}
	spawnerSwitch = game.Position{X: -6, Y: 64, Z: 6}
	stoneStand    = game.Position{X: 8, Y: 65, Z: 0}
	generatorLow  = game.Position{X: 9, Y: 65, Z: 0}
	generatorHigh = game.Position{X: 9, Y: 66, Z: 0}
)

// newFarm loads the repository farm and scans it.
func newFarm(t *testing.T) *sim.Client {
	t.Helper()
	sc, err := sim.LoadScenario("../../configs/farm.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	c := sim.New("BCHarvestBot")
	if err := sc.Apply(c); err != nil {
		t.Fatalf("apply scenario: %v", err)
	}
	if st := farming.InitializeHarvestBlocks(c, 12, nil); st != bt.Success {
		t.Fatalf("initialize: %s", st)
	}
	return c
}

func mustGet[T any](t *testing.T, c game.Client, key string) T {
	t.Helper()
	v, err := bt.Get[T](c.Blackboard(), key)
	if err != nil {
		t.Fatalf("blackboard: %v", err)
	}
	return v
}

func containsPos(ps []game.Position, p game.Position) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}

func TestInitializeHarvestBlocks(t *testing.T) {
	c := newFarm(t)

	if !mustGet[bool](t, c, farming.KeyInitialized) {
		t.Fatalf("not initialized")
	}
	potatoes := mustGet[[]game.Position](t, c, farming.CropKey("minecraft:potatoes"))
	if len(potatoes) != 15 {
		t.Fatalf("potatoes=%d want 15", len(potatoes))
	}
	me := c.Self().Pos.Floor()
	for i := 1; i < len(potatoes); i++ {
		if potatoes[i-1].SqrDist(me) > potatoes[i].SqrDist(me) {
			t.Fatalf("potatoes not sorted by distance: %v", potatoes)
		}
	}
	if carrots := mustGet[[]game.Position](t, c, farming.CropKey("minecraft:carrots")); len(carrots) != 15 {
		t.Fatalf("carrots=%d want 15", len(carrots))
	}

	if p := mustGet[game.Position](t, c, farming.PositionKey(farming.RoleOutput)); p != outputChest {
		t.Fatalf("output position=%v", p)
	}
	if p := mustGet[game.Position](t, c, farming.StandingKey(farming.RoleOutput)); p != outputChest.Add(game.Position{Y: 1}) {
		t.Fatalf("output standing=%v", p)
	}
	if ids := mustGet[[]int](t, c, farming.VillagerKey("farmer")); len(ids) != 1 || ids[0] != 10 {
		t.Fatalf("farmers=%v", ids)
	}
	stones := mustGet[[]game.Position](t, c, farming.KeyStonePositions)
	if len(stones) == 0 || stones[0] != generatorLow || !containsPos(stones, generatorHigh) {
		t.Fatalf("stones=%v", stones)
	}
	if signs := mustGet[[]game.Position](t, c, farming.KeySignPositions); len(signs) != 13 {
		t.Fatalf("signs=%d want 13", len(signs))
	}
	if cs := mustGet[[]game.Position](t, c, farming.KeyContainerPositions); len(cs) != 4 {
		t.Fatalf("containers=%d want 4", len(cs))
	}
	if sw := mustGet[[]game.Position](t, c, farming.PositionsKey(farming.RoleSpawnerSwitch)); len(sw) != 1 || sw[0] != spawnerSwitch {
		t.Fatalf("spawner switches=%v", sw)
	}
}

func TestInitializeHarvestBlocks_EmptyGenerator(t *testing.T) {
	sc, err := sim.LoadScenario("../../configs/farm.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	c := sim.New("BCHarvestBot")
	if err := sc.Apply(c); err != nil {
		t.Fatalf("apply scenario: %v", err)
	}
	// Mined out before the bot starts.
	c.SetBlock(generatorLow, game.AirBlock, nil)
	c.SetBlock(generatorHigh, game.AirBlock, nil)
	if st := farming.InitializeHarvestBlocks(c, 12, nil); st != bt.Success {
		t.Fatalf("initialize: %s", st)
	}
	stones := mustGet[[]game.Position](t, c, farming.KeyStonePositions)
	if !containsPos(stones, generatorLow) || !containsPos(stones, generatorHigh) {
		t.Fatalf("generator cells missing: %v", stones)
	}

	if st := farming.MineCobblestone(c); st != bt.Success {
		t.Fatalf("mine: %s", st)
	}
	if n := c.InventoryCount("minecraft:cobblestone"); n != 1 {
		t.Fatalf("cobblestone=%d want 1", n)
	}
	if !containsPos(c.Interactions(), noteBlock) {
		t.Fatalf("note block never used: %v", c.Interactions())
	}
}

func TestInitializeHarvestBlocks_SkipsStandingColumn(t *testing.T) {
	sc, err := sim.LoadScenario("../../configs/farm.yaml")
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	c := sim.New("BCHarvestBot")
	if err := sc.Apply(c); err != nil {
		t.Fatalf("apply scenario: %v", err)
	}
	below := stoneStand.Add(game.Position{Y: -2})
	floor := stoneStand.Add(game.Position{Y: -1})
	wall := stoneStand.Add(game.Position{Z: -1})
	c.SetBlock(below, "minecraft:cobblestone", nil)
	c.SetBlock(floor, "minecraft:stone", nil)
	c.SetBlock(wall, "minecraft:glass", nil)
	if st := farming.InitializeHarvestBlocks(c, 12, nil); st != bt.Success {
		t.Fatalf("initialize: %s", st)
	}
	stones := mustGet[[]game.Position](t, c, farming.KeyStonePositions)
	for _, p := range stones {
		if p.X == stoneStand.X && p.Z == stoneStand.Z {
			t.Fatalf("standing column listed: %v", stones)
		}
		if p.Y < stoneStand.Y || p.Y > stoneStand.Y+1 {
			t.Fatalf("cell out of reach listed: %v", stones)
		}
		if p == wall {
			t.Fatalf("solid wall listed: %v", stones)
		}
	}
	if stones[0] != generatorLow {
		t.Fatalf("first cell=%v want %v", stones[0], generatorLow)
	}
	if st := farming.MineCobblestone(c); st != bt.Success {
		t.Fatalf("mine: %s", st)
	}
	if b, _ := c.Block(floor); b.Name != "minecraft:stone" {
		t.Fatalf("floor dug: %v", b)
	}
	if b, _ := c.Block(below); b.Name != "minecraft:cobblestone" {
		t.Fatalf("block under the floor dug: %v", b)
	}
}

func TestInitializeHarvestBlocks_ClampsToWorld(t *testing.T) {
	c := sim.New("bot")
	c.SetBounds(0, 16)
	c.SetSelfPos(game.Vec3{X: 0.5, Y: 1, Z: 0.5})
	c.SetBlock(game.Position{X: 1, Y: 0, Z: 1}, "minecraft:wheat", map[string]string{"age": "7"})
	if st := farming.InitializeHarvestBlocks(c, 4, []string{"minecraft:wheat"}); st != bt.Success {
		t.Fatalf("initialize: %s", st)
	}
	if ps := mustGet[[]game.Position](t, c, farming.CropKey("minecraft:wheat")); len(ps) != 1 {
		t.Fatalf("wheat=%v", ps)
	}
	if c.Blackboard().Has(farming.KeyStonePositions) {
		t.Fatalf("stone positions without a stone sign")
	}
}

func TestKeys(t *testing.T) {
	if k := farming.CropKey("minecraft:carrots"); k != "HarvestBot.carrots_positions" {
		t.Fatalf("CropKey=%q", k)
	}
	if k := farming.VillagerKey("cleric"); k != "HarvestBot.cleric_id" {
		t.Fatalf("VillagerKey=%q", k)
	}
	if item, ok := farming.CropItem("minecraft:wheat"); !ok || item != "minecraft:wheat_seeds" {
		t.Fatalf("CropItem=%q %v", item, ok)
	}
	if _, ok := farming.CropItem("minecraft:melon"); ok {
		t.Fatalf("melon is not a replantable crop")
	}
}
