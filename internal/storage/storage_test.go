package storage

import (
	"io"
	"log"
	"os"
	"testing"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
	"harvestbot.ai/internal/sim"
)

func TestMain(m *testing.M) {
	game.SetLogger(log.New(io.Discard, "", 0))
	os.Exit(m.Run())
}

func chests(t *testing.T, c game.Client) []game.Position {
	t.Helper()
	ps, err := bt.Get[[]game.Position](c.Blackboard(), KeyChests)
	if err != nil {
		t.Fatalf("chests: %v", err)
	}
	return ps
}

func TestGetAllChestsAround_RepoFarm(t *testing.T) {
	sc, err := sim.LoadScenario("../../configs/farm.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := sim.New("bot")
	if err := sc.Apply(c); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if st := GetAllChestsAround(c, 12); st != bt.Success {
		t.Fatalf("scan: %s", st)
	}
	got := chests(t, c)
	want := []game.Position{{X: -2, Y: 64, Z: -6}, {X: 2, Y: 64, Z: -6}, {X: 4, Y: 64, Z: -6}, {X: 10, Y: 64, Z: 0}}
	if len(got) != len(want) {
		t.Fatalf("chests=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chests=%v want %v", got, want)
		}
	}
}

func TestGetAllChestsAround_Empty(t *testing.T) {
	c := sim.New("bot")
	if st := GetAllChestsAround(c, 0); st != bt.Success {
		t.Fatalf("scan: %s", st)
	}
	if ps := chests(t, c); len(ps) != 0 {
		t.Fatalf("chests=%v", ps)
	}
}

func TestGetSomeFood(t *testing.T) {
	c := sim.New("bot")
	if st := GetSomeFood(c, "minecraft:bread"); st != bt.Failure {
		t.Fatalf("no chest list: %s", st)
	}

	empty := game.Position{X: 2, Y: 0, Z: 0}
	pantry := game.Position{X: -3, Y: 0, Z: 0}
	c.AddContainer(empty, "minecraft:chest", 27)
	c.AddContainer(pantry, "minecraft:barrel", 27)
	c.SetContainerSlot(pantry, 5, "minecraft:bread", 10)
	GetAllChestsAround(c, 4)

	if st := GetSomeFood(c, "minecraft:bread"); st != bt.Success {
		t.Fatalf("get food: %s", st)
	}
	if n := c.InventoryCount("minecraft:bread"); n != 10 {
		t.Fatalf("bread=%d", n)
	}
	if c.FirstOpenedWindowID() != -1 {
		t.Fatalf("chest left open")
	}
	c.Fail("OpenContainer", io.EOF)
	if st := GetSomeFood(c, "minecraft:bread"); st != bt.Success {
		t.Fatalf("food already in inventory: %s", st)
	}
}

func TestSwapChestsInventory_Deposit(t *testing.T) {
	c := sim.New("bot")
	c.AddContainer(game.Position{X: 1}, "minecraft:chest", 27)
	c.AddInventory("minecraft:emerald", 5)
	c.AddInventory("minecraft:dirt", 3*64)
	GetAllChestsAround(c, 4)

	if st := SwapChestsInventory(c, "minecraft:emerald", false); st != bt.Success {
		t.Fatalf("deposit: %s", st)
	}
	if c.InventoryCount("minecraft:dirt") != 0 || c.InventoryCount("minecraft:emerald") != 5 {
		t.Fatalf("inventory after deposit: dirt=%d emerald=%d",
			c.InventoryCount("minecraft:dirt"), c.InventoryCount("minecraft:emerald"))
	}
	if n := c.ContainerCount(game.Position{X: 1}, "minecraft:dirt"); n != 3*64 {
		t.Fatalf("chest dirt=%d", n)
	}
}

func TestSwapChestsInventory_Take(t *testing.T) {
	c := sim.New("bot")
	a, b := game.Position{X: 1}, game.Position{X: 3}
	c.AddContainer(a, "minecraft:chest", 27)
	c.AddContainer(b, "minecraft:chest", 27)
	for slot := 0; slot < 27; slot++ {
		c.SetContainerSlot(a, slot, "minecraft:stone", 64)
		c.SetContainerSlot(b, slot, "minecraft:stone", 64)
	}
	c.AddInventory("minecraft:emerald", 1)
	GetAllChestsAround(c, 4)

	if st := SwapChestsInventory(c, "minecraft:emerald", true); st != bt.Success {
		t.Fatalf("take: %s", st)
	}
	// 36 inventory slots, one of them the emeralds.
	if n := c.InventoryCount("minecraft:stone"); n != 35*64 {
		t.Fatalf("stone=%d want %d", n, 35*64)
	}
	if n := c.ContainerCount(b, "minecraft:stone"); n != 19*64 {
		t.Fatalf("second chest stone=%d", n)
	}
}

func TestSwapChestsInventory_NotEnoughRoom(t *testing.T) {
	c := sim.New("bot")
	c.AddContainer(game.Position{X: 1}, "minecraft:chest", 1)
	c.AddInventory("minecraft:dirt", 2*64)
	GetAllChestsAround(c, 4)
	if st := SwapChestsInventory(c, "", false); st != bt.Failure {
		t.Fatalf("deposit into a one slot chest: %s", st)
	}
}

func TestGetBlocksAvailableInInventory(t *testing.T) {
	c := sim.New("bot")
	if st := GetBlocksAvailableInInventory(c); st != bt.Failure {
		t.Fatalf("empty inventory: %s", st)
	}
	c.AddInventory("minecraft:dirt", 70)
	c.AddInventory("minecraft:glass", 1)
	if st := GetBlocksAvailableInInventory(c); st != bt.Success {
		t.Fatalf("blocks: %s", st)
	}
	items := bt.GetOr(c.Blackboard(), KeyBlockList, []string(nil))
	if len(items) != 2 || items[0] != "minecraft:dirt" || items[1] != "minecraft:glass" {
		t.Fatalf("block list=%v", items)
	}
}

func TestWarnConsole(t *testing.T) {
	if st := WarnConsole(sim.New("bot"), "out of bread"); st != bt.Success {
		t.Fatalf("warn: %s", st)
	}
}
