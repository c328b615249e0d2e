package actions

import (
	"errors"
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

func TestHasItemInInventory(t *testing.T) {
	c := sim.New("bot")
	c.AddInventory("minecraft:emerald", 3)
	if HasItemInInventory(c, "minecraft:emerald", 3) != bt.Success {
		t.Fatalf("3 emeralds")
	}
	if HasItemInInventory(c, "minecraft:emerald", 4) != bt.Failure {
		t.Fatalf("4 emeralds")
	}
	if HasItemInInventory(c, "minecraft:bow", 0) != bt.Success {
		t.Fatalf("zero of anything")
	}
}

func TestBlackboardLeaves(t *testing.T) {
	c := sim.New("bot")
	bb := c.Blackboard()

	if CopyBlackboardData(c, "missing", KeyGoToGoal) != bt.Failure {
		t.Fatalf("copy of a missing key")
	}
	SetBlackboardData(c, "HarvestBot.bed_position", game.Position{X: 4, Y: 64, Z: 4})
	if CopyBlackboardData(c, "HarvestBot.bed_position", KeyGoToGoal) != bt.Success {
		t.Fatalf("copy")
	}
	if CheckBlackboardBoolData(c, "flag") != bt.Failure {
		t.Fatalf("missing flag")
	}
	SetBlackboardData(c, "flag", true)
	if CheckBlackboardBoolData(c, "flag") != bt.Success {
		t.Fatalf("set flag")
	}
	SetBlackboardData(c, "flag", "yes")
	if CheckBlackboardBoolData(c, "flag") != bt.Failure {
		t.Fatalf("non bool flag")
	}
	RemoveBlackboardData(c, "flag")
	if bb.Has("flag") {
		t.Fatalf("remove")
	}

	SetBlackboardData(c, KeyGoToDistTolerance, 2)
	if GoToBlackboard(c) != bt.Success {
		t.Fatalf("goto")
	}
	if p := c.Self().Pos.Floor(); p != (game.Position{X: 4, Y: 64, Z: 4}) {
		t.Fatalf("bot at %v", p)
	}
	bb.Erase(KeyGoToGoal)
	if GoToBlackboard(c) != bt.Failure {
		t.Fatalf("goto without goal")
	}
}

func TestContainerAndEntityLeaves(t *testing.T) {
	c := sim.New("bot")
	chest := game.Position{X: 1, Y: 64, Z: 0}
	c.AddContainer(chest, "minecraft:chest", 27)
	c.AddVillager(12, "cleric", game.Vec3{X: 2})

	if OpenContainerBlackboard(c) != bt.Failure {
		t.Fatalf("open without a position")
	}
	SetBlackboardData(c, KeyOpenContainerPos, chest)
	if OpenContainerBlackboard(c) != bt.Success || c.FirstOpenedWindowID() < 0 {
		t.Fatalf("open")
	}
	if CloseContainer(c, -1) != bt.Success || c.FirstOpenedWindowID() != -1 {
		t.Fatalf("close")
	}

	SetBlackboardData(c, KeyInteractEntityID, 99)
	if InteractEntityBlackboard(c) != bt.Failure {
		t.Fatalf("interact with a missing entity")
	}
	SetBlackboardData(c, KeyInteractEntityID, 12)
	SetBlackboardData(c, KeyInteractEntitySwing, true)
	if InteractEntityBlackboard(c) != bt.Success {
		t.Fatalf("interact")
	}
	if Trade(c, "minecraft:redstone", true, -1) != bt.Failure {
		t.Fatalf("trade without offers")
	}

	SetBlackboardData(c, KeyInteractBlockPos, chest)
	if InteractWithBlockBlackboard(c) != bt.Success {
		t.Fatalf("interact with block")
	}
	if in := c.Interactions(); len(in) != 1 || in[0] != chest {
		t.Fatalf("interactions=%v", in)
	}
}

func TestPlayerLeaves(t *testing.T) {
	c := sim.New("bot")
	c.SetHungry(true)
	if IsHungry(c) != bt.Success || IsNightTime(c) != bt.Failure {
		t.Fatalf("player state")
	}
	if Eat(c, "minecraft:golden_carrot", true) != bt.Failure {
		t.Fatalf("eat without food")
	}
	c.AddInventory("minecraft:golden_carrot", 1)
	if Eat(c, "minecraft:golden_carrot", true) != bt.Success || IsHungry(c) != bt.Failure {
		t.Fatalf("eat")
	}

	if SetItemInHand(c, "minecraft:stone_pickaxe", game.HandRight) != bt.Failure {
		t.Fatalf("hold a missing pickaxe")
	}
	c.AddInventory("minecraft:stone_pickaxe", 1)
	if SetItemInHand(c, "minecraft:stone_pickaxe", game.HandRight) != bt.Success || c.Holding() != "minecraft:stone_pickaxe" {
		t.Fatalf("hold pickaxe")
	}

	c.SetInventorySlot(20, "minecraft:dirt", 10)
	c.SetInventorySlot(30, "minecraft:dirt", 10)
	if SortInventory(c) != bt.Success {
		t.Fatalf("sort")
	}
	if w := c.PlayerInventory(); w.Slot(9).Item != "minecraft:dirt" || w.Slot(9).Count != 20 {
		t.Fatalf("sorted slot 9=%+v", w.Slot(9))
	}

	if Say(c, "hello") != bt.Success || len(c.Said()) != 1 {
		t.Fatalf("say")
	}
	c.Fail("Say", errors.New("muted"))
	if Say(c, "hello") != bt.Failure {
		t.Fatalf("say while muted")
	}
	if Yield(c) != bt.Success || c.Tick() == 0 {
		t.Fatalf("yield")
	}
	if Craft(c, game.Recipe{{"minecraft:bone"}}, true) != bt.Failure {
		t.Fatalf("craft without bones")
	}
}
