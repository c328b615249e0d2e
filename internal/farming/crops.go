package farming

import (
	"sort"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

const (
	pickupDistance = 2
	stillSpeedSqr  = 0.0001
)

func matureAge(block string) string {
	if block == "minecraft:beetroots" {
		return "3"
	}
	return "7"
}

// CollectCropsAndReplant breaks every mature crop listed under positionsKey,
// picks up the dropped item stacks and replants the emptied positions with
// item.
func CollectCropsAndReplant(c game.Client, positionsKey, item string) bt.Status {
	positions, err := bt.Get[[]game.Position](c.Blackboard(), positionsKey)
	if err != nil {
		game.Warnf("CollectCropsAndReplant: %v", err)
		return bt.Failure
	}

	for _, p := range positions {
		b, ok := c.Block(p)
		if !ok || b.IsAir() || b.Prop("age") != matureAge(b.Name) {
			continue
		}
		if err := c.Dig(p, game.DirUp); err != nil {
			game.Warnf("Error trying to break a crop: %v", err)
			return bt.Failure
		}
		if err := game.YieldN(c, dropWaitYields); err != nil {
			return bt.Failure
		}
	}

	var drops []game.Entity
	if err := game.WaitUntil(c, game.PollTimeout, func() bool {
		drops = drops[:0]
		for _, e := range c.Entities() {
			if e.Type != game.EntityItem || e.Item.Item != item {
				continue
			}
			if e.Speed.SqrNorm() > stillSpeedSqr {
				return false
			}
			drops = append(drops, e)
		}
		return true
	}); err != nil {
		game.Warnf("Error waiting for crop items to settle: %v", err)
		return bt.Failure
	}
	sort.Slice(drops, func(i, j int) bool { return drops[i].ID < drops[j].ID })

	for _, e := range drops {
		if err := c.GoTo(e.Pos.Floor(), pickupDistance, 0); err != nil {
			game.Warnf("Error trying to pick up a crop item (can't get close enough to %s): %v", e.Pos, err)
			return bt.Failure
		}
		id := e.ID
		if err := game.WaitUntil(c, game.PollTimeout, func() bool {
			_, present := c.Entity(id)
			return !present
		}); err != nil {
			game.Warnf("Error waiting for crop item pick-up: %v", err)
			return bt.Failure
		}
	}

	for i := len(positions) - 1; i >= 0; i-- {
		b, ok := c.Block(positions[i])
		if !ok || !b.IsAir() {
			continue
		}
		if err := c.PlaceBlock(item, positions[i]); err != nil {
			game.Warnf("Error trying to replant a crop: %v", err)
			return bt.Failure
		}
		if err := game.YieldN(c, dropWaitYields); err != nil {
			return bt.Failure
		}
	}
	return bt.Success
}
