package farming

import (
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

// DefaultHostileTypes are the mobs that make the bot walk away so they
// despawn, used when HarvestBot.hostile_types is not set.
var DefaultHostileTypes = []game.EntityType{"drowned", "zombie"}

const hostileRange = 16

// StartSpawners flips every spawner switch found by InitializeHarvestBlocks.
// A farm without switches is fine.
func StartSpawners(c game.Client) bt.Status {
	switches := bt.GetOr(c.Blackboard(), PositionsKey(RoleSpawnerSwitch), []game.Position(nil))
	for _, p := range switches {
		if err := c.InteractWithBlock(p, game.DirUp, true); err != nil {
			game.Warnf("Error trying to turn on the spawner switch at %s: %v", p, err)
			return bt.Failure
		}
		if err := game.YieldN(c, dropWaitYields); err != nil {
			return bt.Failure
		}
	}
	return bt.Success
}

// CheckHostileMob succeeds when a mob of a hostile type is within 16 blocks.
func CheckHostileMob(c game.Client) bt.Status {
	types := bt.GetOr(c.Blackboard(), KeyHostileTypes, DefaultHostileTypes)
	hostile := make(map[game.EntityType]bool, len(types))
	for _, t := range types {
		hostile[t] = true
	}

	me := c.Self()
	for _, e := range c.Entities() {
		if e.ID == me.ID || !hostile[e.Type] {
			continue
		}
		if e.Pos.Sub(me.Pos).SqrNorm() <= hostileRange*hostileRange {
			return bt.Success
		}
	}
	return bt.Failure
}
