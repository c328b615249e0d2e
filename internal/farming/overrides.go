package farming

import (
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

// RolePosition pins a sign role without a sign. A nil Standing means the
// block right above Position.
type RolePosition struct {
	Position game.Position
	Standing *game.Position
}

// ApplyRoleOverrides writes pinned roles over whatever the sign scan found.
func ApplyRoleOverrides(c game.Client, roles map[string]RolePosition) bt.Status {
	bb := c.Blackboard()
	for role, rp := range roles {
		standing := rp.Position.Add(game.Position{Y: 1})
		if rp.Standing != nil {
			standing = *rp.Standing
		}
		bb.Set(PositionKey(role), rp.Position)
		bb.Set(StandingKey(role), standing)
		if !bb.Has(PositionsKey(role)) {
			bb.Set(PositionsKey(role), []game.Position{rp.Position})
		}
		if role == RoleStone {
			bb.Set(KeyStonePositions, generatorCells(c, standing))
		}
	}
	return bt.Success
}

// PinStonePositions replaces the scanned generator cells with a fixed list.
// An empty list keeps the scan.
func PinStonePositions(c game.Client, positions []game.Position) bt.Status {
	if len(positions) == 0 {
		return bt.Success
	}
	c.Blackboard().Set(KeyStonePositions, append([]game.Position(nil), positions...))
	return bt.Success
}
