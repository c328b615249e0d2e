package farming

import (
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

const cobblestone = "minecraft:cobblestone"

func findStone(c game.Client, positions []game.Position) (game.Position, bool) {
	for _, p := range positions {
		// Depending on the tick the lava flows on, cobblestone can form too.
		if b, ok := c.Block(p); ok && isStone(b.Name) {
			return p, true
		}
	}
	return game.Position{}, false
}

// MineCobblestone digs one stone of the generator, triggering it through its
// note block when no stone is available, then fetches the resulting
// cobblestone from the stone shulker the drops are collected into.
func MineCobblestone(c game.Client) bt.Status {
	bb := c.Blackboard()
	stones, err := bt.Get[[]game.Position](bb, KeyStonePositions)
	if err != nil {
		game.Warnf("MineCobblestone: %v", err)
		return bt.Failure
	}

	mining, ok := findStone(c, stones)
	if !ok {
		note, err := bt.Get[game.Position](bb, PositionKey(RoleNoteBlock))
		if err != nil {
			game.Warnf("MineCobblestone: %v", err)
			return bt.Failure
		}
		if err := c.InteractWithBlock(note, game.DirDown, true); err != nil {
			game.Warnf("Error trying to activate the stone note block: %v", err)
			return bt.Failure
		}
		if err := game.YieldN(c, dropWaitYields); err != nil {
			return bt.Failure
		}
	}

	if err := game.WaitUntil(c, game.PollTimeout, func() bool {
		if ok {
			return true
		}
		mining, ok = findStone(c, stones)
		return ok
	}); err != nil {
		game.Warnf("Error waiting for stone block: %v", err)
		return bt.Failure
	}

	if err := c.Dig(mining, game.DirNorth); err != nil {
		game.Warnf("Error digging stone: %v", err)
		return bt.Failure
	}

	shulker, err := bt.Get[game.Position](bb, PositionKey(RoleStoneShulker))
	if err != nil {
		game.Warnf("MineCobblestone: %v", err)
		return bt.Failure
	}
	if err := c.OpenContainer(shulker); err != nil {
		game.Warnf("Error trying to open stone shulker: %v", err)
		return bt.Failure
	}

	id, _, opened := openedContainer(c)
	if !opened {
		game.Warnf("Container closed during stone gathering")
		return bt.Failure
	}

	src, dst := int16(-1), int16(-1)
	err = game.WaitUntil(c, game.PollTimeout, func() bool {
		w, ok := c.Window(id)
		if !ok {
			return false
		}
		src, dst = cobblestoneSlots(w)
		return src != -1
	})
	if err != nil {
		game.Warnf("Error waiting for stone item in shulker: %v", err)
		_ = c.CloseContainer(id)
		return bt.Failure
	}
	if dst == -1 {
		game.Warnf("Error trying to take stone from shulker, no slot available")
		_ = c.CloseContainer(id)
		return bt.Failure
	}

	if err := c.SwapItemsInContainer(id, src, dst); err != nil {
		game.Warnf("Error getting the stone from the shulker: %v", err)
		_ = c.CloseContainer(id)
		return bt.Failure
	}
	_ = c.CloseContainer(id)
	return bt.Success
}

// cobblestoneSlots picks the first cobblestone stack of the container and an
// inventory slot able to receive it whole.
func cobblestoneSlots(w game.Window) (src, dst int16) {
	src, dst = -1, -1
	quantity := 0
	for _, slot := range w.SlotIDs() {
		s := w.Slot(slot)
		if src == -1 && w.IsContainerSlot(slot) {
			if !s.IsEmpty() && s.Item == cobblestone {
				src = slot
				quantity = s.Count
			}
			continue
		}
		if src != -1 && !w.IsContainerSlot(slot) {
			if s.IsEmpty() || (s.Item == cobblestone && s.Count < game.DefaultStackSize-quantity) {
				return src, slot
			}
		}
	}
	return src, dst
}
