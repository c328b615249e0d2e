package farming

import (
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

// DestroyItems throws every stack of item in the inventory onto the disposal
// block.
func DestroyItems(c game.Client, item string) bt.Status {
	inv := c.PlayerInventory()
	var slots []int16
	for _, slot := range inv.SlotIDs() {
		s := inv.Slot(slot)
		if slot >= inv.FirstPlayerInventorySlot && !s.IsEmpty() && s.Item == item {
			slots = append(slots, slot)
		}
	}
	if len(slots) == 0 {
		return bt.Success
	}

	bb := c.Blackboard()
	standing, err := bt.Get[game.Position](bb, StandingKey(RoleDisposal))
	if err != nil {
		game.Warnf("DestroyItems: %v", err)
		return bt.Failure
	}
	disposal, err := bt.Get[game.Position](bb, PositionKey(RoleDisposal))
	if err != nil {
		game.Warnf("DestroyItems: %v", err)
		return bt.Failure
	}

	if err := c.GoTo(standing, 0, 0); err != nil {
		game.Warnf("Error trying to go to the disposal standing position: %v", err)
		return bt.Failure
	}
	_ = c.LookAt(disposal.Center())

	for _, slot := range slots {
		if err := c.DropItemsFromContainer(game.PlayerInventoryIndex, slot); err != nil {
			game.Warnf("Error trying to drop the items on the disposal block: %v", err)
			return bt.Failure
		}
	}
	return bt.Success
}
