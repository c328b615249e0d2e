package farming

import (
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

const (
	openWaitYields = 100
	dropWaitYields = 50
)

// openedContainer returns the first opened window.
func openedContainer(c game.Client) (int16, game.Window, bool) {
	id := c.FirstOpenedWindowID()
	if id < 0 {
		return id, game.Window{}, false
	}
	w, ok := c.Window(id)
	return id, w, ok
}

// TakeFromChest moves stacks of item from the opened container into empty
// inventory slots until the inventory holds at least n of them.
func TakeFromChest(c game.Client, item string, n int) bt.Status {
	id, container, ok := openedContainer(c)
	if !ok {
		game.Warnf("Container closed during in chest item taking")
		return bt.Failure
	}

	var available, toTake []int16
	inInventory := 0
	for _, slot := range container.SlotIDs() {
		s := container.Slot(slot)
		switch {
		case !s.IsEmpty() && s.Item == item:
			if container.IsContainerSlot(slot) {
				toTake = append(toTake, slot)
			} else {
				inInventory += s.Count
			}
		case !container.IsContainerSlot(slot) && s.IsEmpty():
			available = append(available, slot)
		}
	}

	for i := 0; inInventory < n && i < len(toTake) && i < len(available); i++ {
		if err := c.SwapItemsInContainer(id, toTake[i], available[i]); err != nil {
			game.Warnf("Error trying to take an item from a chest: %v", err)
			return bt.Failure
		}
		w, ok := c.Window(id)
		if !ok {
			game.Warnf("Container closed during in chest item taking")
			return bt.Failure
		}
		inInventory += w.Slot(available[i]).Count
	}

	return bt.FromBool(inInventory >= n)
}

// CleanChest empties the chest at the position stored under chestKey of every
// item other than keep, throwing the removed stacks on the disposal block. It
// loops until the chest only holds keep.
func CleanChest(c game.Client, chestKey, keep string) bt.Status {
	bb := c.Blackboard()
	pos, err := bt.Get[game.Position](bb, chestKey)
	if err != nil {
		game.Warnf("CleanChest: %v", err)
		return bt.Failure
	}
	standing, err := bt.Get[game.Position](bb, StandingKey(RoleDisposal))
	if err != nil {
		game.Warnf("CleanChest: %v", err)
		return bt.Failure
	}
	disposal, err := bt.Get[game.Position](bb, PositionKey(RoleDisposal))
	if err != nil {
		game.Warnf("CleanChest: %v", err)
		return bt.Failure
	}

	for hasWrongItems := true; hasWrongItems; {
		if err := c.OpenContainer(pos); err != nil {
			game.Warnf("Failed to open container for cleaning: %v", err)
			return bt.Failure
		}
		if err := game.YieldN(c, openWaitYields); err != nil {
			return bt.Failure
		}

		id, container, ok := openedContainer(c)
		if !ok {
			game.Warnf("Container closed during chest cleaning")
			return bt.Failure
		}

		var toRemove, free []int16
		for _, slot := range container.SlotIDs() {
			s := container.Slot(slot)
			if container.IsContainerSlot(slot) && !s.IsEmpty() && s.Item != keep {
				toRemove = append(toRemove, slot)
			} else if !container.IsContainerSlot(slot) && s.IsEmpty() {
				free = append(free, slot)
			}
		}

		if len(free) == 0 {
			game.Warnf("Can't clean chest, no free slot in inventory to take items")
			_ = c.CloseContainer(id)
			return bt.Failure
		}

		var trash []int16
		i := 0
		for ; i < len(toRemove) && i < len(free); i++ {
			if err := c.SwapItemsInContainer(id, toRemove[i], free[i]); err != nil {
				game.Warnf("Error trying to swap transfer items from chest to inventory: %v", err)
				_ = c.CloseContainer(id)
				return bt.Failure
			}
			trash = append(trash, free[i]-container.FirstPlayerInventorySlot+game.InventoryStorageStart)
		}
		_ = c.CloseContainer(id)

		if len(trash) == 0 {
			return bt.Success
		}
		hasWrongItems = i < len(toRemove)

		if status := dropAt(c, standing, disposal, trash); status == bt.Failure {
			return bt.Failure
		}
	}
	return bt.Success
}

// dropAt walks to standing, faces target and drops the given player
// inventory slots one after the other.
func dropAt(c game.Client, standing, target game.Position, slots []int16) bt.Status {
	if err := c.GoTo(standing, 0, 0); err != nil {
		game.Warnf("Error trying to go to the disposal standing position: %v", err)
		return bt.Failure
	}
	_ = c.LookAt(target.Center())

	for _, slot := range slots {
		if err := c.DropItemsFromContainer(game.PlayerInventoryIndex, slot); err != nil {
			game.Warnf("Error trying to drop the items on the disposal block: %v", err)
			return bt.Failure
		}
		if err := game.YieldN(c, dropWaitYields); err != nil {
			return bt.Failure
		}
	}
	return bt.Success
}

// StoreItem puts one item from the inventory into the output container. It
// succeeds without doing anything when the inventory holds no such item.
func StoreItem(c game.Client, item string) bt.Status {
	pos, err := bt.Get[game.Position](c.Blackboard(), PositionKey(RoleOutput))
	if err != nil {
		game.Warnf("StoreItem: %v", err)
		return bt.Failure
	}
	if err := c.OpenContainer(pos); err != nil {
		game.Warnf("Can't open output chest to store %s: %v", item, err)
		return bt.Failure
	}
	if err := game.YieldN(c, openWaitYields); err != nil {
		return bt.Failure
	}

	id, container, ok := openedContainer(c)
	if !ok {
		game.Warnf("Container closed during %s storing", item)
		return bt.Failure
	}

	dst, src := int16(-1), int16(-1)
	for _, slot := range container.SlotIDs() {
		s := container.Slot(slot)
		if dst == -1 && container.IsContainerSlot(slot) &&
			(s.IsEmpty() || (s.Item == item && s.Count < game.DefaultStackSize-1)) {
			dst = slot
		} else if src == -1 && !container.IsContainerSlot(slot) && s.Item == item && !s.IsEmpty() {
			src = slot
		}
		if src != -1 && dst != -1 {
			break
		}
	}

	if src == -1 {
		_ = c.CloseContainer(id)
		return bt.Success
	}
	if dst == -1 {
		game.Warnf("Can't find a place for the %s in the chest", item)
		_ = c.CloseContainer(id)
		return bt.Failure
	}

	if err := c.PutOneItemInContainerSlot(id, src, dst); err != nil {
		game.Warnf("Error trying to transfer %s into chest: %v", item, err)
		_ = c.CloseContainer(id)
		return bt.Failure
	}
	_ = c.CloseContainer(id)
	return bt.Success
}
