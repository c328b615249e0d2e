// Package storage manages a bank of chests around the bot: finding them,
// fetching food and moving the inventory in or out of them.
package storage

import (
	"sort"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

const (
	KeyChests    = "World.ChestsPos"
	KeyBlockList = "Inventory.block_list"
)

// DefaultRadius is how far GetAllChestsAround looks when given no radius.
const DefaultRadius = 16

// chestReach is how close the bot walks to a chest before opening it.
const chestReach = 4

// GetAllChestsAround stores the positions of every container within radius
// under World.ChestsPos, nearest first. It always succeeds.
func GetAllChestsAround(c game.Client, radius int) bt.Status {
	if radius <= 0 {
		radius = DefaultRadius
	}
	me := c.Self().Pos.Floor()
	minY := max(me.Y-radius, c.MinY())
	maxY := min(me.Y+radius, c.MinY()+c.Height()-1)

	var chests []game.Position
	for x := -radius; x <= radius; x++ {
		for y := minY; y <= maxY; y++ {
			for z := -radius; z <= radius; z++ {
				p := game.Position{X: me.X + x, Y: y, Z: me.Z + z}
				if b, ok := c.Block(p); ok && b.IsContainer() {
					chests = append(chests, p)
				}
			}
		}
	}
	sort.SliceStable(chests, func(i, j int) bool {
		return chests[i].SqrDist(me) < chests[j].SqrDist(me)
	})
	c.Blackboard().Set(KeyChests, chests)
	return bt.Success
}

// GetSomeFood looks through the known chests for a stack of food and moves
// it to the inventory.
func GetSomeFood(c game.Client, food string) bt.Status {
	if c.PlayerInventory().CountInInventory(food) > 0 {
		return bt.Success
	}
	chests, err := bt.Get[[]game.Position](c.Blackboard(), KeyChests)
	if err != nil {
		game.Warnf("GetSomeFood: %v", err)
		return bt.Failure
	}

	for _, pos := range chests {
		id, w, ok := openChest(c, pos)
		if !ok {
			continue
		}
		src, dst := int16(-1), int16(-1)
		for _, slot := range w.SlotIDs() {
			s := w.Slot(slot)
			if src == -1 && w.IsContainerSlot(slot) && s.Item == food && !s.IsEmpty() {
				src = slot
			} else if dst == -1 && !w.IsContainerSlot(slot) && s.IsEmpty() {
				dst = slot
			}
		}
		if dst == -1 {
			game.Warnf("No free inventory slot to take %s", food)
			_ = c.CloseContainer(id)
			return bt.Failure
		}
		if src == -1 {
			_ = c.CloseContainer(id)
			continue
		}
		err := c.SwapItemsInContainer(id, src, dst)
		_ = c.CloseContainer(id)
		if err != nil {
			game.Warnf("Error trying to take %s from chest at %s: %v", food, pos, err)
			return bt.Failure
		}
		return bt.Success
	}
	return bt.Failure
}

// SwapChestsInventory either fills the inventory from the known chests
// (takeFromChest) or empties it into them. Stacks of keep are never moved.
// It succeeds once the inventory is full, or once nothing but keep is left
// in it.
func SwapChestsInventory(c game.Client, keep string, takeFromChest bool) bt.Status {
	chests, err := bt.Get[[]game.Position](c.Blackboard(), KeyChests)
	if err != nil {
		game.Warnf("SwapChestsInventory: %v", err)
		return bt.Failure
	}

	for _, pos := range chests {
		id, w, ok := openChest(c, pos)
		if !ok {
			continue
		}
		var from, to []int16
		for _, slot := range w.SlotIDs() {
			s := w.Slot(slot)
			inContainer := w.IsContainerSlot(slot)
			switch {
			case s.IsEmpty() && inContainer != takeFromChest:
				to = append(to, slot)
			case !s.IsEmpty() && s.Item != keep && inContainer == takeFromChest:
				from = append(from, slot)
			}
		}

		n := min(len(from), len(to))
		for i := 0; i < n; i++ {
			if err := c.SwapItemsInContainer(id, from[i], to[i]); err != nil {
				game.Warnf("Error trying to swap items with chest at %s: %v", pos, err)
				_ = c.CloseContainer(id)
				return bt.Failure
			}
		}
		_ = c.CloseContainer(id)

		// Taking is done once every free inventory slot got a stack,
		// depositing once every stack found a place.
		if takeFromChest && n == len(to) {
			return bt.Success
		}
		if !takeFromChest && n == len(from) {
			return bt.Success
		}
	}
	return bt.Failure
}

func openChest(c game.Client, pos game.Position) (int16, game.Window, bool) {
	if err := c.GoTo(pos, chestReach, 0); err != nil {
		game.Warnf("Can't reach chest at %s: %v", pos, err)
		return -1, game.Window{}, false
	}
	if err := c.OpenContainer(pos); err != nil {
		game.Warnf("Can't open chest at %s: %v", pos, err)
		return -1, game.Window{}, false
	}
	var id int16 = -1
	if err := game.WaitUntil(c, game.PollTimeout, func() bool {
		id = c.FirstOpenedWindowID()
		return id >= 0
	}); err != nil {
		game.Warnf("Chest at %s never opened: %v", pos, err)
		return -1, game.Window{}, false
	}
	w, ok := c.Window(id)
	return id, w, ok
}

// GetBlocksAvailableInInventory stores the distinct items of the main
// inventory and hotbar under Inventory.block_list. It fails when there are
// none.
func GetBlocksAvailableInInventory(c game.Client) bt.Status {
	inv := c.PlayerInventory()
	seen := map[string]bool{}
	var items []string
	for _, slot := range inv.SlotIDs() {
		if slot < game.InventoryStorageStart || slot >= game.InventoryOffhand {
			continue
		}
		s := inv.Slot(slot)
		if s.IsEmpty() || seen[s.Item] {
			continue
		}
		seen[s.Item] = true
		items = append(items, s.Item)
	}
	c.Blackboard().Set(KeyBlockList, items)
	return bt.FromBool(len(items) > 0)
}

// WarnConsole logs msg as a warning tagged with the bot name.
func WarnConsole(c game.Client, msg string) bt.Status {
	game.Warnf("[%s] %s", c.Name(), msg)
	return bt.Success
}
