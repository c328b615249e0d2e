package sim

import (
	"strconv"

	"harvestbot.ai/internal/game"
)

func (c *Client) stepLocked() {
	c.tick++
	c.now = c.now.Add(TickDuration)
	c.dayTime++

	if c.tick%growTicks == 0 {
		c.growLocked()
	}
	for id, m := range c.mobs {
		if m.Pos.Sub(c.self.Pos).SqrNorm() > despawnDistSqr {
			delete(c.mobs, id)
		}
	}

	for id, it := range c.items {
		if it.Speed != (game.Vec3{}) && c.tick-it.bornTick >= settleTicks {
			it.Speed = game.Vec3{}
		}
		if c.tick < it.pickupAfter {
			continue
		}
		if it.Pos.Sub(c.self.Pos).SqrNorm() > pickupRadiusSqr {
			continue
		}
		left := c.addToInventoryLocked(it.Item.Item, it.Item.Count)
		if left == 0 {
			delete(c.items, id)
			continue
		}
		it.Item.Count = left
	}
}

// growLocked ages every crop by one stage.
func (c *Client) growLocked() {
	for p, b := range c.blocks {
		rule, ok := crops[b.Name]
		if !ok {
			continue
		}
		age, err := strconv.Atoi(b.Prop("age"))
		if err != nil || strconv.Itoa(age) == rule.maxAge {
			continue
		}
		c.blocks[p] = game.Block{Name: b.Name, Props: map[string]string{"age": strconv.Itoa(age + 1)}}
	}
}

// addToInventoryLocked stores count items, topping up stacks first, and
// returns what did not fit.
func (c *Client) addToInventoryLocked(item string, count int) int {
	for i := game.InventoryStorageStart; i < game.InventoryOffhand && count > 0; i++ {
		s := &c.inv[i]
		if s.Item == item && s.Count < game.DefaultStackSize {
			n := min(count, game.DefaultStackSize-s.Count)
			s.Count += n
			count -= n
		}
	}
	for i := game.InventoryStorageStart; i < game.InventoryOffhand && count > 0; i++ {
		s := &c.inv[i]
		if s.IsEmpty() {
			n := min(count, game.DefaultStackSize)
			*s = game.Slot{Item: item, Count: n}
			count -= n
		}
	}
	return count
}

func (c *Client) countLocked(item string) int {
	n := 0
	for i := int(game.InventoryStorageStart); i < len(c.inv); i++ {
		if c.inv[i].Item == item {
			n += c.inv[i].Count
		}
	}
	return n
}

// removeLocked takes count items out of the inventory, reporting false (and
// changing nothing) when there are not enough.
func (c *Client) removeLocked(item string, count int) bool {
	if c.countLocked(item) < count {
		return false
	}
	for i := len(c.inv) - 1; i >= int(game.InventoryStorageStart) && count > 0; i-- {
		s := &c.inv[i]
		if s.Item != item {
			continue
		}
		n := min(count, s.Count)
		s.Count -= n
		count -= n
		if s.Count == 0 {
			*s = game.Slot{}
		}
	}
	return true
}

func (c *Client) spawnItemLocked(pos game.Vec3, item string, count int, pickupAfter uint64, moving bool) int {
	c.nextID++
	it := &itemEntity{
		Entity: game.Entity{
			ID:   c.nextID,
			Type: game.EntityItem,
			Pos:  pos,
			Item: game.Slot{Item: item, Count: count},
		},
		bornTick:    c.tick,
		pickupAfter: pickupAfter,
	}
	if moving {
		it.Speed = game.Vec3{Y: 0.2}
	}
	c.items[it.ID] = it
	return it.ID
}
