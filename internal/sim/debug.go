package sim

import (
	"encoding/json"

	"harvestbot.ai/internal/game"
)

// The Set*/Add* helpers build a farm before the behaviour runs; the
// remaining getters let tests inspect the outcome.

func (c *Client) SetBounds(minY, height int) {
	c.mu.Lock()
	c.minY, c.height = minY, height
	c.mu.Unlock()
}

func (c *Client) SetSelfPos(pos game.Vec3) {
	c.mu.Lock()
	c.self.Pos = pos
	c.mu.Unlock()
}

func (c *Client) SetBlock(pos game.Position, name string, props map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" || name == game.AirBlock {
		delete(c.blocks, pos)
		return
	}
	c.blocks[pos] = game.Block{Name: name, Props: props}
}

// AddSign places a sign whose block entity carries one JSON text component
// per line, the way signs are stored on disk.
func (c *Client) AddSign(pos game.Position, lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks[pos] = game.Block{Name: "minecraft:oak_sign"}
	data := map[string]any{}
	for i, l := range lines {
		b, _ := json.Marshal(map[string]string{"text": l})
		data["Text"+string(rune('1'+i))] = string(b)
	}
	c.blockEntities[pos] = data
}

func (c *Client) AddContainer(pos game.Position, name string, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if size <= 0 {
		size = 27
	}
	c.blocks[pos] = game.Block{Name: name}
	c.containers[pos] = &container{name: name, slots: make([]game.Slot, size)}
}

func (c *Client) SetContainerSlot(pos game.Position, slot int, item string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ct := c.containers[pos]; ct != nil && slot >= 0 && slot < len(ct.slots) {
		ct.slots[slot] = game.Slot{Item: item, Count: count}
	}
}

func (c *Client) ContainerSlots(pos game.Position) []game.Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	ct := c.containers[pos]
	if ct == nil {
		return nil
	}
	return append([]game.Slot(nil), ct.slots...)
}

func (c *Client) ContainerCount(pos game.Position, item string) int {
	n := 0
	for _, s := range c.ContainerSlots(pos) {
		if s.Item == item {
			n += s.Count
		}
	}
	return n
}

func (c *Client) SetInventorySlot(slot int16, item string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot >= 0 && int(slot) < len(c.inv) {
		c.inv[slot] = game.Slot{Item: item, Count: count}
	}
}

// AddInventory stores items the way a pickup would.
func (c *Client) AddInventory(item string, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addToInventoryLocked(item, count)
}

func (c *Client) InventoryCount(item string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countLocked(item)
}

func (c *Client) AddVillager(id int, profession string, pos game.Vec3, offers ...Offer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := &villager{Entity: game.Entity{ID: id, Type: game.EntityVillager, Profession: profession, Pos: pos}}
	for i := range offers {
		o := offers[i]
		v.offers = append(v.offers, &o)
	}
	c.villagers[id] = v
}

// AddItemEntity drops a stack that can be picked up right away.
func (c *Client) AddItemEntity(pos game.Vec3, item string, count int, moving bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spawnItemLocked(pos, item, count, c.tick, moving)
}

// AddMob places a mob of the given type. Mobs far from the bot despawn.
func (c *Client) AddMob(id int, typ game.EntityType, pos game.Vec3) {
	c.mu.Lock()
	c.mobs[id] = &game.Entity{ID: id, Type: typ, Pos: pos}
	c.mu.Unlock()
}

func (c *Client) SetStoneGenerator(noteBlock game.Position, stones []game.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasStoneGen = true
	c.stoneNote = noteBlock
	c.stonePositions = append([]game.Position(nil), stones...)
	c.blocks[noteBlock] = game.Block{Name: "minecraft:note_block"}
}

// AddHopper routes drops of blocks broken at from into the container at into.
func (c *Client) AddHopper(from, into game.Position) {
	c.mu.Lock()
	c.hoppers[from] = into
	c.mu.Unlock()
}

func (c *Client) SetHungry(h bool) {
	c.mu.Lock()
	c.hungry = h
	c.mu.Unlock()
}

func (c *Client) SetDayTime(t int64) {
	c.mu.Lock()
	c.dayTime = t
	c.mu.Unlock()
}

func (c *Client) Said() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.said...)
}

func (c *Client) Interactions() []game.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]game.Position(nil), c.interact...)
}

func (c *Client) LookedAt() game.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookAt
}

func (c *Client) Holding() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holding
}

func (c *Client) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}
