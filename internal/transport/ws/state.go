package ws

import (
	"harvestbot.ai/internal/game"
	"harvestbot.ai/internal/protocol"
)

func toPos(a [3]int) game.Position { return game.Position{X: a[0], Y: a[1], Z: a[2]} }

func toVec(a [3]float64) game.Vec3 { return game.Vec3{X: a[0], Y: a[1], Z: a[2]} }

func toEntity(e protocol.EntityObs) game.Entity {
	out := game.Entity{
		ID:         e.ID,
		Type:       game.EntityType(e.Type),
		Profession: e.Profession,
		Pos:        toVec(e.Pos),
		Speed:      toVec(e.Speed),
	}
	if e.Item != nil {
		out.Item = game.Slot{Item: e.Item.Item, Count: e.Item.Count}
	}
	return out
}

func toWindow(w protocol.WindowObs) game.Window {
	out := game.Window{
		ID:                       w.ID,
		Type:                     w.Type,
		Slots:                    make(map[int16]game.Slot, len(w.Slots)),
		FirstPlayerInventorySlot: w.FirstPlayerInventorySlot,
	}
	for _, s := range w.Slots {
		out.Slots[s.Slot] = game.Slot{Item: s.Item, Count: s.Count}
	}
	return out
}

// applyState folds one STATE into the cache and wakes up yielders.
func (c *Client) applyState(st *protocol.StateMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick = st.Tick
	c.dayTime = st.DayTime
	c.hunger = st.Hunger
	c.self = toEntity(st.Self)

	c.entities = make(map[int]game.Entity, len(st.Entities))
	for _, e := range st.Entities {
		c.entities[e.ID] = toEntity(e)
	}

	for _, b := range st.Blocks {
		p := toPos(b.Pos)
		c.blocks[p] = game.Block{Name: b.Name, Props: b.Props}
		if len(b.Entity) > 0 {
			c.blockEntities[p] = b.Entity
		} else {
			delete(c.blockEntities, p)
		}
	}

	c.windows = make(map[int16]game.Window, len(st.Windows))
	for _, w := range st.Windows {
		c.windows[w.ID] = toWindow(w)
	}
	c.opened = st.OpenedWindow

	close(c.tickCh)
	c.tickCh = make(chan struct{})
}

func (c *Client) Block(pos game.Position) (game.Block, bool) {
	if pos.Y < c.welcome.MinY || pos.Y >= c.welcome.MinY+c.welcome.Height {
		return game.Block{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blocks[pos]
	if !ok {
		return game.Block{}, false
	}
	if b.Props != nil {
		props := make(map[string]string, len(b.Props))
		for k, v := range b.Props {
			props[k] = v
		}
		b.Props = props
	}
	return b, true
}

func (c *Client) BlockEntity(pos game.Position) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.blockEntities[pos]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out, true
}

func (c *Client) MinY() int   { return c.welcome.MinY }
func (c *Client) Height() int { return c.welcome.Height }

func (c *Client) Self() game.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.self
}

func (c *Client) Entities() []game.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]game.Entity, 0, len(c.entities))
	for _, e := range c.entities {
		out = append(out, e)
	}
	return out
}

func (c *Client) Entity(id int) (game.Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.self.ID {
		return c.self, true
	}
	e, ok := c.entities[id]
	return e, ok
}

func (c *Client) FirstOpenedWindowID() int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

func (c *Client) Window(id int16) (game.Window, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, ok := c.windows[id]
	if !ok {
		return game.Window{}, false
	}
	return w.Clone(), true
}

func (c *Client) PlayerInventory() game.Window {
	w, _ := c.Window(game.PlayerInventoryIndex)
	return w
}

func (c *Client) IsHungry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hunger < hungerFull
}

func (c *Client) IsNightTime() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return game.IsNight(c.dayTime)
}

// Tick is the last game tick reported by the bridge.
func (c *Client) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}
