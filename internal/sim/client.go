// Package sim is an in-memory farm that implements game.Client. It models
// just enough of the game for the farming tasks to run end to end: blocks,
// containers, dropped items, villagers with trade offers, crafting and a day
// clock. Time is virtual and advances by one tick per Yield.
package sim

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"harvestbot.ai/internal/game"
)

// TickDuration is the virtual time one Yield advances.
const TickDuration = 10 * time.Millisecond

const (
	playerInventorySize = 46
	pickupDelayTicks    = 40
	settleTicks         = 5
	pickupRadiusSqr     = 2.5 * 2.5
	growTicks           = 600
	despawnDistSqr      = 128 * 128
)

type container struct {
	name  string
	slots []game.Slot
}

type windowKind int

const (
	windowContainer windowKind = iota + 1
	windowVillager
	windowCrafting
)

type openWindow struct {
	id       int16
	kind     windowKind
	pos      game.Position
	villager int
}

type Offer struct {
	Input       string `yaml:"input"`
	InputCount  int    `yaml:"input_count"`
	Output      string `yaml:"output"`
	OutputCount int    `yaml:"output_count"`
	MaxUses     int    `yaml:"max_uses,omitempty"`
	uses        int
}

type itemEntity struct {
	game.Entity
	bornTick    uint64
	pickupAfter uint64
}

// Client is a simulated bot connected to a simulated farm.
type Client struct {
	*game.Behaviour

	mu sync.Mutex

	name   string
	minY   int
	height int

	blocks        map[game.Position]game.Block
	blockEntities map[game.Position]map[string]any
	containers    map[game.Position]*container

	self     game.Entity
	inv      []game.Slot
	hungry   bool
	dayTime  int64
	tick     uint64
	now      time.Time
	lookAt   game.Vec3
	holding  string
	said     []string
	interact []game.Position

	villagers map[int]*villager
	items     map[int]*itemEntity
	mobs      map[int]*game.Entity
	nextID    int

	window     *openWindow
	nextWindow int16

	stoneNote      game.Position
	stonePositions []game.Position
	hasStoneGen    bool
	hoppers        map[game.Position]game.Position

	matureDigs int

	failures map[string]error
}

type villager struct {
	game.Entity
	offers []*Offer
}

func New(name string) *Client {
	return &Client{
		Behaviour:     game.NewBehaviour(nil),
		name:          name,
		minY:          -64,
		height:        384,
		blocks:        map[game.Position]game.Block{},
		blockEntities: map[game.Position]map[string]any{},
		containers:    map[game.Position]*container{},
		self:          game.Entity{ID: 1, Type: game.EntityPlayer},
		inv:           make([]game.Slot, playerInventorySize),
		dayTime:       1000,
		now:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		villagers:     map[int]*villager{},
		items:         map[int]*itemEntity{},
		mobs:          map[int]*game.Entity{},
		nextID:        1000,
		hoppers:       map[game.Position]game.Position{},
		failures:      map[string]error{},
	}
}

var _ game.Client = (*Client)(nil)

func (c *Client) Name() string { return c.name }

// Fail makes every later call of the named action return err until cleared
// with a nil err.
func (c *Client) Fail(action string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, action)
		return
	}
	c.failures[action] = err
}

func (c *Client) failure(action string) error {
	return c.failures[action]
}

// ---- World ----

func (c *Client) Block(pos game.Position) (game.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos.Y < c.minY || pos.Y >= c.minY+c.height {
		return game.Block{}, false
	}
	b, ok := c.blocks[pos]
	if !ok {
		return game.Block{Name: game.AirBlock}, true
	}
	return copyBlock(b), true
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

func (c *Client) MinY() int   { return c.minY }
func (c *Client) Height() int { return c.height }

// ---- Entities ----

func (c *Client) Self() game.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.self
}

func (c *Client) Entities() []game.Entity {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]game.Entity, 0, len(c.items)+len(c.villagers)+len(c.mobs)+1)
	out = append(out, c.self)
	for _, v := range c.villagers {
		out = append(out, v.Entity)
	}
	for _, m := range c.mobs {
		out = append(out, *m)
	}
	for _, it := range c.items {
		out = append(out, it.Entity)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Client) Entity(id int) (game.Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == c.self.ID {
		return c.self, true
	}
	if v, ok := c.villagers[id]; ok {
		return v.Entity, true
	}
	if it, ok := c.items[id]; ok {
		return it.Entity, true
	}
	if m, ok := c.mobs[id]; ok {
		return *m, true
	}
	return game.Entity{}, false
}

// ---- Inventory ----

func (c *Client) FirstOpenedWindowID() int16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.window == nil {
		return -1
	}
	return c.window.id
}

func (c *Client) Window(id int16) (game.Window, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == game.PlayerInventoryIndex {
		return c.playerWindowLocked(), true
	}
	if c.window == nil || c.window.id != id {
		return game.Window{}, false
	}
	return c.openWindowLocked(), true
}

func (c *Client) PlayerInventory() game.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerWindowLocked()
}

func (c *Client) playerWindowLocked() game.Window {
	w := game.Window{
		ID:                       game.PlayerInventoryIndex,
		Type:                     "inventory",
		Slots:                    make(map[int16]game.Slot, len(c.inv)),
		FirstPlayerInventorySlot: game.InventoryStorageStart,
	}
	for i, s := range c.inv {
		w.Slots[int16(i)] = s
	}
	return w
}

// containerSize is the number of window slots owned by the open container.
func (c *Client) containerSizeLocked() int16 {
	switch c.window.kind {
	case windowContainer:
		return int16(len(c.containers[c.window.pos].slots))
	case windowCrafting:
		return 10
	default:
		return 3
	}
}

func (c *Client) openWindowLocked() game.Window {
	size := c.containerSizeLocked()
	w := game.Window{
		ID:                       c.window.id,
		Slots:                    map[int16]game.Slot{},
		FirstPlayerInventorySlot: size,
	}
	switch c.window.kind {
	case windowContainer:
		ct := c.containers[c.window.pos]
		w.Type = ct.name
		for i, s := range ct.slots {
			w.Slots[int16(i)] = s
		}
	case windowCrafting:
		w.Type = "minecraft:crafting_table"
		for i := int16(0); i < size; i++ {
			w.Slots[i] = game.Slot{}
		}
	default:
		w.Type = "minecraft:merchant"
		for i := int16(0); i < size; i++ {
			w.Slots[i] = game.Slot{}
		}
	}
	for i := game.InventoryStorageStart; i < game.InventoryOffhand; i++ {
		w.Slots[size+i-game.InventoryStorageStart] = c.inv[i]
	}
	return w
}

// slotLocked resolves a window slot to the backing storage.
func (c *Client) slotLocked(windowID, slot int16) (*game.Slot, error) {
	if windowID == game.PlayerInventoryIndex {
		if slot < 0 || int(slot) >= len(c.inv) {
			return nil, fmt.Errorf("slot %d out of range", slot)
		}
		return &c.inv[slot], nil
	}
	if c.window == nil || c.window.id != windowID {
		return nil, fmt.Errorf("window %d: %w", windowID, game.ErrNoWindow)
	}
	size := c.containerSizeLocked()
	if slot >= size {
		inv := slot - size + game.InventoryStorageStart
		if inv >= game.InventoryOffhand {
			return nil, fmt.Errorf("slot %d out of range", slot)
		}
		return &c.inv[inv], nil
	}
	if slot < 0 || c.window.kind != windowContainer {
		return nil, fmt.Errorf("slot %d not writable", slot)
	}
	return &c.containers[c.window.pos].slots[slot], nil
}

// ---- Player state ----

func (c *Client) IsHungry() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hungry
}

func (c *Client) IsNightTime() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return game.IsNight(c.dayTime)
}

func (c *Client) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Yield advances the farm by one tick.
func (c *Client) Yield() error {
	if c.Interrupted() {
		return game.ErrInterrupted
	}
	c.mu.Lock()
	c.stepLocked()
	c.mu.Unlock()
	return nil
}

func copyBlock(b game.Block) game.Block {
	if b.Props == nil {
		return b
	}
	p := make(map[string]string, len(b.Props))
	for k, v := range b.Props {
		p[k] = v
	}
	b.Props = p
	return b
}
