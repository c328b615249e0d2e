package game

import (
	"fmt"
	"sort"
	"strings"
)

type Position struct{ X, Y, Z int }

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

func (p Position) SqrDist(o Position) int {
	dx, dy, dz := p.X-o.X, p.Y-o.Y, p.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Center is the middle of the block at p.
func (p Position) Center() Vec3 {
	return Vec3{X: float64(p.X) + 0.5, Y: float64(p.Y) + 0.5, Z: float64(p.Z) + 0.5}
}

func (p Position) String() string { return fmt.Sprintf("[%d, %d, %d]", p.X, p.Y, p.Z) }

type Vec3 struct{ X, Y, Z float64 }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) SqrNorm() float64 { return v.X*v.X + v.Y*v.Y + v.Z*v.Z }

func (v Vec3) Floor() Position {
	return Position{X: floor(v.X), Y: floor(v.Y), Z: floor(v.Z)}
}

func (v Vec3) String() string { return fmt.Sprintf("[%.2f, %.2f, %.2f]", v.X, v.Y, v.Z) }

func floor(f float64) int {
	i := int(f)
	if f < 0 && float64(i) != f {
		i--
	}
	return i
}

type Direction int

const (
	DirDown Direction = iota
	DirUp
	DirNorth
	DirSouth
	DirWest
	DirEast
)

var directionNames = [...]string{"down", "up", "north", "south", "west", "east"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

type Hand int

const (
	HandRight Hand = iota
	HandLeft
)

func (h Hand) String() string {
	if h == HandLeft {
		return "left"
	}
	return "right"
}

const AirBlock = "minecraft:air"

// Day cycle in game ticks. Beds can be used between NightStart and NightEnd.
const (
	DayLength  = 24000
	NightStart = 12542
	NightEnd   = 23460
)

// IsNight reports whether the world day time falls in the night.
func IsNight(dayTime int64) bool {
	t := dayTime % DayLength
	return t >= NightStart && t < NightEnd
}

// Block is a block state: a name plus its variable properties (age, facing...).
type Block struct {
	Name  string            `json:"name"`
	Props map[string]string `json:"props,omitempty"`
}

func (b Block) IsAir() bool {
	switch b.Name {
	case "", AirBlock, "minecraft:cave_air", "minecraft:void_air":
		return true
	}
	return false
}

func (b Block) Prop(key string) string {
	if b.Props == nil {
		return ""
	}
	return b.Props[key]
}

func (b Block) IsSign() bool { return strings.HasSuffix(b.Name, "_sign") }

func (b Block) IsContainer() bool {
	switch {
	case b.Name == "minecraft:chest", b.Name == "minecraft:trapped_chest", b.Name == "minecraft:barrel":
		return true
	case strings.HasSuffix(b.Name, "shulker_box"):
		return true
	}
	return false
}

type Slot struct {
	Item  string `json:"item,omitempty"`
	Count int    `json:"count,omitempty"`
}

func (s Slot) IsEmpty() bool { return s.Item == "" || s.Count <= 0 }

// Window layout constants, matching the vanilla player inventory.
const (
	PlayerInventoryIndex  int16 = 0
	InventoryStorageStart int16 = 9
	InventoryHotbarStart  int16 = 36
	InventoryOffhand      int16 = 45
	DefaultStackSize            = 64
)

// Window is a copy of an open container (or the player inventory, id 0).
// Slots below FirstPlayerInventorySlot belong to the container.
type Window struct {
	ID                       int16
	Type                     string
	Slots                    map[int16]Slot
	FirstPlayerInventorySlot int16
}

func (w Window) Slot(id int16) Slot { return w.Slots[id] }

// SlotIDs returns every slot id in ascending order.
func (w Window) SlotIDs() []int16 {
	out := make([]int16, 0, len(w.Slots))
	for id := range w.Slots {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w Window) IsContainerSlot(id int16) bool { return id < w.FirstPlayerInventorySlot }

// CountInInventory sums item over the player part of the window.
func (w Window) CountInInventory(item string) int {
	n := 0
	for id, s := range w.Slots {
		if id >= w.FirstPlayerInventorySlot && s.Item == item {
			n += s.Count
		}
	}
	return n
}

func (w Window) Clone() Window {
	out := w
	out.Slots = make(map[int16]Slot, len(w.Slots))
	for k, v := range w.Slots {
		out.Slots[k] = v
	}
	return out
}

type EntityType string

const (
	EntityPlayer   EntityType = "player"
	EntityItem     EntityType = "item"
	EntityVillager EntityType = "villager"
)

type Entity struct {
	ID         int        `json:"id"`
	Type       EntityType `json:"type"`
	Profession string     `json:"profession,omitempty"`
	Pos        Vec3       `json:"pos"`
	Speed      Vec3       `json:"speed"`
	Item       Slot       `json:"item,omitempty"`
}

// Recipe is a 3x3 crafting grid of item names, empty strings for blanks.
type Recipe [3][3]string
