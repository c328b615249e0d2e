// Package game is the surface the bot's tasks program against: world, entity
// and inventory reads plus the blocking player actions offered by whatever
// drives the connection (the websocket bridge or the in-memory simulator).
package game

import (
	"errors"
	"time"

	"harvestbot.ai/internal/bt"
)

var (
	ErrTimeout     = errors.New("timeout")
	ErrInterrupted = errors.New("behaviour interrupted")
	ErrNoWindow    = errors.New("no opened window")
)

// World gives read access to loaded blocks.
type World interface {
	Block(pos Position) (Block, bool)
	// BlockEntity returns the tag data of a block entity (sign text, ...).
	BlockEntity(pos Position) (map[string]any, bool)
	MinY() int
	Height() int
}

type Entities interface {
	Self() Entity
	Entities() []Entity
	Entity(id int) (Entity, bool)
}

type Inventory interface {
	// FirstOpenedWindowID returns -1 when only the player inventory is open.
	FirstOpenedWindowID() int16
	Window(id int16) (Window, bool)
	PlayerInventory() Window
}

// Actions are the blocking player primitives. Each returns once the action
// is confirmed or has failed.
type Actions interface {
	GoTo(goal Position, distTolerance, minEndDist int) error
	LookAt(target Vec3) error
	OpenContainer(pos Position) error
	// CloseContainer closes windowID, or the first opened window when -1.
	CloseContainer(windowID int16) error
	SwapItemsInContainer(windowID, src, dst int16) error
	PutOneItemInContainerSlot(windowID, src, dst int16) error
	DropItemsFromContainer(windowID, slot int16) error
	Dig(pos Position, face Direction) error
	PlaceBlock(item string, pos Position) error
	InteractWithBlock(pos Position, face Direction, animation bool) error
	InteractEntity(id int, swing bool) error
	// Trade buys (or sells) item with the villager whose window is open.
	// tradeIndex -1 picks the first matching offer.
	Trade(item string, buy bool, tradeIndex int) error
	Craft(recipe Recipe, allowInventoryCraft bool) error
	Eat(food string, waitConfirmation bool) error
	SetItemInHand(item string, hand Hand) error
	SortInventory() error
	Say(msg string) error
}

type PlayerState interface {
	IsHungry() bool
	IsNightTime() bool
	Name() string
}

// Client is everything a task function may call.
type Client interface {
	World
	Entities
	Inventory
	Actions
	PlayerState
	bt.Interruptible
	bt.Traced

	Blackboard() *bt.Blackboard
	// Yield hands control back for one client tick. It fails with
	// ErrInterrupted once the running behaviour is stopped or replaced.
	Yield() error
	Now() time.Time
	StopBehaviour()
}

// Node is a behaviour tree node over a Client.
type Node = bt.Node[Client]
