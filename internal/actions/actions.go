package actions

import (
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

// HasItemInInventory succeeds when the player inventory holds at least n of
// item.
func HasItemInInventory(c game.Client, item string, n int) bt.Status {
	return bt.FromBool(c.PlayerInventory().CountInInventory(item) >= n)
}

func IsHungry(c game.Client) bt.Status { return bt.FromBool(c.IsHungry()) }

func IsNightTime(c game.Client) bt.Status { return bt.FromBool(c.IsNightTime()) }

// Yield gives the connection one tick.
func Yield(c game.Client) bt.Status {
	return bt.FromBool(c.Yield() == nil)
}

func GoTo(c game.Client, goal game.Position, distTolerance, minEndDist int) bt.Status {
	if err := c.GoTo(goal, distTolerance, minEndDist); err != nil {
		game.Warnf("Error trying to go to %s: %v", goal, err)
		return bt.Failure
	}
	return bt.Success
}

func OpenContainer(c game.Client, pos game.Position) bt.Status {
	if err := c.OpenContainer(pos); err != nil {
		game.Warnf("Error trying to open container at %s: %v", pos, err)
		return bt.Failure
	}
	return bt.Success
}

// CloseContainer closes windowID, or the first opened window when it is -1.
func CloseContainer(c game.Client, windowID int16) bt.Status {
	if err := c.CloseContainer(windowID); err != nil {
		game.Warnf("Error trying to close container: %v", err)
		return bt.Failure
	}
	return bt.Success
}

func InteractEntity(c game.Client, id int, swing bool) bt.Status {
	if err := c.InteractEntity(id, swing); err != nil {
		game.Warnf("Error trying to interact with entity %d: %v", id, err)
		return bt.Failure
	}
	return bt.Success
}

func InteractWithBlock(c game.Client, pos game.Position, animation bool) bt.Status {
	if err := c.InteractWithBlock(pos, game.DirUp, animation); err != nil {
		game.Warnf("Error trying to interact with block at %s: %v", pos, err)
		return bt.Failure
	}
	return bt.Success
}

// Trade buys (or sells) item with the villager whose window is open. A
// negative tradeIndex picks the first matching offer.
func Trade(c game.Client, item string, buy bool, tradeIndex int) bt.Status {
	if err := c.Trade(item, buy, tradeIndex); err != nil {
		game.Warnf("Error trying to trade %s: %v", item, err)
		return bt.Failure
	}
	return bt.Success
}

func Craft(c game.Client, recipe game.Recipe, allowInventoryCraft bool) bt.Status {
	if err := c.Craft(recipe, allowInventoryCraft); err != nil {
		game.Warnf("Error trying to craft: %v", err)
		return bt.Failure
	}
	return bt.Success
}

func Eat(c game.Client, food string, waitConfirmation bool) bt.Status {
	if err := c.Eat(food, waitConfirmation); err != nil {
		game.Warnf("Error trying to eat %s: %v", food, err)
		return bt.Failure
	}
	return bt.Success
}

func SetItemInHand(c game.Client, item string, hand game.Hand) bt.Status {
	if err := c.SetItemInHand(item, hand); err != nil {
		return bt.Failure
	}
	return bt.Success
}

func SortInventory(c game.Client) bt.Status {
	if err := c.SortInventory(); err != nil {
		game.Warnf("Error trying to sort the inventory: %v", err)
		return bt.Failure
	}
	return bt.Success
}

func Say(c game.Client, msg string) bt.Status {
	if err := c.Say(msg); err != nil {
		game.Warnf("Error trying to send chat message: %v", err)
		return bt.Failure
	}
	return bt.Success
}
