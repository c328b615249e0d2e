package ws

import (
	"harvestbot.ai/internal/game"
	"harvestbot.ai/internal/protocol"
)

func wirePos(p game.Position) *[3]int { return &[3]int{p.X, p.Y, p.Z} }

func (c *Client) GoTo(goal game.Position, distTolerance, minEndDist int) error {
	return c.act(protocol.ActMsg{Action: protocol.ActGoTo, Pos: wirePos(goal), DistTolerance: distTolerance, MinEndDist: minEndDist})
}

func (c *Client) LookAt(target game.Vec3) error {
	return c.act(protocol.ActMsg{Action: protocol.ActLookAt, Target: &[3]float64{target.X, target.Y, target.Z}})
}

func (c *Client) OpenContainer(pos game.Position) error {
	return c.act(protocol.ActMsg{Action: protocol.ActOpenContainer, Pos: wirePos(pos)})
}

func (c *Client) CloseContainer(windowID int16) error {
	return c.act(protocol.ActMsg{Action: protocol.ActCloseContainer, WindowID: &windowID})
}

func (c *Client) SwapItemsInContainer(windowID, src, dst int16) error {
	return c.act(protocol.ActMsg{Action: protocol.ActSwapSlots, WindowID: &windowID, Src: &src, Dst: &dst})
}

func (c *Client) PutOneItemInContainerSlot(windowID, src, dst int16) error {
	return c.act(protocol.ActMsg{Action: protocol.ActPutOne, WindowID: &windowID, Src: &src, Dst: &dst})
}

func (c *Client) DropItemsFromContainer(windowID, slot int16) error {
	return c.act(protocol.ActMsg{Action: protocol.ActDropSlot, WindowID: &windowID, Slot: &slot})
}

func (c *Client) Dig(pos game.Position, face game.Direction) error {
	return c.act(protocol.ActMsg{Action: protocol.ActDig, Pos: wirePos(pos), Face: face.String()})
}

func (c *Client) PlaceBlock(item string, pos game.Position) error {
	return c.act(protocol.ActMsg{Action: protocol.ActPlaceBlock, Pos: wirePos(pos), Item: item})
}

func (c *Client) InteractWithBlock(pos game.Position, face game.Direction, animation bool) error {
	return c.act(protocol.ActMsg{Action: protocol.ActInteractBlock, Pos: wirePos(pos), Face: face.String(), Animation: animation})
}

func (c *Client) InteractEntity(id int, swing bool) error {
	return c.act(protocol.ActMsg{Action: protocol.ActInteractEntity, EntityID: &id, Swing: swing})
}

// Trade lets the bridge pick the offer by item when tradeIndex is negative.
func (c *Client) Trade(item string, buy bool, tradeIndex int) error {
	m := protocol.ActMsg{Action: protocol.ActTrade, Item: item, Buy: buy}
	if tradeIndex >= 0 {
		m.TradeIndex = &tradeIndex
	}
	return c.act(m)
}

func (c *Client) Craft(recipe game.Recipe, allowInventoryCraft bool) error {
	r := [3][3]string(recipe)
	return c.act(protocol.ActMsg{Action: protocol.ActCraft, Recipe: &r, AllowInventory: allowInventoryCraft})
}

func (c *Client) Eat(food string, waitConfirmation bool) error {
	return c.act(protocol.ActMsg{Action: protocol.ActEat, Item: food, Wait: waitConfirmation})
}

func (c *Client) SetItemInHand(item string, hand game.Hand) error {
	return c.act(protocol.ActMsg{Action: protocol.ActSetItemInHand, Item: item, Hand: hand.String()})
}

func (c *Client) SortInventory() error {
	return c.act(protocol.ActMsg{Action: protocol.ActSortInventory})
}

func (c *Client) Say(msg string) error {
	return c.act(protocol.ActMsg{Action: protocol.ActSay, Text: msg})
}
