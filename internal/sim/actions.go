package sim

import (
	"errors"
	"fmt"
	"math"

	"harvestbot.ai/internal/game"
)

var (
	errNoItem      = errors.New("item not in inventory")
	errNotTrading  = errors.New("no merchant window open")
	errNoOffer     = errors.New("no matching trade offer")
	errNoContainer = errors.New("no container at position")
)

func (c *Client) GoTo(goal game.Position, distTolerance, minEndDist int) error {
	c.mu.Lock()
	if err := c.failure("GoTo"); err != nil {
		c.mu.Unlock()
		return err
	}
	if goal.Y < c.minY || goal.Y >= c.minY+c.height {
		c.mu.Unlock()
		return fmt.Errorf("goto %s: outside of the world", goal)
	}
	from := c.self.Pos
	c.self.Pos = game.Vec3{X: float64(goal.X) + 0.5, Y: float64(goal.Y), Z: float64(goal.Z) + 0.5}
	steps := int(math.Ceil(math.Sqrt(c.self.Pos.Sub(from).SqrNorm()) / 5))
	c.mu.Unlock()
	return game.YieldN(c, steps)
}

func (c *Client) LookAt(target game.Vec3) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("LookAt"); err != nil {
		return err
	}
	c.lookAt = target
	return nil
}

func (c *Client) OpenContainer(pos game.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("OpenContainer"); err != nil {
		return err
	}
	if b := c.blocks[pos]; b.Name == "minecraft:crafting_table" {
		c.openLocked(windowCrafting, pos, 0)
		return nil
	}
	if _, ok := c.containers[pos]; !ok {
		return fmt.Errorf("open %s: %w", pos, errNoContainer)
	}
	c.openLocked(windowContainer, pos, 0)
	return nil
}

func (c *Client) openLocked(kind windowKind, pos game.Position, villager int) {
	c.nextWindow++
	if c.nextWindow <= 0 {
		c.nextWindow = 1
	}
	c.window = &openWindow{id: c.nextWindow, kind: kind, pos: pos, villager: villager}
}

func (c *Client) CloseContainer(windowID int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("CloseContainer"); err != nil {
		return err
	}
	if c.window == nil {
		return nil
	}
	if windowID != -1 && windowID != c.window.id {
		return fmt.Errorf("close window %d: %w", windowID, game.ErrNoWindow)
	}
	c.window = nil
	return nil
}

func (c *Client) SwapItemsInContainer(windowID, src, dst int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("SwapItemsInContainer"); err != nil {
		return err
	}
	a, err := c.slotLocked(windowID, src)
	if err != nil {
		return err
	}
	b, err := c.slotLocked(windowID, dst)
	if err != nil {
		return err
	}
	// Clicking a stack onto the same item merges what fits.
	if !a.IsEmpty() && !b.IsEmpty() && a.Item == b.Item {
		n := min(a.Count, game.DefaultStackSize-b.Count)
		b.Count += n
		a.Count -= n
		if a.Count == 0 {
			*a = game.Slot{}
		}
		return nil
	}
	*a, *b = *b, *a
	return nil
}

func (c *Client) PutOneItemInContainerSlot(windowID, src, dst int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("PutOneItemInContainerSlot"); err != nil {
		return err
	}
	a, err := c.slotLocked(windowID, src)
	if err != nil {
		return err
	}
	b, err := c.slotLocked(windowID, dst)
	if err != nil {
		return err
	}
	if a.IsEmpty() {
		return fmt.Errorf("slot %d is empty", src)
	}
	if !b.IsEmpty() && (b.Item != a.Item || b.Count >= game.DefaultStackSize) {
		return fmt.Errorf("slot %d cannot take %s", dst, a.Item)
	}
	b.Item = a.Item
	b.Count++
	a.Count--
	if a.Count == 0 {
		*a = game.Slot{}
	}
	return nil
}

// DropItemsFromContainer throws the stack toward the looked-at block. Items
// thrown onto a cactus are destroyed.
func (c *Client) DropItemsFromContainer(windowID, slot int16) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("DropItemsFromContainer"); err != nil {
		return err
	}
	s, err := c.slotLocked(windowID, slot)
	if err != nil {
		return err
	}
	if s.IsEmpty() {
		return nil
	}
	dropped := *s
	*s = game.Slot{}
	if c.blocks[c.lookAt.Floor()].Name == "minecraft:cactus" {
		return nil
	}
	c.spawnItemLocked(c.lookAt, dropped.Item, dropped.Count, c.tick+pickupDelayTicks, true)
	return nil
}

func (c *Client) Dig(pos game.Position, face game.Direction) error {
	c.mu.Lock()
	if err := c.failure("Dig"); err != nil {
		c.mu.Unlock()
		return err
	}
	b, ok := c.blocks[pos]
	if !ok || b.IsAir() {
		c.mu.Unlock()
		return fmt.Errorf("dig %s: nothing to dig", pos)
	}
	delete(c.blocks, pos)
	c.dropForLocked(pos, b)
	c.mu.Unlock()
	return c.Yield()
}

func (c *Client) dropForLocked(pos game.Position, b game.Block) {
	type drop struct {
		item  string
		count int
	}
	var drops []drop
	if rule, ok := crops[b.Name]; ok {
		if b.Prop("age") == rule.maxAge {
			drops = append(drops, drop{rule.item, rule.drop})
			c.matureDigs++
			if rule.extra != "" && (rule.extra != "minecraft:poisonous_potato" || c.matureDigs%4 == 0) {
				drops = append(drops, drop{rule.extra, 1})
			}
		} else {
			drops = append(drops, drop{rule.item, 1})
		}
	} else {
		drops = append(drops, drop{blockDrop(b.Name), 1})
	}

	if into, ok := c.hoppers[pos]; ok {
		if ct := c.containers[into]; ct != nil {
			for _, d := range drops {
				d.count = ct.add(d.item, d.count)
				if d.count > 0 {
					c.spawnItemLocked(pos.Center(), d.item, d.count, c.tick, true)
				}
			}
			return
		}
	}
	for _, d := range drops {
		c.spawnItemLocked(pos.Center(), d.item, d.count, c.tick+10, true)
	}
}

func (ct *container) add(item string, count int) int {
	for i := range ct.slots {
		s := &ct.slots[i]
		if count == 0 {
			break
		}
		if s.IsEmpty() {
			n := min(count, game.DefaultStackSize)
			*s = game.Slot{Item: item, Count: n}
			count -= n
		} else if s.Item == item && s.Count < game.DefaultStackSize {
			n := min(count, game.DefaultStackSize-s.Count)
			s.Count += n
			count -= n
		}
	}
	return count
}

func (c *Client) PlaceBlock(item string, pos game.Position) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("PlaceBlock"); err != nil {
		return err
	}
	if b, ok := c.blocks[pos]; ok && !b.IsAir() {
		return fmt.Errorf("place %s at %s: occupied by %s", item, pos, b.Name)
	}
	if !c.removeLocked(item, 1) {
		return fmt.Errorf("place %s: %w", item, errNoItem)
	}
	name := item
	var props map[string]string
	if crop, ok := plantable[item]; ok {
		name = crop
		props = map[string]string{"age": "0"}
	}
	c.blocks[pos] = game.Block{Name: name, Props: props}
	return nil
}

func (c *Client) InteractWithBlock(pos game.Position, face game.Direction, animation bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("InteractWithBlock"); err != nil {
		return err
	}
	c.interact = append(c.interact, pos)
	b := c.blocks[pos]
	switch {
	case c.hasStoneGen && pos == c.stoneNote:
		for _, p := range c.stonePositions {
			if cur, ok := c.blocks[p]; !ok || cur.IsAir() {
				c.blocks[p] = game.Block{Name: "minecraft:stone"}
			}
		}
	case len(b.Name) > 4 && b.Name[len(b.Name)-4:] == "_bed":
		if game.IsNight(c.dayTime) {
			c.dayTime += game.DayLength - c.dayTime%game.DayLength
		}
	case b.Name == "minecraft:crafting_table":
		c.openLocked(windowCrafting, pos, 0)
	}
	return nil
}

func (c *Client) InteractEntity(id int, swing bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("InteractEntity"); err != nil {
		return err
	}
	if _, ok := c.villagers[id]; !ok {
		return fmt.Errorf("interact entity %d: not a villager", id)
	}
	c.openLocked(windowVillager, game.Position{}, id)
	return nil
}

func (c *Client) Trade(item string, buy bool, tradeIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("Trade"); err != nil {
		return err
	}
	if c.window == nil || c.window.kind != windowVillager {
		return errNotTrading
	}
	v := c.villagers[c.window.villager]
	for i, o := range v.offers {
		if tradeIndex >= 0 && i != tradeIndex {
			continue
		}
		if (buy && o.Output != item) || (!buy && o.Input != item) {
			continue
		}
		if o.MaxUses > 0 && o.uses >= o.MaxUses {
			return fmt.Errorf("trade %s: offer out of stock", item)
		}
		if !c.removeLocked(o.Input, o.InputCount) {
			return fmt.Errorf("trade %s: %w", o.Input, errNoItem)
		}
		o.uses++
		if left := c.addToInventoryLocked(o.Output, o.OutputCount); left > 0 {
			c.spawnItemLocked(c.self.Pos, o.Output, left, c.tick+pickupDelayTicks, false)
		}
		return nil
	}
	return fmt.Errorf("trade %s: %w", item, errNoOffer)
}

func (c *Client) Craft(recipe game.Recipe, allowInventoryCraft bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("Craft"); err != nil {
		return err
	}
	out, ok := recipeBook[recipeKey(recipe)]
	if !ok {
		return fmt.Errorf("craft: unknown recipe")
	}
	table := c.window != nil && c.window.kind == windowCrafting
	if !table && !(allowInventoryCraft && fitsInventoryGrid(recipe)) {
		return fmt.Errorf("craft %s: crafting table required", out.item)
	}
	need := map[string]int{}
	for _, row := range recipe {
		for _, it := range row {
			if it != "" {
				need[it]++
			}
		}
	}
	for it, n := range need {
		if c.countLocked(it) < n {
			return fmt.Errorf("craft %s: missing %s: %w", out.item, it, errNoItem)
		}
	}
	for it, n := range need {
		c.removeLocked(it, n)
	}
	if left := c.addToInventoryLocked(out.item, out.count); left > 0 {
		c.spawnItemLocked(c.self.Pos, out.item, left, c.tick+pickupDelayTicks, false)
	}
	return nil
}

func (c *Client) Eat(food string, waitConfirmation bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("Eat"); err != nil {
		return err
	}
	if !c.removeLocked(food, 1) {
		return fmt.Errorf("eat %s: %w", food, errNoItem)
	}
	c.hungry = false
	return nil
}

func (c *Client) SetItemInHand(item string, hand game.Hand) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("SetItemInHand"); err != nil {
		return err
	}
	target := game.InventoryHotbarStart
	if hand == game.HandLeft {
		target = game.InventoryOffhand
	}
	if c.inv[target].Item == item {
		c.holding = item
		return nil
	}
	for i := game.InventoryStorageStart; i < game.InventoryOffhand; i++ {
		if c.inv[i].Item == item {
			c.inv[i], c.inv[target] = c.inv[target], c.inv[i]
			c.holding = item
			return nil
		}
	}
	return fmt.Errorf("hold %s: %w", item, errNoItem)
}

// SortInventory merges partial stacks of the same item.
func (c *Client) SortInventory() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("SortInventory"); err != nil {
		return err
	}
	totals := map[string]int{}
	var order []string
	for i := game.InventoryStorageStart; i < game.InventoryOffhand; i++ {
		s := c.inv[i]
		if s.IsEmpty() {
			continue
		}
		if _, seen := totals[s.Item]; !seen {
			order = append(order, s.Item)
		}
		totals[s.Item] += s.Count
		c.inv[i] = game.Slot{}
	}
	for _, it := range order {
		c.addToInventoryLocked(it, totals[it])
	}
	return nil
}

func (c *Client) Say(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.failure("Say"); err != nil {
		return err
	}
	c.said = append(c.said, msg)
	return nil
}
