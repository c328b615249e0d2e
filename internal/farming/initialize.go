package farming

import (
	"encoding/json"
	"sort"
	"strings"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

// DefaultCrops are the crop blocks scanned for when none are configured.
var DefaultCrops = []string{"minecraft:carrots", "minecraft:potatoes"}

const signMarker = "MINION"

// InitializeHarvestBlocks scans every block within radius of the bot for
// crops, signs and containers, and villagers for their profession. The
// results land on the blackboard. It always succeeds.
func InitializeHarvestBlocks(c game.Client, radius int, crops []string) bt.Status {
	if len(crops) == 0 {
		crops = DefaultCrops
	}
	wanted := make(map[string]struct{}, len(crops))
	for _, name := range crops {
		wanted[name] = struct{}{}
	}

	me := c.Self().Pos.Floor()
	minY := max(me.Y-radius, c.MinY())
	maxY := min(me.Y+radius, c.MinY()+c.Height()-1)

	found := map[string][]game.Position{}
	var signs, containers []game.Position

	for x := -radius; x <= radius; x++ {
		for y := minY; y <= maxY; y++ {
			for z := -radius; z <= radius; z++ {
				p := game.Position{X: me.X + x, Y: y, Z: me.Z + z}
				b, ok := c.Block(p)
				if !ok || b.IsAir() {
					continue
				}
				switch {
				case isWanted(wanted, b.Name):
					found[b.Name] = append(found[b.Name], p)
					game.Infof("%s found at: %s!", b.Name, p)
				case b.IsSign():
					signs = append(signs, p)
					game.Infof("Sign found at: %s!", p)
				case b.IsContainer():
					containers = append(containers, p)
				}
			}
		}
	}

	bb := c.Blackboard()
	roles := map[string][]game.Position{}
	for _, p := range signs {
		data, ok := c.BlockEntity(p)
		if !ok {
			continue
		}
		if signLine(data, 1) != signMarker {
			continue
		}
		role := strings.ToLower(strings.TrimSpace(signLine(data, 2)))
		if role == "" {
			game.Warnf("MINION sign at %s has no role", p)
			continue
		}
		game.Infof("MINION sign found at: %s (%s)", p, role)
		target := p.Add(game.Position{Y: -1})
		if _, seen := roles[role]; !seen {
			bb.Set(PositionKey(role), target)
			bb.Set(StandingKey(role), p)
		}
		roles[role] = append(roles[role], target)
	}
	for role, ps := range roles {
		bb.Set(PositionsKey(role), ps)
	}

	for name, ps := range found {
		sort.SliceStable(ps, func(i, j int) bool {
			return ps[i].SqrDist(me) < ps[j].SqrDist(me)
		})
		bb.Set(CropKey(name), ps)
	}
	bb.Set(KeyCropPositions, found)
	bb.Set(KeySignPositions, signs)
	bb.Set(KeyContainerPositions, containers)

	if stand, err := bt.Get[game.Position](bb, StandingKey(RoleStone)); err == nil {
		bb.Set(KeyStonePositions, generatorCells(c, stand))
	}

	villagers := map[string][]int{}
	r2 := float64(radius * radius)
	for _, e := range c.Entities() {
		if e.Type != game.EntityVillager || e.Profession == "" {
			continue
		}
		if e.Pos.Sub(me.Center()).SqrNorm() > 3*r2 {
			continue
		}
		villagers[e.Profession] = append(villagers[e.Profession], e.ID)
	}
	for prof, ids := range villagers {
		sort.Ints(ids)
		bb.Set(VillagerKey(prof), ids)
	}

	bb.Set(KeyInitialized, true)
	return bt.Success
}

func isWanted(wanted map[string]struct{}, name string) bool {
	_, ok := wanted[name]
	return ok
}

// generatorSides are the horizontal neighbours of the stone standing position.
var generatorSides = []game.Position{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}}

// generatorCells lists the cells a bot standing at stand can mine without
// moving: the four sides at feet and head height. Cells are kept whatever
// they hold now, as an emptied generator is only air until the note block
// refills it, except solid blocks that can never turn into stone. The
// standing column and the floor under it are never listed.
func generatorCells(c game.Client, stand game.Position) []game.Position {
	var out []game.Position
	for dy := 0; dy <= 1; dy++ {
		for _, side := range generatorSides {
			p := stand.Add(side).Add(game.Position{Y: dy})
			if b, ok := c.Block(p); ok && canHoldStone(b) {
				out = append(out, p)
			}
		}
	}
	return out
}

func canHoldStone(b game.Block) bool {
	switch {
	case b.IsAir(), isStone(b.Name):
		return true
	case b.Name == "minecraft:water", b.Name == "minecraft:lava":
		return true
	}
	return false
}

func isStone(name string) bool {
	return name == "minecraft:stone" || name == "minecraft:cobblestone"
}

// signLine extracts line n (1-based) from sign block entity data. Lines are
// stored either as JSON text components or as plain strings.
func signLine(data map[string]any, n int) string {
	key := "Text" + string(rune('0'+n))
	raw, ok := data[key].(string)
	if !ok {
		return ""
	}
	var comp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(raw), &comp); err == nil {
		return comp.Text
	}
	return raw
}
