package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"harvestbot.ai/internal/game"
)

// Scenario describes a farm layout in YAML.
type Scenario struct {
	Name   string `yaml:"name"`
	MinY   int    `yaml:"min_y"`
	Height int    `yaml:"height"`

	Self      [3]float64     `yaml:"self"`
	Hungry    bool           `yaml:"hungry"`
	DayTime   int64          `yaml:"day_time"`
	Inventory []SlotSpec     `yaml:"inventory"`
	Blocks    []BlockSpec    `yaml:"blocks"`
	Fills     []FillSpec     `yaml:"fills"`
	Signs     []SignSpec     `yaml:"signs"`
	Chests    []ChestSpec    `yaml:"containers"`
	Villagers []VillagerSpec `yaml:"villagers"`
	Hoppers   []HopperSpec   `yaml:"hoppers"`
	Mobs      []MobSpec      `yaml:"mobs"`

	StoneGenerator *StoneGenSpec `yaml:"stone_generator,omitempty"`
}

type BlockSpec struct {
	Pos   [3]int            `yaml:"pos"`
	Name  string            `yaml:"name"`
	Props map[string]string `yaml:"props,omitempty"`
}

// FillSpec sets every block of the box [From, To] (inclusive).
type FillSpec struct {
	From  [3]int            `yaml:"from"`
	To    [3]int            `yaml:"to"`
	Name  string            `yaml:"name"`
	Props map[string]string `yaml:"props,omitempty"`
}

type SignSpec struct {
	Pos   [3]int   `yaml:"pos"`
	Lines []string `yaml:"lines"`
}

type SlotSpec struct {
	Slot  int    `yaml:"slot"`
	Item  string `yaml:"item"`
	Count int    `yaml:"count"`
}

type ChestSpec struct {
	Pos   [3]int     `yaml:"pos"`
	Name  string     `yaml:"name"`
	Size  int        `yaml:"size"`
	Slots []SlotSpec `yaml:"slots"`
}

type VillagerSpec struct {
	ID         int        `yaml:"id"`
	Profession string     `yaml:"profession"`
	Pos        [3]float64 `yaml:"pos"`
	Offers     []Offer    `yaml:"offers"`
}

type MobSpec struct {
	ID   int        `yaml:"id"`
	Type string     `yaml:"type"`
	Pos  [3]float64 `yaml:"pos"`
}

type HopperSpec struct {
	From [][3]int `yaml:"from"`
	Into [3]int   `yaml:"into"`
}

type StoneGenSpec struct {
	NoteBlock [3]int   `yaml:"note_block"`
	Stones    [][3]int `yaml:"stones"`
}

func LoadScenario(path string) (Scenario, error) {
	var s Scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func pos(a [3]int) game.Position { return game.Position{X: a[0], Y: a[1], Z: a[2]} }

func vec(a [3]float64) game.Vec3 { return game.Vec3{X: a[0], Y: a[1], Z: a[2]} }

// Apply builds the scenario into c.
func (s Scenario) Apply(c *Client) error {
	if s.Height > 0 {
		c.SetBounds(s.MinY, s.Height)
	}
	c.SetSelfPos(vec(s.Self))
	c.SetHungry(s.Hungry)
	if s.DayTime > 0 {
		c.SetDayTime(s.DayTime)
	}
	for _, f := range s.Fills {
		lo, hi := pos(f.From), pos(f.To)
		if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
			return fmt.Errorf("fill %v..%v: from must not exceed to", f.From, f.To)
		}
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					c.SetBlock(game.Position{X: x, Y: y, Z: z}, f.Name, f.Props)
				}
			}
		}
	}
	for _, b := range s.Blocks {
		c.SetBlock(pos(b.Pos), b.Name, b.Props)
	}
	for _, sg := range s.Signs {
		c.AddSign(pos(sg.Pos), sg.Lines...)
	}
	for _, ct := range s.Chests {
		name := ct.Name
		if name == "" {
			name = "minecraft:chest"
		}
		c.AddContainer(pos(ct.Pos), name, ct.Size)
		for _, sl := range ct.Slots {
			c.SetContainerSlot(pos(ct.Pos), sl.Slot, sl.Item, sl.Count)
		}
	}
	for _, sl := range s.Inventory {
		if sl.Slot < int(game.InventoryStorageStart) || sl.Slot > int(game.InventoryOffhand) {
			return fmt.Errorf("inventory slot %d out of range", sl.Slot)
		}
		c.SetInventorySlot(int16(sl.Slot), sl.Item, sl.Count)
	}
	for _, v := range s.Villagers {
		c.AddVillager(v.ID, v.Profession, vec(v.Pos), v.Offers...)
	}
	for _, m := range s.Mobs {
		c.AddMob(m.ID, game.EntityType(m.Type), vec(m.Pos))
	}
	for _, h := range s.Hoppers {
		for _, from := range h.From {
			c.AddHopper(pos(from), pos(h.Into))
		}
	}
	if g := s.StoneGenerator; g != nil {
		stones := make([]game.Position, 0, len(g.Stones))
		for _, st := range g.Stones {
			stones = append(stones, pos(st))
		}
		c.SetStoneGenerator(pos(g.NoteBlock), stones)
	}
	return nil
}
