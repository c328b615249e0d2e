package sim

import (
	"strings"

	"harvestbot.ai/internal/game"
)

type cropRule struct {
	item   string // dropped and replanted
	maxAge string
	drop   int
	extra  string // occasional extra drop
}

var crops = map[string]cropRule{
	"minecraft:carrots":   {item: "minecraft:carrot", maxAge: "7", drop: 3},
	"minecraft:potatoes":  {item: "minecraft:potato", maxAge: "7", drop: 3, extra: "minecraft:poisonous_potato"},
	"minecraft:wheat":     {item: "minecraft:wheat_seeds", maxAge: "7", drop: 2, extra: "minecraft:wheat"},
	"minecraft:beetroots": {item: "minecraft:beetroot_seeds", maxAge: "3", drop: 2, extra: "minecraft:beetroot"},
}

// plantable maps a held item to the crop block it places.
var plantable = map[string]string{
	"minecraft:carrot":         "minecraft:carrots",
	"minecraft:potato":         "minecraft:potatoes",
	"minecraft:wheat_seeds":    "minecraft:wheat",
	"minecraft:beetroot_seeds": "minecraft:beetroots",
}

func blockDrop(name string) string {
	switch name {
	case "minecraft:stone", "minecraft:cobblestone":
		return "minecraft:cobblestone"
	case "minecraft:grass_block", "minecraft:farmland":
		return "minecraft:dirt"
	}
	return name
}

type recipeOut struct {
	item  string
	count int
}

var recipeBook = map[string]recipeOut{
	recipeKey(game.Recipe{{"minecraft:bone"}}):      {item: "minecraft:bone_meal", count: 3},
	recipeKey(game.Recipe{{"minecraft:bone_meal"}}): {item: "minecraft:white_dye", count: 1},
	recipeKey(game.Recipe{
		{"minecraft:cobblestone", "minecraft:cobblestone", "minecraft:cobblestone"},
		{"minecraft:cobblestone", "minecraft:bow", "minecraft:cobblestone"},
		{"minecraft:cobblestone", "minecraft:redstone", "minecraft:cobblestone"},
	}): {item: "minecraft:dispenser", count: 1},
}

func recipeKey(r game.Recipe) string {
	parts := make([]string, 0, 9)
	for _, row := range r {
		parts = append(parts, row[:]...)
	}
	return strings.Join(parts, ",")
}

// fitsInventoryGrid reports whether r only uses the top-left 2x2 cells.
func fitsInventoryGrid(r game.Recipe) bool {
	for i := 0; i < 3; i++ {
		if r[2][i] != "" || r[i][2] != "" {
			return false
		}
	}
	return true
}
