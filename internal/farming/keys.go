// Package farming holds the task functions of the harvest bot: scanning the
// farm, moving items between containers and the inventory, harvesting and
// replanting crops, mining cobblestone and throwing away unwanted items.
//
// Every task returns bt.Success or bt.Failure and logs a warning on failure.
// Tasks read their inputs from HarvestBot.* blackboard keys that
// InitializeHarvestBlocks fills from MINION signs placed around the farm.
package farming

import "strings"

const keyPrefix = "HarvestBot."

const (
	KeyInitialized        = keyPrefix + "initialized"
	KeyCropPositions      = keyPrefix + "crop_positions"
	KeySignPositions      = keyPrefix + "sign_positions"
	KeyContainerPositions = keyPrefix + "container_positions"
	KeyStonePositions     = keyPrefix + "stone_positions"
	KeyHostileTypes       = keyPrefix + "hostile_types"
)

// Sign roles understood by the trees.
const (
	RoleDisposal      = "disposal"
	RoleOutput        = "output"
	RoleBed           = "bed"
	RoleBuying        = "buying"
	RoleStone         = "stone"
	RoleStoneShulker  = "stone_shulker"
	RoleNoteBlock     = "note_block"
	RoleBones         = "bones_shulker"
	RoleRottenFlesh   = "rotten_flesh_shulker"
	RoleCraftingTable = "crafting_table"
	RoleDespawn       = "despawn"
	RoleSpawnerSwitch = "spawner_switch"
)

// PositionKey is the blackboard key of the block a role sign points at.
func PositionKey(role string) string { return keyPrefix + role + "_position" }

// StandingKey is where the bot stands to use the role's block.
func StandingKey(role string) string { return keyPrefix + role + "_standing_position" }

// PositionsKey lists every block of a role, for roles placed more than once.
func PositionsKey(role string) string { return keyPrefix + role + "_positions" }

// VillagerKey lists the entity ids of villagers with the given profession.
func VillagerKey(profession string) string { return keyPrefix + profession + "_id" }

// CropKey holds the sorted positions of one crop block, e.g.
// HarvestBot.carrots_positions for minecraft:carrots.
func CropKey(block string) string {
	name := block
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return keyPrefix + name + "_positions"
}

var cropItems = map[string]string{
	"minecraft:carrots":   "minecraft:carrot",
	"minecraft:potatoes":  "minecraft:potato",
	"minecraft:wheat":     "minecraft:wheat_seeds",
	"minecraft:beetroots": "minecraft:beetroot_seeds",
}

// CropItem is the item a crop block drops and is replanted with.
func CropItem(block string) (string, bool) {
	item, ok := cropItems[block]
	return item, ok
}
