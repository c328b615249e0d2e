package trees

import (
	"harvestbot.ai/internal/actions"
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/farming"
	"harvestbot.ai/internal/game"
)

// Options tune the root tree.
type Options struct {
	// ScanRadius bounds the farm scan around the bot.
	ScanRadius int
	// Crops are the crop blocks harvested and sold, in selling order.
	Crops []string
	// HostileTypes replace farming.DefaultHostileTypes when set.
	HostileTypes []game.EntityType
	// Roles pin sign roles to fixed positions after the scan.
	Roles map[string]farming.RolePosition
	// StonePositions replace the generator cells found around the stone
	// standing position when set.
	StonePositions []game.Position
}

// DefaultScanRadius matches a farm of about a hundred blocks across.
const DefaultScanRadius = 50

// DefaultSellOrder is the crop order of CollectEmeralds.
var DefaultSellOrder = []string{"minecraft:potatoes", "minecraft:carrots"}

func (o Options) withDefaults() Options {
	if o.ScanRadius <= 0 {
		o.ScanRadius = DefaultScanRadius
	}
	if len(o.Crops) == 0 {
		o.Crops = DefaultSellOrder
	}
	return o
}

// CollectEmeralds runs every emerald source once, ignoring failures.
func CollectEmeralds(opts Options) node {
	opts = opts.withDefaults()
	children := []node{
		succeeder(BonesEmerald()),
		succeeder(RottenFleshEmerald()),
	}
	for _, crop := range opts.Crops {
		item, ok := farming.CropItem(crop)
		if !ok {
			continue
		}
		children = append(children, succeeder(CropEmerald(item, farming.CropKey(crop))))
	}
	return bt.Tree("CollectEmeralds", sequence(children...))
}

// Root is the whole game loop: scan the farm once, earn emeralds, tidy up,
// survive the night, then buy the parts of a dispenser and craft it.
func Root(opts Options) node {
	opts = opts.withDefaults()
	return bt.Tree("HarvestBot", sequence(
		selector(
			leaf("CheckBlackboardBoolData", func(c game.Client) bt.Status {
				return actions.CheckBlackboardBoolData(c, farming.KeyInitialized)
			}),
			sequence(
				leaf("InitializeHarvestBlocks", func(c game.Client) bt.Status {
					return farming.InitializeHarvestBlocks(c, opts.ScanRadius, opts.Crops)
				}),
				leaf("ApplyRoleOverrides", func(c game.Client) bt.Status {
					return farming.ApplyRoleOverrides(c, opts.Roles)
				}),
				leaf("PinStonePositions", func(c game.Client) bt.Status {
					return farming.PinStonePositions(c, opts.StonePositions)
				}),
				leaf("SetBlackboardData", func(c game.Client) bt.Status {
					if len(opts.HostileTypes) == 0 {
						return bt.Success
					}
					return actions.SetBlackboardData(c, farming.KeyHostileTypes, opts.HostileTypes)
				}),
				leaf("StartSpawners", farming.StartSpawners),
			),
		),
		CollectEmeralds(opts),
		CleanStorage(),
		leaf("SortInventory", actions.SortInventory),
		leaf("DestroyItems", func(c game.Client) bt.Status {
			return farming.DestroyItems(c, PoisonousPotato)
		}),
		DespawnMobs(),
		Sleep(),
		Eat(),
		hasItem(Emerald, 2),
		Buy(Bow, farming.VillagerKey(Fletcher)),
		hasItem(Emerald, 1),
		Buy(Redstone, farming.VillagerKey(Cleric)),
		CollectCobblestone(),
		CraftDispenser(),
	))
}
