// Package trees assembles the farming, trading and crafting tasks into the
// harvest bot's game loop.
package trees

import (
	"harvestbot.ai/internal/actions"
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/farming"
	"harvestbot.ai/internal/game"
)

const (
	Emerald         = "minecraft:emerald"
	RottenFlesh     = "minecraft:rotten_flesh"
	Bone            = "minecraft:bone"
	BoneMeal        = "minecraft:bone_meal"
	WhiteDye        = "minecraft:white_dye"
	GoldenCarrot    = "minecraft:golden_carrot"
	StonePickaxe    = "minecraft:stone_pickaxe"
	Cobblestone     = "minecraft:cobblestone"
	Bow             = "minecraft:bow"
	Redstone        = "minecraft:redstone"
	Dispenser       = "minecraft:dispenser"
	Carrot          = "minecraft:carrot"
	PoisonousPotato = "minecraft:poisonous_potato"
)

// Villager professions the trees trade with.
const (
	Farmer    = "farmer"
	Cleric    = "cleric"
	Shepherd  = "shepherd"
	Fletcher  = "fletcher"
	Toolsmith = "toolsmith"
)

var (
	RecipeBoneMeal  = game.Recipe{{Bone}}
	RecipeWhiteDye  = game.Recipe{{BoneMeal}}
	RecipeDispenser = game.Recipe{
		{Cobblestone, Cobblestone, Cobblestone},
		{Cobblestone, Bow, Cobblestone},
		{Cobblestone, Redstone, Cobblestone},
	}
)

// interactVillager opens the trade window of a random villager listed under
// key.
func interactVillager(key string) node {
	return sequence(
		leaf("CopyRandomFromVectorBlackboardData", func(c game.Client) bt.Status {
			return farming.CopyRandomFromVectorBlackboardData[int](c, key, actions.KeyInteractEntityID)
		}),
		leaf("SetBlackboardData", func(c game.Client) bt.Status {
			return actions.SetBlackboardData(c, actions.KeyInteractEntitySwing, true)
		}),
		leaf("InteractEntityBlackboard", actions.InteractEntityBlackboard),
	)
}

// Buy gets one item from a villager listed under entityKey unless the
// inventory already holds one.
func Buy(item, entityKey string) node {
	return bt.Tree("Buy "+item, selector(
		hasItem(item, 1),
		sequence(
			goToKey(farming.StandingKey(farming.RoleBuying), 0),
			interactVillager(entityKey),
			waitTicks(100),
			trade(item, true),
		),
	))
}

// fetch takes take items of source from the shulker at containerKey unless
// the inventory already holds have of item.
func fetch(item string, have int, source string, take int, containerKey string) node {
	return selector(
		hasItem(item, have),
		sequence(
			goToKey(farming.StandingKey(farming.RoleBuying), 0),
			openContainerAt(containerKey),
			waitTicks(100),
			succeeder(leaf("TakeFromChest", func(c game.Client) bt.Status {
				return farming.TakeFromChest(c, source, take)
			})),
			closeContainer(),
		),
	)
}

// sellAll sells item to villagers under entityKey while at least n remain.
func sellAll(item string, n int, entityKey string, waitBefore, waitAfter int) node {
	steps := []node{hasItem(item, n), interactVillager(entityKey)}
	if waitBefore > 0 {
		steps = append(steps, waitTicks(waitBefore))
	}
	steps = append(steps, trade(item, false))
	if waitAfter > 0 {
		steps = append(steps, waitTicks(waitAfter))
	}
	return repeater(0, inverter(sequence(steps...)))
}

// craftWhile crafts recipe as long as the inventory holds one ingredient.
func craftWhile(ingredient string, recipe game.Recipe) node {
	return repeater(0, inverter(sequence(
		hasItem(ingredient, 1),
		leaf("Craft", func(c game.Client) bt.Status {
			return actions.Craft(c, recipe, true)
		}),
	)))
}

func RottenFleshEmerald() node {
	return bt.Tree("RottenFleshEmerald", sequence(
		fetch(RottenFlesh, 64, RottenFlesh, 64, farming.PositionKey(farming.RoleRottenFlesh)),
		sellAll(RottenFlesh, 32, farming.VillagerKey(Cleric), 0, 50),
	))
}

func BonesEmerald() node {
	return bt.Tree("BonesEmerald", sequence(
		fetch(WhiteDye, 64, Bone, 32, farming.PositionKey(farming.RoleBones)),
		craftWhile(Bone, RecipeBoneMeal),
		craftWhile(BoneMeal, RecipeWhiteDye),
		sellAll(WhiteDye, 12, farming.VillagerKey(Shepherd), 0, 50),
	))
}

// CropEmerald harvests the crop at cropKey when short of item, then sells it
// to the farmers.
func CropEmerald(item, cropKey string) node {
	minToSell := 26
	if item == Carrot {
		minToSell = 22
	}
	return bt.Tree("CropEmerald "+item, sequence(
		selector(
			hasItem(item, 64),
			leaf("CollectCropsAndReplant", func(c game.Client) bt.Status {
				return farming.CollectCropsAndReplant(c, cropKey, item)
			}),
		),
		goToKey(farming.StandingKey(farming.RoleBuying), 0),
		sellAll(item, minToSell, farming.VillagerKey(Farmer), 100, 0),
	))
}

func Eat() node {
	return bt.Tree("Eat", selector(
		inverter(leaf("IsHungry", actions.IsHungry)),
		sequence(
			hasItem(Emerald, 3),
			Buy(GoldenCarrot, farming.VillagerKey(Farmer)),
			leaf("Eat", func(c game.Client) bt.Status {
				return actions.Eat(c, GoldenCarrot, true)
			}),
		),
	))
}

func CollectCobblestone() node {
	holdPickaxe := leaf("SetItemInHand", func(c game.Client) bt.Status {
		return actions.SetItemInHand(c, StonePickaxe, game.HandRight)
	})
	// 7 for the recipe, plus three tries for mishaps.
	return bt.Tree("CollectCobblestone", selector(
		hasItem(Cobblestone, 7),
		repeater(10, selector(
			hasItem(Cobblestone, 7),
			sequence(
				selector(
					holdPickaxe,
					sequence(
						hasItem(Emerald, 1),
						Buy(StonePickaxe, farming.VillagerKey(Toolsmith)),
						holdPickaxe,
					),
				),
				goToKey(farming.StandingKey(farming.RoleStone), 0),
				leaf("MineCobblestone", farming.MineCobblestone),
			),
		)),
	))
}

// CraftDispenser crafts a dispenser at the crafting table and stores it. A
// full output chest stops the whole behaviour.
func CraftDispenser() node {
	return bt.Tree("CraftDispenser", sequence(
		goToKey(farming.StandingKey(farming.RoleBuying), 0),
		openContainerAt(farming.PositionKey(farming.RoleCraftingTable)),
		waitTicks(100),
		leaf("Craft", func(c game.Client) bt.Status {
			return actions.Craft(c, RecipeDispenser, false)
		}),
		closeContainer(),
		selector(
			leaf("StoreItem", func(c game.Client) bt.Status {
				return farming.StoreItem(c, Dispenser)
			}),
			sequence(
				leaf("Say", func(c game.Client) bt.Status {
					return actions.Say(c, "Error trying to put dispenser in output chest, stopping behaviour...")
				}),
				leaf("StopBehaviour", func(c game.Client) bt.Status {
					c.StopBehaviour()
					return bt.Success
				}),
				leaf("Yield", actions.Yield),
			),
		),
	))
}

func CleanStorage() node {
	return bt.Tree("CleanStorage", sequence(
		leaf("CleanChest", func(c game.Client) bt.Status {
			return farming.CleanChest(c, farming.PositionKey(farming.RoleBones), Bone)
		}),
		leaf("CleanChest", func(c game.Client) bt.Status {
			return farming.CleanChest(c, farming.PositionKey(farming.RoleRottenFlesh), RottenFlesh)
		}),
	))
}

// DespawnMobs walks to the despawn spot while a hostile mob is close.
func DespawnMobs() node {
	return bt.Tree("DespawnMobs", selector(
		inverter(leaf("CheckHostileMob", farming.CheckHostileMob)),
		goToKey(farming.StandingKey(farming.RoleDespawn), 1),
	))
}

// Sleep walks to the bed at night and uses it every second until day.
func Sleep() node {
	bed := farming.PositionKey(farming.RoleBed)
	return bt.Tree("Sleep", selector(
		inverter(leaf("IsNightTime", actions.IsNightTime)),
		sequence(
			goToKey(bed, 2),
			repeater(0, sequence(
				leaf("CopyBlackboardData", func(c game.Client) bt.Status {
					return actions.CopyBlackboardData(c, bed, actions.KeyInteractBlockPos)
				}),
				leaf("SetBlackboardData", func(c game.Client) bt.Status {
					return actions.SetBlackboardData(c, actions.KeyInteractBlockAnimation, true)
				}),
				leaf("InteractWithBlockBlackboard", actions.InteractWithBlockBlackboard),
				waitTicks(100),
				inverter(leaf("IsNightTime", actions.IsNightTime)),
			)),
		),
	))
}
