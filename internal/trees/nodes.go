package trees

import (
	"harvestbot.ai/internal/actions"
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

type node = game.Node

func leaf(name string, fn func(game.Client) bt.Status) node { return bt.Leaf(name, fn) }

func sequence(children ...node) node { return bt.Sequence(children...) }

func selector(children ...node) node { return bt.Selector(children...) }

func inverter(child node) node { return bt.Inverter(child) }

func succeeder(child node) node { return bt.Succeeder(child) }

func repeater(n int, child node) node { return bt.Repeater(n, child) }

func hasItem(item string, n int) node {
	return leaf("HasItemInInventory", func(c game.Client) bt.Status {
		return actions.HasItemInInventory(c, item, n)
	})
}

func waitTicks(n int) node {
	return repeater(n, leaf("Yield", actions.Yield))
}

// goToKey walks to the position stored under key.
func goToKey(key string, distTolerance int) node {
	return sequence(
		leaf("CopyBlackboardData", func(c game.Client) bt.Status {
			return actions.CopyBlackboardData(c, key, actions.KeyGoToGoal)
		}),
		leaf("SetBlackboardData", func(c game.Client) bt.Status {
			return actions.SetBlackboardData(c, actions.KeyGoToDistTolerance, distTolerance)
		}),
		leaf("GoToBlackboard", actions.GoToBlackboard),
	)
}

func openContainerAt(key string) node {
	return sequence(
		leaf("CopyBlackboardData", func(c game.Client) bt.Status {
			return actions.CopyBlackboardData(c, key, actions.KeyOpenContainerPos)
		}),
		leaf("OpenContainerBlackboard", actions.OpenContainerBlackboard),
	)
}

func closeContainer() node {
	return leaf("CloseContainer", func(c game.Client) bt.Status {
		return actions.CloseContainer(c, -1)
	})
}

// trade runs the trade and closes the villager window even when it fails,
// keeping the failure.
func trade(item string, buy bool) node {
	return sequence(
		selector(
			leaf("Trade", func(c game.Client) bt.Status {
				return actions.Trade(c, item, buy, -1)
			}),
			leaf("CloseContainer", func(c game.Client) bt.Status {
				actions.CloseContainer(c, -1)
				return bt.Failure
			}),
		),
		closeContainer(),
	)
}
