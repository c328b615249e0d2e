// Package actions holds the generic leaves trees are assembled from. Most
// wrap one blocking client action and turn its error into bt.Failure; the
// *Blackboard variants read their arguments from well-known blackboard keys
// so earlier leaves can compute them.
package actions

import (
	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

// Blackboard keys read by the *Blackboard leaves.
const (
	KeyGoToGoal          = "GoTo.goal"
	KeyGoToDistTolerance = "GoTo.dist_tolerance"
	KeyGoToMinEndDist    = "GoTo.min_end_distance"

	KeyOpenContainerPos = "OpenContainer.pos"

	KeyInteractEntityID    = "InteractEntity.entity_id"
	KeyInteractEntitySwing = "InteractEntity.swing"

	KeyInteractBlockPos       = "InteractWithBlock.pos"
	KeyInteractBlockAnimation = "InteractWithBlock.animation"
)

func CopyBlackboardData(c game.Client, src, dst string) bt.Status {
	if err := c.Blackboard().Copy(src, dst); err != nil {
		game.Warnf("CopyBlackboardData: %v", err)
		return bt.Failure
	}
	return bt.Success
}

func SetBlackboardData[T any](c game.Client, key string, v T) bt.Status {
	c.Blackboard().Set(key, v)
	return bt.Success
}

func RemoveBlackboardData(c game.Client, key string) bt.Status {
	c.Blackboard().Erase(key)
	return bt.Success
}

// CheckBlackboardBoolData succeeds when key holds true.
func CheckBlackboardBoolData(c game.Client, key string) bt.Status {
	return bt.FromBool(bt.GetOr(c.Blackboard(), key, false))
}

func GoToBlackboard(c game.Client) bt.Status {
	bb := c.Blackboard()
	goal, err := bt.Get[game.Position](bb, KeyGoToGoal)
	if err != nil {
		game.Warnf("GoToBlackboard: %v", err)
		return bt.Failure
	}
	return GoTo(c, goal, bt.GetOr(bb, KeyGoToDistTolerance, 0), bt.GetOr(bb, KeyGoToMinEndDist, 0))
}

func OpenContainerBlackboard(c game.Client) bt.Status {
	pos, err := bt.Get[game.Position](c.Blackboard(), KeyOpenContainerPos)
	if err != nil {
		game.Warnf("OpenContainerBlackboard: %v", err)
		return bt.Failure
	}
	return OpenContainer(c, pos)
}

func InteractEntityBlackboard(c game.Client) bt.Status {
	bb := c.Blackboard()
	id, err := bt.Get[int](bb, KeyInteractEntityID)
	if err != nil {
		game.Warnf("InteractEntityBlackboard: %v", err)
		return bt.Failure
	}
	return InteractEntity(c, id, bt.GetOr(bb, KeyInteractEntitySwing, false))
}

func InteractWithBlockBlackboard(c game.Client) bt.Status {
	bb := c.Blackboard()
	pos, err := bt.Get[game.Position](bb, KeyInteractBlockPos)
	if err != nil {
		game.Warnf("InteractWithBlockBlackboard: %v", err)
		return bt.Failure
	}
	return InteractWithBlock(c, pos, bt.GetOr(bb, KeyInteractBlockAnimation, false))
}
