package farming

import (
	"math/rand/v2"

	"harvestbot.ai/internal/bt"
	"harvestbot.ai/internal/game"
)

// CopyRandomFromVectorBlackboardData copies one element of the []T stored at
// src to dst. It fails when src is missing or empty.
func CopyRandomFromVectorBlackboardData[T any](c game.Client, src, dst string) bt.Status {
	bb := c.Blackboard()
	values, err := bt.Get[[]T](bb, src)
	if err != nil {
		game.Warnf("CopyRandomFromVectorBlackboardData: %v", err)
		return bt.Failure
	}
	switch len(values) {
	case 0:
		game.Warnf("CopyRandomFromVectorBlackboardData: %s is empty", src)
		return bt.Failure
	case 1:
		bb.Set(dst, values[0])
	default:
		bb.Set(dst, values[rand.IntN(len(values))])
	}
	return bt.Success
}
