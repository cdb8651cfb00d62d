package engine

import (
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"
)

// TeamDefeated reports whether every pair on the side is out of the
// fight. An empty slice is vacuously defeated; match creation never
// admits an empty team, so callers upstream guard against that case.
func TeamDefeated(pairs []game.Pair) bool {
	for i := range pairs {
		if pairs[i].Alive() {
			return false
		}
	}
	return true
}

// FirstAlive returns the index of the first alive pair in array order,
// or -1 when the side is defeated. Bot turns use this as their target
// heuristic: first available, not strongest or weakest.
func FirstAlive(pairs []game.Pair) int {
	for i := range pairs {
		if pairs[i].Alive() {
			return i
		}
	}
	return -1
}
