package engine

import (
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"
)

// ApplyDamage subtracts damage from a pair and returns the updated copy.
// Hero health is depleted to zero before any remainder touches the
// companion; the split is strictly ordered, never proportional. The input
// pair is not mutated and the returned pair shares no pointers with it.
func ApplyDamage(pair game.Pair, amount int) game.Pair {
	out := pair.Clone()
	if amount <= 0 {
		return out
	}

	heroHit := amount
	if heroHit > out.Hero.Health {
		heroHit = out.Hero.Health
	}
	out.Hero.Health -= heroHit

	if rest := amount - heroHit; rest > 0 && out.Companion != nil {
		out.Companion.Health -= rest
		if out.Companion.Health < 0 {
			out.Companion.Health = 0
		}
	}

	out.RecalcHealth()
	return out
}
