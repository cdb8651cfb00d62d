package engine

import (
	"math/rand"
	"time"
)

// Roller produces one d6 roll. Injectable so resolutions are reproducible
// in tests.
type Roller func() int

// NewRoller returns a Roller backed by the given source, or by a
// time-seeded source when rng is nil.
func NewRoller(rng *rand.Rand) Roller {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return func() int { return 1 + rng.Intn(6) }
}

// FixedRoller always returns the same roll. Test helper.
func FixedRoller(roll int) Roller {
	return func() int { return roll }
}

// SequenceRoller replays the given rolls in order, then repeats the last
// one. Test helper.
func SequenceRoller(rolls ...int) Roller {
	i := 0
	return func() int {
		r := rolls[i]
		if i < len(rolls)-1 {
			i++
		}
		return r
	}
}

// Outcome describes one resolved attack roll.
type Outcome struct {
	Roll            int
	DamagePercent   int
	IsMiss          bool
	IsCritical      bool
	IsCounterAttack bool
	Damage          int
}

// damagePercent maps a d6 roll to the PvP damage multiplier. Index 0 is
// unused. The mapping is fixed, not configuration.
var damagePercent = [7]int{0, 0, 0, 50, 100, 150, 200}

// baseDamage is the floor-guaranteed raw damage before the roll
// multiplier: at least 1 even when defense meets or exceeds power.
func baseDamage(power, defense int) int {
	d := power - defense
	if d < 1 {
		d = 1
	}
	return d
}

// Resolve applies the PvP attacker-roll table:
//
//	1 — critical miss, the defender counterattacks
//	2 — miss
//	3 — 50% damage
//	4 — 100% damage
//	5 — 150% damage
//	6 — 200% damage, critical
//
// Damage is floor(max(1, power-defense) * percent / 100), zero on a miss.
func Resolve(roll, power, defense int) Outcome {
	out := Outcome{Roll: roll, DamagePercent: damagePercent[roll]}
	switch roll {
	case 1:
		out.IsMiss = true
		out.IsCounterAttack = true
	case 2:
		out.IsMiss = true
	case 6:
		out.IsCritical = true
	}
	if !out.IsMiss {
		out.Damage = baseDamage(power, defense) * out.DamagePercent / 100
	}
	return out
}

// ResolveVersus applies the PvE roll-vs-roll law: attacker and defender
// each roll, and the attack lands only when the attacker's roll strictly
// exceeds the defender's. Landed damage is the plain max(1, power-defense)
// base with no percent table; the table is a PvP-only construct and the
// two laws must not be unified.
func ResolveVersus(atkRoll, defRoll, power, defense int) Outcome {
	out := Outcome{Roll: atkRoll}
	if atkRoll <= defRoll {
		out.IsMiss = true
		return out
	}
	out.Damage = baseDamage(power, defense)
	return out
}
