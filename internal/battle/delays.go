package battle

import "time"

// DelayPolicy paces a battle for presentation: dice reveal, attack
// animation, turn handover. Scheduling only — never a game rule. Tests
// run with NoDelays.
type DelayPolicy interface {
	RollDelay() time.Duration
	AttackDelay() time.Duration
	TurnDelay() time.Duration
}

// StandardDelays matches the pacing of the game client.
type StandardDelays struct{}

func (StandardDelays) RollDelay() time.Duration   { return 1500 * time.Millisecond }
func (StandardDelays) AttackDelay() time.Duration { return 2 * time.Second }
func (StandardDelays) TurnDelay() time.Duration   { return time.Second }

// NoDelays runs every phase immediately.
type NoDelays struct{}

func (NoDelays) RollDelay() time.Duration   { return 0 }
func (NoDelays) AttackDelay() time.Duration { return 0 }
func (NoDelays) TurnDelay() time.Duration   { return 0 }
