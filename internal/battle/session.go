// Package battle runs dungeon (PvE) encounters. Unlike PvP matches a
// session is transient: state lives only for the duration of the run and
// nothing is persisted. Waves are endless — clearing a level regenerates
// a fresh opponent set — and the run ends only when the player's team is
// wiped.
package battle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/engine"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"

	"go.uber.org/zap"
)

var (
	ErrSessionOver      = errors.New("battle session is over")
	ErrTurnInProgress   = errors.New("a turn is already resolving")
	ErrInvalidPairIndex = errors.New("pair index out of range")
	ErrPairDefeated     = errors.New("pair is defeated")
)

// killExperience is the base XP awarded per defeated enemy pair; it
// scales linearly with the dungeon level.
const killExperience = 25

// OpponentSource generates the enemy set for a dungeon level. Opponent
// stats come from the roster/template lookup, which is external to this
// core.
type OpponentSource func(level int) []game.Pair

// Hooks receive progression events. All optional.
type Hooks struct {
	OnExperience   func(amount int)
	OnLevelCleared func(level int)
	OnDefeat       func(level int)
}

// Config configures a Session. Team and Spawn are required.
type Config struct {
	Team   []game.Pair
	Spawn  OpponentSource
	Roller engine.Roller
	Delays DelayPolicy
	Hooks  Hooks
	Logger *zap.Logger
}

// Session owns one dungeon run. The resolving flag marks a turn in
// flight so a background roster refresh cannot clobber locally applied,
// not-yet-settled combat damage; the flag lives on the session, not in a
// package global, so concurrent sessions never interfere.
type Session struct {
	mu        sync.Mutex
	team      []game.Pair
	enemies   []game.Pair
	level     int
	resolving bool
	over      bool

	roll   engine.Roller
	delays DelayPolicy
	spawn  OpponentSource
	hooks  Hooks
	log    *zap.Logger
}

func NewSession(cfg Config) (*Session, error) {
	if len(cfg.Team) == 0 {
		return nil, errors.New("battle: team is required")
	}
	if cfg.Spawn == nil {
		return nil, errors.New("battle: opponent source is required")
	}
	if cfg.Roller == nil {
		cfg.Roller = engine.NewRoller(nil)
	}
	if cfg.Delays == nil {
		cfg.Delays = StandardDelays{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Session{
		team:   game.ClonePairs(cfg.Team),
		level:  1,
		roll:   cfg.Roller,
		delays: cfg.Delays,
		spawn:  cfg.Spawn,
		hooks:  cfg.Hooks,
		log:    cfg.Logger,
	}
	s.enemies = cfg.Spawn(s.level)
	if len(s.enemies) == 0 {
		return nil, errors.New("battle: opponent source produced an empty wave")
	}
	return s, nil
}

// Strike is one resolved PvE exchange: both sides roll, the attack lands
// only when the attacker's roll beats the defender's.
type Strike struct {
	AttackerRoll int  `json:"attacker_roll"`
	DefenderRoll int  `json:"defender_roll"`
	Hit          bool `json:"hit"`
	Damage       int  `json:"damage"`
	TargetIndex  int  `json:"target_index"`
}

// TurnReport describes one full player turn: the player's strike,
// optional wave progression, and the enemy's answering strike.
type TurnReport struct {
	Player       Strike  `json:"player"`
	LevelCleared bool    `json:"level_cleared"`
	Level        int     `json:"level"`
	Enemy        *Strike `json:"enemy,omitempty"`
	Defeated     bool    `json:"defeated"`
}

// PlayerAttack resolves the player's attack against an enemy pair and,
// when the wave survives, the enemy's answer. Delays pace the phases;
// ctx cancels them early.
func (s *Session) PlayerAttack(ctx context.Context, attackerIdx, targetIdx int) (*TurnReport, error) {
	if err := s.beginTurn(attackerIdx, targetIdx); err != nil {
		return nil, err
	}
	defer s.endTurn()

	report := &TurnReport{}

	atkRoll, defRoll := s.roll(), s.roll()
	if err := s.wait(ctx, s.delays.RollDelay()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	out := engine.ResolveVersus(atkRoll, defRoll, s.team[attackerIdx].TotalPower(), s.enemies[targetIdx].TotalDefense())
	s.enemies[targetIdx] = engine.ApplyDamage(s.enemies[targetIdx], out.Damage)
	report.Player = Strike{
		AttackerRoll: atkRoll,
		DefenderRoll: defRoll,
		Hit:          !out.IsMiss,
		Damage:       out.Damage,
		TargetIndex:  targetIdx,
	}
	killed := out.Damage > 0 && !s.enemies[targetIdx].Alive()
	cleared := engine.TeamDefeated(s.enemies)
	level := s.level
	s.mu.Unlock()

	if killed && s.hooks.OnExperience != nil {
		s.hooks.OnExperience(killExperience * level)
	}
	if err := s.wait(ctx, s.delays.AttackDelay()); err != nil {
		return nil, err
	}

	if cleared {
		s.advanceLevel(report)
		return report, nil
	}

	if err := s.wait(ctx, s.delays.TurnDelay()); err != nil {
		return nil, err
	}
	s.enemyTurn(report)
	report.Level = level
	return report, nil
}

// advanceLevel regenerates a fresh opponent wave for the next level. An
// opponent source that comes back empty mid-run ends the session: the
// alternative is a live session no attack can ever target.
func (s *Session) advanceLevel(report *TurnReport) {
	s.mu.Lock()
	cleared := s.level
	s.level++
	s.enemies = s.spawn(s.level)
	next := s.level
	exhausted := len(s.enemies) == 0
	if exhausted {
		s.over = true
	}
	s.mu.Unlock()

	report.LevelCleared = true
	report.Level = next
	s.log.Info("dungeon level cleared", zap.Int("level", cleared), zap.Int("next", next))
	if s.hooks.OnLevelCleared != nil {
		s.hooks.OnLevelCleared(cleared)
	}
	if exhausted {
		s.log.Warn("opponent source returned no wave, ending run", zap.Int("level", next))
	}
}

// enemyTurn has the first alive enemy pair strike the first alive player
// pair, under the same roll-vs-roll law.
func (s *Session) enemyTurn(report *TurnReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	atkIdx := engine.FirstAlive(s.enemies)
	tgtIdx := engine.FirstAlive(s.team)
	if atkIdx < 0 || tgtIdx < 0 {
		return
	}

	atkRoll, defRoll := s.roll(), s.roll()
	out := engine.ResolveVersus(atkRoll, defRoll, s.enemies[atkIdx].TotalPower(), s.team[tgtIdx].TotalDefense())
	s.team[tgtIdx] = engine.ApplyDamage(s.team[tgtIdx], out.Damage)
	report.Enemy = &Strike{
		AttackerRoll: atkRoll,
		DefenderRoll: defRoll,
		Hit:          !out.IsMiss,
		Damage:       out.Damage,
		TargetIndex:  tgtIdx,
	}

	if engine.TeamDefeated(s.team) {
		s.over = true
		report.Defeated = true
		s.log.Info("dungeon run ended", zap.Int("level", s.level))
		if s.hooks.OnDefeat != nil {
			s.hooks.OnDefeat(s.level)
		}
	}
}

// Resync replaces the player roster from an external refresh. Skipped —
// returning false — while a turn is resolving or after the run ended, so
// a background sync never overwrites in-flight combat damage.
func (s *Session) Resync(team []game.Pair) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolving || s.over || len(team) == 0 {
		return false
	}
	s.team = game.ClonePairs(team)
	return true
}

// Level returns the current dungeon level.
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Over reports whether the run has ended: the player's team was wiped
// or the opponent source stopped producing waves.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Team returns a copy of the player's pairs.
func (s *Session) Team() []game.Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.ClonePairs(s.team)
}

// Enemies returns a copy of the current wave.
func (s *Session) Enemies() []game.Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return game.ClonePairs(s.enemies)
}

func (s *Session) beginTurn(attackerIdx, targetIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return ErrSessionOver
	}
	if s.resolving {
		return ErrTurnInProgress
	}
	if attackerIdx < 0 || attackerIdx >= len(s.team) || targetIdx < 0 || targetIdx >= len(s.enemies) {
		return ErrInvalidPairIndex
	}
	if !s.team[attackerIdx].Alive() || !s.enemies[targetIdx].Alive() {
		return ErrPairDefeated
	}
	s.resolving = true
	return nil
}

func (s *Session) endTurn() {
	s.mu.Lock()
	s.resolving = false
	s.mu.Unlock()
}

func (s *Session) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
