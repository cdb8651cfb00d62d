package game

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Match lifecycle states.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// BotPrefix marks synthetic participants whose turns are resolved by the
// server. Bot wallets never receive rating changes or rewards.
const BotPrefix = "bot_"

// RatingSkip is the sentinel participant identifier passed to the rating
// service for the non-rated side of a bot match.
const RatingSkip = "skip"

// IsBot reports whether a participant identifier follows the bot naming
// convention.
func IsBot(wallet string) bool {
	return strings.HasPrefix(wallet, BotPrefix)
}

// Combatant is a single unit: a hero or a companion. Power and Defense
// feed the damage formula; Defense is never reduced by combat.
type Combatant struct {
	Name      string `json:"name"`
	Power     int    `json:"power"`
	Defense   int    `json:"defense"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
}

// Alive reports whether the combatant still has health. Safe on nil so
// callers can test an absent companion directly.
func (c *Combatant) Alive() bool {
	return c != nil && c.Health > 0
}

// Pair is the atomic fighting unit: one hero plus an optional companion.
// CurrentHealth is always the sum of the members' health.
type Pair struct {
	Hero          Combatant  `json:"hero"`
	Companion     *Combatant `json:"companion,omitempty"`
	CurrentHealth int        `json:"current_health"`
}

// NewPair snapshots a full-health pair from resolved combatant stats.
func NewPair(hero Combatant, companion *Combatant) Pair {
	hero.Health = hero.MaxHealth
	p := Pair{Hero: hero}
	if companion != nil {
		c := *companion
		c.Health = c.MaxHealth
		p.Companion = &c
	}
	p.RecalcHealth()
	return p
}

// Alive reports whether any member of the pair still has health.
func (p *Pair) Alive() bool {
	return p.Hero.Alive() || p.Companion.Alive()
}

// RecalcHealth restores the aggregate-health invariant after a mutation.
func (p *Pair) RecalcHealth() {
	total := p.Hero.Health
	if p.Companion != nil {
		total += p.Companion.Health
	}
	p.CurrentHealth = total
}

// TotalDefense is the defending value for the damage formula: hero
// defense plus companion defense while the companion is alive.
func (p *Pair) TotalDefense() int {
	d := 0
	if p.Hero.Alive() {
		d += p.Hero.Defense
	}
	if p.Companion.Alive() {
		d += p.Companion.Defense
	}
	return d
}

// TotalPower is the attacking value for the damage formula, aggregated
// the same way as TotalDefense.
func (p *Pair) TotalPower() int {
	a := 0
	if p.Hero.Alive() {
		a += p.Hero.Power
	}
	if p.Companion.Alive() {
		a += p.Companion.Power
	}
	return a
}

// Clone returns a deep copy with no aliasing of the companion pointer.
func (p Pair) Clone() Pair {
	out := p
	if p.Companion != nil {
		c := *p.Companion
		out.Companion = &c
	}
	return out
}

// ClonePairs deep-copies a team snapshot.
func ClonePairs(pairs []Pair) []Pair {
	out := make([]Pair, len(pairs))
	for i := range pairs {
		out[i] = pairs[i].Clone()
	}
	return out
}

// BattleState is the mutable combat portion of a match, persisted as a
// single JSON column so one row update carries the whole snapshot.
type BattleState struct {
	TeamA      []Pair `json:"team_a"`
	TeamB      []Pair `json:"team_b"`
	TurnNumber int    `json:"turn_number"`
	LastAction string `json:"last_action"`
}

// Match is the authoritative persisted record of one PvP encounter.
// Version implements optimistic concurrency: every write presents the
// version it read and increments it.
type Match struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PlayerA  string  `json:"player_a" gorm:"index"`
	PlayerB  string  `json:"player_b" gorm:"index"`
	EntryFee float64 `json:"entry_fee"`

	State       BattleState `json:"state" gorm:"serializer:json"`
	CurrentTurn string      `json:"current_turn"`
	Status      string      `json:"status" gorm:"index"`

	Winner      string     `json:"winner"`
	Loser       string     `json:"loser"`
	RatingDelta int        `json:"rating_delta"`
	Reward      float64    `json:"reward"`
	EndedAt     *time.Time `json:"ended_at"`
	// PayoutDone records that the completing write also dispatched the
	// rating and reward side-effects. Re-completion itself is blocked by
	// the active-status checks and the version column; the flag makes the
	// dispatch auditable on the row.
	PayoutDone bool `json:"-"`

	Version uint `json:"-"`
}

// IsBotMatch reports whether either participant is a bot.
func (m *Match) IsBotMatch() bool {
	return IsBot(m.PlayerA) || IsBot(m.PlayerB)
}

// HasPlayer reports whether the wallet is one of the two participants.
func (m *Match) HasPlayer(wallet string) bool {
	return wallet == m.PlayerA || wallet == m.PlayerB
}

// Opponent returns the other participant's identifier.
func (m *Match) Opponent(wallet string) string {
	if wallet == m.PlayerA {
		return m.PlayerB
	}
	return m.PlayerA
}

// TeamOf returns the team belonging to the wallet. The slice aliases the
// match state; mutations are intentional and persisted by the caller.
func (m *Match) TeamOf(wallet string) []Pair {
	if wallet == m.PlayerA {
		return m.State.TeamA
	}
	return m.State.TeamB
}

// SetTeamOf replaces the wallet's team snapshot in the match state.
func (m *Match) SetTeamOf(wallet string, pairs []Pair) {
	if wallet == m.PlayerA {
		m.State.TeamA = pairs
	} else {
		m.State.TeamB = pairs
	}
}

// MoveRecord is an immutable append-only log entry for one resolved
// attack. The record always attributes the move to the original
// attacker's wallet, even when a counter-attack occurred as a sub-effect.
type MoveRecord struct {
	gorm.Model
	MatchID    string `json:"match_id" gorm:"index;size:36"`
	Wallet     string `json:"wallet"`
	TurnNumber int    `json:"turn_number"`

	AttackerPairIndex int `json:"attacker_pair_index"`
	TargetPairIndex   int `json:"target_pair_index"`

	DiceRoll        int  `json:"dice_roll"`
	DamagePercent   int  `json:"damage_percent"`
	Damage          int  `json:"damage"`
	IsMiss          bool `json:"is_miss"`
	IsCritical      bool `json:"is_critical"`
	IsCounterAttack bool `json:"is_counter_attack"`
	CounterDamage   int  `json:"counter_damage"`

	ActionType  string      `json:"action_type"`
	Description string      `json:"description"`
	Snapshot    BattleState `json:"snapshot" gorm:"serializer:json"`
}

func (MoveRecord) TableName() string { return "match_moves" }

// PlayerProfile stores a wallet's aggregate PvP record and rating.
type PlayerProfile struct {
	gorm.Model
	Wallet        string `json:"wallet" gorm:"uniqueIndex"`
	Rating        int    `json:"rating"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Surrenders    int    `json:"surrenders"`
	MatchesPlayed int    `json:"matches_played"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }
