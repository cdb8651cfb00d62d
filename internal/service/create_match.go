package service

import (
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PairSpec is a resolved roster entry: stats already computed by the
// roster/template lookup, which is external to this core.
type PairSpec struct {
	Hero      game.Combatant  `json:"hero"`
	Companion *game.Combatant `json:"companion,omitempty"`
}

type CreateMatchRequest struct {
	PlayerA  string     `json:"player_a"`
	PlayerB  string     `json:"player_b"`
	EntryFee float64    `json:"entry_fee"`
	TeamA    []PairSpec `json:"team_a"`
	TeamB    []PairSpec `json:"team_b"`
}

// CreateMatch snapshots both rosters at full health and persists the
// match in active status with the first player to move.
func (s *MatchService) CreateMatch(req CreateMatchRequest) (*game.Match, error) {
	if req.PlayerA == "" || req.PlayerB == "" {
		return nil, ErrPlayerRequired
	}
	if req.PlayerA == req.PlayerB {
		return nil, ErrSamePlayers
	}

	teamA, err := s.buildTeam(req.TeamA)
	if err != nil {
		return nil, err
	}
	teamB, err := s.buildTeam(req.TeamB)
	if err != nil {
		return nil, err
	}

	m := &game.Match{
		ID:          uuid.NewString(),
		PlayerA:     req.PlayerA,
		PlayerB:     req.PlayerB,
		EntryFee:    req.EntryFee,
		State:       game.BattleState{TeamA: teamA, TeamB: teamB},
		CurrentTurn: req.PlayerA,
		Status:      game.StatusActive,
	}
	if err := s.repo.CreateMatch(m); err != nil {
		return nil, err
	}
	s.log.Info("match created",
		zap.String(constants.LogFieldMatchID, m.ID),
		zap.String("player_a", m.PlayerA),
		zap.String("player_b", m.PlayerB),
		zap.Bool("bot_match", m.IsBotMatch()),
	)
	return m, nil
}

func (s *MatchService) buildTeam(specs []PairSpec) ([]game.Pair, error) {
	if len(specs) < 1 || len(specs) > s.maxTeamSize {
		return nil, ErrInvalidTeamSize
	}
	pairs := make([]game.Pair, 0, len(specs))
	for _, spec := range specs {
		if !validCombatant(&spec.Hero) {
			return nil, ErrInvalidCombatant
		}
		if spec.Companion != nil && !validCombatant(spec.Companion) {
			return nil, ErrInvalidCombatant
		}
		pairs = append(pairs, game.NewPair(spec.Hero, spec.Companion))
	}
	return pairs, nil
}

func validCombatant(c *game.Combatant) bool {
	return c.MaxHealth > 0 && c.Power >= 0 && c.Defense >= 0
}
