package service

import (
	"fmt"
	"time"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/constants"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/engine"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"

	"go.uber.org/zap"
)

// MoveRequest is one intended action against a match.
type MoveRequest struct {
	MatchID           string
	Wallet            string
	ActionType        string
	AttackerPairIndex int
	TargetPairIndex   int
}

// MoveResult is the resolved outcome returned to the caller. For an
// attack that hands the turn to a bot, the dice fields describe the
// human's attack while the status fields reflect the state after the
// bot's chained turn.
type MoveResult struct {
	MatchStatus     string
	ActionType      string
	DiceRoll        int
	DamagePercent   int
	DamageDealt     int
	IsMiss          bool
	IsCritical      bool
	IsCounterAttack bool
	CounterDamage   int
	Description     string
	NextTurn        string

	Winner    string
	Loser     string
	EloChange int
	Reward    float64
}

// SubmitMove validates and resolves one action. Check-then-commit: any
// validation failure returns before state is touched, and the repository
// write is all-or-nothing.
func (s *MatchService) SubmitMove(req MoveRequest) (*MoveResult, error) {
	m, err := s.repo.GetMatchByID(req.MatchID)
	if err != nil || m == nil {
		return nil, ErrMatchNotFound
	}

	switch req.ActionType {
	case ActionAttack, ActionAbility:
		return s.playerMove(m, req)
	case ActionSurrender:
		return s.surrender(m, req.Wallet)
	case ActionTriggerBotTurn:
		return s.triggerBotTurn(m)
	default:
		return nil, ErrInvalidAction
	}
}

func (s *MatchService) playerMove(m *game.Match, req MoveRequest) (*MoveResult, error) {
	if m.Status != game.StatusActive {
		return nil, ErrMatchNotActive
	}
	if !m.HasPlayer(req.Wallet) {
		return nil, ErrPlayerNotInMatch
	}
	if m.CurrentTurn != req.Wallet {
		return nil, ErrNotYourTurn
	}

	result, err := s.resolveAttack(m, req.Wallet, req.AttackerPairIndex, req.TargetPairIndex, req.ActionType)
	if err != nil {
		return nil, err
	}

	// The human's mutation is already durable. A bot turn triggered by
	// the flip runs in the same invocation, capped at one: a failure here
	// degrades to "turn passed, bot didn't move yet". On failure m may
	// carry the bot's unpersisted mutations, so the result keeps
	// describing the committed state and is not refreshed from m.
	if m.Status == game.StatusActive && m.IsBotMatch() && game.IsBot(m.CurrentTurn) {
		if _, botErr := s.botMove(m); botErr != nil {
			s.log.Warn("bot turn failed after player move",
				zap.String(constants.LogFieldMatchID, m.ID),
				zap.Error(botErr),
			)
			return result, nil
		}
		result.MatchStatus = m.Status
		result.NextTurn = nextTurn(m)
		result.Winner = m.Winner
		result.Loser = m.Loser
		result.EloChange = m.RatingDelta
		result.Reward = m.Reward
	}
	return result, nil
}

func (s *MatchService) triggerBotTurn(m *game.Match) (*MoveResult, error) {
	if m.Status != game.StatusActive {
		return nil, ErrMatchNotActive
	}
	if !m.IsBotMatch() {
		return nil, ErrNotBotMatch
	}
	if !game.IsBot(m.CurrentTurn) {
		return nil, ErrNotBotTurn
	}
	return s.botMove(m)
}

// botMove resolves the bot's turn with the simplest-available heuristic:
// first alive pair attacks the human's first alive pair, in array order.
func (s *MatchService) botMove(m *game.Match) (*MoveResult, error) {
	bot := m.CurrentTurn
	atkIdx := engine.FirstAlive(m.TeamOf(bot))
	tgtIdx := engine.FirstAlive(m.TeamOf(m.Opponent(bot)))
	if atkIdx < 0 || tgtIdx < 0 {
		return nil, ErrMatchNotActive
	}
	return s.resolveAttack(m, bot, atkIdx, tgtIdx, ActionAttack)
}

// resolveAttack performs one complete attack resolution: dice, damage,
// optional counter-attack, defeat evaluation, persistence, payouts.
// Defeat is checked opponent-first so a simultaneous mutual knockout
// scores as the original attacker's win.
func (s *MatchService) resolveAttack(m *game.Match, wallet string, atkIdx, tgtIdx int, actionType string) (*MoveResult, error) {
	opponent := m.Opponent(wallet)
	attTeam := m.TeamOf(wallet)
	defTeam := m.TeamOf(opponent)

	if atkIdx < 0 || atkIdx >= len(attTeam) || tgtIdx < 0 || tgtIdx >= len(defTeam) {
		return nil, ErrInvalidPairIndex
	}
	if !attTeam[atkIdx].Alive() {
		return nil, ErrAttackerPairDefeated
	}
	if !defTeam[tgtIdx].Alive() {
		return nil, ErrTargetPairDefeated
	}

	out := engine.Resolve(s.roll(), attTeam[atkIdx].TotalPower(), defTeam[tgtIdx].TotalDefense())
	defTeam[tgtIdx] = engine.ApplyDamage(defTeam[tgtIdx], out.Damage)

	// A roll of 1 triggers exactly one retaliatory resolution by the
	// original target against the original attacker. It cannot chain.
	counterDamage := 0
	if out.IsCounterAttack {
		counter := engine.Resolve(s.roll(), defTeam[tgtIdx].TotalPower(), attTeam[atkIdx].TotalDefense())
		counterDamage = counter.Damage
		attTeam[atkIdx] = engine.ApplyDamage(attTeam[atkIdx], counterDamage)
	}

	m.State.TurnNumber++
	desc := describeAttack(wallet, out, counterDamage)
	m.State.LastAction = desc

	switch {
	case engine.TeamDefeated(defTeam):
		s.complete(m, wallet, opponent, false)
	case engine.TeamDefeated(attTeam):
		s.complete(m, opponent, wallet, false)
	default:
		m.CurrentTurn = opponent
	}

	mv := &game.MoveRecord{
		MatchID:           m.ID,
		Wallet:            wallet,
		TurnNumber:        m.State.TurnNumber,
		AttackerPairIndex: atkIdx,
		TargetPairIndex:   tgtIdx,
		DiceRoll:          out.Roll,
		DamagePercent:     out.DamagePercent,
		Damage:            out.Damage,
		IsMiss:            out.IsMiss,
		IsCritical:        out.IsCritical,
		IsCounterAttack:   out.IsCounterAttack,
		CounterDamage:     counterDamage,
		ActionType:        actionType,
		Description:       desc,
		Snapshot:          snapshotState(m),
	}
	if err := s.repo.CommitTurn(m, mv); err != nil {
		return nil, err
	}
	if m.Status == game.StatusCompleted {
		s.payout(m, false)
	}

	return &MoveResult{
		MatchStatus:     m.Status,
		ActionType:      actionType,
		DiceRoll:        out.Roll,
		DamagePercent:   out.DamagePercent,
		DamageDealt:     out.Damage,
		IsMiss:          out.IsMiss,
		IsCritical:      out.IsCritical,
		IsCounterAttack: out.IsCounterAttack,
		CounterDamage:   counterDamage,
		Description:     desc,
		NextTurn:        nextTurn(m),
		Winner:          m.Winner,
		Loser:           m.Loser,
		EloChange:       m.RatingDelta,
		Reward:          m.Reward,
	}, nil
}

// surrender concedes the match for the requesting wallet. It is valid on
// either participant's turn by design; only the active status and
// membership are checked.
func (s *MatchService) surrender(m *game.Match, wallet string) (*MoveResult, error) {
	if m.Status != game.StatusActive {
		return nil, ErrMatchNotActive
	}
	if !m.HasPlayer(wallet) {
		return nil, ErrPlayerNotInMatch
	}

	s.complete(m, m.Opponent(wallet), wallet, true)
	m.State.TurnNumber++
	desc := fmt.Sprintf("%s surrendered", wallet)
	m.State.LastAction = desc

	mv := &game.MoveRecord{
		MatchID:     m.ID,
		Wallet:      wallet,
		TurnNumber:  m.State.TurnNumber,
		ActionType:  ActionSurrender,
		Description: desc,
		Snapshot:    snapshotState(m),
	}
	if err := s.repo.CommitTurn(m, mv); err != nil {
		return nil, err
	}
	s.payout(m, true)

	return &MoveResult{
		MatchStatus: m.Status,
		ActionType:  ActionSurrender,
		Description: desc,
		Winner:      m.Winner,
		Loser:       m.Loser,
		EloChange:   m.RatingDelta,
		Reward:      m.Reward,
	}, nil
}

// complete transitions the match to its terminal state. PayoutDone rides
// along in the completing write to record that this write owns the
// side-effects; re-completion is blocked by the active-status checks
// upstream and by the version column.
func (s *MatchService) complete(m *game.Match, winner, loser string, surrendered bool) {
	now := time.Now().UTC()
	m.Status = game.StatusCompleted
	m.Winner = winner
	m.Loser = loser
	m.RatingDelta = s.ratingDelta
	m.EndedAt = &now
	m.PayoutDone = true
	// A conceded match pays no prize; the pot is handled by the economy
	// service outside this core.
	if !surrendered && !game.IsBot(winner) {
		m.Reward = m.EntryFee * 2 * 0.9
	}
}

// payout fires the rating and balance side-effects exactly once per
// match, after the completing write is durable. Rating never moves for
// the bot side of a bot match.
func (s *MatchService) payout(m *game.Match, surrendered bool) {
	winnerID, loserID := m.Winner, m.Loser
	if game.IsBot(winnerID) {
		winnerID = game.RatingSkip
	}
	if game.IsBot(loserID) {
		loserID = game.RatingSkip
	}
	if err := s.rating.UpdateRating(winnerID, loserID, m.RatingDelta, surrendered); err != nil {
		s.log.Error("rating update failed",
			zap.String(constants.LogFieldMatchID, m.ID),
			zap.Error(err),
		)
	}
	if m.Reward > 0 && !game.IsBot(m.Winner) {
		if err := s.balance.AddBalance(m.Winner, m.Reward); err != nil {
			s.log.Error("reward credit failed",
				zap.String(constants.LogFieldMatchID, m.ID),
				zap.String(constants.LogFieldWallet, m.Winner),
				zap.Float64("reward", m.Reward),
				zap.Error(err),
			)
		}
	}
	s.log.Info("match completed",
		zap.String(constants.LogFieldMatchID, m.ID),
		zap.String("winner", m.Winner),
		zap.String("loser", m.Loser),
		zap.Float64("reward", m.Reward),
	)
}

func nextTurn(m *game.Match) string {
	if m.Status != game.StatusActive {
		return ""
	}
	return m.CurrentTurn
}

func snapshotState(m *game.Match) game.BattleState {
	return game.BattleState{
		TeamA:      game.ClonePairs(m.State.TeamA),
		TeamB:      game.ClonePairs(m.State.TeamB),
		TurnNumber: m.State.TurnNumber,
		LastAction: m.State.LastAction,
	}
}

func describeAttack(wallet string, out engine.Outcome, counterDamage int) string {
	switch {
	case out.IsCounterAttack:
		return fmt.Sprintf("%s rolled 1 — critical miss, counter-attack for %d", wallet, counterDamage)
	case out.IsMiss:
		return fmt.Sprintf("%s rolled 2 — miss", wallet)
	case out.IsCritical:
		return fmt.Sprintf("%s rolled 6 — critical hit for %d", wallet, out.Damage)
	default:
		return fmt.Sprintf("%s rolled %d — hit for %d", wallet, out.Roll, out.Damage)
	}
}
