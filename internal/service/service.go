package service

import (
	"errors"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/engine"
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"

	"go.uber.org/zap"
)

// Action types accepted by the move-submission boundary.
const (
	ActionAttack         = "attack"
	ActionAbility        = "ability"
	ActionSurrender      = "surrender"
	ActionTriggerBotTurn = "trigger_bot_turn"
)

var (
	ErrMatchNotFound        = errors.New("match not found")
	ErrMatchNotActive       = errors.New("match is not active")
	ErrPlayerNotInMatch     = errors.New("player not in match")
	ErrNotYourTurn          = errors.New("not your turn")
	ErrInvalidPairIndex     = errors.New("pair index out of range")
	ErrAttackerPairDefeated = errors.New("attacker pair is defeated")
	ErrTargetPairDefeated   = errors.New("target pair is defeated")
	ErrNotBotMatch          = errors.New("match has no bot participant")
	ErrNotBotTurn           = errors.New("it is not the bot's turn")
	ErrInvalidAction        = errors.New("invalid action type")

	ErrPlayerRequired   = errors.New("both participants are required")
	ErrSamePlayers      = errors.New("participants must differ")
	ErrInvalidTeamSize  = errors.New("team size out of range")
	ErrInvalidCombatant = errors.New("combatant stats are invalid")
)

// MatchRepo is the persistence surface the controller needs. Implemented
// by storage.Repository.
type MatchRepo interface {
	CreateMatch(m *game.Match) error
	GetMatchByID(id string) (*game.Match, error)
	CommitTurn(m *game.Match, mv *game.MoveRecord) error
}

// RatingService adjusts both participants' ratings on match completion.
// Bot identifiers and game.RatingSkip must be accepted and ignored.
type RatingService interface {
	UpdateRating(winner, loser string, delta int, surrendered bool) error
}

// BalanceService credits the winner's prize. The implementation is an
// external economy procedure; idempotency under retry is its concern.
type BalanceService interface {
	AddBalance(wallet string, amount float64) error
}

// MatchService is the server-authoritative match turn controller. It is
// stateless between calls: every invocation loads the match, validates,
// resolves and commits through the repository's versioned write.
type MatchService struct {
	repo        MatchRepo
	rating      RatingService
	balance     BalanceService
	roll        engine.Roller
	ratingDelta int
	maxTeamSize int
	log         *zap.Logger
}

// Options tune the controller. Zero values fall back to defaults.
type Options struct {
	Roller      engine.Roller
	RatingDelta int
	MaxTeamSize int
	Logger      *zap.Logger
}

func NewMatchService(repo MatchRepo, rating RatingService, balance BalanceService, opts Options) *MatchService {
	if opts.Roller == nil {
		opts.Roller = engine.NewRoller(nil)
	}
	if opts.RatingDelta == 0 {
		opts.RatingDelta = 25
	}
	if opts.MaxTeamSize == 0 {
		opts.MaxTeamSize = 5
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &MatchService{
		repo:        repo,
		rating:      rating,
		balance:     balance,
		roll:        opts.Roller,
		ratingDelta: opts.RatingDelta,
		maxTeamSize: opts.MaxTeamSize,
		log:         opts.Logger,
	}
}
