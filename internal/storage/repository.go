package storage

import (
	"errors"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"
)

// ErrVersionConflict is returned when a match write presented a stale
// version: another request committed first and the move must be
// re-submitted against the fresh state.
var ErrVersionConflict = errors.New("match was modified concurrently")

type Repository interface {
	CreateMatch(m *game.Match) error
	GetMatchByID(id string) (*game.Match, error)
	// CommitTurn persists the updated match row and the move record (when
	// non-nil) as one transaction, guarded by the match version the caller
	// read. On success the in-memory version is advanced.
	CommitTurn(m *game.Match, mv *game.MoveRecord) error
	ListMoves(matchID string) ([]game.MoveRecord, error)

	GetProfileByWallet(wallet string) (*game.PlayerProfile, error)
	GetTopPlayers(limit int) ([]game.PlayerProfile, error)
	// UpdateRating moves both participants' ratings by the fixed
	// per-match delta. Bot identifiers and game.RatingSkip are ignored.
	// Satisfies service.RatingService.
	UpdateRating(winner, loser string, delta int, surrendered bool) error
}
