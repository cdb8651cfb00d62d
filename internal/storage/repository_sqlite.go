package storage

import (
	"errors"

	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateMatch(m *game.Match) error {
	return r.db.Create(m).Error
}

func (r *sqliteRepository) GetMatchByID(id string) (*game.Match, error) {
	var m game.Match
	if err := r.db.First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CommitTurn is the single write path for match mutation. The update only
// matches a row still carrying the version the caller read, so two
// concurrent resolutions of the same turn cannot both commit: the loser
// sees ErrVersionConflict and no partial state.
func (r *sqliteRepository) CommitTurn(m *game.Match, mv *game.MoveRecord) error {
	readVersion := m.Version
	m.Version = readVersion + 1

	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&game.Match{}).
			Where("id = ? AND version = ?", m.ID, readVersion).
			Select("*").
			Omit("id", "created_at").
			Updates(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}
		if mv != nil {
			if err := tx.Create(mv).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		m.Version = readVersion
		return err
	}
	return nil
}

func (r *sqliteRepository) ListMoves(matchID string) ([]game.MoveRecord, error) {
	var moves []game.MoveRecord
	if err := r.db.Where("match_id = ?", matchID).Order("id asc").Find(&moves).Error; err != nil {
		return nil, err
	}
	return moves, nil
}

func (r *sqliteRepository) GetProfileByWallet(wallet string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	if err := r.db.Where("wallet = ?", wallet).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &game.PlayerProfile{Wallet: wallet}, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	var players []game.PlayerProfile
	if err := r.db.Model(&game.PlayerProfile{}).
		Order("rating DESC").
		Order("wins DESC").
		Limit(limit).
		Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

// UpdateRating moves winner and loser by the same fixed amount. The
// bot side of a bot match (or the explicit skip sentinel) gets no row.
func (r *sqliteRepository) UpdateRating(winner, loser string, delta int, surrendered bool) error {
	adjust := func(tx *gorm.DB, wallet string, ratingDelta int, won bool) error {
		if wallet == "" || wallet == game.RatingSkip || game.IsBot(wallet) {
			return nil
		}
		var p game.PlayerProfile
		if err := tx.Where("wallet = ?", wallet).First(&p).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			p = game.PlayerProfile{Wallet: wallet}
		}
		p.Rating += ratingDelta
		if p.Rating < 0 {
			p.Rating = 0
		}
		p.MatchesPlayed++
		if won {
			p.Wins++
		} else {
			p.Losses++
			if surrendered {
				p.Surrenders++
			}
		}
		return tx.Save(&p).Error
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := adjust(tx, winner, delta, true); err != nil {
			return err
		}
		return adjust(tx, loser, -delta, false)
	})
}
