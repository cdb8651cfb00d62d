package storage

import (
	"github.com/doktorshnaps/elves-dragons-adventure-sub002/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database at the given path and keeps
// the schema updated via AutoMigrate.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.Match{}, &game.MoveRecord{}, &game.PlayerProfile{}); err != nil {
		return nil, err
	}
	return db, nil
}
