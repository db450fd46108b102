package storage

import (
	"os"
	"path/filepath"

	"github.com/nightfall-games/mafia-night/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the SQLite database at the given path (creating the
// parent directory when needed) and keeps the schema updated via
// AutoMigrate. The composite unique indexes on night_actions and votes back
// the latest-wins upsert discipline.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&game.Game{},
		&game.Player{},
		&game.NightAction{},
		&game.Vote{},
		&game.Investigation{},
		&game.ChatMessage{},
		&game.BotMemoryEntry{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
