package storage

import (
	"os"
	"path/filepath"

	"github.com/davidarcila/TowerFlip/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the SQLite database at dataSourceName and keeps the
// schema updated via AutoMigrate. The parent directory is created when
// missing so a fresh checkout can start without setup.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	if dir := filepath.Dir(dataSourceName); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.PlayerProfile{}, &game.BestiaryEntry{}, &game.RunRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}
