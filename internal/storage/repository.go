package storage

import (
	"github.com/davidarcila/TowerFlip/internal/game"
)

// Repository is the persistence surface the core reads and writes through.
// The core never manages storage lifetime itself.
type Repository interface {
	// Profiles / progress snapshots
	GetProfileByEmail(email string) (*game.PlayerProfile, error)
	UpsertProfile(email, name string) (*game.PlayerProfile, error)
	SaveProfile(p *game.PlayerProfile) error

	// Bestiary (encountered-enemy log keyed by canonical enemy key)
	RecordEncounter(email, enemyName string) error
	GetBestiary(email string) ([]game.BestiaryEntry, error)

	// Run records
	CreateRunRecord(r *game.RunRecord) error
	UpdateRunRecord(r *game.RunRecord) error
	GetRunRecordByUUID(uuid string) (*game.RunRecord, error)

	// Leaderboard
	GetTopPlayers(limit int) ([]game.PlayerProfile, error)
}
