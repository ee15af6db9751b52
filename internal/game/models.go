package game

import (
	"gorm.io/gorm"
)

// PlayerProfile stores unique player identity and persisted progression:
// wallet, cosmetics, inventory and the highest floor reached.
type PlayerProfile struct {
	gorm.Model
	PlayerName string
	Email      string `gorm:"uniqueIndex"`
	Currency   int
	// Cosmetics and Inventory are small free-form collections; store them
	// as JSON blobs instead of dedicated tables.
	Cosmetics    []string       `gorm:"serializer:json"`
	Inventory    map[string]int `gorm:"serializer:json"`
	HighestFloor int
	RunsPlayed   int
	Wins         int
}

// Unify the profiles table name as "player_profiles".
func (PlayerProfile) TableName() string { return "player_profiles" }

// BestiaryEntry is one encountered-enemy log row, keyed by the canonical
// enemy key so repeat encounters increment a counter instead of duplicating.
type BestiaryEntry struct {
	gorm.Model
	Email      string `gorm:"uniqueIndex:idx_bestiary_email_key"`
	EnemyKey   string `gorm:"uniqueIndex:idx_bestiary_email_key"`
	EnemyName  string
	Encounters int
}

func (BestiaryEntry) TableName() string { return "bestiary_entries" }

// RunRecord persists the outcome of a single run attempt.
type RunRecord struct {
	gorm.Model
	RunUUID      string `gorm:"uniqueIndex"`
	Email        string `gorm:"index"`
	Status       string // in_progress | victory | defeat | abandoned
	FloorReached int
	CoinsEarned  int
	// History is the shareable result string built from symbolic move
	// outcomes, one symbol per resolved flip pair.
	History string
}

func (RunRecord) TableName() string { return "run_records" }

// Run status values.
const (
	RunStatusInProgress = "in_progress"
	RunStatusVictory    = "victory"
	RunStatusDefeat     = "defeat"
	RunStatusAbandoned  = "abandoned"
)
