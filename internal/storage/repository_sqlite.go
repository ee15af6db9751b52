package storage

import (
	"errors"

	"github.com/davidarcila/TowerFlip/internal/game"
	"github.com/davidarcila/TowerFlip/internal/keys"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

// NewSQLiteRepository wraps a migrated gorm handle in the Repository
// interface.
func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) GetProfileByEmail(email string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	if err := r.db.Where("email = ?", email).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile loads or creates the profile row for email. The display
// name is only filled on first creation; later edits go through SaveProfile.
func (r *sqliteRepository) UpsertProfile(email, name string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	err := r.db.Where("email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = game.PlayerProfile{Email: email, PlayerName: name, Inventory: map[string]int{}}
		if err := r.db.Create(&p).Error; err != nil {
			return nil, err
		}
		return &p, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) SaveProfile(p *game.PlayerProfile) error {
	return r.db.Save(p).Error
}

// RecordEncounter bumps the bestiary counter for (email, enemy), inserting
// the row on first sight. The canonical key keeps casing variants together.
func (r *sqliteRepository) RecordEncounter(email, enemyName string) error {
	key := keys.EnemyKeyFromName(enemyName)
	if key == "" {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}, {Name: "enemy_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"encounters": gorm.Expr("encounters + 1")}),
	}).Create(&game.BestiaryEntry{
		Email:      email,
		EnemyKey:   key,
		EnemyName:  enemyName,
		Encounters: 1,
	}).Error
}

func (r *sqliteRepository) GetBestiary(email string) ([]game.BestiaryEntry, error) {
	var entries []game.BestiaryEntry
	if err := r.db.Where("email = ?", email).Order("enemy_key").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sqliteRepository) CreateRunRecord(rec *game.RunRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) UpdateRunRecord(rec *game.RunRecord) error {
	return r.db.Save(rec).Error
}

func (r *sqliteRepository) GetRunRecordByUUID(uuid string) (*game.RunRecord, error) {
	var rec game.RunRecord
	if err := r.db.Where("run_uuid = ?", uuid).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]game.PlayerProfile, error) {
	var players []game.PlayerProfile
	if err := r.db.Order("highest_floor DESC, wins DESC, runs_played ASC").Limit(limit).Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}
