package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/davidarcila/TowerFlip/internal/ai"
	"github.com/davidarcila/TowerFlip/internal/config"
	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/davidarcila/TowerFlip/internal/engine"
	"github.com/davidarcila/TowerFlip/internal/enemygen"
	"github.com/davidarcila/TowerFlip/internal/game"
	"github.com/davidarcila/TowerFlip/internal/logging"
	"github.com/davidarcila/TowerFlip/internal/storage"
	"github.com/google/uuid"
)

// Service orchestrates runs: it owns the session registry and persists
// outcomes through the repository.
type Service struct {
	repo storage.Repository
	reg  *Registry
	cfg  *config.LoadedConfig
	cues engine.CueSink

	// now is swappable so tests can drive the pacing clock.
	now func() time.Time
}

// New creates a run service.
func New(repo storage.Repository, reg *Registry, cfg *config.LoadedConfig) *Service {
	return &Service{repo: repo, reg: reg, cfg: cfg, cues: engine.NopCues{}, now: time.Now}
}

// SetCues installs a presentation sink for combat cues.
func (s *Service) SetCues(c engine.CueSink) {
	if c != nil {
		s.cues = c
	}
}

// engineConfig translates the loaded configuration into the combat config.
func (s *Service) engineConfig() engine.Config {
	deck := make([]engine.PairSpec, 0, len(s.cfg.Deck))
	for _, d := range s.cfg.Deck {
		deck = append(deck, engine.PairSpec{Effect: d.Effect, Wildcard: d.Wildcard, Slimed: d.Slimed})
	}
	diff := make(map[game.Difficulty]ai.Params, len(s.cfg.Difficulty))
	for tier, p := range s.cfg.Difficulty {
		diff[tier] = ai.Params{MistakeChance: p.MistakeChance, ForgetChance: p.ForgetChance, GuaranteedMiss: p.GuaranteedMiss}
	}
	return engine.Config{
		BaseValues:     s.cfg.BaseValues,
		Deck:           deck,
		Difficulty:     diff,
		SettleDelay:    s.cfg.SettleDelay,
		ThinkDelay:     s.cfg.ThinkDelay,
		InterFlipDelay: s.cfg.InterFlipDelay,
		ReshuffleDelay: s.cfg.ReshuffleDelay,
		Floors:         s.cfg.Floors,
		RestHeal:       s.cfg.RestHeal,
	}
}

// StartRun fetches the enemy sequence (falling back silently on generation
// failure), builds floor one and registers the session.
func (s *Service) StartRun(ctx context.Context, email string) (*Snapshot, error) {
	profile, err := s.repo.UpsertProfile(email, "")
	if err != nil {
		return nil, err
	}

	// Enemies grow with every cleared tower so veterans keep a challenge.
	strength := math.Pow(s.cfg.StrengthMultiplier, float64(profile.Wins))
	runID := uuid.NewString()
	// Keyed by player so a double-submitted start shares one generation.
	enemies := enemygen.FetchFloorEnemies(ctx, email, strength, s.cfg.Floors, s.cfg.FallbackEnemies)

	party := game.Entity{Name: "Party", MaxHP: s.cfg.PartyHP, HP: s.cfg.PartyHP}
	now := s.now()
	combat := engine.NewCombat(runID, party, enemies[0], s.engineConfig(), rand.New(rand.NewSource(now.UnixNano())), s.cues)
	combat.Begin(now)

	sess := &Session{Combat: combat, Email: email, Enemies: enemies, LastActivity: now}
	s.reg.Put(runID, sess)

	if err := s.repo.CreateRunRecord(&game.RunRecord{RunUUID: runID, Email: email, Status: game.RunStatusInProgress, FloorReached: 1}); err != nil {
		return nil, err
	}
	if err := s.repo.RecordEncounter(email, enemies[0].Name); err != nil {
		logging.Error("failed to record bestiary encounter", err, logging.Fields{constants.LogFieldRunID: runID, constants.LogFieldEnemy: enemies[0].Name})
	}
	logging.Info("run started", logging.Fields{constants.LogFieldRunID: runID, constants.LogFieldPlayer: email, constants.LogFieldEnemy: enemies[0].Name})

	snap := buildSnapshot(combat, s.cfg.Floors, 0)
	return &snap, nil
}

// session resolves and authorizes a session for email.
func (s *Service) session(runID, email string) (*Session, error) {
	sess, ok := s.reg.Get(runID)
	if !ok {
		return nil, ErrRunNotFound
	}
	if sess.Email != email {
		return nil, ErrNotYourRun
	}
	return sess, nil
}

// Flip handles a party flip request. Rejected flips are policy no-ops, so
// the caller still receives the current snapshot; accepted reports whether
// the flip changed anything.
func (s *Service) Flip(runID, email string, position int) (*Snapshot, bool, error) {
	sess, err := s.session(runID, email)
	if err != nil {
		return nil, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := s.now()
	sess.LastActivity = now
	sess.Combat.Tick(now)
	accepted := sess.Combat.FlipCard(position, now)
	s.maybeFinishLocked(sess)

	snap := buildSnapshot(sess.Combat, s.cfg.Floors, 0)
	return &snap, accepted, nil
}

// Advance applies the external advance trigger from FLOOR_COMPLETE.
func (s *Service) Advance(runID, email string) (*Snapshot, error) {
	sess, err := s.session(runID, email)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := s.now()
	sess.LastActivity = now
	sess.Combat.Tick(now)
	c := sess.Combat
	if c.Over() {
		return nil, ErrRunOver
	}
	if c.State != game.StateFloorComplete || c.Floor+1 >= len(sess.Enemies) {
		return nil, ErrNotAdvancable
	}
	next := sess.Enemies[c.Floor+1]
	if !c.NextFloor(next, now) {
		return nil, ErrNotAdvancable
	}
	c.Begin(now)

	if err := s.repo.RecordEncounter(email, next.Name); err != nil {
		logging.Error("failed to record bestiary encounter", err, logging.Fields{constants.LogFieldRunID: runID, constants.LogFieldEnemy: next.Name})
	}
	if rec, err := s.repo.GetRunRecordByUUID(runID); err == nil {
		rec.FloorReached = c.Floor + 1
		if err := s.repo.UpdateRunRecord(rec); err != nil {
			logging.Error("failed to update run record", err, logging.Fields{constants.LogFieldRunID: runID})
		}
	}

	snap := buildSnapshot(c, s.cfg.Floors, 0)
	return &snap, nil
}

// Abandon concedes the run.
func (s *Service) Abandon(runID, email string) (*Snapshot, error) {
	sess, err := s.session(runID, email)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := s.now()
	sess.Combat.Tick(now)
	if sess.Combat.Over() {
		return nil, ErrRunOver
	}
	sess.Combat.Concede(now)
	s.finishLocked(sess, game.RunStatusAbandoned)

	snap := buildSnapshot(sess.Combat, s.cfg.Floors, 0)
	return &snap, nil
}

// GetSnapshot advances due continuations and returns the current view.
// sinceEvent trims the narrated log to entries the client has not seen.
func (s *Service) GetSnapshot(runID, email string, sinceEvent int) (*Snapshot, error) {
	sess, err := s.session(runID, email)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Combat.Tick(s.now())
	s.maybeFinishLocked(sess)
	snap := buildSnapshot(sess.Combat, s.cfg.Floors, sinceEvent)
	return &snap, nil
}

// maybeFinishLocked persists the outcome once when the combat has latched a
// terminal state. Caller holds the session lock.
func (s *Service) maybeFinishLocked(sess *Session) {
	if !sess.Combat.Over() || sess.statsCounted {
		return
	}
	status := game.RunStatusDefeat
	if sess.Combat.State == game.StateRunVictory {
		status = game.RunStatusVictory
	}
	s.finishLocked(sess, status)
}

func (s *Service) finishLocked(sess *Session, status string) {
	if sess.statsCounted {
		return
	}
	sess.statsCounted = true
	c := sess.Combat

	if rec, err := s.repo.GetRunRecordByUUID(c.RunID); err == nil {
		rec.Status = status
		rec.FloorReached = c.Floor + 1
		rec.CoinsEarned = c.Party.Coins
		rec.History = c.HistoryString()
		if err := s.repo.UpdateRunRecord(rec); err != nil {
			logging.Error("failed to finish run record", err, logging.Fields{constants.LogFieldRunID: c.RunID})
		}
	}

	profile, err := s.repo.GetProfileByEmail(sess.Email)
	if err != nil {
		logging.Error("failed to load profile at run end", err, logging.Fields{constants.LogFieldPlayer: sess.Email})
		return
	}
	profile.RunsPlayed++
	profile.Currency += c.Party.Coins
	if status == game.RunStatusVictory {
		profile.Wins++
	}
	if c.Floor+1 > profile.HighestFloor {
		profile.HighestFloor = c.Floor + 1
	}
	if err := s.repo.SaveProfile(profile); err != nil {
		logging.Error("failed to save profile at run end", err, logging.Fields{constants.LogFieldPlayer: sess.Email})
	}
	logging.Info("run finished", logging.Fields{constants.LogFieldRunID: c.RunID, constants.LogFieldPlayer: sess.Email, "status": status, constants.LogFieldFloor: c.Floor + 1})
}
