package service

import (
	"github.com/davidarcila/TowerFlip/internal/constants"
	"github.com/davidarcila/TowerFlip/internal/game"
	"github.com/davidarcila/TowerFlip/internal/logging"
)

// TickSessions advances every live session's scheduled continuations. This
// is the server-side pacing loop: the background scanner calls it on a
// short interval so opponent moves and settle timers fire close to their
// due times even when no client request arrives.
func (s *Service) TickSessions() {
	now := s.now()
	for _, sess := range s.reg.Snapshot() {
		sess.mu.Lock()
		sess.Combat.Tick(now)
		s.maybeFinishLocked(sess)
		sess.mu.Unlock()
	}
}

// ExpireStalled concedes runs idle past the stall timeout and drops
// finished sessions that clients have had time to read.
func (s *Service) ExpireStalled() {
	now := s.now()
	for runID, sess := range s.reg.Snapshot() {
		sess.mu.Lock()
		idle := now.Sub(sess.LastActivity)
		if sess.Combat.Over() {
			// keep finished runs around briefly so the final snapshot
			// and websocket tail can still be read
			if idle > s.cfg.StallTimeout {
				s.reg.Remove(runID)
			}
			sess.mu.Unlock()
			continue
		}
		if idle > s.cfg.StallTimeout {
			logging.Info("expiring stalled run", logging.Fields{constants.LogFieldRunID: runID, constants.LogFieldPlayer: sess.Email})
			sess.Combat.Concede(now)
			s.finishLocked(sess, game.RunStatusAbandoned)
		}
		sess.mu.Unlock()
	}
}
