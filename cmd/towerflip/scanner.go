package main

import (
	"time"

	"github.com/davidarcila/TowerFlip/internal/service"
)

// startPacingScanner drives scheduled combat continuations (opponent moves,
// settle timers, reshuffles) so they fire close to their due times even when
// no client request arrives.
func startPacingScanner(svc *service.Service) {
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			svc.TickSessions()
		}
	}()
}

// startStallScanner concedes runs idle past the configured stall timeout and
// drops finished sessions once clients have had time to read them.
func startStallScanner(svc *service.Service) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			svc.ExpireStalled()
		}
	}()
}
