package service

import (
	"log"
	"time"
)

const (
	defaultIdleTimeout   = 10 * time.Minute
	defaultSweepInterval = 1 * time.Minute
)

// CleanupService periodically expires sessions that stopped receiving
// signals. Without it, a room stuck in Active with no further
// question-time-up signals would sit in memory until process restart.
type CleanupService struct {
	games         *GameService
	idleTimeout   time.Duration
	sweepInterval time.Duration
}

func NewCleanupService(games *GameService, idleTimeout, sweepInterval time.Duration) *CleanupService {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	if sweepInterval <= 0 {
		sweepInterval = defaultSweepInterval
	}
	return &CleanupService{
		games:         games,
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
	}
}

func (s *CleanupService) StartCleanupRoutine() {
	ticker := time.NewTicker(s.sweepInterval)
	go func() {
		for range ticker.C {
			expired := s.games.ExpireIdleSessions(s.idleTimeout)
			if len(expired) > 0 {
				log.Printf("Idle sweep expired %d session(s): %v", len(expired), expired)
			}
		}
	}()
	log.Println("Session cleanup routine started")
}
