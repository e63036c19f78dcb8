package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mediflow/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

const defaultSweepInterval = 15 * time.Minute

// SessionSweeper purges expired sessions in the background.
// Call Stop() during graceful shutdown.
type SessionSweeper struct {
	log         *logrus.Logger
	sessionRepo repository.SessionRepository
	interval    time.Duration
	now         func() time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  atomic.Bool
	stopped  atomic.Bool
}

func NewSessionSweeper(log *logrus.Logger, sessionRepo repository.SessionRepository, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &SessionSweeper{
		log:         log,
		sessionRepo: sessionRepo,
		interval:    interval,
		now:         time.Now,
		stopChan:    make(chan struct{}),
	}
}

// Start launches the sweep loop once
func (s *SessionSweeper) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.loop()
}

// Stop ends the sweep loop. Safe to call multiple times.
func (s *SessionSweeper) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Debug("Session sweeper stopped")
	}
}

// Sweep deletes every session that has expired and returns how many went
func (s *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	removed, err := s.sessionRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Warnf("Failed to purge expired sessions: %+v", err)
		return removed, err
	}
	if removed > 0 {
		s.log.Debugf("Purged %d expired sessions", removed)
	}
	return removed, nil
}

func (s *SessionSweeper) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			s.Sweep(ctx)
			cancel()
		}
	}
}
