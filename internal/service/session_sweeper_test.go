package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"mediflow/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
	sweeps   int
	err      error
}

func newFakeSessionRepo(sessions ...*entity.Session) *fakeSessionRepo {
	r := &fakeSessionRepo{sessions: map[string]*entity.Session{}}
	for _, s := range sessions {
		r.sessions[s.TokenID] = s
	}
	return r
}

func (r *fakeSessionRepo) Save(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.TokenID] = session
	return nil
}

func (r *fakeSessionRepo) Find(ctx context.Context, tokenID string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[tokenID], nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, tokenID)
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweeps++
	if r.err != nil {
		return 0, r.err
	}
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeSessionRepo) sweepCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweeps
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSessionSweeper_Sweep(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	repo := newFakeSessionRepo(
		&entity.Session{TokenID: "live", ExpiresAt: now.Add(time.Hour)},
		&entity.Session{TokenID: "stale", ExpiresAt: now.Add(-time.Hour)},
	)
	sweeper := NewSessionSweeper(newTestLogger(), repo, time.Hour)
	sweeper.now = func() time.Time { return now }

	removed, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 session removed, got %d", removed)
	}
	if s, _ := repo.Find(context.Background(), "live"); s == nil {
		t.Error("expected live session to remain")
	}

	repo.err = errors.New("storage down")
	if _, err := sweeper.Sweep(context.Background()); err == nil {
		t.Error("expected the repository error to be returned")
	}
}

func TestSessionSweeper_RunsUntilStopped(t *testing.T) {
	repo := newFakeSessionRepo()
	sweeper := NewSessionSweeper(newTestLogger(), repo, time.Millisecond)
	sweeper.Start()
	sweeper.Start()

	deadline := time.Now().Add(time.Second)
	for repo.sweepCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	sweeper.Stop()
	sweeper.Stop()

	if repo.sweepCount() < 2 {
		t.Fatalf("expected the loop to sweep repeatedly, got %d sweeps", repo.sweepCount())
	}

	after := repo.sweepCount()
	time.Sleep(10 * time.Millisecond)
	if repo.sweepCount() != after {
		t.Error("expected no sweeps after Stop")
	}
}
