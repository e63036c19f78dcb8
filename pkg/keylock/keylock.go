// Package keylock serializes in-process writers per key.
//
// Lock ordering: callers hold at most one key at a time, so there is no
// cross-key ordering to respect.
package keylock

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	defaultCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	defaultStaleThreshold = 10 * time.Minute
)

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix nano
}

// KeyLock hands out one mutex per key and sweeps unused ones in the background.
// Call Stop() during graceful shutdown.
type KeyLock struct {
	locks sync.Map // map[string]*mutexWithTimestamp
	log   *logrus.Logger

	staleThreshold time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func New(log *logrus.Logger) *KeyLock {
	return NewWithInterval(log, defaultCleanupInterval, defaultStaleThreshold)
}

func NewWithInterval(log *logrus.Logger, cleanupInterval, staleThreshold time.Duration) *KeyLock {
	l := &KeyLock{
		log:            log,
		staleThreshold: staleThreshold,
		stopChan:       make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop(cleanupInterval)

	return l
}

// Lock acquires the mutex for key and returns its release func
func (l *KeyLock) Lock(key string) func() {
	for {
		mt := l.get(key)
		if !l.acquire(key, mt) {
			continue
		}
		return func() {
			mt.lastUsed.Store(time.Now().UnixNano())
			mt.mu.Unlock()
		}
	}
}

// acquire locks mt and reports whether key still maps to it. An entry swept
// between get and Lock is orphaned and must not be handed out.
func (l *KeyLock) acquire(key string, mt *mutexWithTimestamp) bool {
	mt.mu.Lock()
	if current, ok := l.locks.Load(key); !ok || current != mt {
		mt.mu.Unlock()
		return false
	}
	mt.lastUsed.Store(time.Now().UnixNano())
	return true
}

// Stop ends the cleanup goroutine. Safe to call multiple times.
func (l *KeyLock) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Debug("KeyLock stopped")
	}
}

func (l *KeyLock) get(key string) *mutexWithTimestamp {
	mt, _ := l.locks.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().UnixNano())
	return result
}

func (l *KeyLock) cleanupLoop(interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupStale()
		}
	}
}

// cleanupStale removes unused mutexes. TryLock guarantees nobody holds the
// mutex, and lastUsed is checked inside the lock so a concurrent get cannot
// slip between the check and the delete.
func (l *KeyLock) cleanupStale() int {
	cutoff := time.Now().Add(-l.staleThreshold).UnixNano()
	var cleaned int

	l.locks.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoff {
				l.locks.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale key locks", cleaned)
	}
	return cleaned
}
