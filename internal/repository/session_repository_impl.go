package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mediflow/internal/domain/entity"
	domainRepo "mediflow/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type sessionRepository struct {
	kv  domainRepo.KeyValueStore
	log *logrus.Logger
}

func NewSessionRepository(kv domainRepo.KeyValueStore, log *logrus.Logger) domainRepo.SessionRepository {
	return &sessionRepository{kv: kv, log: log}
}

func sessionKey(tokenID string) string {
	return entity.KeySessionPrefix + tokenID
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = r.kv.Set(ctx, sessionKey(session.TokenID), data)
	return err
}

// Find returns nil for unknown sessions and for sessions that cannot be decoded
func (r *sessionRepository) Find(ctx context.Context, tokenID string) (*entity.Session, error) {
	item, err := r.kv.Get(ctx, sessionKey(tokenID))
	if err != nil || item == nil {
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(item.Value, &session); err != nil {
		r.log.Warnf("Failed to decode session %s, treating as revoked: %+v", tokenID, err)
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, tokenID string) error {
	return r.kv.Delete(ctx, sessionKey(tokenID))
}

// DeleteExpired removes every session that expired before now
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	keys, err := r.kv.Keys(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, entity.KeySessionPrefix) {
			continue
		}
		tokenID := strings.TrimPrefix(key, entity.KeySessionPrefix)
		session, err := r.Find(ctx, tokenID)
		if err != nil {
			return removed, err
		}
		if session != nil && !session.Expired(now) {
			continue
		}
		if err := r.Delete(ctx, tokenID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
