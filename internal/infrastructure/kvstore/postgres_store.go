package kvstore

import (
	"context"
	"errors"
	"fmt"

	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate primary key
const uniqueViolation = "23505"

// PostgresStore keeps every key as one row of kv_items
type PostgresStore struct {
	db  *gorm.DB
	log *logrus.Logger
}

var _ repository.KeyValueStore = (*PostgresStore)(nil)

func NewPostgresStore(db *gorm.DB, log *logrus.Logger) *PostgresStore {
	return &PostgresStore{
		db:  db,
		log: log,
	}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*entity.KVItem, error) {
	var item entity.KVItem
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.log.Warnf("Failed to read key %s: %+v", key, err)
		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}
	return &item, nil
}

// Set upserts the row, taking a row lock so the version bump is serialized
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) (int64, error) {
	var version int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item entity.KVItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("key = ?", key).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item = entity.KVItem{Key: key, Value: value, Version: 1}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			version = item.Version
			return nil
		}
		if err != nil {
			return err
		}

		version = item.Version + 1
		return tx.Model(&entity.KVItem{}).
			Where("key = ?", key).
			Updates(map[string]interface{}{"value": value, "version": version}).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// lost a create race with another writer, its row now exists
			return s.Set(ctx, key, value)
		}
		s.log.Warnf("Failed to write key %s: %+v", key, err)
		return 0, fmt.Errorf("postgres set %s: %w", key, err)
	}
	return version, nil
}

func (s *PostgresStore) CompareAndSwap(ctx context.Context, key string, expectedVersion int64, value []byte) (int64, error) {
	db := s.db.WithContext(ctx)

	if expectedVersion == 0 {
		item := entity.KVItem{Key: key, Value: value, Version: 1}
		if err := db.Create(&item).Error; err != nil {
			if isUniqueViolation(err) {
				return 0, repository.ErrVersionConflict
			}
			s.log.Warnf("Failed to create key %s: %+v", key, err)
			return 0, fmt.Errorf("postgres cas %s: %w", key, err)
		}
		return item.Version, nil
	}

	result := db.Model(&entity.KVItem{}).
		Where("key = ? AND version = ?", key, expectedVersion).
		Updates(map[string]interface{}{"value": value, "version": expectedVersion + 1})
	if result.Error != nil {
		s.log.Warnf("Failed compare-and-swap for key %s: %+v", key, result.Error)
		return 0, fmt.Errorf("postgres cas %s: %w", key, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, repository.ErrVersionConflict
	}
	return expectedVersion + 1, nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&entity.KVItem{}).Error; err != nil {
		s.log.Warnf("Failed to delete key %s: %+v", key, err)
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&entity.KVItem{}).Order("key").Pluck("key", &keys).Error; err != nil {
		s.log.Warnf("Failed to list keys: %+v", err)
		return nil, fmt.Errorf("postgres keys: %w", err)
	}
	return keys, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
