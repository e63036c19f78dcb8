package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainRepo "mediflow/internal/domain/repository"
	"mediflow/pkg/keylock"

	"github.com/sirupsen/logrus"
)

const defaultMaxRetries = 5

// errSkipWrite lets an update function finish without writing anything
var errSkipWrite = errors.New("skip write")

// jsonDocument is one JSON value stored under a single key. Reads fail open,
// writes go through compare-and-swap on the key's version.
type jsonDocument[T any] struct {
	kv         domainRepo.KeyValueStore
	locks      *keylock.KeyLock
	key        string
	maxRetries int
	log        *logrus.Logger
	empty      func() T
}

func newJSONDocument[T any](kv domainRepo.KeyValueStore, locks *keylock.KeyLock, key string, maxRetries int, log *logrus.Logger, empty func() T) *jsonDocument[T] {
	if maxRetries < 1 {
		maxRetries = defaultMaxRetries
	}
	return &jsonDocument[T]{
		kv:         kv,
		locks:      locks,
		key:        key,
		maxRetries: maxRetries,
		log:        log,
		empty:      empty,
	}
}

// read returns the decoded value and the version it was read at.
// A missing key yields the empty value at version 0.
func (d *jsonDocument[T]) read(ctx context.Context) (T, int64, error) {
	item, err := d.kv.Get(ctx, d.key)
	if err != nil {
		return d.empty(), 0, err
	}
	if item == nil {
		return d.empty(), 0, nil
	}

	value := d.empty()
	if err := json.Unmarshal(item.Value, &value); err != nil {
		return d.empty(), item.Version, fmt.Errorf("%w: key %s: %v", domainRepo.ErrCollectionUnreadable, d.key, err)
	}
	return value, item.Version, nil
}

// load reads the value, treating an unparsable one as empty
func (d *jsonDocument[T]) load(ctx context.Context) (T, error) {
	value, _, err := d.read(ctx)
	if errors.Is(err, domainRepo.ErrCollectionUnreadable) {
		d.log.Warnf("Stored value under %s is unreadable, treating as empty: %+v", d.key, err)
		return d.empty(), nil
	}
	return value, err
}

// overwrite replaces the value without a version check
func (d *jsonDocument[T]) overwrite(ctx context.Context, value T) error {
	unlock := d.locks.Lock(d.key)
	defer unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.key, err)
	}
	if _, err := d.kv.Set(ctx, d.key, data); err != nil {
		d.log.Warnf("Failed to save %s: %+v", d.key, err)
		return err
	}
	return nil
}

// update runs read -> fn -> compare-and-swap until the swap lands or retries
// run out. fn may run more than once and must only touch its argument and
// variables it resets on every call. Returning errSkipWrite ends the update
// without writing.
func (d *jsonDocument[T]) update(ctx context.Context, fn func(value T) (T, error)) error {
	unlock := d.locks.Lock(d.key)
	defer unlock()

	for attempt := 1; attempt <= d.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, version, err := d.read(ctx)
		if err != nil {
			if errors.Is(err, domainRepo.ErrCollectionUnreadable) {
				d.log.Warnf("Refusing to overwrite unreadable %s: %+v", d.key, err)
			}
			return err
		}

		next, err := fn(current)
		if err != nil {
			if errors.Is(err, errSkipWrite) {
				return nil
			}
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.key, err)
		}

		_, err = d.kv.CompareAndSwap(ctx, d.key, version, data)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domainRepo.ErrVersionConflict) {
			d.log.Warnf("Failed to save %s: %+v", d.key, err)
			return err
		}

		d.log.Debugf("Version conflict on %s at version %d (attempt %d/%d), retrying", d.key, version, attempt, d.maxRetries)
	}

	d.log.Warnf("Giving up on %s after %d conflicting writes", d.key, d.maxRetries)
	return domainRepo.ErrConcurrentModification
}
