package inmemdb

import (
	"context"
	"sync"
	"time"

	lockRepo "edubooking/database/repository/lock"

	"github.com/google/uuid"
)

type lease struct {
	owner   string
	expires time.Time
}

type lockTable struct {
	mutex sync.Mutex
	held  map[string]lease
}

type slotLocker struct {
	table *lockTable
	now   func() time.Time
}

func NewSlotLocker(db *DB) lockRepo.SlotLocker {
	return &slotLocker{table: db.locks, now: time.Now}
}

func (l *slotLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.table.mutex.Lock()
	defer l.table.mutex.Unlock()

	now := l.now()
	if cur, ok := l.table.held[key]; ok && now.Before(cur.expires) {
		return nil, lockRepo.ErrLockHeld
	}
	owner := uuid.New().String()
	l.table.held[key] = lease{owner: owner, expires: now.Add(ttl)}

	return func(context.Context) error {
		l.table.mutex.Lock()
		defer l.table.mutex.Unlock()
		if cur, ok := l.table.held[key]; ok && cur.owner == owner {
			delete(l.table.held, key)
		}
		return nil
	}, nil
}
