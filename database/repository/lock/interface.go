package lockRepo

import (
	"context"
	"errors"
	"time"
)

// ErrLockHeld is returned when another holder owns the lock.
var ErrLockHeld = errors.New("lock is held by another request")

// SlotLocker grants short exclusive leases on a key, used to serialise the
// final availability check and the appointment insert for one instructor day.
type SlotLocker interface {
	// Acquire takes the lease for ttl and returns a release function.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// SlotKey names the lock for an instructor's calendar day.
func SlotKey(instructorID, date string) string {
	return "slotLock:" + instructorID + ":" + date
}
