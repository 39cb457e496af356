package redis

import (
	"time"

	"github.com/DoaogComapny/gnacops-connect-hub-sub001/recurrence"
)

// Locker serializes materialization passes for the same rule across
// processes using SET NX with a TTL. The TTL bounds how long a crashed pass
// can hold the lock.
type Locker struct{}

// NewLocker returns a Locker, or nil when Redis is not configured so callers
// fall back to relying on the DB uniqueness constraint alone.
func NewLocker() recurrence.Locker {
	if Client == nil {
		return nil
	}
	return &Locker{}
}

func (l *Locker) Acquire(key string, ttl time.Duration) (bool, error) {
	return Client.SetNX(Ctx, key, "1", ttl).Result()
}

func (l *Locker) Release(key string) error {
	return Client.Del(Ctx, key).Err()
}
