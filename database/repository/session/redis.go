package sessionRepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"edubooking/models"

	"github.com/go-redis/redis/v8"
)

const BookingSessionPrefix = "bookingSession:"

// retentionGrace keeps rows a little past ExpiresAt so expiry is decided by the
// service clock, not by Redis eviction.
const retentionGrace = 5 * time.Minute

// RedisSessionRepo keeps sessions as JSON values with a TTL derived from ExpiresAt.
type RedisSessionRepo struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisSessionRepo(client *redis.Client) *RedisSessionRepo {
	return &RedisSessionRepo{client: client, now: time.Now}
}

// Save writes the session and resets its retention.
func (r *RedisSessionRepo) Save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	ttl := session.ExpiresAt.Sub(r.now()) + retentionGrace
	if ttl <= 0 {
		ttl = retentionGrace
	}
	if err := r.client.Set(ctx, BookingSessionPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save booking session: %w", err)
	}
	return nil
}

// Get retrieves the session from Redis.
func (r *RedisSessionRepo) Get(ctx context.Context, id string) (*models.BookingSession, error) {
	data, err := r.client.Get(ctx, BookingSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking session: %w", err)
	}
	return &session, nil
}

// Delete removes a booking session; deleting a missing key is not an error.
func (r *RedisSessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, BookingSessionPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}
