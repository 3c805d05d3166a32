package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lodge:quote:"

// Store keeps draft quotes in Redis for the life of a booking-form session.
// Every mutation rewrites the draft and refreshes the TTL.
type Store struct {
	R   *redis.Client
	TTL time.Duration
}

// Get loads a draft by id. The second return reports existence.
func (s *Store) Get(ctx context.Context, id string) (Quote, bool, error) {
	data, err := s.R.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, err
	}
	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return Quote{}, false, fmt.Errorf("decode draft quote: %w", err)
	}
	return q, true, nil
}

// Put stores the draft and refreshes its session TTL.
func (s *Store) Put(ctx context.Context, q Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode draft quote: %w", err)
	}
	return s.R.Set(ctx, keyPrefix+q.ID, data, s.TTL).Err()
}

// Delete removes the draft, typically after confirmation.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.R.Del(ctx, keyPrefix+id).Err()
}
