package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"chargesol/backend/services/registry-service/internal/models"
)

// Store keeps registration drafts in redis until they expire.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewStore returns redis-backed draft store.
func NewStore(client redis.Cmdable, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("registration:draft:%s", id)
}

// Save writes the session and refreshes its ttl.
func (s *Store) Save(ctx context.Context, session *models.DraftSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID), data, s.ttl).Err()
}

// Load returns the session or models.ErrDraftNotFound.
func (s *Store) Load(ctx context.Context, id string) (*models.DraftSession, error) {
	result, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrDraftNotFound
		}
		return nil, err
	}
	var session models.DraftSession
	if err := json.Unmarshal(result, &session); err != nil {
		return nil, fmt.Errorf("redisstore: decode draft %s: %w", id, err)
	}
	return &session, nil
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
