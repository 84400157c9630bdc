package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicbook/models"

	"github.com/go-redis/redis/v8"
)

const wizardSessionPrefix = "wizard:session:"

// SessionStore holds in-progress wizard sessions between requests.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.WizardSession, error)
	Save(ctx context.Context, session *models.WizardSession) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore is the production SessionStore. Sessions expire after
// the configured TTL; abandoned wizards clean themselves up.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	data, err := s.client.Get(ctx, wizardSessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, newWizardError(CodeSessionExpired, "booking session not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.WizardSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

// Save stores the session, refusing to overwrite a copy that moved on since
// this one was loaded. The wizard is single-writer by design; the version
// check turns an accidental concurrent mutation into an explicit error.
func (s *RedisSessionStore) Save(ctx context.Context, session *models.WizardSession) error {
	existing, err := s.Get(ctx, session.SessionID)
	if err == nil && existing.Version != session.Version {
		return fmt.Errorf("booking session %s was modified concurrently", session.SessionID)
	}

	session.Version++
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.client.Set(ctx, wizardSessionPrefix+session.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, wizardSessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete booking session: %w", err)
	}
	return nil
}
