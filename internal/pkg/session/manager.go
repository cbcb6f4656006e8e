// internal/pkg/session/manager.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xerrors "dealdesk-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// Manager keeps one redis entry per issued access token. A token whose
// session entry is gone is treated as revoked.
type Manager struct {
	client redis.UniversalClient
}

func NewManager(client redis.UniversalClient) *Manager {
	return &Manager{client: client}
}

func (m *Manager) sessionKey(merchantID int64, jti string) string {
	return fmt.Sprintf("session:%d:%s", merchantID, jti)
}

func (m *Manager) indexKey(merchantID int64) string {
	return fmt.Sprintf("sessions:%d", merchantID)
}

// CreateSession stores a new session until the token expires
func (m *Manager) CreateSession(ctx context.Context, session *SessionData) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, m.sessionKey(session.MerchantID, session.JTI), data, ttl)
	pipe.SAdd(ctx, m.indexKey(session.MerchantID), session.JTI)
	pipe.Expire(ctx, m.indexKey(session.MerchantID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

// GetSession returns xerrors.ErrSessionExpired when the session is unknown
func (m *Manager) GetSession(ctx context.Context, merchantID int64, jti string) (*SessionData, error) {
	data, err := m.client.Get(ctx, m.sessionKey(merchantID, jti)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, xerrors.ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session SessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// InvalidateSession revokes a single token
func (m *Manager) InvalidateSession(ctx context.Context, merchantID int64, jti string) error {
	pipe := m.client.TxPipeline()
	pipe.Del(ctx, m.sessionKey(merchantID, jti))
	pipe.SRem(ctx, m.indexKey(merchantID), jti)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate session: %w", err)
	}
	return nil
}

// InvalidateAll revokes every token issued to a merchant
func (m *Manager) InvalidateAll(ctx context.Context, merchantID int64) error {
	jtis, err := m.client.SMembers(ctx, m.indexKey(merchantID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	keys := make([]string, 0, len(jtis)+1)
	for _, jti := range jtis {
		keys = append(keys, m.sessionKey(merchantID, jti))
	}
	keys = append(keys, m.indexKey(merchantID))

	if err := m.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate sessions: %w", err)
	}
	return nil
}
