// Package session maps opaque session tokens to account ids through the
// cache layer, so a Redis deployment shares sessions across processes while
// the default local cache keeps everything in process.
package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/mizunashi/gamevault/server/cache"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a token does not resolve to a live session.
var ErrNotFound = errors.New("session: not found")

const (
	tokenKeyPrefix   = "session:"
	accountKeyPrefix = "sessions:acct:"
)

// Manager owns the token table.
type Manager struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager creates a session Manager. ttl bounds how long an idle session
// stays valid.
func NewManager(c cache.Cache, ttl time.Duration, logger *zap.Logger) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{cache: c, ttl: ttl, logger: logger}
}

// Bind registers token as a live session for the account.
func (m *Manager) Bind(ctx context.Context, token string, accountID int64) error {
	if err := m.cache.Set(ctx, tokenKeyPrefix+token, strconv.FormatInt(accountID, 10), m.ttl); err != nil {
		return err
	}
	return m.cache.SAdd(ctx, accountKey(accountID), token)
}

// Resolve returns the account id bound to token, refreshing the TTL.
func (m *Manager) Resolve(ctx context.Context, token string) (int64, error) {
	raw, err := m.cache.Get(ctx, tokenKeyPrefix+token)
	if err != nil {
		return 0, ErrNotFound
	}
	accountID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	if err := m.cache.Expire(ctx, tokenKeyPrefix+token, m.ttl); err != nil {
		m.logger.Debug("session ttl refresh failed", zap.Error(err))
	}
	return accountID, nil
}

// Revoke ends one session.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	raw, err := m.cache.Get(ctx, tokenKeyPrefix+token)
	if err == nil {
		if accountID, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			_ = m.cache.SRem(ctx, accountKey(accountID), token)
		}
	}
	return m.cache.Del(ctx, tokenKeyPrefix+token)
}

// RevokeAccount ends every live session of the account. Used on ban.
func (m *Manager) RevokeAccount(ctx context.Context, accountID int64) error {
	tokens, err := m.cache.SMembers(ctx, accountKey(accountID))
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if err := m.cache.Del(ctx, tokenKeyPrefix+token); err != nil {
			m.logger.Warn("session revoke failed",
				zap.Int64("account_id", accountID), zap.Error(err))
		}
	}
	return m.cache.Del(ctx, accountKey(accountID))
}

// Online reports whether the account has at least one live session. Tokens
// whose KV entry has expired are pruned from the account set as a side
// effect.
func (m *Manager) Online(ctx context.Context, accountID int64) bool {
	tokens, err := m.cache.SMembers(ctx, accountKey(accountID))
	if err != nil {
		return false
	}
	alive := false
	for _, token := range tokens {
		exists, err := m.cache.Exists(ctx, tokenKeyPrefix+token)
		if err != nil {
			continue
		}
		if exists {
			alive = true
			continue
		}
		_ = m.cache.SRem(ctx, accountKey(accountID), token)
	}
	return alive
}

func accountKey(accountID int64) string {
	return accountKeyPrefix + strconv.FormatInt(accountID, 10)
}
