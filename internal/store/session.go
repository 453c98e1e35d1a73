package store

import (
	"context"
	"time"
)

const sessionTTL = 24 * time.Hour

// SessionStore persists the per-session state the shell caches between page
// loads: auth token, resolved tenant id and theme-mode preference. Keys are
// fixed per session id.
type SessionStore struct {
	kv KV
}

func NewSessionStore(kv KV) *SessionStore {
	return &SessionStore{kv: kv}
}

func tokenKey(sid string) string     { return "opshell:session:" + sid + ":token" }
func tenantKey(sid string) string    { return "opshell:session:" + sid + ":tenant" }
func themeModeKey(sid string) string { return "opshell:session:" + sid + ":theme-mode" }

func (s *SessionStore) Token(ctx context.Context, sessionID string) (string, error) {
	return s.kv.Get(ctx, tokenKey(sessionID))
}

func (s *SessionStore) SetToken(ctx context.Context, sessionID, token string) error {
	return s.kv.Set(ctx, tokenKey(sessionID), token, sessionTTL)
}

// ClearToken drops the cached token. Called on logout and on any 401.
func (s *SessionStore) ClearToken(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, tokenKey(sessionID))
}

func (s *SessionStore) TenantID(ctx context.Context, sessionID string) (string, error) {
	return s.kv.Get(ctx, tenantKey(sessionID))
}

func (s *SessionStore) SetTenantID(ctx context.Context, sessionID, tenantID string) error {
	return s.kv.Set(ctx, tenantKey(sessionID), tenantID, sessionTTL)
}

func (s *SessionStore) ThemeMode(ctx context.Context, sessionID string) (string, error) {
	return s.kv.Get(ctx, themeModeKey(sessionID))
}

// SetThemeMode persists the light/dark preference. No TTL: the preference
// outlives the login session.
func (s *SessionStore) SetThemeMode(ctx context.Context, sessionID, mode string) error {
	return s.kv.Set(ctx, themeModeKey(sessionID), mode, 0)
}
