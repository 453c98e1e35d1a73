package shell

import (
	"context"
	"sync"

	"opshell/internal/domain"
	"opshell/internal/registry"
	"opshell/internal/theme"

	"go.uber.org/zap"
)

// Shell is the composition of the tenant core: identity → tenant resolution →
// config load → {theme, navigation}. It owns the theme teardown handle, so a
// tenant change (or a failed load) always reverts the previous tenant's
// branding before the next one is applied.
type Shell struct {
	loader        *ConfigLoader
	styles        theme.StyleContext
	reg           *registry.Registry
	defaultTenant string
	logger        *zap.Logger

	mu        sync.Mutex
	applied   *theme.Applied
	nav       []domain.NavItem
	tenantErr string
	unsub     func()
}

// TokenStore is the slice of the session store the shell needs for the 401
// policy.
type TokenStore interface {
	ClearToken(ctx context.Context, sessionID string) error
}

// NewNetworkShell composes the network-mode shell: the API client feeds the
// loader, and a 401 from the backend drops the cached token and flips the
// gate to unauthenticated so its next Evaluate restarts the login flow.
// Bypass mode composes NewConfigLoader directly and leaves the hook
// unregistered (a redirect there would loop).
func NewNetworkShell(apiBase string, tokens TokenStore, sessionID string, provider IdentityProvider, styles theme.StyleContext, reg *registry.Registry, defaultTenant string, logger *zap.Logger) (*Shell, *AuthGate, *APIClient) {
	client := NewAPIClient(apiBase, logger)
	gate := NewAuthGate(provider, logger)
	client.OnUnauthorized(func() {
		if err := tokens.ClearToken(context.Background(), sessionID); err != nil {
			logger.Warn("failed to clear cached token", zap.Error(err))
		}
		gate.SetUnauthenticated()
	})
	loader := NewConfigLoader(client, reg, false, logger)
	return NewShell(loader, styles, reg, defaultTenant, logger), gate, client
}

// NewShell wires the loader's state changes into theme application and
// navigation recomputation.
func NewShell(loader *ConfigLoader, styles theme.StyleContext, reg *registry.Registry, defaultTenant string, logger *zap.Logger) *Shell {
	s := &Shell{
		loader:        loader,
		styles:        styles,
		reg:           reg,
		defaultTenant: defaultTenant,
		logger:        logger,
	}
	s.unsub = loader.Subscribe(s.onSnapshot)
	return s
}

// OnIdentityChanged resolves the tenant for the new identity and starts the
// config load. An unresolvable tenant is a blocking error: the loader is not
// invoked and the shell reports the condition until the next identity change.
func (s *Shell) OnIdentityChanged(ctx context.Context, identity *domain.Identity) {
	claim := ""
	if identity != nil {
		claim = identity.TenantClaim
	}
	tenantID, err := ResolveTenant(claim, s.defaultTenant)
	if err != nil {
		s.mu.Lock()
		s.tenantErr = err.Error()
		s.teardownLocked()
		s.nav = nil
		s.mu.Unlock()
		s.logger.Warn("tenant resolution failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.tenantErr = ""
	s.mu.Unlock()
	s.loader.Load(ctx, tenantID)
}

// onSnapshot reacts to loader state changes. Leaving StateReady (for loading
// or error) reverts the active theme; reaching StateReady applies the new one
// and recomputes navigation.
func (s *Shell) onSnapshot(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch snap.State {
	case StateReady:
		s.teardownLocked()
		s.applied = theme.Apply(s.styles, snap.Config.Theme)
		s.nav = s.reg.BuildNavigation(snap.Config.EnabledModules)
	default:
		s.teardownLocked()
		s.nav = nil
	}
}

// Navigation returns the current ordered navigation list (nil while no config
// is active).
func (s *Shell) Navigation() []domain.NavItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.NavItem(nil), s.nav...)
}

// HomePath returns the route of the first enabled module for the active
// config, or the registry fallback while no config is active (or tenant
// resolution is blocked).
func (s *Shell) HomePath() string {
	s.mu.Lock()
	blocked := s.tenantErr != ""
	s.mu.Unlock()
	if blocked {
		return registry.FallbackPath
	}
	snap := s.loader.Snapshot()
	if snap.State != StateReady {
		return registry.FallbackPath
	}
	return s.reg.FirstEnabledPath(snap.Config.EnabledModules)
}

// TenantError returns the blocking resolution error, if any.
func (s *Shell) TenantError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenantErr
}

// Close detaches from the loader and reverts any applied theme.
func (s *Shell) Close() {
	if s.unsub != nil {
		s.unsub()
	}
	s.loader.Close()
	s.mu.Lock()
	s.teardownLocked()
	s.mu.Unlock()
}

func (s *Shell) teardownLocked() {
	if s.applied != nil {
		s.applied.Teardown()
		s.applied = nil
	}
}
