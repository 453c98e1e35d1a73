package shell

import (
	"context"
	"net/url"
	"sync"

	"opshell/internal/domain"

	"go.uber.org/zap"
)

// AuthState 认证状态机：loading → {authenticated | unauthenticated}
type AuthState string

const (
	AuthLoading         AuthState = "loading"
	AuthAuthenticated   AuthState = "authenticated"
	AuthUnauthenticated AuthState = "unauthenticated"
)

// IdentityProvider is the external identity collaborator. Login may redirect
// the user agent away; the provider later returns through a callback URL.
type IdentityProvider interface {
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}

// Callback carries the query parameters of an identity-provider return URL:
// code/state on success, error/error_description on failure.
type Callback struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// ParseCallback extracts the provider callback from a return URL query.
func ParseCallback(query url.Values) Callback {
	return Callback{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		Error:            query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}
}

// InProgress reports whether a token exchange is underway (the URL carries
// either a success code or a provider error).
func (c Callback) InProgress() bool {
	return c.Code != "" || c.Error != ""
}

// Failed reports whether the provider returned an error.
func (c Callback) Failed() bool {
	return c.Error != ""
}

// AuthGate tracks the authentication state and the current identity's roles,
// and decides when to trigger a login flow. While loading, protected content
// stays suppressed; after a provider error, the gate never auto-redirects
// (that would loop) and instead exposes retry/logout actions.
type AuthGate struct {
	provider IdentityProvider
	logger   *zap.Logger

	mu       sync.Mutex
	state    AuthState
	identity *domain.Identity
	errCode  string
	errDesc  string
}

func NewAuthGate(provider IdentityProvider, logger *zap.Logger) *AuthGate {
	return &AuthGate{
		provider: provider,
		logger:   logger,
		state:    AuthLoading,
	}
}

// State returns the current authentication state.
func (g *AuthGate) State() AuthState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Identity returns the authenticated identity, or nil.
func (g *AuthGate) Identity() *domain.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity
}

// AuthError returns the recorded provider error, if any.
func (g *AuthGate) AuthError() (code, description string, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errCode, g.errDesc, g.errCode != ""
}

// SetAuthenticated records a successful identity-provider exchange.
func (g *AuthGate) SetAuthenticated(id *domain.Identity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = AuthAuthenticated
	g.identity = id
	g.errCode, g.errDesc = "", ""
	g.logger.Info("user authenticated",
		zap.String("subject", id.Subject),
		zap.Int("roles", len(id.Roles)),
	)
}

// SetUnauthenticated clears the identity.
func (g *AuthGate) SetUnauthenticated() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = AuthUnauthenticated
	g.identity = nil
}

// Evaluate runs the gate's decision step against the current return URL.
// A provider error is recorded and login is NOT retriggered. Otherwise, when
// unauthenticated and not mid-callback, the login flow starts.
func (g *AuthGate) Evaluate(ctx context.Context, cb Callback) error {
	g.mu.Lock()
	if cb.Failed() {
		g.errCode = cb.Error
		g.errDesc = cb.ErrorDescription
		g.state = AuthUnauthenticated
		g.identity = nil
		g.mu.Unlock()
		g.logger.Warn("identity provider returned an error",
			zap.String("error", cb.Error),
			zap.String("error_description", cb.ErrorDescription),
		)
		return nil
	}
	shouldLogin := g.state == AuthUnauthenticated && !cb.InProgress() && g.errCode == ""
	g.mu.Unlock()

	if !shouldLogin {
		return nil
	}
	g.logger.Info("unauthenticated, starting login flow")
	return g.provider.Login(ctx)
}

// RetryLogin clears the recorded error and starts a fresh login flow.
func (g *AuthGate) RetryLogin(ctx context.Context) error {
	g.mu.Lock()
	g.errCode, g.errDesc = "", ""
	g.mu.Unlock()
	return g.provider.Login(ctx)
}

// Logout clears local state and delegates to the provider.
func (g *AuthGate) Logout(ctx context.Context) error {
	g.mu.Lock()
	g.state = AuthUnauthenticated
	g.identity = nil
	g.errCode, g.errDesc = "", ""
	g.mu.Unlock()
	return g.provider.Logout(ctx)
}

// HasRole reports whether the authenticated identity holds exactly role.
func (g *AuthGate) HasRole(role domain.Role) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == AuthAuthenticated && g.identity != nil && g.identity.HasRole(role)
}

// HasAnyRole reports whether the identity holds at least one of roles.
func (g *AuthGate) HasAnyRole(roles ...domain.Role) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == AuthAuthenticated && g.identity != nil && g.identity.HasAnyRole(roles...)
}

// IsSupervisorOrAbove is the supervisor-or-admin convenience predicate.
func (g *AuthGate) IsSupervisorOrAbove() bool {
	return g.HasAnyRole(domain.RoleSupervisor, domain.RoleAdmin)
}

// Gated renders a role-gated region: children when the identity's role set
// intersects allowed, otherwise the fallback (zero value = render nothing).
func Gated[T any](g *AuthGate, allowed []domain.Role, children, fallback T) T {
	if g.HasAnyRole(allowed...) {
		return children
	}
	return fallback
}
