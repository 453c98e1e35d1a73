package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"opshell/internal/repository"
	"opshell/internal/store"

	"go.uber.org/zap"
)

// SessionHandler persists the shell's per-session state (token, tenant,
// theme-mode) and implements the 401 token policy.
type SessionHandler struct {
	sessions *store.SessionStore
	resolver repository.UserTenantResolver
	bypass   bool
	logger   *zap.Logger
}

func NewSessionHandler(sessions *store.SessionStore, resolver repository.UserTenantResolver, bypass bool, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, resolver: resolver, bypass: bypass, logger: logger}
}

// sessionID comes from a fixed header; the browser shell generates one per
// device and keeps it in localStorage.
func sessionID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Session-ID"))
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireAuth wraps protected handlers. The presented bearer token must match
// the session's stored token; on mismatch the stored token is cleared and the
// client gets 401 + code 60401 so it restarts the login flow. In bypass mode
// there is no real login flow, so no check (a redirect would loop).
func (h *SessionHandler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.bypass {
			next(w, r)
			return
		}
		sid := sessionID(r)
		token := bearerToken(r)
		if sid == "" || token == "" {
			writeJSON(w, http.StatusUnauthorized, TokenExpired())
			return
		}
		stored, err := h.sessions.Token(r.Context(), sid)
		if err != nil || stored == "" || stored != token {
			// 已缓存的 token 一并作废
			_ = h.sessions.ClearToken(r.Context(), sid)
			h.logger.Info("rejected stale or unknown token", zap.String("session_id", sid))
			writeJSON(w, http.StatusUnauthorized, TokenExpired())
			return
		}
		next(w, r)
	}
}

// ThemeMode handles GET/PUT /api/v1/session/theme-mode.
func (h *SessionHandler) ThemeMode(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, Fail("missing X-Session-ID header"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		mode, err := h.sessions.ThemeMode(r.Context(), sid)
		if err == store.ErrMiss {
			mode = "light"
		} else if err != nil {
			h.logger.Warn("failed to read theme mode", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"mode": mode}))

	case http.MethodPut:
		var body struct {
			Mode string `json:"mode"`
		}
		if err := readBodyJSON(r, 4096, &body); err != nil || (body.Mode != "light" && body.Mode != "dark") {
			writeJSON(w, http.StatusBadRequest, Fail("mode must be \"light\" or \"dark\""))
			return
		}
		if err := h.sessions.SetThemeMode(r.Context(), sid, body.Mode); err != nil {
			h.logger.Warn("failed to store theme mode", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"mode": body.Mode}))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Tenant handles GET /api/v1/session/tenant: returns the session's tenant id,
// resolving it through the user mapping on first access. The result is cached
// in the session; identities whose token already carries a tenant claim never
// hit this endpoint.
func (h *SessionHandler) Tenant(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sid := sessionID(r)
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, Fail("missing X-Session-ID header"))
		return
	}

	if tenantID, err := h.sessions.TenantID(r.Context(), sid); err == nil && tenantID != "" {
		writeJSON(w, http.StatusOK, Ok(map[string]string{"tenant_id": tenantID}))
		return
	}

	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, Fail("missing X-User-ID header"))
		return
	}
	tenantID, err := h.resolver.TenantIDByUserID(r.Context(), userID)
	if errors.Is(err, repository.ErrTenantNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("no tenant for user"))
		return
	}
	if err != nil {
		h.logger.Error("tenant lookup failed", zap.String("user_id", userID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	if err := h.sessions.SetTenantID(r.Context(), sid, tenantID); err != nil {
		h.logger.Warn("failed to cache tenant id in session", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"tenant_id": tenantID}))
}

// Logout handles POST /auth/api/v1/logout: drops the cached token.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sid := sessionID(r)
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, Fail("missing X-Session-ID header"))
		return
	}
	if err := h.sessions.ClearToken(r.Context(), sid); err != nil {
		h.logger.Warn("failed to clear session token", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
