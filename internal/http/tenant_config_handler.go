package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"opshell/internal/domain"
	"opshell/internal/repository"
	"opshell/internal/service"

	"go.uber.org/zap"
)

// TenantConfigHandler 租户配置 API
type TenantConfigHandler struct {
	svc    service.TenantConfigService
	logger *zap.Logger
}

func NewTenantConfigHandler(svc service.TenantConfigService, logger *zap.Logger) *TenantConfigHandler {
	return &TenantConfigHandler{svc: svc, logger: logger}
}

// ServeTenant dispatches /api/v1/tenants/{id}/{resource}.
func (h *TenantConfigHandler) ServeTenant(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/tenants/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeJSON(w, http.StatusNotFound, Fail("not found"))
		return
	}
	tenantID, resource := parts[0], parts[1]

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	switch resource {
	case "config":
		h.getConfig(w, r, tenantID)
	case "navigation":
		h.getNavigation(w, r, tenantID)
	case "home":
		h.getHomePath(w, r, tenantID)
	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

// getConfig serves the loader contract: the response body is the TenantConfig
// itself, not the Result envelope, so any client can consume it with a plain
// GET. Errors still use the envelope.
func (h *TenantConfigHandler) getConfig(w http.ResponseWriter, r *http.Request, tenantID string) {
	cfg, err := h.svc.GetConfig(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, tenantID, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *TenantConfigHandler) getNavigation(w http.ResponseWriter, r *http.Request, tenantID string) {
	nav, err := h.svc.Navigation(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, tenantID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(nav))
}

func (h *TenantConfigHandler) getHomePath(w http.ResponseWriter, r *http.Request, tenantID string) {
	path, err := h.svc.HomePath(r.Context(), tenantID)
	if err != nil {
		h.writeError(w, tenantID, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"home_path": path}))
}

// AdminTenants handles /admin/api/v1/tenants (list) and
// /admin/api/v1/tenants/{id}/config (upsert).
func (h *TenantConfigHandler) AdminTenants(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/admin/api/v1/tenants")
	rest = strings.TrimPrefix(rest, "/")

	switch {
	case rest == "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		configs, err := h.svc.ListConfigs(r.Context())
		if err != nil {
			h.logger.Error("failed to list tenant configs", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("failed to list tenants"))
			return
		}
		writeJSON(w, http.StatusOK, Ok(configs))

	case strings.HasSuffix(rest, "/config"):
		if r.Method != http.MethodPut && r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		tenantID := strings.TrimSuffix(rest, "/config")
		var cfg domain.TenantConfig
		if err := readBodyJSON(r, 1<<20, &cfg); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
			return
		}
		cfg.TenantID = tenantID
		stored, err := h.svc.UpsertConfig(r.Context(), cfg)
		if err != nil {
			h.logger.Warn("failed to upsert tenant config",
				zap.String("tenant_id", tenantID),
				zap.Error(err),
			)
			writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
			return
		}
		writeJSON(w, http.StatusOK, Ok(stored))

	default:
		writeJSON(w, http.StatusNotFound, Fail("not found"))
	}
}

func (h *TenantConfigHandler) writeError(w http.ResponseWriter, tenantID string, err error) {
	if errors.Is(err, repository.ErrTenantNotFound) {
		writeJSON(w, http.StatusNotFound, Fail("tenant not found"))
		return
	}
	h.logger.Error("tenant config request failed",
		zap.String("tenant_id", tenantID),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
}
