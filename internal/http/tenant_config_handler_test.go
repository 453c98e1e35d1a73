package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opshell/internal/domain"
	"opshell/internal/registry"
	"opshell/internal/repository"
	"opshell/internal/service"

	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*TenantConfigHandler, *repository.MemoryTenantConfigsRepo) {
	t.Helper()
	repo := repository.NewMemoryTenantConfigsRepo()
	svc := service.NewTenantConfigService(repo, registry.Default(), zap.NewNop())
	return NewTenantConfigHandler(svc, zap.NewNop()), repo
}

func seedTenant(t *testing.T, repo *repository.MemoryTenantConfigsRepo, id string, modules ...string) {
	t.Helper()
	err := repo.UpsertConfig(context.Background(), domain.TenantConfig{
		TenantID:       id,
		TenantName:     "Tenant " + id,
		EnabledModules: modules,
		Theme:          domain.Theme{Primary: "#16a34a", AppName: "Tenant " + id},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
}

func TestGetConfig_ReturnsPlainTenantConfig(t *testing.T) {
	h, repo := newTestHandler(t)
	seedTenant(t, repo, "t1", "inventario", "ventas")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/config", nil)
	w := httptest.NewRecorder()
	h.ServeTenant(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// contract: body IS the config, not the Result envelope
	var cfg domain.TenantConfig
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("body is not a TenantConfig: %v", err)
	}
	if cfg.TenantID != "t1" || len(cfg.EnabledModules) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if strings.Contains(w.Body.String(), `"code":2000`) {
		t.Fatal("config endpoint must not wrap the body in the Result envelope")
	}
}

func TestGetConfig_UnknownTenant404(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/missing/config", nil)
	w := httptest.NewRecorder()
	h.ServeTenant(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "tenant not found") {
		t.Fatalf("expected error message, got: %s", w.Body.String())
	}
}

func TestGetNavigation_WrapsResultInRegistryOrder(t *testing.T) {
	h, repo := newTestHandler(t)
	seedTenant(t, repo, "t1", "ventas", "inventario", "bogus")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/navigation", nil)
	w := httptest.NewRecorder()
	h.ServeTenant(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `"code":2000`) {
		t.Fatalf("expected wrapper code=2000, got: %s", body)
	}
	if strings.Contains(body, "bogus") {
		t.Fatalf("unknown key leaked into navigation: %s", body)
	}
	if strings.Index(body, "Inventario") > strings.Index(body, "Ventas") {
		t.Fatalf("navigation not in registry order: %s", body)
	}
}

func TestGetHomePath(t *testing.T) {
	h, repo := newTestHandler(t)
	seedTenant(t, repo, "t1", "fotos")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t1/home", nil)
	w := httptest.NewRecorder()
	h.ServeTenant(w, req)

	if !strings.Contains(w.Body.String(), `"/fotos"`) {
		t.Fatalf("expected /fotos home path, got: %s", w.Body.String())
	}
}

func TestServeTenant_MethodNotAllowed(t *testing.T) {
	h, repo := newTestHandler(t)
	seedTenant(t, repo, "t1")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tenants/t1/config", nil)
	w := httptest.NewRecorder()
	h.ServeTenant(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestAdminTenants_ListAndUpsert(t *testing.T) {
	h, repo := newTestHandler(t)
	seedTenant(t, repo, "t1", "inventario")

	body := strings.NewReader(`{"tenant_name":"Tenant Two","enabled_modules":["ventas"],"theme":{"primary":"#2563eb","app_name":"Two"}}`)
	req := httptest.NewRequest(http.MethodPut, "/admin/api/v1/tenants/t2/config", body)
	w := httptest.NewRecorder()
	h.AdminTenants(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/api/v1/tenants", nil)
	w = httptest.NewRecorder()
	h.AdminTenants(w, req)
	if !strings.Contains(w.Body.String(), "Tenant Two") || !strings.Contains(w.Body.String(), "Tenant t1") {
		t.Fatalf("expected both tenants in list, got: %s", w.Body.String())
	}
}

func TestAdminTenants_UpsertRejectsEmptyName(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPut, "/admin/api/v1/tenants/t9/config", strings.NewReader(`{"tenant_name":""}`))
	w := httptest.NewRecorder()
	h.AdminTenants(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
