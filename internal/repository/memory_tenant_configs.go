package repository

import (
	"context"
	"sort"
	"sync"

	"opshell/internal/domain"
	"opshell/internal/registry"

	"github.com/google/uuid"
)

// MemoryTenantConfigsRepo supports the tenant-config API when DB is disabled
// (bypass/local mode). Configs are copied on the way in and out so callers can
// never mutate the stored state.
type MemoryTenantConfigsRepo struct {
	mu      sync.RWMutex
	configs map[string]domain.TenantConfig // tenantID -> config
}

func NewMemoryTenantConfigsRepo() *MemoryTenantConfigsRepo {
	return &MemoryTenantConfigsRepo{
		configs: map[string]domain.TenantConfig{},
	}
}

func (r *MemoryTenantConfigsRepo) GetConfig(_ context.Context, tenantID string) (*domain.TenantConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[tenantID]
	if !ok {
		return nil, ErrTenantNotFound
	}
	out := copyConfig(cfg)
	return &out, nil
}

func (r *MemoryTenantConfigsRepo) ListConfigs(_ context.Context) ([]domain.TenantConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.TenantConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		all = append(all, copyConfig(cfg))
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].TenantName < all[j].TenantName
	})
	return all, nil
}

func (r *MemoryTenantConfigsRepo) UpsertConfig(_ context.Context, cfg domain.TenantConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg.TenantID == "" {
		cfg.TenantID = uuid.NewString()
	}
	r.configs[cfg.TenantID] = copyConfig(cfg)
	return nil
}

// SeedDemoTenants loads two demo tenants so the shell has something to render
// in dev without a DB.
func (r *MemoryTenantConfigsRepo) SeedDemoTenants(reg *registry.Registry) {
	_ = r.UpsertConfig(context.Background(), domain.TenantConfig{
		TenantID:       "00000000-0000-0000-0000-000000000001",
		TenantName:     "Demo Lumber Co",
		Industry:       "lumber",
		EnabledModules: reg.Keys(),
		Theme: domain.Theme{
			Primary:    "#16a34a",
			Secondary:  "#0f172a",
			Accent:     "#f59e0b",
			Background: "#ffffff",
			AppName:    "Demo Lumber Co",
		},
	})
	_ = r.UpsertConfig(context.Background(), domain.TenantConfig{
		TenantID:       "00000000-0000-0000-0000-000000000002",
		TenantName:     "Demo Retail SA",
		Industry:       "retail",
		EnabledModules: []string{"inventario", "ventas", "usuarios"},
		Theme: domain.Theme{
			Primary:    "#2563eb",
			Secondary:  "#1e293b",
			Accent:     "#eab308",
			Background: "#f8fafc",
			AppName:    "Demo Retail SA",
		},
	})
}

func copyConfig(cfg domain.TenantConfig) domain.TenantConfig {
	out := cfg
	out.EnabledModules = append([]string(nil), cfg.EnabledModules...)
	if cfg.Settings != nil {
		out.Settings = make(map[string]any, len(cfg.Settings))
		for k, v := range cfg.Settings {
			out.Settings[k] = v
		}
	}
	return out
}
