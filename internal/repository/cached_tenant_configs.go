package repository

import (
	"context"
	"encoding/json"
	"time"

	"opshell/internal/domain"
	"opshell/internal/store"

	"go.uber.org/zap"
)

const configCacheTTL = 5 * time.Minute

// CachedTenantConfigsRepo fronts another repo with a KV cache. Invalidate
// evicts one tenant (wired to the MQTT invalidation topic); writes evict
// through. Cache failures degrade to the inner repo, never to an error.
type CachedTenantConfigsRepo struct {
	inner  TenantConfigsRepo
	kv     store.KV
	logger *zap.Logger
}

func NewCachedTenantConfigsRepo(inner TenantConfigsRepo, kv store.KV, logger *zap.Logger) *CachedTenantConfigsRepo {
	return &CachedTenantConfigsRepo{inner: inner, kv: kv, logger: logger}
}

func cacheKey(tenantID string) string {
	return "opshell:tenant-config:" + tenantID
}

func (r *CachedTenantConfigsRepo) GetConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	if raw, err := r.kv.Get(ctx, cacheKey(tenantID)); err == nil {
		var cfg domain.TenantConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err == nil {
			return &cfg, nil
		}
		// corrupt entry: drop it and fall through to the inner repo
		_ = r.kv.Del(ctx, cacheKey(tenantID))
	} else if err != store.ErrMiss {
		r.logger.Warn("tenant config cache read failed", zap.Error(err))
	}

	cfg, err := r.inner.GetConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(cfg); err == nil {
		if err := r.kv.Set(ctx, cacheKey(tenantID), string(raw), configCacheTTL); err != nil {
			r.logger.Warn("tenant config cache write failed", zap.Error(err))
		}
	}
	return cfg, nil
}

func (r *CachedTenantConfigsRepo) ListConfigs(ctx context.Context) ([]domain.TenantConfig, error) {
	// listing is an admin path; no caching
	return r.inner.ListConfigs(ctx)
}

func (r *CachedTenantConfigsRepo) UpsertConfig(ctx context.Context, cfg domain.TenantConfig) error {
	if err := r.inner.UpsertConfig(ctx, cfg); err != nil {
		return err
	}
	if err := r.kv.Del(ctx, cacheKey(cfg.TenantID)); err != nil {
		r.logger.Warn("tenant config cache eviction failed",
			zap.String("tenant_id", cfg.TenantID),
			zap.Error(err),
		)
	}
	return nil
}

// Invalidate evicts a tenant's cached config so the next read refetches.
func (r *CachedTenantConfigsRepo) Invalidate(ctx context.Context, tenantID string) error {
	return r.kv.Del(ctx, cacheKey(tenantID))
}
