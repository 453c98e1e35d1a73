package service

import (
	"context"
	"fmt"
	"strings"

	"opshell/internal/domain"
	"opshell/internal/registry"
	"opshell/internal/repository"

	"go.uber.org/zap"
)

// TenantConfigService 租户配置服务接口
type TenantConfigService interface {
	GetConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error)
	ListConfigs(ctx context.Context) ([]domain.TenantConfig, error)
	UpsertConfig(ctx context.Context, cfg domain.TenantConfig) (*domain.TenantConfig, error)
	Navigation(ctx context.Context, tenantID string) ([]domain.NavItem, error)
	HomePath(ctx context.Context, tenantID string) (string, error)
}

type tenantConfigService struct {
	repo   repository.TenantConfigsRepo
	reg    *registry.Registry
	logger *zap.Logger
}

// NewTenantConfigService 创建 TenantConfigService 实例
func NewTenantConfigService(repo repository.TenantConfigsRepo, reg *registry.Registry, logger *zap.Logger) TenantConfigService {
	return &tenantConfigService{repo: repo, reg: reg, logger: logger}
}

// GetConfig returns a tenant's configuration as stored. Unknown module keys
// are kept in the config (navigation drops them) but logged, so a
// misconfigured tenant shows up in the service log instead of failing silent.
func (s *tenantConfigService) GetConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	cfg, err := s.repo.GetConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if unknown := s.reg.UnknownKeys(cfg.EnabledModules); len(unknown) > 0 {
		s.logger.Warn("tenant config enables unknown module keys",
			zap.String("tenant_id", tenantID),
			zap.Strings("unknown_keys", unknown),
		)
	}
	return cfg, nil
}

func (s *tenantConfigService) ListConfigs(ctx context.Context) ([]domain.TenantConfig, error) {
	return s.repo.ListConfigs(ctx)
}

// UpsertConfig validates and stores a configuration wholesale.
func (s *tenantConfigService) UpsertConfig(ctx context.Context, cfg domain.TenantConfig) (*domain.TenantConfig, error) {
	cfg.TenantName = strings.TrimSpace(cfg.TenantName)
	if cfg.TenantName == "" {
		return nil, fmt.Errorf("tenant_name is required")
	}
	if unknown := s.reg.UnknownKeys(cfg.EnabledModules); len(unknown) > 0 {
		s.logger.Warn("storing tenant config with unknown module keys",
			zap.String("tenant_id", cfg.TenantID),
			zap.Strings("unknown_keys", unknown),
		)
	}
	if err := s.repo.UpsertConfig(ctx, cfg); err != nil {
		return nil, err
	}
	s.logger.Info("tenant config stored",
		zap.String("tenant_id", cfg.TenantID),
		zap.String("tenant_name", cfg.TenantName),
		zap.Int("enabled_modules", len(cfg.EnabledModules)),
	)
	return &cfg, nil
}

// Navigation computes the ordered navigation list for a tenant.
func (s *tenantConfigService) Navigation(ctx context.Context, tenantID string) ([]domain.NavItem, error) {
	cfg, err := s.GetConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.reg.BuildNavigation(cfg.EnabledModules), nil
}

// HomePath returns the route of the tenant's first enabled module.
func (s *tenantConfigService) HomePath(ctx context.Context, tenantID string) (string, error) {
	cfg, err := s.GetConfig(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return s.reg.FirstEnabledPath(cfg.EnabledModules), nil
}
