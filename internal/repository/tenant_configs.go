package repository

import (
	"context"
	"errors"

	"opshell/internal/domain"
)

var ErrTenantNotFound = errors.New("tenant not found")

// TenantConfigsRepo serves per-tenant shell configuration. Configs are read
// and written wholesale: there is no partial-update path.
type TenantConfigsRepo interface {
	GetConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error)
	ListConfigs(ctx context.Context) ([]domain.TenantConfig, error)
	UpsertConfig(ctx context.Context, cfg domain.TenantConfig) error
}
