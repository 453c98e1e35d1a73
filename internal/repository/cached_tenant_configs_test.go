package repository

import (
	"context"
	"testing"

	"opshell/internal/domain"
	"opshell/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingRepo wraps MemoryTenantConfigsRepo counting GetConfig calls.
type countingRepo struct {
	*MemoryTenantConfigsRepo
	gets int
}

func (c *countingRepo) GetConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	c.gets++
	return c.MemoryTenantConfigsRepo.GetConfig(ctx, tenantID)
}

func TestCachedTenantConfigs_SecondReadHitsCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepo{MemoryTenantConfigsRepo: NewMemoryTenantConfigsRepo()}
	require.NoError(t, inner.UpsertConfig(ctx, domain.TenantConfig{TenantID: "t1", TenantName: "One"}))

	repo := NewCachedTenantConfigsRepo(inner, store.NewMemoryKV(), zap.NewNop())

	first, err := repo.GetConfig(ctx, "t1")
	require.NoError(t, err)
	second, err := repo.GetConfig(ctx, "t1")
	require.NoError(t, err)

	require.Equal(t, first.TenantName, second.TenantName)
	require.Equal(t, 1, inner.gets)
}

func TestCachedTenantConfigs_UpsertEvicts(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepo{MemoryTenantConfigsRepo: NewMemoryTenantConfigsRepo()}
	require.NoError(t, inner.UpsertConfig(ctx, domain.TenantConfig{TenantID: "t1", TenantName: "One"}))

	repo := NewCachedTenantConfigsRepo(inner, store.NewMemoryKV(), zap.NewNop())
	_, err := repo.GetConfig(ctx, "t1")
	require.NoError(t, err)

	require.NoError(t, repo.UpsertConfig(ctx, domain.TenantConfig{TenantID: "t1", TenantName: "Renamed"}))

	got, err := repo.GetConfig(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.TenantName)
}

func TestCachedTenantConfigs_Invalidate(t *testing.T) {
	ctx := context.Background()
	inner := &countingRepo{MemoryTenantConfigsRepo: NewMemoryTenantConfigsRepo()}
	require.NoError(t, inner.UpsertConfig(ctx, domain.TenantConfig{TenantID: "t1", TenantName: "One"}))

	repo := NewCachedTenantConfigsRepo(inner, store.NewMemoryKV(), zap.NewNop())
	_, err := repo.GetConfig(ctx, "t1")
	require.NoError(t, err)
	require.NoError(t, repo.Invalidate(ctx, "t1"))

	_, err = repo.GetConfig(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, 2, inner.gets)
}

func TestCachedTenantConfigs_NotFoundPassesThrough(t *testing.T) {
	inner := &countingRepo{MemoryTenantConfigsRepo: NewMemoryTenantConfigsRepo()}
	repo := NewCachedTenantConfigsRepo(inner, store.NewMemoryKV(), zap.NewNop())
	_, err := repo.GetConfig(context.Background(), "missing")
	require.ErrorIs(t, err, ErrTenantNotFound)
}
