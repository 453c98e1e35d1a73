package service

import (
	"context"
	"testing"

	"opshell/internal/domain"
	"opshell/internal/registry"
	"opshell/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (TenantConfigService, *repository.MemoryTenantConfigsRepo) {
	t.Helper()
	repo := repository.NewMemoryTenantConfigsRepo()
	svc := NewTenantConfigService(repo, registry.Default(), zap.NewNop())
	return svc, repo
}

func TestUpsertConfig_RequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.UpsertConfig(context.Background(), domain.TenantConfig{TenantID: "t1", TenantName: "   "})
	require.Error(t, err)
}

func TestNavigation_EndToEnd(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertConfig(ctx, domain.TenantConfig{
		TenantID:       "t1",
		TenantName:     "Tenant One",
		EnabledModules: []string{"inventario", "ventas"},
	}))

	nav, err := svc.Navigation(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, nav, 2)
	require.Equal(t, "Inventario", nav[0].Label)
	require.Equal(t, "Ventas", nav[1].Label)
	for _, item := range nav {
		require.NotEmpty(t, item.Path)
		require.NotEmpty(t, item.Icon)
	}
}

func TestNavigation_UnknownKeysIgnored(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertConfig(ctx, domain.TenantConfig{
		TenantID:       "t1",
		TenantName:     "Tenant One",
		EnabledModules: []string{"inventario", "bogus"},
	}))

	nav, err := svc.Navigation(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, nav, 1)
	require.Equal(t, "Inventario", nav[0].Label)
}

func TestNavigation_TenantNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Navigation(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrTenantNotFound)
}

func TestHomePath(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertConfig(ctx, domain.TenantConfig{
		TenantID:       "t1",
		TenantName:     "Tenant One",
		EnabledModules: []string{"fotos", "ventas"},
	}))
	path, err := svc.HomePath(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "/ventas", path)

	require.NoError(t, repo.UpsertConfig(ctx, domain.TenantConfig{
		TenantID:   "t2",
		TenantName: "Tenant Two",
	}))
	path, err = svc.HomePath(ctx, "t2")
	require.NoError(t, err)
	require.Equal(t, registry.FallbackPath, path)
}
