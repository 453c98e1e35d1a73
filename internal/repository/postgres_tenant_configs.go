package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"opshell/internal/domain"
)

// PostgresTenantConfigsRepo 租户配置仓库（tenant_configs 表）
// theme/enabled_modules/settings 存 JSONB，整行读写
type PostgresTenantConfigsRepo struct {
	db *sql.DB
}

func NewPostgresTenantConfigsRepo(db *sql.DB) *PostgresTenantConfigsRepo {
	return &PostgresTenantConfigsRepo{db: db}
}

func (r *PostgresTenantConfigsRepo) GetConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	var (
		cfg      domain.TenantConfig
		industry sql.NullString
		theme    []byte
		modules  []byte
		settings []byte
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id::text, tenant_name, industry, theme, enabled_modules, settings
		 FROM tenant_configs
		 WHERE tenant_id = $1`,
		tenantID,
	).Scan(&cfg.TenantID, &cfg.TenantName, &industry, &theme, &modules, &settings)
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant config: %w", err)
	}

	cfg.Industry = industry.String
	if err := unmarshalConfigColumns(&cfg, theme, modules, settings); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *PostgresTenantConfigsRepo) ListConfigs(ctx context.Context) ([]domain.TenantConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tenant_id::text, tenant_name, industry, theme, enabled_modules, settings
		 FROM tenant_configs
		 ORDER BY tenant_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.TenantConfig
	for rows.Next() {
		var (
			cfg      domain.TenantConfig
			industry sql.NullString
			theme    []byte
			modules  []byte
			settings []byte
		)
		if err := rows.Scan(&cfg.TenantID, &cfg.TenantName, &industry, &theme, &modules, &settings); err != nil {
			return nil, fmt.Errorf("failed to scan tenant config: %w", err)
		}
		cfg.Industry = industry.String
		if err := unmarshalConfigColumns(&cfg, theme, modules, settings); err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (r *PostgresTenantConfigsRepo) UpsertConfig(ctx context.Context, cfg domain.TenantConfig) error {
	theme, err := json.Marshal(cfg.Theme)
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}
	modules, err := json.Marshal(cfg.EnabledModules)
	if err != nil {
		return fmt.Errorf("failed to marshal enabled modules: %w", err)
	}
	var settings []byte
	if cfg.Settings != nil {
		if settings, err = json.Marshal(cfg.Settings); err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tenant_configs (tenant_id, tenant_name, industry, theme, enabled_modules, settings)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (tenant_id)
		 DO UPDATE SET tenant_name = EXCLUDED.tenant_name,
		               industry = EXCLUDED.industry,
		               theme = EXCLUDED.theme,
		               enabled_modules = EXCLUDED.enabled_modules,
		               settings = EXCLUDED.settings`,
		cfg.TenantID, cfg.TenantName, nullIfEmpty(cfg.Industry), theme, modules, settings,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert tenant config: %w", err)
	}
	return nil
}

func unmarshalConfigColumns(cfg *domain.TenantConfig, theme, modules, settings []byte) error {
	if len(theme) > 0 {
		if err := json.Unmarshal(theme, &cfg.Theme); err != nil {
			return fmt.Errorf("failed to unmarshal theme: %w", err)
		}
	}
	if len(modules) > 0 {
		if err := json.Unmarshal(modules, &cfg.EnabledModules); err != nil {
			return fmt.Errorf("failed to unmarshal enabled modules: %w", err)
		}
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &cfg.Settings); err != nil {
			return fmt.Errorf("failed to unmarshal settings: %w", err)
		}
	}
	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
