package repository

import (
	"context"
	"database/sql"
	"sync"
)

// UserTenantResolver answers "which tenant does this user belong to". Used by
// the session handler to fill the tenant claim when the identity provider did
// not carry one.
type UserTenantResolver interface {
	TenantIDByUserID(ctx context.Context, userID string) (string, error)
}

type PostgresUserTenantResolver struct {
	db *sql.DB
}

func NewPostgresUserTenantResolver(db *sql.DB) *PostgresUserTenantResolver {
	return &PostgresUserTenantResolver{db: db}
}

func (r *PostgresUserTenantResolver) TenantIDByUserID(ctx context.Context, userID string) (string, error) {
	var tenantID string
	err := r.db.QueryRowContext(ctx, "SELECT tenant_id::text FROM users WHERE user_id = $1", userID).Scan(&tenantID)
	if err == sql.ErrNoRows {
		return "", ErrTenantNotFound
	}
	return tenantID, err
}

// MemoryUserTenantResolver backs the DB-disabled mode.
type MemoryUserTenantResolver struct {
	mu      sync.RWMutex
	tenants map[string]string // userID -> tenantID
}

func NewMemoryUserTenantResolver() *MemoryUserTenantResolver {
	return &MemoryUserTenantResolver{tenants: map[string]string{}}
}

func (r *MemoryUserTenantResolver) Assign(userID, tenantID string) {
	r.mu.Lock()
	r.tenants[userID] = tenantID
	r.mu.Unlock()
}

func (r *MemoryUserTenantResolver) TenantIDByUserID(_ context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tenantID, ok := r.tenants[userID]
	if !ok {
		return "", ErrTenantNotFound
	}
	return tenantID, nil
}
