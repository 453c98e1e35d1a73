package shell

import (
	"errors"
	"strings"
)

// ErrTenantUnresolved means neither the identity carried a tenant claim nor a
// deployment default was configured. The config loader must not proceed; the
// shell never silently falls back to an arbitrary tenant.
var ErrTenantUnresolved = errors.New("tenant unresolved: no tenant claim and no default tenant configured")

// ResolveTenant derives the active tenant id. The identity's tenant claim
// wins; otherwise the deployment default applies. Pure function, no side
// effects.
func ResolveTenant(tenantClaim, deploymentDefault string) (string, error) {
	if claim := strings.TrimSpace(tenantClaim); claim != "" {
		return claim, nil
	}
	if def := strings.TrimSpace(deploymentDefault); def != "" {
		return def, nil
	}
	return "", ErrTenantUnresolved
}
