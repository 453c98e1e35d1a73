package domain

// Role 角色（闭集）：与 role_permissions 的 role_code 对齐
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleWorker     Role = "WORKER"
	RoleViewer     Role = "VIEWER"
)

// IsValid reports whether r is one of the predefined roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleWorker, RoleViewer:
		return true
	}
	return false
}
