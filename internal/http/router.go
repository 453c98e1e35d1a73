package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（避免引入第三方路由依赖）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterTenantRoutes 注册 shell 消费的租户配置路由
func (r *Router) RegisterTenantRoutes(h *TenantConfigHandler) {
	// /api/v1/tenants/{id}/config | navigation | home
	r.Handle("/api/v1/tenants/", h.ServeTenant)
}

// RegisterSessionRoutes 注册会话路由（tenant + theme-mode + logout）
func (r *Router) RegisterSessionRoutes(s *SessionHandler) {
	r.Handle("/api/v1/session/tenant", s.Tenant)
	r.Handle("/api/v1/session/theme-mode", s.ThemeMode)
	r.Handle("/auth/api/v1/logout", s.Logout)
}

// RegisterAdminRoutes：tenant management（platform-level，登录保护）
func (r *Router) RegisterAdminRoutes(h *TenantConfigHandler, e *ExportHandler, s *SessionHandler) {
	r.Handle("/admin/api/v1/tenants/export", s.RequireAuth(e.ExportTenants))
	r.Handle("/admin/api/v1/tenants", s.RequireAuth(h.AdminTenants))
	r.Handle("/admin/api/v1/tenants/", s.RequireAuth(h.AdminTenants))
}
