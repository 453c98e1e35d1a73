package domain

// TenantConfig is the per-tenant shell configuration: branding, the set of
// enabled feature modules and free-form settings. It is replaced wholesale on
// tenant change and never partially mutated.
type TenantConfig struct {
	TenantID       string         `json:"tenant_id"`
	TenantName     string         `json:"tenant_name"`
	Industry       string         `json:"industry,omitempty"`
	Theme          Theme          `json:"theme"`
	EnabledModules []string       `json:"enabled_modules"`
	Settings       map[string]any `json:"settings,omitempty"`
}

// HasModule reports whether key is in the enabled-module set.
func (c *TenantConfig) HasModule(key string) bool {
	for _, k := range c.EnabledModules {
		if k == key {
			return true
		}
	}
	return false
}
