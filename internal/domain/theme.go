package domain

// Theme 租户品牌配色（TenantConfig.Theme）
// Colors are 6-digit hex strings ("#16a34a"); LogoURL is optional.
type Theme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	LogoURL    string `json:"logo_url,omitempty"`
	AppName    string `json:"app_name"`
}
