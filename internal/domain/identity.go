package domain

// Identity is the authenticated-user snapshot supplied by the identity
// provider. Read-only to this service; lifecycle tied to the session.
type Identity struct {
	Subject     string `json:"subject"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	TenantClaim string `json:"tenant_claim,omitempty"`
	Roles       []Role `json:"roles"`
}

// HasRole reports whether the identity holds exactly the given role.
func (id *Identity) HasRole(role Role) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the identity holds at least one of the given roles.
func (id *Identity) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if id.HasRole(r) {
			return true
		}
	}
	return false
}
