package registry

import (
	"opshell/internal/domain"
)

// BuildNavigation projects the enabled-module set onto the catalog and returns
// the ordered navigation list. Output order is registry order regardless of
// the order (or duplication) of the input set; unknown keys are dropped.
// An empty enabled set yields an empty list, not an error.
func (r *Registry) BuildNavigation(enabled []string) []domain.NavItem {
	defs := r.FilterEnabled(enabled)
	items := make([]domain.NavItem, len(defs))
	for i, d := range defs {
		items[i] = domain.NavItem{
			Label: d.Label,
			Path:  d.Path,
			Icon:  d.Icon,
		}
	}
	return items
}
