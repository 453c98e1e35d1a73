package registry

import (
	"opshell/internal/domain"
)

// FallbackPath is returned by FirstEnabledPath when a tenant has no enabled
// module at all (profile is always reachable, outside the module catalog).
const FallbackPath = "/perfil"

// Registry is the immutable, ordered catalog of every feature module the
// product ships. It is built once at process start; lookups never mutate it.
type Registry struct {
	defs  []domain.ModuleDefinition
	index map[string]int // key -> position in defs
}

// New builds a registry from an ordered list of definitions.
func New(defs []domain.ModuleDefinition) *Registry {
	r := &Registry{
		defs:  make([]domain.ModuleDefinition, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	copy(r.defs, defs)
	for i, d := range r.defs {
		r.index[d.Key] = i
	}
	return r
}

// Default returns the product module catalog, in navigation order.
func Default() *Registry {
	return New([]domain.ModuleDefinition{
		{Key: "inventario", Label: "Inventario", Path: "/inventario", Icon: "package", Class: domain.ModuleCore},
		{Key: "ventas", Label: "Ventas", Path: "/ventas", Icon: "shopping-cart", Class: domain.ModuleCore},
		{Key: "costos", Label: "Costos", Path: "/costos", Icon: "calculator", Class: domain.ModuleOptional},
		{Key: "precios", Label: "Precios", Path: "/precios", Icon: "tag", Class: domain.ModuleOptional},
		{Key: "ubicaciones", Label: "Ubicaciones", Path: "/ubicaciones", Icon: "map-pin", Class: domain.ModuleCore},
		{Key: "usuarios", Label: "Usuarios", Path: "/usuarios", Icon: "users", Class: domain.ModuleCore},
		{Key: "analitica", Label: "Analítica", Path: "/analitica", Icon: "bar-chart", Class: domain.ModuleOptional},
		{Key: "fotos", Label: "Fotos", Path: "/fotos", Icon: "camera", Class: domain.ModuleOptional},
		{Key: "chatbot", Label: "Chatbot", Path: "/chatbot", Icon: "message-circle", Class: domain.ModuleOptional},
	})
}

// All returns the full catalog in registry order.
func (r *Registry) All() []domain.ModuleDefinition {
	out := make([]domain.ModuleDefinition, len(r.defs))
	copy(out, r.defs)
	return out
}

// Keys returns every module key in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.defs))
	for i, d := range r.defs {
		keys[i] = d.Key
	}
	return keys
}

// Has reports whether key is a known module key.
func (r *Registry) Has(key string) bool {
	_, ok := r.index[key]
	return ok
}

// FilterEnabled returns the definitions whose key is in the enabled set, in
// registry order. Unknown keys and duplicates in the set are ignored.
func (r *Registry) FilterEnabled(enabled []string) []domain.ModuleDefinition {
	set := toSet(enabled)
	out := make([]domain.ModuleDefinition, 0, len(set))
	for _, d := range r.defs {
		if set[d.Key] {
			out = append(out, d)
		}
	}
	return out
}

// FirstEnabledPath returns the route of the first registry entry whose key is
// enabled, or FallbackPath when none match.
func (r *Registry) FirstEnabledPath(enabled []string) string {
	set := toSet(enabled)
	for _, d := range r.defs {
		if set[d.Key] {
			return d.Path
		}
	}
	return FallbackPath
}

// UnknownKeys returns the members of the enabled set that are not in the
// catalog, preserving first-seen order. Used for misconfiguration diagnostics.
func (r *Registry) UnknownKeys(enabled []string) []string {
	var unknown []string
	seen := map[string]bool{}
	for _, k := range enabled {
		if !r.Has(k) && !seen[k] {
			unknown = append(unknown, k)
			seen[k] = true
		}
	}
	return unknown
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}
