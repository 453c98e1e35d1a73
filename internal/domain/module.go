package domain

// ModuleClass 模块分类：core 模块所有租户可见，optional 模块按租户开通
type ModuleClass string

const (
	ModuleCore     ModuleClass = "core"
	ModuleOptional ModuleClass = "optional"
)

// ModuleDefinition is one entry of the static module catalog. Definitions are
// fixed at process start and never mutated.
type ModuleDefinition struct {
	Key   string      `json:"key"`
	Label string      `json:"label"`
	Path  string      `json:"path"`
	Icon  string      `json:"icon"`
	Class ModuleClass `json:"class"`
}

// NavItem is the view projection of an enabled module. It is recomputed from
// the registry and the enabled-module set, never persisted.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
	Badge int    `json:"badge,omitempty"`
}
