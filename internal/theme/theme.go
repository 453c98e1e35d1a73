package theme

import (
	"fmt"
	"sync"

	"opshell/internal/domain"
)

// Style variable names written by Apply. Fixed contract with the shell views.
const (
	VarPrimary    = "--color-primary"
	VarSecondary  = "--color-secondary"
	VarAccent     = "--color-accent"
	VarBackground = "--color-background"
	VarGlow       = "--shadow-glow"
	VarAppName    = "--app-name"
	VarLogoURL    = "--logo-url"
)

// StyleContext is the shared presentation context the applicator writes into.
// A single applicator instance is active per session; all writes happen from
// one goroutine by convention.
type StyleContext interface {
	SetVar(name, value string)
	RemoveVar(name string)
	Var(name string) (string, bool)
}

// MemoryStyleContext StyleContext 的进程内实现
type MemoryStyleContext struct {
	mu   sync.RWMutex
	vars map[string]string
}

func NewMemoryStyleContext() *MemoryStyleContext {
	return &MemoryStyleContext{vars: map[string]string{}}
}

func (c *MemoryStyleContext) SetVar(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vars[name] = value
}

func (c *MemoryStyleContext) RemoveVar(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.vars, name)
}

func (c *MemoryStyleContext) Var(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vars[name]
	return v, ok
}

// Vars returns a snapshot of all variables, for diagnostics and tests.
func (c *MemoryStyleContext) Vars() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.vars))
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

// Applied is the teardown handle returned by Apply. The caller owns its
// lifetime: calling Teardown removes exactly the variables Apply wrote and
// restores any values that were present before. Teardown is safe to call more
// than once.
type Applied struct {
	ctx  StyleContext
	prev map[string]*string // name -> prior value (nil = was absent)
	once sync.Once
}

// Teardown reverts the presentation context to its pre-Apply state.
func (a *Applied) Teardown() {
	a.once.Do(func() {
		for name, prior := range a.prev {
			if prior == nil {
				a.ctx.RemoveVar(name)
			} else {
				a.ctx.SetVar(name, *prior)
			}
		}
	})
}

// Apply projects a tenant theme into the presentation context and returns the
// teardown handle. Applying the same theme twice produces the same end state
// as applying it once.
func Apply(ctx StyleContext, t domain.Theme) *Applied {
	vars := map[string]string{
		VarPrimary:    t.Primary,
		VarSecondary:  t.Secondary,
		VarAccent:     t.Accent,
		VarBackground: t.Background,
		VarGlow:       GlowColor(t.Primary),
		VarAppName:    t.AppName,
	}
	if t.LogoURL != "" {
		vars[VarLogoURL] = t.LogoURL
	}

	applied := &Applied{ctx: ctx, prev: make(map[string]*string, len(vars))}
	for name, value := range vars {
		if old, ok := ctx.Var(name); ok {
			prior := old
			applied.prev[name] = &prior
		} else {
			applied.prev[name] = nil
		}
		ctx.SetVar(name, value)
	}
	return applied
}

// neutralRGB is the glow fallback when the primary color is not 6-digit hex.
var neutralRGB = [3]uint8{100, 116, 139}

// GlowColor derives the translucent glow from the primary color.
func GlowColor(primaryHex string) string {
	r, g, b, ok := decodeHexRGB(primaryHex)
	if !ok {
		r, g, b = neutralRGB[0], neutralRGB[1], neutralRGB[2]
	}
	return fmt.Sprintf("rgba(%d, %d, %d, 0.35)", r, g, b)
}

// decodeHexRGB decodes "#rrggbb" into its channels. Anything else (short
// forms, missing '#', non-hex digits) is rejected.
func decodeHexRGB(s string) (r, g, b uint8, ok bool) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	channels := [3]uint8{}
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[1+i*2])
		lo, ok2 := hexDigit(s[2+i*2])
		if !ok1 || !ok2 {
			return 0, 0, 0, false
		}
		channels[i] = hi<<4 | lo
	}
	return channels[0], channels[1], channels[2], true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
