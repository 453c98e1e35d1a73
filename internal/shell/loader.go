package shell

import (
	"context"
	"sync"

	"opshell/internal/domain"
	"opshell/internal/registry"

	"go.uber.org/zap"
)

// LoadState 配置加载状态机：idle → loading → {ready | error}
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateReady   LoadState = "ready"
	StateError   LoadState = "error"
)

// Snapshot is the read-only view handed to subscribers and pollers. Config is
// non-nil only in StateReady; a failed or superseded load never leaves a stale
// config behind.
type Snapshot struct {
	State    LoadState
	TenantID string
	Config   *domain.TenantConfig
	Err      string
}

// ConfigFetcher fetches a tenant's configuration from the backend.
type ConfigFetcher interface {
	FetchConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error)
}

// ConfigLoader drives the tenant-config state machine. Exactly one config is
// active at a time: starting a load for a new tenant supersedes any in-flight
// load, and a superseded response is discarded on arrival, so rapid tenant
// changes can never apply out of order.
type ConfigLoader struct {
	fetcher ConfigFetcher
	reg     *registry.Registry
	bypass  bool
	logger  *zap.Logger

	mu      sync.Mutex
	gen     uint64 // bumped on every Load; responses carry the gen they started with
	cancel  context.CancelFunc
	snap    Snapshot
	subs    map[int]func(Snapshot)
	nextSub int
}

// NewConfigLoader creates a loader. In bypass mode fetcher may be nil: loads
// synthesize a default config granting every module instead of calling the
// backend.
func NewConfigLoader(fetcher ConfigFetcher, reg *registry.Registry, bypass bool, logger *zap.Logger) *ConfigLoader {
	return &ConfigLoader{
		fetcher: fetcher,
		reg:     reg,
		bypass:  bypass,
		logger:  logger,
		snap:    Snapshot{State: StateIdle},
		subs:    map[int]func(Snapshot){},
	}
}

// Snapshot returns the current state.
func (l *ConfigLoader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// Subscribe registers a listener invoked on every state change with the new
// snapshot. The returned function unsubscribes.
func (l *ConfigLoader) Subscribe(fn func(Snapshot)) func() {
	l.mu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	l.mu.Unlock()
	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// Load starts loading the configuration for tenantID, superseding any load in
// flight. The previous config (if any) is discarded immediately: consumers see
// StateLoading with a nil config until the new one arrives.
func (l *ConfigLoader) Load(ctx context.Context, tenantID string) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.setLocked(Snapshot{State: StateLoading, TenantID: tenantID})

	if l.bypass {
		cfg := BypassConfig(tenantID, l.reg)
		l.logger.Info("tenant config synthesized (bypass mode)",
			zap.String("tenant_id", tenantID),
		)
		l.setLocked(Snapshot{State: StateReady, TenantID: tenantID, Config: cfg})
		l.mu.Unlock()
		cancel()
		return
	}
	l.mu.Unlock()

	go func() {
		cfg, err := l.fetcher.FetchConfig(loadCtx, tenantID)
		l.complete(gen, tenantID, cfg, err)
	}()
}

// Close aborts any in-flight load.
func (l *ConfigLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *ConfigLoader) complete(gen uint64, tenantID string, cfg *domain.TenantConfig, err error) {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		l.logger.Debug("discarding stale tenant config response",
			zap.String("tenant_id", tenantID),
			zap.Uint64("generation", gen),
		)
		return
	}
	if err != nil {
		l.logger.Warn("tenant config load failed",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		l.setLocked(Snapshot{State: StateError, TenantID: tenantID, Err: err.Error()})
		l.mu.Unlock()
		return
	}
	if unknown := l.reg.UnknownKeys(cfg.EnabledModules); len(unknown) > 0 {
		// Unknown keys are ignored when building navigation; surface them in
		// the log so a misconfigured tenant is not debugged blind.
		l.logger.Warn("tenant config enables unknown module keys",
			zap.String("tenant_id", tenantID),
			zap.Strings("unknown_keys", unknown),
		)
	}
	l.logger.Info("tenant config loaded",
		zap.String("tenant_id", tenantID),
		zap.Int("enabled_modules", len(cfg.EnabledModules)),
	)
	l.setLocked(Snapshot{State: StateReady, TenantID: tenantID, Config: cfg})
	l.mu.Unlock()
}

// setLocked replaces the snapshot and notifies subscribers. Caller holds l.mu;
// callbacks run inline, so subscribers must not call back into the loader.
func (l *ConfigLoader) setLocked(snap Snapshot) {
	l.snap = snap
	for _, fn := range l.subs {
		fn(snap)
	}
}

// BypassConfig synthesizes the local/offline tenant configuration: every
// module enabled, neutral branding.
func BypassConfig(tenantID string, reg *registry.Registry) *domain.TenantConfig {
	return &domain.TenantConfig{
		TenantID:       tenantID,
		TenantName:     tenantID,
		Industry:       "general",
		EnabledModules: reg.Keys(),
		Theme: domain.Theme{
			Primary:    "#16a34a",
			Secondary:  "#0f172a",
			Accent:     "#f59e0b",
			Background: "#ffffff",
			AppName:    "StockControl",
		},
	}
}
