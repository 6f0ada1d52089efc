package config

import (
	"fmt"
	"sync"

	"github.com/evoengine/evoengine/pkg/observability/logger"
)

// Provider holds the process-wide configuration slot. The slot is empty
// until the first successful Initialize and immutable afterwards, except
// through Reset. All slot access is mutex-guarded so concurrent callers
// cannot race to populate it.
type Provider struct {
	mu     sync.Mutex
	loader Loader
	log    logger.Logger
	cfg    *Config
}

// NewProvider creates a Provider around the given loader. A nil logger
// disables diagnostics.
func NewProvider(loader Loader, log logger.Logger) *Provider {
	if log == nil {
		log = logger.NewNop()
	}
	return &Provider{loader: loader, log: log}
}

// Initialize loads and validates the configuration and publishes it into
// the slot. On failure the slot is left untouched and the returned error
// wraps the cause; no partially populated record is ever exposed.
func (p *Provider) Initialize() (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initializeLocked()
}

// Get returns the published configuration. If the slot is empty it makes
// exactly one recovery Initialize attempt; when that also fails, the error
// states that configuration was neither pre-initialized nor
// auto-initializable and wraps the underlying cause.
func (p *Provider) Get() (*Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg != nil {
		return p.cfg, nil
	}
	cfg, err := p.initializeLocked()
	if err != nil {
		return nil, &Error{
			Kind:   KindUninitializedAccess,
			Reason: "configuration was neither pre-initialized nor auto-initializable",
			Err:    err,
		}
	}
	return cfg, nil
}

// Reset clears the slot. Intended for tests and controlled reloads.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = nil
}

func (p *Provider) initializeLocked() (*Config, error) {
	cfg, err := p.loader.Load()
	if err != nil {
		p.log.Error("configuration initialization failed", "error", err)
		if IsKind(err, KindMissingSource) || IsKind(err, KindMissingField) {
			p.log.Error("missing required credential variables",
				"required", RequiredCredentialVars)
			p.log.Error("firebase credentials unavailable; request access via the Telegram emergency contact")
		}
		return nil, fmt.Errorf("configuration initialization failed: %w", err)
	}

	p.cfg = cfg
	p.log.Info("configuration loaded", "project_id", cfg.Firebase.ProjectID)
	p.log.Debug("tournament schedule", "daily_schedule", cfg.Tournament.DailySchedule)
	p.log.Debug("market data sources", "data_sources", cfg.DataSources)
	return cfg, nil
}

// Default process-wide provider, backed by the conventional override file.
var (
	defaultMu       sync.Mutex
	defaultProvider = NewProvider(NewViperLoader(DefaultEnvFile), logger.NewNop())
)

// SetDefault replaces the process-wide provider. Call once at startup,
// before any Initialize or Get.
func SetDefault(p *Provider) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if p != nil {
		defaultProvider = p
	}
}

// Default returns the process-wide provider.
func Default() *Provider {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultProvider
}

// Initialize loads configuration through the process-wide provider.
func Initialize() (*Config, error) { return Default().Initialize() }

// Get returns configuration from the process-wide provider, attempting one
// initialization if it is empty.
func Get() (*Config, error) { return Default().Get() }

// Reset clears the process-wide slot.
func Reset() { Default().Reset() }
