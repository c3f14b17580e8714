package admincore

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/salonhub/admincore/internal/audit"
	"github.com/salonhub/admincore/provider"
	"github.com/salonhub/admincore/rest"
	"github.com/salonhub/admincore/session"
	"github.com/salonhub/admincore/vault"
)

// Builder assembles an [Engine]. Configure it during initialization, call
// Build once, then discard it.
type Builder struct {
	config Config

	medium    vault.Medium
	redis     redis.UniversalClient
	auth      provider.AuthProvider
	directory provider.Directory
	auditSink AuditSink
	logger    *slog.Logger

	built bool
}

// New returns a builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithMedium sets the storage medium backing the session vault. Defaults to
// an in-memory medium, which does not survive a restart.
func (b *Builder) WithMedium(m vault.Medium) *Builder {
	b.medium = m
	return b
}

// WithRedis backs the session vault with Redis. Overrides WithMedium.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithProvider sets the auth provider. Required unless Config.Provider.URL
// points at a hosted backend, in which case an HTTP client is built from it.
func (b *Builder) WithProvider(p provider.AuthProvider) *Builder {
	b.auth = p
	return b
}

// WithDirectory sets the profile/salon directory.
func (b *Builder) WithDirectory(d provider.Directory) *Builder {
	b.directory = d
	return b
}

// WithAuditSink sets the destination for audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the engine logger. Defaults to slog.Default.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles in-process metrics collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles login latency histograms.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, wires the vault, session store, provider
// clients and REST proxies, and returns a ready Engine. Call Engine.Hydrate
// once before serving.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	auth := b.auth
	directory := b.directory
	if auth == nil || directory == nil {
		if cfg.Provider.URL == "" {
			return nil, errors.New("provider required: set WithProvider/WithDirectory or Config.Provider.URL")
		}
		client := provider.NewClient(cfg.Provider.URL, cfg.Provider.APIKey, cfg.Provider.Timeout)
		if auth == nil {
			auth = client
		}
		if directory == nil {
			directory = client
		}
	}
	// Provider and directory are resolved above, so Validate only has to
	// care about URLs the builder still depends on.
	if cfg.API.BaseURL == "" {
		return nil, errors.New("Config.API.BaseURL required")
	}
	if cfg.Vault.StorageKey == "" || cfg.Vault.Secret == "" {
		return nil, errors.New("Config.Vault.StorageKey and Secret required")
	}
	if cfg.Routes.LoginPath == "" || cfg.Routes.LandingPath == "" {
		return nil, errors.New("Config.Routes paths required")
	}

	medium := b.medium
	if b.redis != nil {
		medium = vault.NewRedisMedium(b.redis, cfg.Vault.RedisPrefix)
	}
	if medium == nil {
		medium = vault.NewMemoryMedium()
	}

	metrics := NewMetrics(cfg.Metrics)

	vaultStore, err := vault.NewStore(medium, cfg.Vault.Secret,
		vault.WithLogger(logger),
		vault.WithDiscardHook(func(key string, err error) {
			metrics.Inc(MetricHydrateDiscarded)
		}),
	)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		logger:  logger,
		metrics: metrics,
		vault:   vaultStore,
	}

	engine.session = session.NewStore(vaultStore, cfg.Vault.StorageKey,
		session.WithLogger(logger),
		session.WithHydrationHook(func(restored bool) {
			if restored {
				metrics.Inc(MetricHydrateRestored)
			} else {
				metrics.Inc(MetricHydrateEmpty)
			}
		}),
	)

	engine.auth = auth
	engine.directory = directory
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink)

	restClient := rest.NewClient(cfg.API.BaseURL, cfg.API.Timeout, engine.bearerToken,
		rest.WithClientLogger(logger),
		rest.WithErrorHook(func(error) {
			metrics.Inc(MetricProxyError)
		}),
	)
	engine.servicios = rest.NewServiciosClient(restClient)
	engine.usuarios = rest.NewUsuariosClient(restClient)

	b.built = true

	return engine, nil
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *audit.Dispatcher {
	if !cfg.Enabled || sink == nil {
		return nil
	}
	return audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}
