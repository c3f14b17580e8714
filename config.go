package admincore

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// defaultVaultSecret is compiled into the client on purpose: the vault is an
// obfuscation layer against casual inspection of the stored session, not a
// security boundary. Deployments that want their own secret override it via
// config or ADMINCORE_VAULT_SECRET.
const defaultVaultSecret = "85eew2_'9*//"

// DefaultStorageKey is the fixed name the session envelope is stored under.
const DefaultStorageKey = "auth-storage"

// ProviderConfig locates the hosted auth+profile backend.
type ProviderConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// APIConfig locates the dashboard's own REST API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// VaultConfig controls the encrypted session envelope.
type VaultConfig struct {
	StorageKey  string
	Secret      string
	RedisPrefix string
}

// RoutesConfig holds the fixed navigation destinations.
type RoutesConfig struct {
	LoginPath   string
	LandingPath string
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process metrics collection.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Config is the full engine configuration. Zero values are filled from
// [DefaultConfig] during [Builder.Build].
type Config struct {
	Provider ProviderConfig
	API      APIConfig
	Vault    VaultConfig
	Routes   RoutesConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// DefaultConfig returns the baseline configuration. Provider and API
// locations have no sensible defaults and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderConfig{Timeout: 10 * time.Second},
		API:      APIConfig{Timeout: 15 * time.Second},
		Vault: VaultConfig{
			StorageKey: DefaultStorageKey,
			Secret:     defaultVaultSecret,
		},
		Routes: RoutesConfig{
			LoginPath:   "/login",
			LandingPath: "/",
		},
		Audit:   AuditConfig{Enabled: true, BufferSize: 256, DropIfFull: true},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Provider.URL == "" {
		return errors.New("Provider.URL required")
	}
	if c.API.BaseURL == "" {
		return errors.New("API.BaseURL required")
	}
	if c.Vault.StorageKey == "" {
		return errors.New("Vault.StorageKey required")
	}
	if c.Vault.Secret == "" {
		return errors.New("Vault.Secret required")
	}
	if c.Routes.LoginPath == "" || c.Routes.LandingPath == "" {
		return errors.New("Routes.LoginPath and Routes.LandingPath required")
	}
	if c.Provider.Timeout < 0 || c.API.Timeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

type envConfig struct {
	ProviderURL    string        `env:"ADMINCORE_PROVIDER_URL"`
	ProviderAPIKey string        `env:"ADMINCORE_PROVIDER_APIKEY"`
	APIBaseURL     string        `env:"ADMINCORE_API_URL"`
	APITimeout     time.Duration `env:"ADMINCORE_API_TIMEOUT" envDefault:"15s"`
	VaultSecret    string        `env:"ADMINCORE_VAULT_SECRET"`
	StorageKey     string        `env:"ADMINCORE_STORAGE_KEY"`
	LoginPath      string        `env:"ADMINCORE_LOGIN_PATH"`
	LandingPath    string        `env:"ADMINCORE_LANDING_PATH"`
	AuditEnabled   bool          `env:"ADMINCORE_AUDIT" envDefault:"true"`
	MetricsEnabled bool          `env:"ADMINCORE_METRICS" envDefault:"true"`
}

// ConfigFromEnv loads configuration from ADMINCORE_* environment variables on
// top of [DefaultConfig]. Unset variables keep their defaults.
func ConfigFromEnv() (Config, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Provider.URL = ec.ProviderURL
	cfg.Provider.APIKey = ec.ProviderAPIKey
	cfg.API.BaseURL = ec.APIBaseURL
	cfg.API.Timeout = ec.APITimeout
	if ec.VaultSecret != "" {
		cfg.Vault.Secret = ec.VaultSecret
	}
	if ec.StorageKey != "" {
		cfg.Vault.StorageKey = ec.StorageKey
	}
	if ec.LoginPath != "" {
		cfg.Routes.LoginPath = ec.LoginPath
	}
	if ec.LandingPath != "" {
		cfg.Routes.LandingPath = ec.LandingPath
	}
	cfg.Audit.Enabled = ec.AuditEnabled
	cfg.Metrics.Enabled = ec.MetricsEnabled

	return cfg, nil
}
