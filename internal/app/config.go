package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/saltshine/storefront/internal/source"
)

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr     string `default:"0.0.0.0:8080" usage:"API server listen address"`
	ShopBase string `default:"https://shop.example.com" usage:"Live shop origin for catalog fetch and checkout URLs" flag:"shop-base"`

	// Mode selects the catalog pipeline: live, snapshot, seed, or hybrid.
	Mode        string `default:"hybrid" usage:"Catalog source mode (live|snapshot|seed|hybrid)"`
	SnapshotDir string `default:"data/snapshot" usage:"Directory holding catalog snapshot files" flag:"snapshot-dir"`
	DatabaseURL string `usage:"PostgreSQL connection URL; enables the store tier when set (STOREFRONT_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	CartPath    string `default:"data/cart.json" usage:"Path of the persisted cart document" flag:"cart-path"`

	Staleness time.Duration `default:"15m" usage:"How long a loaded catalog is served before refetching"`

	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// PipelineMode validates and converts the configured mode string.
func (c *Config) PipelineMode() (source.Mode, error) {
	switch m := source.Mode(c.Mode); m {
	case source.ModeLive, source.ModeSnapshot, source.ModeSeed, source.ModeHybrid:
		return m, nil
	default:
		return "", errors.Errorf("unknown catalog mode %q", c.Mode)
	}
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if _, err := cfg.PipelineMode(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables that use
// standard names like DATABASE_URL and PORT to the application's
// STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
