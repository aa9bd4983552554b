// internal/config/model.go
//
// Typed configuration model for the storefront platform.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                              – dotenv values,
//   • `conf/global.yaml`                           – primary static file,
//   • `STOREFRONT_`-prefixed environment overrides – highest precedence.
//
// Any secret whose string begins with `vault:` (for example
// `vault:secret/storefront#db_password`) is replaced by ResolveSecrets
// after Load, so the rest of the app only ever sees plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.  Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • Durations accept Go syntax ("15s", "30m").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr        string        `koanf:"listen_addr"         validate:"required,hostname_port"`
	ForceHTTPS        bool          `koanf:"force_https"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" validate:"gte=0"`
	ReadTimeout       time.Duration `koanf:"read_timeout"        validate:"gte=0"`
	WriteTimeout      time.Duration `koanf:"write_timeout"       validate:"gte=0"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"        validate:"gte=0"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"    validate:"gte=0"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The *template* (`DSN`) is kept in YAML so operators can tweak host, port,
// or flags without touching Vault.  The *secret* (`Password`) is usually a
// `vault:` reference and is substituted for `{password}` by BuildDSN.
type Database struct {
	DSN             string        `koanf:"dsn"               validate:"required"`
	Password        string        `koanf:"password"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	Migrate         bool          `koanf:"migrate"`
}

// BuildDSN returns DSN with `{password}` replaced.
func (d Database) BuildDSN() string {
	return strings.ReplaceAll(d.DSN, "{password}", d.Password)
}

//
// Storefront section
//

// Storefront holds the domain knobs: where storefronts live, how slugs
// fall back, and how hard the allocator may probe.
type Storefront struct {
	BaseDomain      string        `koanf:"base_domain"       validate:"required,fqdn"`
	LocalhostAlias  string        `koanf:"localhost_alias"`
	FallbackSlug    string        `koanf:"fallback_slug"     validate:"omitempty,max=50"`
	SuggestionCount int           `koanf:"suggestion_count"  validate:"gte=0,lte=20"`
	MaxProbes       int           `koanf:"max_probes"        validate:"gte=0"`
	CacheIdleTTL    time.Duration `koanf:"cache_idle_ttl"    validate:"gte=0"`
	CacheMaxEntries int           `koanf:"cache_max_entries" validate:"gte=0"`
}

//
// Session section
//

// Session configures the signed merchant cookie.
type Session struct {
	CookieName string        `koanf:"cookie_name" validate:"required"`
	Secret     string        `koanf:"secret"      validate:"required,min=32"`
	MaxAge     time.Duration `koanf:"max_age"     validate:"gte=0"`
	Secure     bool          `koanf:"secure"`
}

//
// Geo, Log, and Vault sections
//

// Geo points at an optional GeoLite2-City database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

// Log configures the rotating file logger.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Vault toggles secret resolution.  Address and token come from the
// standard VAULT_ADDR and VAULT_TOKEN variables.
type Vault struct {
	Enabled  bool          `koanf:"enabled"`
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // STOREFRONT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP       HTTP       `koanf:"http"`
	Database   Database   `koanf:"database"`
	Storefront Storefront `koanf:"storefront"`
	Session    Session    `koanf:"session"`
	Geo        Geo        `koanf:"geo"`
	Log        Log        `koanf:"log"`
	Vault      Vault      `koanf:"vault"`
	Paths      Paths      `koanf:"-"`
}

// applyDefaults fills zero values that have a sensible default.
func (c *Config) applyDefaults() {
	setDur := func(d *time.Duration, v time.Duration) {
		if *d == 0 {
			*d = v
		}
	}
	setInt := func(i *int, v int) {
		if *i == 0 {
			*i = v
		}
	}

	setDur(&c.HTTP.ReadHeaderTimeout, 5*time.Second)
	setDur(&c.HTTP.ReadTimeout, 15*time.Second)
	setDur(&c.HTTP.WriteTimeout, 30*time.Second)
	setDur(&c.HTTP.IdleTimeout, 60*time.Second)
	setDur(&c.HTTP.ShutdownTimeout, 10*time.Second)

	setInt(&c.Database.MaxOpenConns, 20)
	setInt(&c.Database.MaxIdleConns, 10)
	setDur(&c.Database.ConnMaxLifetime, 30*time.Minute)

	if c.Storefront.FallbackSlug == "" {
		c.Storefront.FallbackSlug = "tienda"
	}
	setInt(&c.Storefront.SuggestionCount, 3)
	setInt(&c.Storefront.MaxProbes, 5000)

	if c.Session.CookieName == "" {
		c.Session.CookieName = "storefront_session"
	}
	setDur(&c.Session.MaxAge, 7*24*time.Hour)

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	setDur(&c.Vault.CacheTTL, 10*time.Minute)
}
