package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-key-change-in-production"

// Server captures process level configuration. Unset infrastructure URLs select
// the in-memory implementation of the matching component.
type Server struct {
	Addr           string        `env:"A2ADMIN_ADDR" envDefault:":8080"`
	Environment    string        `env:"APP_ENV" envDefault:"development"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	OpsToken       string        `env:"OPS_TOKEN"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	// SeedDemoData loads demo clubs into the in-memory stores at startup.
	SeedDemoData bool `env:"SEED_DEMO_DATA"`

	JWTSecret string `env:"SUPABASE_JWT_SECRET" envDefault:"dev-secret-key-change-in-production"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	KafkaBrokers    []string      `env:"KAFKA_BROKERS" envSeparator:","`
	AuditTopic      string        `env:"KAFKA_AUDIT_TOPIC" envDefault:"a2admin.tenant-events"`
	KafkaClientID   string        `env:"KAFKA_CLIENT_ID" envDefault:"a2admin"`
	KafkaFlushLimit time.Duration `env:"KAFKA_FLUSH_TIMEOUT" envDefault:"5s"`

	Identity Identity
	Email    Email
	Tenant   Tenant
}

// Identity configures the hosted identity provider admin API.
type Identity struct {
	URL            string        `env:"SUPABASE_URL"`
	ServiceRoleKey string        `env:"SUPABASE_SERVICE_ROLE_KEY"`
	Timeout        time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"10s"`
	// BreakerThreshold is the run of consecutive failures that marks the
	// provider unhealthy.
	BreakerThreshold int `env:"IDENTITY_BREAKER_THRESHOLD" envDefault:"5"`
}

// Email configures outbound transactional email.
type Email struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	From                 string `env:"EMAIL_FROM" envDefault:"A2Display <noreply@notifications.a2display.fr>"`
	DefaultReplyTo       string `env:"EMAIL_REPLY_TO" envDefault:"contact@a2display.fr"`
}

// Tenant configures tenant lifecycle and resolution.
type Tenant struct {
	DeletionTimeout   time.Duration `env:"TENANT_DELETION_TIMEOUT" envDefault:"2m"`
	DeletionLeaseTTL  time.Duration `env:"TENANT_DELETION_LEASE_TTL" envDefault:"5m"`
	RoleLookupTimeout time.Duration `env:"ROLE_LOOKUP_TIMEOUT" envDefault:"5s"`
	// OverrideTTL expires persisted club selections; zero keeps them forever.
	OverrideTTL        time.Duration `env:"TENANT_OVERRIDE_TTL" envDefault:"720h"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"12h"`
	SessionPruneEvery  time.Duration `env:"SESSION_PRUNE_INTERVAL" envDefault:"10m"`
}

// IsProduction reports whether the process runs with production safeguards.
func (s Server) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// PostgresEnabled reports whether a database URL was configured.
func (s Server) PostgresEnabled() bool { return s.DatabaseURL != "" }

// RedisEnabled reports whether a Redis URL was configured.
func (s Server) RedisEnabled() bool { return s.RedisURL != "" }

// KafkaEnabled reports whether audit events should go to Kafka.
func (s Server) KafkaEnabled() bool { return len(s.KafkaBrokers) > 0 }

// Load reads .env (when present) and the process environment.
func Load() (Server, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// LoadFrom parses configuration from an explicit environment map.
func LoadFrom(environ map[string]string) (Server, error) {
	var cfg Server
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Server{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations that would run production on dev defaults.
func (s Server) Validate() error {
	var errs []error
	if s.Tenant.DeletionTimeout <= 0 {
		errs = append(errs, errors.New("TENANT_DELETION_TIMEOUT must be positive"))
	}
	// The deletion lease must outlive the longest run it guards.
	if s.Tenant.DeletionLeaseTTL <= s.Tenant.DeletionTimeout {
		errs = append(errs, errors.New("TENANT_DELETION_LEASE_TTL must exceed TENANT_DELETION_TIMEOUT"))
	}
	if s.Tenant.RoleLookupTimeout <= 0 {
		errs = append(errs, errors.New("ROLE_LOOKUP_TIMEOUT must be positive"))
	}
	if s.Tenant.SessionPruneEvery <= 0 {
		errs = append(errs, errors.New("SESSION_PRUNE_INTERVAL must be positive"))
	}
	if s.IsProduction() {
		if s.JWTSecret == devJWTSecret {
			errs = append(errs, errors.New("SUPABASE_JWT_SECRET must be set in production"))
		}
		if s.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL must be set in production"))
		}
		if s.SeedDemoData {
			errs = append(errs, errors.New("SEED_DEMO_DATA cannot be enabled in production"))
		}
		if s.Identity.URL == "" || s.Identity.ServiceRoleKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY must be set in production"))
		}
	}
	return errors.Join(errs...)
}
