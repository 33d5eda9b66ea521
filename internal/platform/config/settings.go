package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/secret"
)

// Settings is the full service configuration.
type Settings struct {
	Environment Environment `yaml:"-"`

	Application ApplicationSettings `yaml:"application"`
	Database    DatabaseSettings    `yaml:"database"`
	EmailClient EmailClientSettings `yaml:"email_client"`
	Storage     StorageSettings     `yaml:"storage"`
	Idempotency IdempotencySettings `yaml:"idempotency"`
	Log         LogSettings         `yaml:"log"`
}

type ApplicationSettings struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the listen address for the HTTP server.
func (a ApplicationSettings) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

type DatabaseSettings struct {
	Username     string        `yaml:"username"`
	Password     secret.String `yaml:"password"`
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	DatabaseName string        `yaml:"database_name"`
	RequireSSL   bool          `yaml:"require_ssl"`

	// URL, when set (DATABASE_URL), replaces the DSN built from the fields above.
	URL secret.String `yaml:"url"`
}

// ConnectionString is the DSN for the configured database.
func (d DatabaseSettings) ConnectionString() secret.String {
	if !d.URL.IsZero() {
		return d.URL
	}
	u := d.baseURL()
	u.Path = "/" + d.DatabaseName
	return secret.New(u.String())
}

// ConnectionStringWithoutDB is the DSN for the server's default database, used
// to create the configured database before migrating it.
func (d DatabaseSettings) ConnectionStringWithoutDB() secret.String {
	return secret.New(d.baseURL().String())
}

func (d DatabaseSettings) baseURL() *url.URL {
	sslmode := "prefer"
	if d.RequireSSL {
		sslmode = "require"
	}
	return &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.Username, d.Password.Expose()),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
}

type EmailClientSettings struct {
	BaseURL             string        `yaml:"base_url"`
	SenderEmail         string        `yaml:"sender_email"`
	AuthorizationToken  secret.String `yaml:"authorization_token"`
	TimeoutMilliseconds int           `yaml:"timeout_milliseconds"`
}

// Sender parses the configured sender address.
func (e EmailClientSettings) Sender() (domain.SubscriberEmail, error) {
	return domain.ParseSubscriberEmail(e.SenderEmail)
}

func (e EmailClientSettings) Timeout() time.Duration {
	return time.Duration(e.TimeoutMilliseconds) * time.Millisecond
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendNone     = "none"
)

type StorageSettings struct {
	// Backend is "memory" or "postgres".
	Backend string `yaml:"backend"`
}

type IdempotencySettings struct {
	// Backend is "memory", "postgres", "redis" or "none".
	Backend   string        `yaml:"backend"`
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type LogSettings struct {
	Level string `yaml:"level"`
}

// Validate checks cross-field constraints that yaml decoding cannot express.
func (s Settings) Validate() error {
	if s.Application.Port <= 0 || s.Application.Port > 65535 {
		return fmt.Errorf("application.port must be in 1..65535, got %d", s.Application.Port)
	}
	switch s.Storage.Backend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendMemory, BackendPostgres, s.Storage.Backend)
	}
	switch s.Idempotency.Backend {
	case BackendMemory, BackendNone:
	case BackendPostgres:
		if s.Storage.Backend != BackendPostgres {
			return fmt.Errorf("idempotency.backend %q requires storage.backend %q", BackendPostgres, BackendPostgres)
		}
	case BackendRedis:
		if s.Idempotency.RedisAddr == "" {
			return fmt.Errorf("idempotency.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("idempotency.backend must be one of memory, postgres, redis, none; got %q", s.Idempotency.Backend)
	}
	if s.Idempotency.TTL < 0 {
		return fmt.Errorf("idempotency.ttl must not be negative")
	}
	if s.Idempotency.TTL > 0 && s.Idempotency.TTL < time.Second {
		return fmt.Errorf("idempotency.ttl must be 0 (no expiry) or at least 1s, got %s", s.Idempotency.TTL)
	}
	if s.EmailClient.TimeoutMilliseconds <= 0 {
		return fmt.Errorf("email_client.timeout_milliseconds must be positive")
	}
	if _, err := s.EmailClient.Sender(); err != nil {
		return fmt.Errorf("email_client.sender_email: %w", err)
	}
	return nil
}
