package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Overland-East-Bay/newsletter-api/internal/platform/secret"
)

// DefaultDir is the configuration directory relative to the working directory.
const DefaultDir = "configuration"

// Load reads base.yaml from dir and overlays <env>.yaml. Keys absent from the
// overlay keep their base value.
func Load(dir string, env Environment) (Settings, error) {
	cfg := defaults()
	for _, name := range []string{"base.yaml", env.String() + ".yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return Settings{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.Environment = env
	return cfg, nil
}

// LoadFromEnv loads .env (if present), picks the environment from
// APP_ENVIRONMENT (default "local"), loads the yaml layers from dir and applies
// environment-variable overrides.
func LoadFromEnv(dir string) (Settings, error) {
	// Load .env file if it exists (no error if missing)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("load .env: %w", err)
	}

	envName := os.Getenv("APP_ENVIRONMENT")
	if envName == "" {
		envName = string(EnvironmentLocal)
	}
	env, err := ParseEnvironment(envName)
	if err != nil {
		return Settings{}, fmt.Errorf("APP_ENVIRONMENT: %w", err)
	}

	cfg, err := Load(dir, env)
	if err != nil {
		return Settings{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Settings{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func defaults() Settings {
	return Settings{
		Application: ApplicationSettings{Host: "127.0.0.1", Port: 8000},
		EmailClient: EmailClientSettings{TimeoutMilliseconds: 10_000},
		Storage:     StorageSettings{Backend: BackendMemory},
		Idempotency: IdempotencySettings{Backend: BackendMemory, TTL: 24 * time.Hour},
	}
}

func applyEnvOverrides(cfg *Settings) error {
	if v := os.Getenv("APP_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("APP_PORT must be an integer: %w", err)
		}
		cfg.Application.Port = p
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = secret.New(v)
	}
	if v := os.Getenv("EMAIL_CLIENT_BASE_URL"); v != "" {
		cfg.EmailClient.BaseURL = v
	}
	if v := os.Getenv("EMAIL_CLIENT_AUTHORIZATION_TOKEN"); v != "" {
		cfg.EmailClient.AuthorizationToken = secret.New(v)
	}
	if v := os.Getenv("EMAIL_CLIENT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EMAIL_CLIENT_TIMEOUT must be a duration (e.g. 10s): %w", err)
		}
		cfg.EmailClient.TimeoutMilliseconds = int(d / time.Millisecond)
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("IDEMPOTENCY_BACKEND"); v != "" {
		cfg.Idempotency.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Idempotency.RedisAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}
