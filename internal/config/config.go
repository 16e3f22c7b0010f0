// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable must carry.
//
// Nesting uses a double underscore:
//
//	LIBRARY_SERVER__PORT        -> server.port
//	LIBRARY_DATABASE__MONGO_URI -> database.mongo_uri
const EnvPrefix = "LIBRARY_"

// Supported values for DatabaseConfig.Driver.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf maps values from.
// The `validate:"..."` tags are enforced by go-playground/validator.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Jobs          JobsConfig           `koanf:"jobs"`
	Upload        UploadConfig         `koanf:"upload"`
	Storage       StorageConfig        `koanf:"storage"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

// DatabaseConfig selects the document backend and carries its connection
// parameters.
//
// Driver "mongo" uses MongoURI + Name. Driver "postgres" stores documents as
// jsonb rows and uses the Host/Port/User/Password/Name/SSLMode block.
// Driver "memory" keeps everything in process (local development, tests).
type DatabaseConfig struct {
	Driver       string `koanf:"driver" validate:"required,oneof=mongo postgres memory"`
	MongoURI     string `koanf:"mongo_uri" validate:"required_if=Driver mongo"`
	Name         string `koanf:"name" validate:"required_unless=Driver memory"`
	Host         string `koanf:"host" validate:"required_if=Driver postgres"`
	Port         int    `koanf:"port" validate:"required_if=Driver postgres"`
	User         string `koanf:"user" validate:"required_if=Driver postgres"`
	Password     string `koanf:"password"`
	SSLMode      string `koanf:"ssl_mode"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	// Timeout bounds every single database call, in seconds.
	Timeout int `koanf:"timeout"`
}

// QueryTimeout returns the per-call database deadline.
func (d DatabaseConfig) QueryTimeout() time.Duration {
	if d.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(d.Timeout) * time.Second
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port". Empty disables Redis.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// JobsConfig toggles the asynq background workers.
type JobsConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency"`
}

// UploadConfig controls the file upload endpoint.
type UploadConfig struct {
	// Dir is the fixed directory uploaded files are written to.
	Dir string `koanf:"dir"`
	// MaxBytes caps the multipart body size accepted by the server. 0 means
	// the echo default (no explicit cap).
	MaxBytes int64 `koanf:"max_bytes"`
	// RateLimit is the allowed upload requests per second per client IP.
	RateLimit float64 `koanf:"rate_limit"`
}

// StorageConfig configures the optional MinIO mirror of uploaded files.
type StorageConfig struct {
	MinioEndpoint  string `koanf:"minio_endpoint"`
	MinioAccessKey string `koanf:"minio_access_key"`
	MinioSecretKey string `koanf:"minio_secret_key"`
	MinioBucket    string `koanf:"minio_bucket"`
	MinioUseSSL    bool   `koanf:"minio_use_ssl"`
}

// MirrorEnabled reports whether enough MinIO settings exist to mirror uploads.
func (s StorageConfig) MirrorEnabled() bool {
	return s.MinioEndpoint != "" && s.MinioBucket != ""
}

// IntegrationConfig stores third-party credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	// NotifyTo receives "book added" notifications. Empty disables them.
	NotifyTo string `koanf:"notify_to"`
	From     string `koanf:"from"`
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the resulting config.
//
// Behavior summary:
//   - Loads env vars with prefix LIBRARY_
//   - Converts env keys into koanf keys ("__" becomes ".")
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Applies defaults for upload, jobs, and observability
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	return fromKoanf(k)
}

// envKey maps LIBRARY_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// koanf's env provider yields strings; comma separated origins are split here.
	if raw := k.String("server.cors_allowed_origins"); raw != "" && len(mainConfig.Server.CORSAllowedOrigins) <= 1 {
		mainConfig.Server.CORSAllowedOrigins = splitCSV(raw)
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults()

	// Service name and environment are forced so telemetry stays consistent.
	mainConfig.Observability.ServiceName = "locallibrary"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = "./upload"
	}
	if c.Upload.RateLimit <= 0 {
		c.Upload.RateLimit = 5
	}
	if c.Jobs.Concurrency <= 0 {
		c.Jobs.Concurrency = 5
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Integration.From == "" {
		c.Integration.From = "Local Library <onboarding@resend.dev>"
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
