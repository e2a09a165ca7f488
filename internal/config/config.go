package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultSessionSecret is used when SESSION_SECRET is not set
const DefaultSessionSecret = "default_secret_key"

// Asset backends
const (
	BackendDisk = "disk"
	BackendR2   = "r2"
)

// Config holds all configuration for the application
type Config struct {
	// Web responder
	Port            string        `json:"port" validate:"required,numeric"`
	Env             string        `json:"env"`
	SessionSecret   string        `json:"-" validate:"required"`
	StaticDir       string        `json:"static_dir" validate:"required_if=AssetBackend disk"`
	TemplatePath    string        `json:"template_path" validate:"required"`
	StaticMaxAge    time.Duration `json:"static_max_age" validate:"gte=0"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" validate:"gt=0"`
	HTTPTimeout     time.Duration `json:"http_timeout" validate:"gt=0"`

	// Asset storage
	AssetBackend string `json:"asset_backend" validate:"oneof=disk r2"`

	// CloudFlare R2 Configuration
	R2Endpoint  string `json:"r2_endpoint" validate:"omitempty,url"`
	R2AccessKey string `json:"r2_access_key" validate:"required_if=AssetBackend r2"`
	R2SecretKey string `json:"-" validate:"required_if=AssetBackend r2"`
	R2Bucket    string `json:"r2_bucket" validate:"required_if=AssetBackend r2"`
	R2AccountID string `json:"r2_account_id"`
	R2Prefix    string `json:"r2_prefix"`

	// Redis asset cache, disabled when RedisURL is empty
	RedisURL           string        `json:"redis_url" validate:"omitempty,url"`
	RedisPrefix        string        `json:"redis_prefix"`
	CacheTTL           time.Duration `json:"cache_ttl" validate:"gte=0"`
	CacheMaxObjectSize int64         `json:"cache_max_object_size" validate:"gte=0"`
	CachePurgeOnStart  bool          `json:"cache_purge_on_start"`

	// Static file daemon
	DaemonAddr  string `json:"daemon_addr" validate:"required,hostname_port"`
	DaemonRoot  string `json:"daemon_root" validate:"required"`
	DaemonIndex string `json:"daemon_index" validate:"required"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFile   string `json:"log_file"`
	LogPretty bool   `json:"log_pretty"`
}

// daemonFields are the only fields the static file daemon reads
var daemonFields = []string{"DaemonAddr", "DaemonRoot", "DaemonIndex"}

// Load loads configuration from environment variables and validates it
// for the web responder. It exits the process on invalid configuration.
func Load() *Config {
	return load(FromEnv)
}

// LoadDaemon is Load for the static file daemon. Responder settings such as
// the R2 credentials are read but not validated.
func LoadDaemon() *Config {
	return load(DaemonFromEnv)
}

func load(from func() (*Config, error)) *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := from()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// FromEnv builds a Config from the current environment and validates it
func FromEnv() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DaemonFromEnv builds a Config from the current environment and validates
// only the daemon settings
func DaemonFromEnv() (*Config, error) {
	cfg := fromEnv()
	if err := cfg.ValidateDaemon(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "5000"),
		Env:             getEnv("APP_ENV", "development"),
		SessionSecret:   getEnv("SESSION_SECRET", DefaultSessionSecret),
		StaticDir:       getEnv("STATIC_DIR", "static"),
		TemplatePath:    getEnv("TEMPLATE_PATH", "templates/index.html"),
		StaticMaxAge:    getEnvAsDuration("STATIC_MAX_AGE", time.Hour),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		AssetBackend: strings.ToLower(getEnv("ASSET_BACKEND", BackendDisk)),

		R2Endpoint:  getEnv("R2_ENDPOINT", ""),
		R2AccessKey: getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:    getEnv("R2_BUCKET", ""),
		R2AccountID: getEnv("CLOUDFLARE_ACCOUNT_ID", ""),
		R2Prefix:    getEnv("R2_PREFIX", "static/"),

		RedisURL:           getEnv("REDIS_URL", ""),
		RedisPrefix:        getEnv("REDIS_PREFIX", "croft:asset:"),
		CacheTTL:           getEnvAsDuration("CACHE_TTL", 10*time.Minute),
		CacheMaxObjectSize: getEnvAsInt64("CACHE_MAX_OBJECT_SIZE", 1<<20), // 1MB
		CachePurgeOnStart:  getEnvAsBool("CACHE_PURGE_ON_START", true),

		DaemonAddr:  getEnv("DAEMON_ADDR", "0.0.0.0:8080"),
		DaemonRoot:  getEnv("DAEMON_ROOT", "."),
		DaemonIndex: getEnv("DAEMON_INDEX", "game.html"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFile:   getEnv("LOG_FILE", ""),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validationError(validator.New().Struct(c)); err != nil {
		return err
	}
	if c.AssetBackend == BackendR2 && c.R2Endpoint == "" && c.R2AccountID == "" {
		return fmt.Errorf("r2 backend needs R2_ENDPOINT or CLOUDFLARE_ACCOUNT_ID")
	}
	return nil
}

// ValidateDaemon validates the daemon settings only
func (c *Config) ValidateDaemon() error {
	return validationError(validator.New().StructPartial(c, daemonFields...))
}

func validationError(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
	}
	return err
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// UsesDefaultSecret reports whether the session secret was left at its default
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}

// R2EndpointURL returns the S3-compatible endpoint for the R2 account
func (c *Config) R2EndpointURL() string {
	if c.R2Endpoint != "" {
		return c.R2Endpoint
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.R2AccountID)
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(name string, defaultVal int64) int64 {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %t", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
