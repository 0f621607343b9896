package config

import (
	"net"
	"os"
	"strconv"
	"strings"

	"pdf-converter/internal/domain"
	apperrors "pdf-converter/pkg/errors"
)

// devSecretKey is only ever used when DEBUG=true.
const devSecretKey = "dev-secret-key-not-for-production"

// AppConfig implements the domain.Config interface. It is populated once by
// Load and treated as immutable for the lifetime of the process.
type AppConfig struct {
	Host         string
	Port         string
	Secret       string
	Debug        bool
	AllowedHosts []string

	DatabaseURL  string
	DatabasePath string

	MediaRoot     string
	StaticRoot    string
	StaticSource  string
	MaxUploadSize int64
	Workers       int
	LogLevel      string
	PricingFile   string

	Email domain.EmailConfig
	S3    domain.S3Config
}

// Load reads all recognized environment variables, applies defaults and
// validates the result. It fails fast when SECRET_KEY or ALLOWED_HOSTS is
// unset in a non-debug run so the process never serves traffic with an empty
// secret or rejects every request at the host check.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Host:         getEnvOrDefault("HOST", "0.0.0.0"),
		Port:         getEnvOrDefault("PORT", "8000"),
		Secret:       os.Getenv("SECRET_KEY"),
		Debug:        getEnvBoolOrDefault("DEBUG", false),
		AllowedHosts: splitHosts(os.Getenv("ALLOWED_HOSTS")),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "./data/pdfconverter.db"),

		MediaRoot:     getEnvOrDefault("MEDIA_ROOT", "./media"),
		StaticRoot:    getEnvOrDefault("STATIC_ROOT", "./staticfiles"),
		StaticSource:  getEnvOrDefault("STATIC_SOURCE", "./static"),
		MaxUploadSize: getEnvInt64OrDefault("MAX_UPLOAD_SIZE", 10*1024*1024),
		Workers:       getEnvIntOrDefault("WORKERS", 3),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		PricingFile:   os.Getenv("PRICING_FILE"),

		Email: domain.EmailConfig{
			Host:     os.Getenv("EMAIL_HOST"),
			Port:     getEnvIntOrDefault("EMAIL_PORT", 587),
			UseTLS:   getEnvBoolOrDefault("EMAIL_USE_TLS", true),
			User:     os.Getenv("EMAIL_HOST_USER"),
			Password: os.Getenv("EMAIL_HOST_PASSWORD"),
		},
		S3: domain.S3Config{
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("AWS_STORAGE_BUCKET_NAME"),
			Region:          getEnvOrDefault("AWS_S3_REGION_NAME", "eu-central-1"),
		},
	}

	if cfg.Secret == "" {
		if !cfg.Debug {
			return nil, apperrors.NewConfigurationError("SECRET_KEY must be set when DEBUG is false")
		}
		cfg.Secret = devSecretKey
	}
	if len(cfg.AllowedHosts) == 0 && !cfg.Debug {
		return nil, apperrors.NewConfigurationError("ALLOWED_HOSTS must be set when DEBUG is false")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg, nil
}

// GetServerAddr returns the host:port the server binds to.
func (c *AppConfig) GetServerAddr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// GetSecretKey returns the process secret key.
func (c *AppConfig) GetSecretKey() string {
	return c.Secret
}

// GetDebug reports whether debug mode is enabled.
func (c *AppConfig) GetDebug() bool {
	return c.Debug
}

// GetAllowedHosts returns the Host header allow list.
func (c *AppConfig) GetAllowedHosts() []string {
	return c.AllowedHosts
}

// GetMediaRoot returns the media directory path.
func (c *AppConfig) GetMediaRoot() string {
	return c.MediaRoot
}

// GetStaticRoot returns the collected static files directory.
func (c *AppConfig) GetStaticRoot() string {
	return c.StaticRoot
}

// GetMaxUploadSize returns the maximum allowed upload size in bytes.
func (c *AppConfig) GetMaxUploadSize() int64 {
	return c.MaxUploadSize
}

// GetWorkers returns the conversion worker pool size.
func (c *AppConfig) GetWorkers() int {
	return c.Workers
}

// GetLogLevel returns the logging level.
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}

func splitHosts(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		if h := strings.TrimSpace(p); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
