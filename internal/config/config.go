package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	ResultsDatabaseURL string
	JWTSecret          string
	JWTIssuer          string
	HTTPListenAddr     string
	LogLevel           string
	ServiceName        string
	CORSOrigins        []string
	MigrateOnStart     bool
	SecureCookies      bool

	// TLS for the HTTP listener. Plaintext when both are empty.
	TLSCertFile     string
	TLSKeyFile      string
	TLSClientCAFile string

	AMQPURL      string
	AMQPExchange string

	ManualS3Bucket          string
	ManualS3Region          string
	ManualS3Endpoint        string
	ManualS3PathStyle       bool
	ManualS3AccessKeyID     string
	ManualS3SecretAccessKey string
	// ManualPublicBaseURL, when set, is prefixed to object keys to form the
	// user manual URL stored on the product.
	ManualPublicBaseURL string

	CacheTTL  time.Duration
	CacheSize int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	origins := getEnv("CORS_ORIGINS", "http://localhost:5173")
	var corsList []string
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			corsList = append(corsList, trimmed)
		}
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	cacheSize, err := strconv.Atoi(getEnv("CACHE_SIZE", "512"))
	if err != nil {
		return nil, fmt.Errorf("parse CACHE_SIZE: %w", err)
	}

	cfg := &Config{
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		ResultsDatabaseURL:      getEnv("RESULTS_DATABASE_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		JWTIssuer:               getEnv("JWT_ISSUER", "kitcatalog"),
		HTTPListenAddr:          getEnv("HTTP_LISTEN_ADDR", ":8080"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		ServiceName:             getEnv("SERVICE_NAME", "kitcatalog"),
		CORSOrigins:             corsList,
		MigrateOnStart:          getEnv("MIGRATE_ON_START", "") == "true",
		SecureCookies:           getEnv("SECURE_COOKIES", "true") == "true",
		TLSCertFile:             getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:              getEnv("TLS_KEY_FILE", ""),
		TLSClientCAFile:         getEnv("TLS_CLIENT_CA_FILE", ""),
		AMQPURL:                 getEnv("AMQP_URL", ""),
		AMQPExchange:            getEnv("AMQP_EXCHANGE", "catalog"),
		ManualS3Bucket:          getEnv("MANUAL_S3_BUCKET", ""),
		ManualS3Region:          getEnv("MANUAL_S3_REGION", "us-east-1"),
		ManualS3Endpoint:        getEnv("MANUAL_S3_ENDPOINT", ""),
		ManualS3PathStyle:       strings.EqualFold(getEnv("MANUAL_S3_PATH_STYLE", ""), "true"),
		ManualS3AccessKeyID:     getEnv("MANUAL_S3_ACCESS_KEY_ID", ""),
		ManualS3SecretAccessKey: getEnv("MANUAL_S3_SECRET_ACCESS_KEY", ""),
		ManualPublicBaseURL:     strings.TrimRight(getEnv("MANUAL_PUBLIC_BASE_URL", ""), "/"),
		CacheTTL:                cacheTTL,
		CacheSize:               cacheSize,
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}
	return nil
}

// ResultsDSN returns the connection string used for the results endpoint.
// It falls back to the main database when no administrative DSN is set.
func (c *Config) ResultsDSN() string {
	if c.ResultsDatabaseURL != "" {
		return c.ResultsDatabaseURL
	}
	return c.DatabaseURL
}

// ManualStorageEnabled reports whether kit manual uploads are configured.
func (c *Config) ManualStorageEnabled() bool {
	return c.ManualS3Bucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
