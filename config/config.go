package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	StorageBolt     = "bolt"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:":8081"`
	GrpcPort string `envconfig:"GRPC_PORT" default:":50051"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
	GinMode  string `envconfig:"GIN_MODE"  default:"release"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"bolt"`
	BoltPath      string `envconfig:"BOLT_PATH"      default:"catalog.db"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"       default:"0"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`

	// BackendURL switches the service to storefront-only mode: products are
	// read from another instance and the admin API is not served.
	BackendURL     string        `envconfig:"BACKEND_URL"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"5s"`

	AdminEmail        string        `envconfig:"ADMIN_EMAIL"`
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	JWTTTL            time.Duration `envconfig:"JWT_TTL" default:"12h"`
}

var (
	config Config
	once   sync.Once
)

// Process reads the environment into a fresh Config and checks it.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings the chosen mode depends on are present.
func (c *Config) Validate() error {
	if c.StorefrontOnly() {
		return nil
	}
	switch c.StorageDriver {
	case StorageBolt:
		if c.BoltPath == "" {
			return fmt.Errorf("configuration error: BOLT_PATH is required for the bolt storage driver")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("configuration error: REDIS_ADDR is required for the redis storage driver")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("configuration error: DATABASE_URL is required for the postgres storage driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("configuration error: unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.AdminEmail != "" && (c.AdminPasswordHash == "" || c.JWTSecret == "") {
		return fmt.Errorf("configuration error: ADMIN_PASSWORD_HASH and JWT_SECRET are required when ADMIN_EMAIL is set")
	}
	return nil
}

func (c *Config) StorefrontOnly() bool {
	return c.BackendURL != ""
}

func (c *Config) AdminEnabled() bool {
	return !c.StorefrontOnly() && c.AdminEmail != ""
}

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		cfg, err := Process()
		if err != nil {
			logger.Fatalf("%v", err)
		}
		config = *cfg

		logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s", config.HTTPPort, config.GrpcPort, config.LogLevel)
		if config.StorefrontOnly() {
			logger.Infof("Configuration loaded: storefront-only mode, backend %s", config.BackendURL)
		} else {
			logger.Infof("Configuration loaded: storage driver %s", config.StorageDriver)
		}
		if !config.AdminEnabled() {
			logger.Warn("Configuration loaded: admin API disabled")
		}
	})
	return &config
}
