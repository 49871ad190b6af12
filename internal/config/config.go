package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every server environment variable.
const EnvPrefix = "LAUNDRY"

// Config holds everything the inventory API needs at process start.
type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Storage StorageConfig
	Auth    AuthConfig
	Jobs    JobsConfig
}

type AppConfig struct {
	Port      int    `envconfig:"PORT" default:"8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

type DBConfig struct {
	URL         string `envconfig:"DATABASE_URL" required:"true"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"true"`
	MaxConns    int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

// RedisConfig leaves the item cache disabled when Addr is empty.
type RedisConfig struct {
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	ItemTTL  time.Duration `envconfig:"REDIS_ITEM_TTL" default:"5m"`
}

func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// StorageConfig leaves CSV exports disabled when Endpoint is empty.
type StorageConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"inventory-exports"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

// AuthConfig protects the API with bearer tokens when either field is set.
// JWKSURL wins over JWTSecret.
type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET"`
	JWKSURL   string `envconfig:"JWKS_URL"`
}

func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.JWKSURL != ""
}

type JobsConfig struct {
	Enabled          bool          `envconfig:"JOBS_ENABLED" default:"true"`
	LowStockInterval time.Duration `envconfig:"JOBS_LOW_STOCK_INTERVAL" default:"30m"`
	SnapshotInterval time.Duration `envconfig:"JOBS_SNAPSHOT_INTERVAL" default:"24h"`
	AlertCooldown    time.Duration `envconfig:"JOBS_LOW_STOCK_ALERT_COOLDOWN" default:"12h"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.App.Port)
	}
	if c.Storage.Enabled() && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("minio access and secret keys are required when MINIO_ENDPOINT is set")
	}
	if c.Jobs.LowStockInterval <= 0 || c.Jobs.SnapshotInterval <= 0 {
		return fmt.Errorf("job intervals must be positive")
	}
	return nil
}
