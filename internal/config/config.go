package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all the configuration for the application.
type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"production"`
	HTTPServer `yaml:"http_server"`
	Database   `yaml:"database"`
	ShortLink  `yaml:"short_link"`
	Analytics  `yaml:"analytics"`
}

// HTTPServer holds HTTP server specific configuration.
type HTTPServer struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// Database holds database connection configuration. Driver selects between
// postgres (production) and sqlite (local development).
type Database struct {
	Driver          string `yaml:"driver" env:"DB_DRIVER" env-default:"postgres"`
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"tinylink"`
	Password        string `yaml:"password" env:"DB_PASSWORD" env-default:""`
	DBName          string `yaml:"name" env:"DB_NAME" env-default:"tinylink"`
	SSLMode         string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	Timezone        string `yaml:"timezone" env:"DB_TIMEZONE" env-default:"UTC"`
	SQLitePath      string `yaml:"sqlite_path" env:"DB_SQLITE_PATH" env-default:"data/tinylink.db"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"100"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// ShortLink holds service-specific configuration.
type ShortLink struct {
	// BaseURL, when set, is used to build short URLs. Empty means the URL is
	// derived from the incoming request's host and scheme.
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:""`
	// CodeLength is the length of auto-generated codes.
	CodeLength int `yaml:"code_length" env:"CODE_LENGTH" env-default:"7"`
	// MaxGenerateAttempts bounds the draw-and-check generation loop.
	MaxGenerateAttempts int `yaml:"max_generate_attempts" env:"MAX_GENERATE_ATTEMPTS" env-default:"5"`
}

// Analytics holds configuration for the async click recorder.
type Analytics struct {
	WorkerCount   int           `yaml:"worker_count" env:"ANALYTICS_WORKER_COUNT" env-default:"3"`
	BufferSize    int           `yaml:"buffer_size" env:"ANALYTICS_BUFFER_SIZE" env-default:"1000"`
	RetryAttempts int           `yaml:"retry_attempts" env:"ANALYTICS_RETRY_ATTEMPTS" env-default:"3"`
	RetryDelay    time.Duration `yaml:"retry_delay" env:"ANALYTICS_RETRY_DELAY" env-default:"1s"`
}

// MustLoad loads the application configuration.
func MustLoad() *Config {
	// Try to load .env file (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment variables")
	}

	var cfg Config

	// Check if config file path is specified
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/local.yml" // default path
	}

	// Try to load config file
	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
	} else {
		// If config file doesn't exist, use environment variables only
		log.Println("Config file not found, using environment variables only")
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
	}

	return &cfg
}
