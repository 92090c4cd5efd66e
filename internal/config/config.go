package config

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    Server    `yaml:"server"`
	Log       Log       `yaml:"log"`
	Database  Database  `yaml:"database"`
	S3        S3        `yaml:"s3"`
	Calendar  Calendar  `yaml:"calendar"`
	Security  Security  `yaml:"security"`
	Sweeper   Sweeper   `yaml:"sweeper"`
	Functions Functions `yaml:"functions"`
}

// Server holds HTTP server configuration
type Server struct {
	Host           string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" env-default:"30s"`
}

// Address returns the full server address
func (s Server) Address() string {
	return s.Host + ":" + s.Port
}

// Log holds logger configuration
type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// SlogLevel maps the configured level name onto slog levels. Unknown names fall back to info.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Database holds database configuration
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL" env-required:"true"`

	// Connection pool settings
	MaxConns     int32         `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"25"`
	MinConns     int32         `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"5"`
	ConnLifetime time.Duration `yaml:"conn_lifetime" env:"DB_CONN_LIFETIME" env-default:"5m"`

	// AutoMigrate applies embedded migrations on startup. Defaults to true, see defaults.
	AutoMigrate bool `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// S3 holds S3/MinIO storage configuration
type S3 struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"post-images"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	PublicURL       string `yaml:"public_url" env:"S3_PUBLIC_URL" env-default:"http://localhost:9000/post-images"`
}

// Calendar controls how scheduled timestamps are mapped onto calendar dates
type Calendar struct {
	// TimeZone is "UTC", "Local" or an IANA name such as "Europe/Warsaw"
	TimeZone string `yaml:"timezone" env:"CALENDAR_TIMEZONE" env-default:"UTC"`
	// UseProfileTimeZone lets a non-empty profiles.timezone override TimeZone per owner. Defaults to true.
	UseProfileTimeZone bool          `yaml:"use_profile_timezone" env:"CALENDAR_USE_PROFILE_TIMEZONE"`
	UpcomingWindow     time.Duration `yaml:"upcoming_window" env:"CALENDAR_UPCOMING_WINDOW" env-default:"168h"`
	UpcomingLimit      int           `yaml:"upcoming_limit" env:"CALENDAR_UPCOMING_LIMIT" env-default:"5"`
}

// Security holds CORS and rate limiting settings
type Security struct {
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	RateLimitRPM       int      `yaml:"rate_limit_rpm" env:"RATE_LIMIT_RPM" env-default:"600"`
}

// Sweeper holds configuration of the expired-account sweep
type Sweeper struct {
	Enabled  bool   `yaml:"enabled" env:"SWEEPER_ENABLED"`
	Schedule string `yaml:"schedule" env:"SWEEPER_SCHEDULE" env-default:"@every 1h"`
}

// Functions holds settings of the backend functions (schedule-post, instagram-auth)
type Functions struct {
	// DemoTokenTTL sets expires_at on demo accounts; zero means they never expire
	DemoTokenTTL time.Duration `yaml:"demo_token_ttl" env:"FUNCTIONS_DEMO_TOKEN_TTL" env-default:"0s"`
}

// defaults holds the switches that stay on unless the file or environment turns them off
func defaults() Config {
	return Config{
		Database: Database{AutoMigrate: true},
		Calendar: Calendar{UseProfileTimeZone: true},
		Sweeper:  Sweeper{Enabled: true},
	}
}

// MustLoad loads configuration and exits on error
func MustLoad() Config {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}

// Load reads the YAML file named by CONFIG_PATH when set, then the environment
func Load() (Config, error) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return LoadFromFile(path)
	}

	cfg := defaults()
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file. Environment variables override it.
func LoadFromFile(path string) (Config, error) {
	cfg := defaults()
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
