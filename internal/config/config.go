package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server     ServerConfig
	App        AppConfig
	Telegram   TelegramConfig
	FaucetPay  FaucetPayConfig
	Claims     ClaimsConfig
	ClaimStore ClaimStoreConfig
	HistoryDB  HistoryDBConfig
	Admin      AdminConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"faucetdrop-bot"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"2.0.0"`
}

// TelegramConfig holds bot API settings.
type TelegramConfig struct {
	Token      string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	WebhookURL string `envconfig:"TELEGRAM_WEBHOOK_URL" default:""`
}

// FaucetPayConfig holds payout API settings.
type FaucetPayConfig struct {
	APIKey   string        `envconfig:"FAUCETPAY_API_KEY" required:"true"`
	URL      string        `envconfig:"FAUCETPAY_API_URL" default:"https://faucetpay.io/api/v1/send"`
	Currency string        `envconfig:"FAUCETPAY_CURRENCY" default:"DGB"`
	Amount   string        `envconfig:"FAUCETPAY_AMOUNT" default:"0.00000001"`
	Timeout  time.Duration `envconfig:"FAUCETPAY_TIMEOUT" default:"10s"`
}

// ClaimsConfig holds claim flow settings.
type ClaimsConfig struct {
	Cooldown   time.Duration `envconfig:"CLAIM_COOLDOWN" default:"24h"`
	Throttle   time.Duration `envconfig:"CLAIM_THROTTLE" default:"60s"`
	SessionTTL time.Duration `envconfig:"CLAIM_SESSION_TTL" default:"10m"`
}

// ClaimStoreConfig holds cooldown state storage settings.
type ClaimStoreConfig struct {
	Type string `envconfig:"CLAIM_STORE_TYPE" default:"memory"` // memory or redis

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// HistoryDBConfig holds claim history storage settings.
type HistoryDBConfig struct {
	Type string `envconfig:"HISTORY_DB_TYPE" default:"file"` // file, sqlite, postgres, mysql, or mongodb
	Path string `envconfig:"HISTORY_DB_PATH" default:"./data/claims.ndjson"`
	// SQLite settings
	SQLitePath string `envconfig:"HISTORY_SQLITE_PATH" default:"./data/claims.db"`
	// PostgreSQL / MySQL settings
	Host     string `envconfig:"HISTORY_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"HISTORY_DB_PORT" default:"5432"`
	Name     string `envconfig:"HISTORY_DB_NAME" default:"faucetdrop"`
	User     string `envconfig:"HISTORY_DB_USER" default:"postgres"`
	Password string `envconfig:"HISTORY_DB_PASS" default:""`
	SSLMode  string `envconfig:"HISTORY_DB_SSLMODE" default:"disable"`
	// MongoDB settings
	MongoURI        string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase   string `envconfig:"MONGODB_DATABASE" default:"faucetdrop"`
	MongoCollection string `envconfig:"MONGODB_COLLECTION" default:"claims"`
}

// AdminConfig holds admin access settings.
type AdminConfig struct {
	// UserIDs is a comma-separated list of Telegram user IDs allowed to
	// run the /stats chat command.
	UserIDs        string `envconfig:"ADMIN_USER_IDS" default:""`
	ExportPassword string `envconfig:"ADMIN_EXPORT_PASSWORD" default:""`
}

// PostgresDSN returns the PostgreSQL connection string.
func (h *HistoryDBConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		h.User, h.Password, h.Host, h.Port, h.Name, h.SSLMode)
}

// MySQLDSN returns the MySQL data source name.
func (h *HistoryDBConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		h.User, h.Password, h.Host, h.Port, h.Name)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *ClaimStoreConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// AdminIDs parses the configured admin list into user IDs.
// Malformed entries are skipped.
func (a *AdminConfig) AdminIDs() map[int64]bool {
	ids := make(map[int64]bool)
	for _, part := range strings.Split(a.UserIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = true
	}
	return ids
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
