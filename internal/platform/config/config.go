package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Storage backends for the durable slot.
const (
	StorageFile     = "file"
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	// Durable slot
	StorageBackend string
	StorageFileDir string
	SQLitePath     string
	DatabaseURL    string
	LedgerSlotKey  string

	// Completion model (AI proxy)
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	OpenAIModel         string
	OpenAITimeout       time.Duration
	AIRateLimit         string
	ReceiptMaxBytes     int
	ReceiptMaxDimension int

	// Mock bank API
	BankAPIBaseURL        string
	BankAPIKey            string
	BankAccountID         string
	BankOAuthTokenURL     string
	BankOAuthClientID     string
	BankOAuthClientSecret string

	// Delta fan-out
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
	PosthogAPIKey  string
	PosthogHost    string

	// Empty secret disables bearer-token verification.
	JWTSecret          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                  v.GetString("PORT"),
		IsProduction:          v.GetBool("IS_PRODUCTION"),
		StorageBackend:        strings.ToLower(v.GetString("STORAGE_BACKEND")),
		StorageFileDir:        v.GetString("STORAGE_FILE_DIR"),
		SQLitePath:            v.GetString("SQLITE_PATH"),
		DatabaseURL:           v.GetString("PGSQL_URL"),
		LedgerSlotKey:         v.GetString("LEDGER_SLOT_KEY"),
		OpenAIAPIKey:          v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:         strings.TrimRight(v.GetString("OPENAI_BASE_URL"), "/"),
		OpenAIModel:           v.GetString("OPENAI_MODEL"),
		AIRateLimit:           v.GetString("AI_RATE_LIMIT"),
		ReceiptMaxBytes:       v.GetInt("RECEIPT_MAX_BYTES"),
		ReceiptMaxDimension:   v.GetInt("RECEIPT_MAX_DIMENSION"),
		BankAPIBaseURL:        strings.TrimRight(v.GetString("BANK_API_BASE_URL"), "/"),
		BankAPIKey:            v.GetString("BANK_API_KEY"),
		BankAccountID:         v.GetString("BANK_ACCOUNT_ID"),
		BankOAuthTokenURL:     v.GetString("BANK_OAUTH_TOKEN_URL"),
		BankOAuthClientID:     v.GetString("BANK_OAUTH_CLIENT_ID"),
		BankOAuthClientSecret: v.GetString("BANK_OAUTH_CLIENT_SECRET"),
		AMQPURL:               v.GetString("AMQP_URL"),
		AMQPExchange:          v.GetString("AMQP_EXCHANGE"),
		AMQPRoutingKey:        v.GetString("AMQP_ROUTING_KEY"),
		PosthogAPIKey:         v.GetString("POSTHOG_API_KEY"),
		PosthogHost:           v.GetString("POSTHOG_ENDPOINT"),
		JWTSecret:             v.GetString("AUTH_JWT_SECRET"),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	timeoutStr := v.GetString("OPENAI_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 60 * time.Second
		log.Printf("Warning: Invalid value for OPENAI_TIMEOUT ('%s'). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.OpenAITimeout = timeout

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", v.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set. AI features will respond with 503.")
	}
	if cfg.BankAPIKey == "" || cfg.BankAccountID == "" {
		log.Println("Warning: BANK_API_KEY or BANK_ACCOUNT_ID not set. Account balance will be unavailable.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_BACKEND", StorageFile)
	v.SetDefault("STORAGE_FILE_DIR", "./data")
	v.SetDefault("SQLITE_PATH", "./data/medisave.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("LEDGER_SLOT_KEY", "expenses")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_TIMEOUT", "60s")
	v.SetDefault("AI_RATE_LIMIT", "20-M")
	v.SetDefault("RECEIPT_MAX_BYTES", 10<<20)
	v.SetDefault("RECEIPT_MAX_DIMENSION", 1600)
	v.SetDefault("BANK_API_BASE_URL", "http://api.nessieisreal.com")
	v.SetDefault("BANK_API_KEY", "")
	v.SetDefault("BANK_ACCOUNT_ID", "")
	v.SetDefault("BANK_OAUTH_TOKEN_URL", "")
	v.SetDefault("BANK_OAUTH_CLIENT_ID", "")
	v.SetDefault("BANK_OAUTH_CLIENT_SECRET", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "medisave")
	v.SetDefault("AMQP_ROUTING_KEY", "expense.delta")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", c.Port))
	}

	switch c.StorageBackend {
	case StorageFile:
		if c.StorageFileDir == "" {
			errs = append(errs, errors.New("STORAGE_FILE_DIR is required for the file backend"))
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite backend"))
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("PGSQL_URL is required for the postgres backend"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be one of file, memory, postgres, sqlite, got %q", c.StorageBackend))
	}

	if c.LedgerSlotKey == "" {
		errs = append(errs, errors.New("LEDGER_SLOT_KEY must not be empty"))
	}

	if _, err := limiter.NewRateFromFormatted(c.AIRateLimit); err != nil {
		errs = append(errs, fmt.Errorf("AI_RATE_LIMIT %q is not a valid rate: %w", c.AIRateLimit, err))
	}

	if c.ReceiptMaxBytes <= 0 {
		errs = append(errs, errors.New("RECEIPT_MAX_BYTES must be positive"))
	}

	if c.AMQPURL != "" {
		u, err := url.Parse(c.AMQPURL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			errs = append(errs, fmt.Errorf("AMQP_URL must use the amqp or amqps scheme, got %q", c.AMQPURL))
		}
	}

	if (c.BankOAuthTokenURL != "") && (c.BankOAuthClientID == "" || c.BankOAuthClientSecret == "") {
		errs = append(errs, errors.New("BANK_OAUTH_CLIENT_ID and BANK_OAUTH_CLIENT_SECRET are required when BANK_OAUTH_TOKEN_URL is set"))
	}

	return errors.Join(errs...)
}

// AIEnabled reports whether the completion model is configured.
func (c *Config) AIEnabled() bool { return c.OpenAIAPIKey != "" }

// BankEnabled reports whether the bank balance lookup is configured.
func (c *Config) BankEnabled() bool { return c.BankAPIKey != "" && c.BankAccountID != "" }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
