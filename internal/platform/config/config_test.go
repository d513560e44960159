package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/medisave/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // keep a developer .env out of the test

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.StorageFile, cfg.StorageBackend)
	assert.Equal(t, "expenses", cfg.LedgerSlotKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 60*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 10<<20, cfg.ReceiptMaxBytes)
	assert.Equal(t, "http://api.nessieisreal.com", cfg.BankAPIBaseURL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.AIEnabled())
	assert.False(t, cfg.BankEnabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ledger.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("BANK_API_KEY", "k")
	t.Setenv("BANK_ACCOUNT_ID", "acc")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, config.StorageSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/ledger.db", cfg.SQLitePath)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://localhost:1234", cfg.OpenAIBaseURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AIEnabled())
	assert.True(t, cfg.BankEnabled())
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &config.Config{
		Port:              "0",
		StorageBackend:    "redis",
		LedgerSlotKey:     "",
		AIRateLimit:       "lots",
		ReceiptMaxBytes:   0,
		AMQPURL:           "http://broker",
		BankOAuthTokenURL: "https://auth.test/token",
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"PORT", "STORAGE_BACKEND", "LEDGER_SLOT_KEY", "AI_RATE_LIMIT", "RECEIPT_MAX_BYTES", "AMQP_URL", "BANK_OAUTH_CLIENT_ID"} {
		assert.Contains(t, msg, want)
	}
}

func TestValidate_PostgresNeedsURL(t *testing.T) {
	cfg := &config.Config{
		Port:            "8080",
		StorageBackend:  config.StoragePostgres,
		LedgerSlotKey:   "expenses",
		AIRateLimit:     "20-M",
		ReceiptMaxBytes: 1,
	}
	assert.ErrorContains(t, cfg.Validate(), "PGSQL_URL")

	cfg.DatabaseURL = "postgres://localhost/medisave"
	assert.NoError(t, cfg.Validate())
}
