// Package cli provides common CLI initialization utilities shared by the
// command entrypoints.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"zaim/internal/auth"
	"zaim/internal/config"
	"zaim/internal/ledger"
	"zaim/internal/ledger/memory"
	zaimledger "zaim/internal/ledger/zaim"
)

// SetupLogger initializes structured logging on stderr so table/CSV/JSON
// output on stdout stays clean. Returns the configured logger and sets it
// as the default.
func SetupLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("ZAIM_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// OpenConfig loads the preference file from the CLI config directory,
// or exits the process on failure.
func OpenConfig(logger *slog.Logger) *config.File {
	dir, err := auth.ConfigDir()
	if err != nil {
		logger.Error("Failed to resolve config directory", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Open(dir)
	if err != nil {
		logger.Error("Failed to load config file", "error", err)
		os.Exit(1)
	}
	return cfg
}

// NewLedger builds the ledger backend. LEDGER_BACKEND=memory selects the
// seeded in-memory store (offline/demo mode); anything else builds the
// OAuth-signed HTTP gateway. Credentials come from the environment, with
// the access token pair falling back to the tokens saved by `auth login`.
func NewLedger(logger *slog.Logger) ledger.Ledger {
	if os.Getenv("LEDGER_BACKEND") == "memory" {
		logger.Info("Using in-memory ledger backend")
		return memory.NewSeeded()
	}

	creds := config.CredentialsFromEnv()
	if !creds.Complete() && creds.HasConsumerPair() {
		if mgr, err := auth.NewManager(creds.ConsumerKey, creds.ConsumerSecret); err == nil {
			if token, secret, ok := mgr.StoredCredentials(); ok {
				creds.AccessToken = token
				creds.AccessTokenSecret = secret
			}
		}
	}

	client, err := zaimledger.New(zaimledger.Config{
		ConsumerKey:       creds.ConsumerKey,
		ConsumerSecret:    creds.ConsumerSecret,
		AccessToken:       creds.AccessToken,
		AccessTokenSecret: creds.AccessTokenSecret,
	})
	if err != nil {
		logger.Error("Failed to initialize API client", "error", err,
			"hint", "set ZAIM_CONSUMER_KEY/ZAIM_CONSUMER_SECRET and run 'zaim auth login'")
		os.Exit(1)
	}
	return client
}
