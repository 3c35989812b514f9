package config

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFilePath (falling back to
// .env), then builds the configuration from the environment. Variables
// already set in the environment win over the file.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		envFilePath = []string{".env"}
	}
	for _, path := range envFilePath {
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path)
			continue
		}
		if err := godotenv.Load(foundPath); err != nil {
			logger.Warn("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		logger.Debug("Loaded environment file", "path", foundPath)
		break
	}
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	slog.Default().Debug("App config loaded",
		"env", cfg.Env,
		"branch", cfg.Bank.Branch,
		"currency", cfg.Bank.Currency,
		"checking_limit", cfg.Bank.CheckingLimit,
		"max_withdrawals", cfg.Bank.MaxWithdrawals,
		"overdraft_policy", cfg.Bank.OverdraftPolicy,
		"withdrawal_window", cfg.Bank.WithdrawalWindow,
	)
	return &cfg, nil
}

func validate(cfg *App) error {
	v := validator.New()
	if err := v.Struct(cfg.Log); err != nil {
		return fmt.Errorf("invalid log config: %w", err)
	}
	if err := v.Struct(cfg.Bank); err != nil {
		return fmt.Errorf("invalid bank config: %w", err)
	}
	limit, err := cfg.Bank.Limit()
	if err != nil {
		return fmt.Errorf("invalid bank config: %w", err)
	}
	if limit.IsNegative() {
		return fmt.Errorf("invalid bank config: BANK_CHECKING_LIMIT must not be negative, got %s", cfg.Bank.CheckingLimit)
	}
	return nil
}
