package initializer

import (
	"errors"
	"io"
	"log/slog"

	infra_eventbus "github.com/amirasaad/banksim/infra/eventbus"
	"github.com/amirasaad/banksim/pkg/config"
)

// InitializeDependencies builds the logger and event bus from cfg. The
// logger also becomes the slog default.
func InitializeDependencies(cfg *config.App, logOutput io.Writer) (*config.Deps, error) {
	if cfg == nil || cfg.Log == nil || cfg.Bank == nil {
		return nil, errors.New("incomplete configuration")
	}
	logger := setupLogger(logOutput, cfg.Log)
	slog.SetDefault(logger)

	deps := &config.Deps{
		Logger:   logger,
		EventBus: infra_eventbus.NewWithMemory(logger),
		Config:   cfg,
	}
	logger.Debug("dependencies initialized", "env", cfg.Env)
	return deps, nil
}
