package config

import (
	"log/slog"

	"github.com/amirasaad/banksim/pkg/eventbus"
)

// Deps holds all infrastructure dependencies for building the app and services.
type Deps struct {
	EventBus eventbus.Bus
	Logger   *slog.Logger
	Config   *App
}
