package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/banksim/infra/initializer"
	"github.com/amirasaad/banksim/internal/cli"
	"github.com/amirasaad/banksim/pkg/config"
	"github.com/amirasaad/banksim/pkg/service/bank"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "banksim:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	svc, err := bank.NewService(*deps)
	if err != nil {
		return fmt.Errorf("failed to create bank service: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	colorize := term.IsTerminal(int(os.Stdout.Fd()))
	menu := cli.New(svc, os.Stdin, os.Stdout, colorize, deps.Logger)
	menu.Subscribe(deps.EventBus)

	deps.Logger.Info("banksim started",
		"env", cfg.Env,
		"branch", cfg.Bank.Branch,
		"currency", cfg.Bank.Currency,
	)
	if err := menu.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
