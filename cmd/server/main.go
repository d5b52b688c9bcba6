package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"game-interactor/internal/app"
	"game-interactor/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		config.Exitf("%v", err)
	}
}
