package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/budgetbuddy/ledger/internal/client/cli"
	"github.com/budgetbuddy/ledger/internal/client/config"
	"github.com/budgetbuddy/ledger/internal/logging"
	"github.com/joho/godotenv"
)

func main() {

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, "text", cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
