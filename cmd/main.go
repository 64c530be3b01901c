package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yungbote/kanoon-backend/internal/app"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		a.Log.Error("Server failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("Server stopped")
}
