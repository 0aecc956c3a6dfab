package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/holomate/backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewStreaming(ctx)
	if err != nil {
		log.Fatalf("failed to init streaming service: %v", err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		log.Printf("streaming service stopped: %v", err)
	}
}
