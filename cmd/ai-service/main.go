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

	application, err := app.NewAI(ctx)
	if err != nil {
		log.Fatalf("failed to init ai service: %v", err)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		log.Printf("ai service stopped: %v", err)
	}
}
