package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"cinderhold/server/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Config{}); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("%v", err)
	}
}
