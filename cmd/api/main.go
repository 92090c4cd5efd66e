package main

import (
	"context"
	"log"
	"os"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/app"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/config"
)

func main() {
	cfg := config.MustLoad()

	ctx := context.Background()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	// Blocks until shutdown
	if err := application.Run(ctx); err != nil {
		log.Printf("application error: %v", err)
		os.Exit(1)
	}
}
