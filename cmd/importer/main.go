package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nutritrack/food-catalog/internal/importer"
	"github.com/nutritrack/food-catalog/pkg/logger"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "food-importer"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, prometheus.DefaultRegisterer).Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, importer.ErrLocked):
			fmt.Fprintln(os.Stderr, "another import of this source is running")
		case errors.Is(err, importer.ErrAborted):
			fmt.Fprintln(os.Stderr, "import aborted, existing data kept")
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
