// Package main is the entry point for the parcel CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.trai.ch/parcel/cmd/parcel/commands"
	"go.trai.ch/parcel/internal/adapters/logger"
	"go.trai.ch/parcel/internal/app"
	"go.trai.ch/parcel/internal/ui/output"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		// zerr prints a full report with metadata when formatted with %+v
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	level := slog.LevelInfo
	if os.Getenv("PARCEL_DEBUG") != "" {
		level = slog.LevelDebug
	}

	log := logger.New(os.Stderr, level)
	progress := output.NewReporter(os.Stderr)

	application := app.New(log, progress)

	cli := commands.New(application)
	cli.SetArgs(args)
	return cli.Execute(ctx)
}
