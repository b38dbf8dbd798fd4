package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/passorder/internal/app"
	"github.com/specialistvlad/passorder/internal/cli"
)

// main is the entrypoint for the passorder application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(context.Background(), os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Plans and pass output go to outW, logs to logW.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	command, cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	passorderApp := app.NewApp(outW, logW, cfg, app.DefaultLoader())

	switch command {
	case cli.CommandPlan:
		err = passorderApp.Plan(ctx)
	case cli.CommandValidate:
		err = passorderApp.Validate(ctx)
	case cli.CommandRun:
		err = passorderApp.Run(ctx)
	default:
		return &cli.ExitError{Code: cli.ExitUsage, Message: fmt.Sprintf("unknown command %q", command)}
	}
	if err != nil {
		return &cli.ExitError{Code: cli.ExitFailure, Message: err.Error()}
	}
	return nil
}
