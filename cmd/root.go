// Package cmd provides the CLI commands for mediasync.
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mediasync/internal/config"
	"mediasync/internal/logger"
	"mediasync/internal/rsync"
)

// RootCmd is the root cobra command; running it performs one sync.
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var cli config.Config

	cmd := &cobra.Command{
		Use:   "mediasync",
		Short: "Sync a local media directory to a NAS over SSH",
		Long: `mediasync copies a local media directory to a remote NAS target by
invoking rsync over SSH. When a password file is present its contents are
supplied to SSH non-interactively via sshpass; otherwise key-based or
interactive authentication applies.

Configuration sources, highest priority first: command-line flags,
MEDIASYNC_* environment variables (a .env file is honored), an optional
mediasync.yaml in the working directory, built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			logger.SetDebug(cli.Debug)

			_ = godotenv.Load()

			cfg, err := config.Resolve(".", cli, cmd.Flags().Changed)
			if err != nil {
				return err
			}

			// Config is valid from here on; failures are runtime, not usage.
			cmd.SilenceUsage = true

			runID := uuid.NewString()
			logger.Debugf("run id: %s", runID)
			logger.Debugf("port: %d", cfg.Port)
			logger.Debugf("password file: %s", cfg.PasswordFile)
			logger.Debugf("input: %s", cfg.Input)
			logger.Debugf("output: %s", cfg.Output)
			logger.Debugf("test mode: %v", cfg.DryRun)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return finish(ctx, start, runID, runSync(ctx, cfg))
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&cli.Port, "port", "p", config.DefaultPort, "SSH port on the NAS")
	flags.StringVarP(&cli.PasswordFile, "password-file", "f", config.DefaultPasswordFile, "File holding the SSH password (ignored if absent)")
	flags.StringVarP(&cli.Input, "input", "i", "", "Source directory (default: working directory)")
	flags.StringVarP(&cli.Output, "output", "o", "", "Sync target, e.g. user@nas:/volume1/photos (required)")
	flags.BoolVarP(&cli.DryRun, "test", "t", false, "Dry run: report planned changes, touch nothing")
	flags.BoolVarP(&cli.Debug, "debug", "d", false, "Verbose logging")

	cmd.AddCommand(newCheckCmd(), versionCmd)
	return cmd
}

// runSync issues the single external invocation.
func runSync(ctx context.Context, cfg config.Config) error {
	if cfg.DryRun {
		logger.Infof("test mode: no files will be modified")
	}
	argv := rsync.Command(cfg)
	logger.Debugf("invoking: %s", strings.Join(argv, " "))
	return rsync.Run(ctx, argv)
}

// finish converges the interrupt path and the normal path onto the single
// run report. An interrupt always fails the run, even when the child managed
// to exit cleanly first.
func finish(ctx context.Context, start time.Time, runID string, err error) error {
	if ctx.Err() != nil {
		logger.Warnf("interrupted, aborting sync")
		if err == nil {
			err = ctx.Err()
		}
	}
	return report(start, runID, err)
}

// report prints the run summary with elapsed wall-clock time.
func report(start time.Time, runID string, err error) error {
	elapsed := formatElapsed(time.Since(start))
	if err != nil {
		logger.Errorf("Script FAILED (run %s, elapsed %s)", runID, elapsed)
		return err
	}
	logger.Successf("Script SUCCEEDED (run %s, elapsed %s)", runID, elapsed)
	return nil
}

// formatElapsed renders a duration as HH:MM:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
