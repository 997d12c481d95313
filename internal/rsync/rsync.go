// Package rsync builds and runs the external rsync invocation that performs
// the actual transfer. The wrapper consumes only the process exit code; it
// never parses rsync's output.
package rsync

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"mediasync/internal/config"
)

// thumbsDB is excluded from every transfer.
const thumbsDB = "Thumbs.db"

// Command returns the full argv for one sync invocation: a recursive,
// archive-preserving, compressed transfer with human-readable progress,
// skipping files that are newer at the destination. SSH runs without a
// pseudo-terminal on the configured port. When a readable password file
// exists the command is wrapped with sshpass so the SSH password is supplied
// non-interactively.
func Command(cfg config.Config) []string {
	args := []string{"rsync", "-razh", "--progress", "--update"}
	if cfg.DryRun {
		args = append(args, "--dry-run")
	}
	args = append(args, "--exclude="+thumbsDB)
	for _, pattern := range cfg.Excludes {
		args = append(args, "--exclude="+pattern)
	}
	args = append(args,
		"-e", fmt.Sprintf("ssh -T -p %d", cfg.Port),
		cfg.Input, cfg.Output,
	)

	if readableFile(cfg.PasswordFile) {
		args = append([]string{"sshpass", "-f", cfg.PasswordFile}, args...)
	}
	return args
}

// Run executes argv with the child's output wired through and waits for it
// to exit. Canceling the context kills the child.
func Run(ctx context.Context, argv []string) error {
	if _, err := exec.LookPath(argv[0]); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", argv[0], err)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

// readableFile reports whether a readable regular file exists at path.
func readableFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	return err == nil && info.Mode().IsRegular()
}
