package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediasync/internal/config"
	"mediasync/internal/logger"
)

// clearEnv isolates the test from MEDIASYNC_* variables in the environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{config.EnvPort, config.EnvPasswordFile, config.EnvInput, config.EnvOutput} {
		t.Setenv(name, "")
	}
}

func TestHelpNeverSyncs(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Usage:")
}

func TestMissingOutput(t *testing.T) {
	clearEnv(t)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.ErrorIs(t, err, config.ErrMissingOutput)
	// Usage accompanies configuration errors.
	assert.Contains(t, buf.String(), "Usage:")
}

func TestUnknownFlag(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--bogus"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "bogus")
}

func TestCheckRejectsLocalTarget(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"check", "/volume1/photos"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "not a remote location")
}

func TestReportSuccess(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.SetOutput(&buf, false)
	defer restore()

	err := report(time.Now().Add(-3*time.Second), "run-1", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[S] Script SUCCEEDED (run run-1, elapsed 00:00:03)")
}

func TestReportFailure(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.SetOutput(&buf, false)
	defer restore()

	cause := errors.New("rsync: exit status 23")
	err := report(time.Now(), "run-1", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, buf.String(), "[E] Script FAILED (run run-1, elapsed 00:00:00)")
}

func TestFinishInterrupted(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.SetOutput(&buf, false)
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cause := errors.New("rsync: signal: interrupt")
	err := finish(ctx, time.Now(), "run-1", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, buf.String(), "[W] interrupted, aborting sync")
	assert.Contains(t, buf.String(), "Script FAILED")
}

func TestFinishInterruptAfterCleanExit(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.SetOutput(&buf, false)
	defer restore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Even when the child exited cleanly before the signal was observed,
	// an interrupted run must take the failure path.
	err := finish(ctx, time.Now(), "run-1", nil)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "[W] interrupted, aborting sync")
	assert.Contains(t, buf.String(), "Script FAILED")
	assert.NotContains(t, buf.String(), "Script SUCCEEDED")
}

func TestFinishWithoutInterrupt(t *testing.T) {
	var buf bytes.Buffer
	restore := logger.SetOutput(&buf, false)
	defer restore()

	err := finish(context.Background(), time.Now(), "run-1", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Script SUCCEEDED")
	assert.NotContains(t, buf.String(), "interrupted")
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{7 * time.Second, "00:00:07"},
		{90 * time.Second, "00:01:30"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatElapsed(tt.d))
	}
}
