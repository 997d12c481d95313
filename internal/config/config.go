// Package config resolves the per-run configuration from command-line flags,
// MEDIASYNC_* environment variables, an optional YAML file and built-in
// defaults, highest priority first.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults applied when no other source provides a value.
const (
	DefaultPort         = 22
	DefaultPasswordFile = "./password-file"
)

// Environment variable names.
const (
	EnvPort         = "MEDIASYNC_PORT"
	EnvPasswordFile = "MEDIASYNC_PASSWORD_FILE"
	EnvInput        = "MEDIASYNC_INPUT"
	EnvOutput       = "MEDIASYNC_OUTPUT"
)

// FileNames are the optional config files probed in the working directory.
// Only one may exist.
var FileNames = []string{"mediasync.yaml", "mediasync.yml"}

// ErrMissingOutput is returned by Validate when no output location was
// resolved from any source.
var ErrMissingOutput = errors.New("missing output location")

// Config is the immutable per-run configuration. It is built once by Resolve
// and passed by value to the sync run.
type Config struct {
	Port         int
	PasswordFile string
	Input        string
	Output       string
	Excludes     []string
	DryRun       bool
	Debug        bool
}

// fileConfig mirrors the optional mediasync.yaml.
type fileConfig struct {
	Port         int      `yaml:"port"`
	PasswordFile string   `yaml:"password-file"`
	Input        string   `yaml:"input"`
	Output       string   `yaml:"output"`
	Excludes     []string `yaml:"excludes"`
}

// Resolve builds the effective configuration. Precedence, highest first:
// explicitly set flags, environment variables, the optional YAML file in dir,
// built-in defaults. cli holds the flag values; set reports whether a flag
// was given on the command line. Input falls back to the working directory.
func Resolve(dir string, cli Config, set func(name string) bool) (Config, error) {
	cfg := Config{
		Port:         DefaultPort,
		PasswordFile: DefaultPasswordFile,
		DryRun:       cli.DryRun,
		Debug:        cli.Debug,
	}

	fc, err := loadFile(dir)
	if err != nil {
		return Config{}, err
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.PasswordFile != "" {
		cfg.PasswordFile = fc.PasswordFile
	}
	if fc.Input != "" {
		cfg.Input = fc.Input
	}
	if fc.Output != "" {
		cfg.Output = fc.Output
	}
	cfg.Excludes = fc.Excludes

	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", EnvPort, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv(EnvPasswordFile); v != "" {
		cfg.PasswordFile = v
	}
	if v := os.Getenv(EnvInput); v != "" {
		cfg.Input = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output = v
	}

	if set("port") {
		cfg.Port = cli.Port
	}
	if set("password-file") {
		cfg.PasswordFile = cli.PasswordFile
	}
	if set("input") {
		cfg.Input = cli.Input
	}
	if set("output") {
		cfg.Output = cli.Output
	}

	if cfg.Input == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}
		cfg.Input = wd
	}

	return cfg, cfg.Validate()
}

// Validate enforces the single hard rule: an output location must exist.
func (c Config) Validate() error {
	if c.Output == "" {
		return ErrMissingOutput
	}
	return nil
}

// loadFile reads the config file in dir, if any. A zero fileConfig is
// returned when none exists.
func loadFile(dir string) (fileConfig, error) {
	var found []string
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			found = append(found, name)
		}
	}
	switch len(found) {
	case 0:
		return fileConfig{}, nil
	case 1:
	default:
		return fileConfig{}, fmt.Errorf("both %s and %s exist, keep only one", found[0], found[1])
	}

	path := filepath.Join(dir, found[0])
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read %s: %w", found[0], err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", found[0], err)
	}
	return fc, nil
}
