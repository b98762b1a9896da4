// Package config loads kfmtool's user configuration.
//
// Configuration lives in a TOML file, by default
// $XDG_CONFIG_HOME/kfmtool/config.toml (~/.config/kfmtool/config.toml):
//
//	[log]
//	level = "debug"
//	timestamps = false
//
//	[build]
//	output_dir = "build"
//
//	[graph]
//	format = "svg"
//	detailed = true
//
//	[patch]
//	atomic = true
//
// A missing file yields [Default]. Command-line flags override every value.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	kfmerrors "github.com/matzehuels/kfmtool/pkg/errors"
)

const appName = "kfmtool"

// Config is the decoded configuration file.
type Config struct {
	Log   Log   `toml:"log"`
	Build Build `toml:"build"`
	Graph Graph `toml:"graph"`
	Patch Patch `toml:"patch"`
}

// Log configures the CLI logger.
type Log struct {
	Level      string `toml:"level"`
	Timestamps bool   `toml:"timestamps"`
}

// Build configures the build command.
type Build struct {
	// OutputDir receives the .kfm and .h files. Empty means the input's directory.
	OutputDir string `toml:"output_dir"`
}

// Graph configures the graph command.
type Graph struct {
	Format   string `toml:"format"`
	Detailed bool   `toml:"detailed"`
}

// Patch configures the patch command.
type Patch struct {
	// Atomic leaves the source untouched when any instruction fails.
	Atomic bool `toml:"atomic"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Log:   Log{Level: "info", Timestamps: true},
		Graph: Graph{Format: "dot"},
		Patch: Patch{Atomic: true},
	}
}

// Path returns the default configuration file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over [Default]. An empty path means [Path].
// Only an explicitly named file is required to exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), kfmerrors.Wrap(kfmerrors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), kfmerrors.New(kfmerrors.ErrCodeInvalidInput,
			"load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return kfmerrors.New(kfmerrors.ErrCodeInvalidInput, "log.level %q (want debug, info, warn or error)", c.Log.Level)
	}
	switch c.Graph.Format {
	case "dot", "svg":
	default:
		return kfmerrors.New(kfmerrors.ErrCodeInvalidInput, "graph.format %q (want dot or svg)", c.Graph.Format)
	}
	return nil
}
