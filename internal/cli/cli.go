// Package cli implements the kfmtool command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kfmtool/internal/config"
	"github.com/matzehuels/kfmtool/pkg/buildinfo"
	"github.com/matzehuels/kfmtool/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "kfmtool",
		Short: "kfmtool edits Gamebryo KFM animation graphs",
		Long: `kfmtool converts Gamebryo KFM animation graph files to and from an editable
YAML form, applies declarative patches to them, and renders them as diagrams.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/kfmtool/config.toml)")

	_ = root.MarkPersistentFlagFilename("config", "toml")

	// Register all subcommands
	root.AddCommand(c.patchCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies its logging settings and attaches
// the logger to the command context. A debug level set by --verbose wins
// over the configured level.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	if c.Logger.GetLevel() != log.DebugLevel {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
	}
	c.Logger.SetReportTimestamp(cfg.Log.Timestamps)

	observability.SetIOHooks(ioLogHooks{c.Logger})
	observability.SetPatchHooks(patchLogHooks{c.Logger})
	observability.SetRenderHooks(renderLogHooks{c.Logger})

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
