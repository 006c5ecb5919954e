// Package cli implements the color-adjacency-mcp command-line interface.
//
// # Commands
//
//   - serve: Run the MCP server over stdio
//   - analyze: Compute the complement graph of a payload file or an image
//   - encode: Convert an image into a pixel payload
//   - version: Print build information
//
// # Configuration
//
// Every command reads the TOML configuration named by --config, or the
// default location when the flag is absent. Environment variables override
// the file, and command flags override both.
//
// # Logging
//
// Logs go to stderr so that stdout stays reserved for results and for the
// MCP protocol. --verbose (-v) forces debug level.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/color-adjacency-mcp/internal/buildinfo"
	"github.com/ironsheep/color-adjacency-mcp/internal/config"
)

// appName is the binary name used in help output.
const appName = "color-adjacency-mcp"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg        config.Config
	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Color adjacency analysis for raster tracing",
		Long: `color-adjacency-mcp finds, for every color of a rendered image, the colors it
never touches inside any 3x3 window. Tracing pipelines use the result to skip
boundary searches between colors that cannot share an edge.

Run 'serve' to expose the analysis as MCP tools, or 'analyze' for one-off runs.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/"+appName+"/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.encodeCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// loadConfig resolves the configuration and log level before any command runs.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.Level()
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	c.Logger.Debug("configuration loaded", "mode", cfg.Mode, "workers", cfg.Workers, "shards", cfg.Shards)
	return nil
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), buildinfo.Template())
			return err
		},
	}
}
