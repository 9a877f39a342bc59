// Package cli implements the ccreverse command-line interface.
//
// # Commands
//
//   - reverse: rebuild an editor project from a built bundle
//   - graph: render the texture graph of a bundle as DOT or SVG
//   - uuid: convert asset identifiers between their encodings
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Flags override ccreverse.toml, which overrides built-in defaults. A .env
// file in the working directory is loaded first, so CCREVERSE_SOURCE and
// CCREVERSE_OUTPUT may come from there.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ccreverse/pkg/buildinfo"
	"github.com/matzehuels/ccreverse/pkg/config"
	"github.com/matzehuels/ccreverse/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "ccreverse"

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

	// configPath is the --config flag; empty means ./ccreverse.toml if present.
	configPath string
	// envFile is the --env-file flag.
	envFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "ccreverse rebuilds Cocos Creator projects from built bundles",
		Long:         `ccreverse reads the res/ directory and src/settings.js of a Cocos Creator 2.x web or mini-game build and writes an editor project with scenes, prefabs, textures, sprite sheets, audio, fonts and their .meta files.`,
		Version:      buildinfo.Current(),
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	root.AddCommand(c.reverseCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.uuidCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// loadConfig reads the .env file, the config file and the environment.
func (c *CLI) loadConfig() (config.Config, error) {
	if err := config.LoadEnv(c.envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	c.Logger.Debug("loaded configuration", "source", cfg.Source, "output", cfg.Output.Dir)
	return cfg, nil
}
