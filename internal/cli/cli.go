// Package cli implements the hwcplan command-line interface.
//
// hwcplan replays compositor scenarios through the planner and shows the
// resulting overlay plans as tables or PNG previews.
//
// # Commands
//
//   - plan: print the plan of every frame of a scenario
//   - preview: render each frame's plans to PNG files
//   - limits: show platform limits and check a scaling request
//   - vsync: run the software vsync generator
//
// All commands support --verbose (-v), which also routes the planner's own
// debug log through the CLI logger.
package cli

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gogpu/hwc"
)

const appName = "hwcplan"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer
}

// New creates a CLI that logs to logw and prints results to out.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "hwcplan replays compositor scenarios through the overlay planner",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			hwc.SetLogger(slog.New(c.Logger))
		},
	}

	root.AddCommand(c.planCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.limitsCommand())
	root.AddCommand(c.vsyncCommand())

	return root
}
