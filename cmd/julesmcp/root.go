package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	juleslog "github.com/julesmcp/julesmcp/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for julesmcp.
var rootCmd = &cobra.Command{
	Use:   "julesmcp",
	Short: "Drive Google Jules coding sessions from the terminal or an MCP host",
	Long: `Julesmcp is a bridge to the Google Jules API. It exposes session and
source management as MCP tools for AI agents, and the same operations as
plain CLI subcommands for humans: list repositories Jules can work with,
create coding sessions, follow their activity, and approve plans.

Set JULES_API_KEY (or api_key in the config file) before use.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		juleslog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(versionCmd)
}
