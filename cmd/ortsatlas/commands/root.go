// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Entry point for serve, search, terms, cities and version
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
 ██████╗ ██████╗ ████████╗███████╗ █████╗ ████████╗██╗      █████╗ ███████╗
██╔═══██╗██╔══██╗╚══██╔══╝██╔════╝██╔══██╗╚══██╔══╝██║     ██╔══██╗██╔════╝
██║   ██║██████╔╝   ██║   ███████╗███████║   ██║   ██║     ███████║███████╗
██║   ██║██╔══██╗   ██║   ╚════██║██╔══██║   ██║   ██║     ██╔══██║╚════██║
╚██████╔╝██║  ██║   ██║   ███████║██║  ██║   ██║   ███████╗██║  ██║███████║
 ╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚══════╝╚═╝  ╚═╝   ╚═╝   ╚══════╝╚═╝  ╚═╝╚══════╝
`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ortsatlas",
		Short: "Bulk place search across a city registry",
		Long: banner + `
Ortsatlas runs Google Places text searches for a term across every
registered city, persists the results in SQLite, and serves them over
an HTTP API with live progress streaming.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewTermsCmd())
	cmd.AddCommand(NewCitiesCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
