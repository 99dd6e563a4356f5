// ABOUTME: Search command runs a bulk place search from the terminal
// ABOUTME: Streams the run's progress events to stdout until completion
package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ortsatlas/ortsatlas/internal/config"
	"github.com/ortsatlas/ortsatlas/internal/search"
	"github.com/ortsatlas/ortsatlas/internal/storage/sqlite"
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Run a bulk place search across all registered cities",
		Long: `Run a bulk place search across all registered cities.

Searches for "<term> in <city>" in every city of the registry,
stores the results and prints progress until the run finishes.

Examples:
  ortsatlas search Bäckerei
  ortsatlas search "Vegane Eisdiele"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("PLACES_API_KEY is not set")
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	runner := search.NewRunner(cfg, db)
	run := runner.Start(args[0], cfg.APIKey)

	for ev := range run.Events() {
		if ev == search.DoneToken {
			break
		}
		if quiet && !search.IsWarning(ev) && !search.IsError(ev) {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), ev)
	}

	return run.Wait()
}
