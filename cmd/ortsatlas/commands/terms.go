// ABOUTME: Terms commands list and register search terms
// ABOUTME: Terms are also created implicitly by the first search using them
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ortsatlas/ortsatlas/internal/config"
	"github.com/ortsatlas/ortsatlas/internal/storage/sqlite"
)

// NewTermsCmd creates the terms command with its subcommands
func NewTermsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terms",
		Short: "List registered search terms",
		Long: `List registered search terms.

Examples:
  ortsatlas terms
  ortsatlas terms --format json
  ortsatlas terms add "Bäckerei"`,
		RunE: runTermsList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Register a new search term",
		Args:  cobra.ExactArgs(1),
		RunE:  runTermsAdd,
	})

	return cmd
}

// openStore loads config and opens the database for registry commands.
func openStore() (*sqlite.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func runTermsList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	terms, err := sqlite.NewTermStore(db).List()
	if err != nil {
		return fmt.Errorf("listing terms: %w", err)
	}

	if len(terms) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No search terms registered")
		}
		return nil
	}

	if outputFormat == "json" {
		type termRow struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		}
		rows := make([]termRow, 0, len(terms))
		for _, term := range terms {
			rows = append(rows, termRow{ID: term.ID, Name: term.Name})
		}
		jsonData, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\n")
	for _, term := range terms {
		fmt.Fprintf(w, "%d\t%s\n", term.ID, term.Name)
	}
	_ = w.Flush()
	return nil
}

func runTermsAdd(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store := sqlite.NewTermStore(db)
	existing, err := store.GetByName(args[0])
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("term %q already exists (id %d)", args[0], existing.ID)
	}

	term, err := store.Create(args[0])
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Added term %q (id %d)\n", term.Name, term.ID)
	}
	return nil
}
