// ABOUTME: Cities commands list the registry and import cities from CSV
// ABOUTME: The import expects name,simplified_name,latitude,longitude columns
package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ortsatlas/ortsatlas/internal/models"
	"github.com/ortsatlas/ortsatlas/internal/storage/sqlite"
)

// NewCitiesCmd creates the cities command with its subcommands
func NewCitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the city registry",
		Long: `List the city registry.

Examples:
  ortsatlas cities
  ortsatlas cities --format json
  ortsatlas cities import staedte.csv`,
		RunE: runCitiesList,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import cities from a CSV file",
		Long: `Import cities from a CSV file.

The file must have a header row with at least a "name" column.
Optional columns: simplified_name, latitude, longitude.`,
		Args: cobra.ExactArgs(1),
		RunE: runCitiesImport,
	})

	return cmd
}

func runCitiesList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cities, err := sqlite.NewCityStore(db).List()
	if err != nil {
		return fmt.Errorf("listing cities: %w", err)
	}

	if len(cities) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No cities registered")
		}
		return nil
	}

	if outputFormat == "json" {
		type cityRow struct {
			ID             int64    `json:"id"`
			Name           string   `json:"name"`
			SimplifiedName string   `json:"simplified_name,omitempty"`
			Latitude       *float64 `json:"latitude"`
			Longitude      *float64 `json:"longitude"`
		}
		rows := make([]cityRow, 0, len(cities))
		for _, city := range cities {
			rows = append(rows, cityRow{
				ID:             city.ID,
				Name:           city.Name,
				SimplifiedName: city.SimplifiedName,
				Latitude:       city.Latitude,
				Longitude:      city.Longitude,
			})
		}
		jsonData, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tNAME\tQUERY NAME\tCOORDINATES\n")
	for _, city := range cities {
		coords := "-"
		if city.HasCoordinates() {
			coords = fmt.Sprintf("%.4f, %.4f", *city.Latitude, *city.Longitude)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", city.ID, city.Name, city.QueryName(), coords)
	}
	_ = w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d cities\n", len(cities))
	}
	return nil
}

func runCitiesImport(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer func() { _ = file.Close() }()

	cities, err := parseCityCSV(file)
	if err != nil {
		return err
	}
	if len(cities) == 0 {
		return fmt.Errorf("no city rows found in %s", args[0])
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	store := sqlite.NewCityStore(db)
	for _, city := range cities {
		if _, err := store.Insert(city); err != nil {
			return fmt.Errorf("failed to import %q: %w", city.Name, err)
		}
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cities\n", len(cities))
	}
	return nil
}

// parseCityCSV reads city rows from a CSV with a header line. Column order
// is free; unknown columns are ignored.
func parseCityCSV(r io.Reader) ([]models.City, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	nameIdx, ok := cols["name"]
	if !ok {
		return nil, fmt.Errorf("CSV header has no \"name\" column")
	}

	field := func(record []string, col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var cities []models.City
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			continue
		}
		city := models.City{
			Name:           name,
			SimplifiedName: field(record, "simplified_name"),
		}
		if v := field(record, "latitude"); v != "" {
			lat, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid latitude %q on line %d", v, line)
			}
			city.Latitude = &lat
		}
		if v := field(record, "longitude"); v != "" {
			lon, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid longitude %q on line %d", v, line)
			}
			city.Longitude = &lon
		}
		cities = append(cities, city)
	}
	return cities, nil
}
