package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pumpwatch/internal/types"
)

var convertOutput string

// convertCmd creates the "convert" subcommand.
func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <results.json>",
		Short: "Convert a saved JSON results file to CSV",
		Long:  "Convert a previously saved results file into a per-station CSV. Cities recorded as errors are skipped with a note.",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}

	cmd.Flags().StringVarP(&convertOutput, "output", "o", "gas_prices.csv", "output CSV path")

	return cmd
}

// runConvert executes the convert command.
func runConvert(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	var results types.RunResults
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parse results: %w", err)
	}

	f, err := os.Create(convertOutput)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"City", "Station", "Address", "Regular", "Midgrade", "Premium", "Diesel"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	count := 0
	for _, city := range results.Cities {
		if city.Failed() {
			fmt.Fprintf(os.Stderr, "skipping %s: %s\n", city.City, city.Err)
			continue
		}
		for _, rec := range city.Stations {
			row := []string{city.City, rec.Name, rec.Address}
			for _, g := range types.Grades {
				row = append(row, types.FormatPrice(rec.Price(g)))
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
			count++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	fmt.Printf("Saved %s (%d rows)\n", convertOutput, count)
	return nil
}
