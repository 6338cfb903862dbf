package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pumpwatch/internal/types"
)

// inspectCmd creates the "inspect" subcommand.
func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <results.json>",
		Short: "Summarize a saved JSON results file",
		Long:  "Print a per-city table of station counts and priced grades from a previously saved results file.",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
}

// runInspect executes the inspect command.
func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}

	var results types.RunResults
	if err := json.Unmarshal(data, &results); err != nil {
		return fmt.Errorf("parse results: %w", err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"City", "Stations", "Regular", "Midgrade", "Premium", "Diesel", "Error"})

	totalStations := 0
	gradeTotals := make(map[types.Grade]int)

	for _, city := range results.Cities {
		if city.Failed() {
			t.AppendRow(table.Row{city.City, 0, 0, 0, 0, 0, city.Err})
			continue
		}

		counts := make(map[types.Grade]int)
		for _, rec := range city.Stations {
			for _, g := range types.Grades {
				if rec.Price(g) != nil {
					counts[g]++
					gradeTotals[g]++
				}
			}
		}
		totalStations += len(city.Stations)

		t.AppendRow(table.Row{
			city.City, len(city.Stations),
			counts[types.GradeRegular], counts[types.GradeMidgrade],
			counts[types.GradePremium], counts[types.GradeDiesel],
			"",
		})
	}

	t.AppendFooter(table.Row{
		"TOTAL", totalStations,
		gradeTotals[types.GradeRegular], gradeTotals[types.GradeMidgrade],
		gradeTotals[types.GradePremium], gradeTotals[types.GradeDiesel],
		"",
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	return nil
}
