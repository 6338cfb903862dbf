package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"pumpwatch/internal/types"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return rows
}

// --- CSV Sink Tests ---

func TestCSVSinkWritesRows(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir, testLogger)

	if err := s.Write(context.Background(), sampleResults(), testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.csv"))
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}

	if rows[0][0] != "Run Timestamp" || rows[0][4] != "Regular" || rows[0][11] != "Diesel Updated" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	shell := rows[1]
	if shell[0] != "2024-06-01_08-30-00" || shell[1] != "whittier" || shell[2] != "Shell" {
		t.Errorf("unexpected station row: %v", shell)
	}
	if shell[3] != "12345 Whittier Blvd" || shell[4] != "4.19" || shell[5] != "2 hours ago" {
		t.Errorf("unexpected station cells: %v", shell)
	}
	if shell[6] != "" || shell[10] != "" {
		t.Errorf("expected empty cells for unseen grades, got %v", shell)
	}
}

func TestCSVSinkErrorRow(t *testing.T) {
	dir := t.TempDir()
	s := NewCSVSink(dir, testLogger)

	if err := s.Write(context.Background(), sampleResults(), testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.csv"))
	errRow := rows[3]
	if errRow[1] != "norwalk" || errRow[2] != "ERROR" {
		t.Errorf("expected error marker row, got %v", errRow)
	}
	if errRow[3] != "wait timeout: #StationDisplay" {
		t.Errorf("expected error message in address column, got %q", errRow[3])
	}
	if len(errRow) != len(csvHeader) {
		t.Errorf("expected %d cells, got %d", len(csvHeader), len(errRow))
	}
}

func TestCSVSinkDeduplicatesAcrossCities(t *testing.T) {
	results := &types.RunResults{}
	results.Add(types.CityResult{
		City:     "whittier",
		Stations: []*types.StationRecord{sampleStation("Shell", "https://www.gasbuddy.com/station/1001", "12345 Whittier Blvd", 4.19)},
	})
	results.Add(types.CityResult{
		City: "la-habra",
		Stations: []*types.StationRecord{
			sampleStation("SHELL", "https://www.gasbuddy.com/station/1001", "12345 whittier blvd", 4.21),
			sampleStation("Chevron", "https://www.gasbuddy.com/station/1003", "1 Beach Blvd", 4.45),
		},
	})

	dir := t.TempDir()
	s := NewCSVSink(dir, testLogger)
	if err := s.Write(context.Background(), results, testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.csv"))
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows after dedupe, got %d", len(rows))
	}
	if rows[1][2] != "Shell" || rows[1][1] != "whittier" {
		t.Errorf("expected first sighting to win, got %v", rows[1])
	}
	if rows[2][2] != "Chevron" {
		t.Errorf("expected Chevron to survive, got %v", rows[2])
	}
}

func TestCSVSinkKeepsRowsMissingIdentity(t *testing.T) {
	// Without both name and address there is no dedupe key, so the
	// rows pass through even when they look alike.
	rec1 := sampleStation("Shell", "https://www.gasbuddy.com/station/1001", "", 4.19)
	rec2 := sampleStation("Shell", "https://www.gasbuddy.com/station/1001", "", 4.21)
	results := &types.RunResults{}
	results.Add(types.CityResult{City: "whittier", Stations: []*types.StationRecord{rec1, rec2}})

	dir := t.TempDir()
	s := NewCSVSink(dir, testLogger)
	if err := s.Write(context.Background(), results, testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.csv"))
	if len(rows) != 3 {
		t.Fatalf("expected both incomplete rows kept, got %d rows", len(rows)-1)
	}
}

func TestCSVSinkTrimsNameAndAddress(t *testing.T) {
	rec := sampleStation("  Shell  ", "https://www.gasbuddy.com/station/1001", "  12345 Whittier Blvd ", 4.19)
	results := &types.RunResults{}
	results.Add(types.CityResult{City: "whittier", Stations: []*types.StationRecord{rec}})

	dir := t.TempDir()
	s := NewCSVSink(dir, testLogger)
	if err := s.Write(context.Background(), results, testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.csv"))
	if rows[1][2] != "Shell" || rows[1][3] != "12345 Whittier Blvd" {
		t.Errorf("expected trimmed cells, got %q and %q", rows[1][2], rows[1][3])
	}
}
