package sink

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pumpwatch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

var testMeta = types.RunMeta{
	Timestamp: "2024-06-01T08:30:00Z",
	Label:     "2024-06-01_08-30-00",
}

func sampleStation(name, url, address string, regular float64) *types.StationRecord {
	rec := &types.StationRecord{Name: name, StationURL: url, Address: address}
	rec.SetPrice(types.GradeRegular, regular)
	rec.SetUpdated(types.GradeRegular, "2 hours ago")
	return rec
}

func sampleResults() *types.RunResults {
	results := &types.RunResults{}
	results.Add(types.CityResult{
		City: "whittier",
		Stations: []*types.StationRecord{
			sampleStation("Shell", "https://www.gasbuddy.com/station/1001", "12345 Whittier Blvd", 4.19),
			sampleStation("Arco", "https://www.gasbuddy.com/station/1002", "200 Main St", 3.99),
		},
	})
	results.Add(types.CityResult{City: "norwalk", Err: "wait timeout: #StationDisplay"})
	return results
}

// --- JSON Sink Tests ---

func TestJSONSinkWritesRun(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONSink(dir, testLogger)

	if err := s.Write(context.Background(), sampleResults(), testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	path := filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var decoded types.RunResults
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Cities) != 2 {
		t.Fatalf("expected 2 cities, got %d", len(decoded.Cities))
	}
	if len(decoded.Cities[0].Stations) != 2 {
		t.Errorf("expected 2 stations in whittier, got %d", len(decoded.Cities[0].Stations))
	}
	if decoded.Cities[0].Stations[0].Name != "Shell" {
		t.Errorf("expected Shell first, got %q", decoded.Cities[0].Stations[0].Name)
	}
	if !decoded.Cities[1].Failed() {
		t.Error("expected norwalk to round-trip as a failed city")
	}
	if decoded.Cities[1].Err != "wait timeout: #StationDisplay" {
		t.Errorf("unexpected error message: %q", decoded.Cities[1].Err)
	}
}

func TestJSONSinkPreservesCityOrder(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONSink(dir, testLogger)

	if err := s.Write(context.Background(), sampleResults(), testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	text := string(data)
	first := strings.Index(text, `"whittier"`)
	second := strings.Index(text, `"norwalk"`)
	if first == -1 || second == -1 {
		t.Fatalf("missing city keys in output: %s", text)
	}
	if first > second {
		t.Error("expected whittier before norwalk in the file")
	}
	if !strings.Contains(text, "\n  ") {
		t.Error("expected indented output")
	}
}

func TestJSONSinkKeepsDuplicateStations(t *testing.T) {
	// Duplicates across cities are the flattener's problem; the JSON
	// file mirrors what was scraped.
	results := &types.RunResults{}
	results.Add(types.CityResult{
		City:     "whittier",
		Stations: []*types.StationRecord{sampleStation("Shell", "https://www.gasbuddy.com/station/1001", "12345 Whittier Blvd", 4.19)},
	})
	results.Add(types.CityResult{
		City:     "la-habra",
		Stations: []*types.StationRecord{sampleStation("Shell", "https://www.gasbuddy.com/station/1001", "12345 Whittier Blvd", 4.21)},
	})

	dir := t.TempDir()
	s := NewJSONSink(dir, testLogger)
	if err := s.Write(context.Background(), results, testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.json"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var decoded types.RunResults
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Cities[0].Stations) != 1 || len(decoded.Cities[1].Stations) != 1 {
		t.Error("expected the shared station to appear under both cities")
	}
}

func TestJSONSinkCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "JSON Files")
	s := NewJSONSink(dir, testLogger)

	if err := s.Write(context.Background(), sampleResults(), testMeta); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "gas_prices_2024-06-01_08-30-00.json")); err != nil {
		t.Errorf("expected output file under created dir: %v", err)
	}
}
