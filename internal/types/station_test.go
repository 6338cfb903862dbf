package types

import (
	"encoding/json"
	"strings"
	"testing"
)

// --- Station ID Tests ---

func TestStationIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.gasbuddy.com/station/123456", "123456"},
		{"https://www.gasbuddy.com/station/123456/", "123456"},
		{"https://www.gasbuddy.com/station/123456///", "123456"},
		{"/station/98", "98"},
		{"98", "98"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := StationIDFromURL(tt.url); got != tt.want {
			t.Errorf("StationIDFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

// --- Grade Tests ---

func TestGradeSelectValues(t *testing.T) {
	want := map[Grade]string{
		GradeRegular:  "1",
		GradeMidgrade: "2",
		GradePremium:  "3",
		GradeDiesel:   "4",
	}
	for g, v := range want {
		if got := g.SelectValue(); got != v {
			t.Errorf("%s.SelectValue() = %q, want %q", g, got, v)
		}
	}
	if got := Grade("jetfuel").SelectValue(); got != "" {
		t.Errorf("unknown grade SelectValue() = %q, want empty", got)
	}
}

func TestGradesCanonicalOrder(t *testing.T) {
	want := []Grade{GradeRegular, GradeMidgrade, GradePremium, GradeDiesel}
	if len(Grades) != len(want) {
		t.Fatalf("expected %d grades, got %d", len(want), len(Grades))
	}
	for i, g := range want {
		if Grades[i] != g {
			t.Errorf("Grades[%d] = %s, want %s", i, Grades[i], g)
		}
	}
}

// --- StationRecord Tests ---

func TestStationRecordGradeAccessors(t *testing.T) {
	rec := &StationRecord{Name: "Shell", StationURL: "https://x/station/1"}

	rec.SetPrice(GradeMidgrade, 4.29)
	rec.SetUpdated(GradeMidgrade, "2 hours ago")

	if p := rec.Price(GradeMidgrade); p == nil || *p != 4.29 {
		t.Errorf("expected midgrade 4.29, got %v", p)
	}
	if u := rec.Updated(GradeMidgrade); u == nil || *u != "2 hours ago" {
		t.Errorf("expected midgrade updated text, got %v", u)
	}
	if rec.Price(GradeRegular) != nil {
		t.Error("regular price should be nil when never set")
	}
	if rec.Updated(GradeDiesel) != nil {
		t.Error("diesel updated should be nil when never set")
	}
}

func TestStationRecordJSONOmitsUnseenGrades(t *testing.T) {
	rec := &StationRecord{Name: "Arco", StationURL: "https://x/station/2", Address: "100 Main St"}
	rec.SetPrice(GradeRegular, 3.999)
	rec.SetUpdated(GradeRegular, "")

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	if !strings.Contains(s, `"regular":3.999`) {
		t.Errorf("expected regular price in output, got %s", s)
	}
	// An explicitly stored empty string still serializes.
	if !strings.Contains(s, `"regular_updated":""`) {
		t.Errorf("expected empty regular_updated in output, got %s", s)
	}
	if strings.Contains(s, "midgrade") || strings.Contains(s, "premium") || strings.Contains(s, "diesel") {
		t.Errorf("unseen grades should be omitted, got %s", s)
	}
}

func TestFormatPrice(t *testing.T) {
	p := 3.99
	if got := FormatPrice(&p); got != "3.99" {
		t.Errorf("FormatPrice(3.99) = %q, want 3.99", got)
	}
	p2 := 4.099
	if got := FormatPrice(&p2); got != "4.099" {
		t.Errorf("FormatPrice(4.099) = %q, want 4.099", got)
	}
	if got := FormatPrice(nil); got != "" {
		t.Errorf("FormatPrice(nil) = %q, want empty", got)
	}
}
