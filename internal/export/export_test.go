package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/screentime"
)

func sampleEvents() []patterns.DistractionEvent {
	base := time.Date(2026, 10, 15, 14, 0, 0, 0, time.Local)
	return []patterns.DistractionEvent{
		patterns.NewEvent("Instagram", 60, base),
		patterns.NewEvent("YouTube", 12.5, base.Add(time.Hour)),
		patterns.NewEvent(`App "Special", Inc`, 0, base.Add(2*time.Hour)),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	if err := ToCSV(sampleEvents(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	expectedHeader := []string{"Timestamp", "Hour", "Day", "App", "Duration (min)", "Duration"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[1] != "14" || row[2] != "Thursday" || row[3] != "Instagram" {
		t.Fatalf("unexpected first row: %v", row)
	}
	if row[4] != "60" || row[5] != "01:00:00" {
		t.Fatalf("duration columns = %q %q", row[4], row[5])
	}
	if records[2][5] != "00:12:30" {
		t.Fatalf("fractional minutes = %q, want 00:12:30", records[2][5])
	}
	if records[3][3] != `App "Special", Inc` {
		t.Fatalf("app name mangled: %q", records[3][3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestUsageToCSV(t *testing.T) {
	week := []screentime.DayUsage{
		{Date: "2026-10-14", Day: "Wed", Apps: map[string]float64{"YouTube": 30, "Instagram": 15.5}},
		{Date: "2026-10-15", Day: "Thu", Apps: map[string]float64{}},
	}
	path := filepath.Join(t.TempDir(), "usage.csv")
	if err := UsageToCSV(week, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][2] != "Instagram" || records[1][3] != "15.5" {
		t.Fatalf("apps should be sorted by name: %v", records[1])
	}
	if records[2][2] != "YouTube" || records[2][3] != "30.0" {
		t.Fatalf("unexpected row: %v", records[2])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	events := sampleEvents()
	snap := patterns.Analyze(append(events, events...), time.Now())
	week := []screentime.DayUsage{{Date: "2026-10-15", Day: "Thu", TotalMinutes: 5, Apps: map[string]float64{"a": 5}}}
	path := filepath.Join(t.TempDir(), "export.json")

	if err := ToJSON(events, snap, week, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Events) != 3 {
		t.Fatalf("count = %d, events = %d, want 3", result.Count, len(result.Events))
	}
	if result.ExportedAt == "" {
		t.Fatal("exported_at should not be empty")
	}
	if e := result.Events[1]; e.App != "YouTube" || e.DurationMin != 12.5 || e.Day != "Thursday" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if result.Patterns == nil || result.Patterns.TotalEvents != 6 {
		t.Fatalf("snapshot missing: %+v", result.Patterns)
	}
	if len(result.Usage) != 1 || result.Usage[0].Apps["a"] != 5 {
		t.Fatalf("usage missing: %+v", result.Usage)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, nil, nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Count != 0 || result.Events == nil || len(result.Events) != 0 {
		t.Fatalf("expected empty events array, got %+v", result)
	}
	if result.Patterns != nil {
		t.Fatal("patterns should be omitted")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, nil, nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Formats
// ============================================================

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"csv": CSV, " JSON ": JSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDefaultPath(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	path, err := DefaultPath(JSON, now)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "winterarc-export-2026-10-15.json" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestWriteCSVWritesUsageCompanion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	week := []screentime.DayUsage{{Date: "2026-10-15", Day: "Thu", Apps: map[string]float64{"TikTok": 20}}}

	written, err := Write(CSV, path, Bundle{Events: sampleEvents(), Week: week})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 || written[0] != path || written[1] != UsagePath(path) {
		t.Fatalf("unexpected files %v", written)
	}
	if rows := readCSV(t, written[1]); len(rows) != 2 || rows[1][2] != "TikTok" {
		t.Fatalf("unexpected usage rows %v", rows)
	}
}

func TestWriteJSONSingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	written, err := Write(JSON, path, Bundle{Events: sampleEvents()})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 1 || written[0] != path {
		t.Fatalf("unexpected files %v", written)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if _, err := Write(Format("xml"), filepath.Join(t.TempDir(), "x"), Bundle{}); err == nil {
		t.Fatal("expected error")
	}
}
