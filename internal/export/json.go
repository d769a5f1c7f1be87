package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/screentime"
)

type jsonExport struct {
	ExportedAt string                `json:"exported_at"`
	Count      int                   `json:"count"`
	Events     []jsonEvent           `json:"events"`
	Patterns   *patterns.Snapshot    `json:"patterns,omitempty"`
	Usage      []screentime.DayUsage `json:"usage,omitempty"`
}

type jsonEvent struct {
	Timestamp   string  `json:"timestamp"`
	Hour        int     `json:"hour"`
	Day         string  `json:"day"`
	App         string  `json:"app"`
	DurationMin float64 `json:"duration_minutes"`
	Duration    string  `json:"duration"`
}

// ToJSON writes the event log together with the current snapshot and the
// week's usage. snap and week may be empty; events is always an array.
func ToJSON(events []patterns.DistractionEvent, snap *patterns.Snapshot, week []screentime.DayUsage, path string) error {
	rows := make([]jsonEvent, len(events))
	for i, e := range events {
		rows[i] = jsonEvent{
			Timestamp:   e.Timestamp.Local().Format(time.RFC3339),
			Hour:        e.Hour,
			Day:         time.Weekday(e.DayOfWeek).String(),
			App:         e.AppName,
			DurationMin: e.DurationMinutes,
			Duration:    clock(e.DurationMinutes),
		}
	}

	data, err := json.MarshalIndent(jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rows),
		Events:     rows,
		Patterns:   snap,
		Usage:      week,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
