// Package patterns keeps the distraction event log and derives the
// pattern snapshot used for insights, risk checks and nudges.
package patterns

import "time"

const (
	// MaxEvents caps the event log; the oldest entry is evicted first.
	MaxEvents = 100
	// MinEvents is the smallest log that produces a snapshot.
	MinEvents = 5
	// MaxFocusSessions caps the focus-session log.
	MaxFocusSessions = 50
)

const (
	eventsKey        = "distraction_events"
	snapshotKey      = "focus_patterns"
	focusSessionsKey = "focus_sessions"
)

// Keys lists every KV key this package writes.
var Keys = []string{eventsKey, snapshotKey, focusSessionsKey}

type DistractionEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	Hour            int       `json:"hour"`
	DayOfWeek       int       `json:"dayOfWeek"`
	AppName         string    `json:"appName"`
	DurationMinutes float64   `json:"durationMinutes"`
}

// NewEvent stamps an event with the local hour and weekday of at.
func NewEvent(appName string, durationMinutes float64, at time.Time) DistractionEvent {
	return DistractionEvent{
		Timestamp:       at,
		Hour:            at.Hour(),
		DayOfWeek:       int(at.Weekday()),
		AppName:         appName,
		DurationMinutes: durationMinutes,
	}
}

type Snapshot struct {
	PeakDistractionHour      int            `json:"peakDistractionHour"`
	PeakDistractionHourCount int            `json:"peakDistractionHourCount"`
	MostDistractingApp       string         `json:"mostDistractingApp"`
	MostDistractingAppCount  int            `json:"mostDistractingAppCount"`
	PeakDistractionDay       int            `json:"peakDistractionDay"`
	TotalEvents              int            `json:"totalEvents"`
	LastAnalyzed             time.Time      `json:"lastAnalyzed"`
	HourlyBreakdown          map[int]int    `json:"hourlyBreakdown"`
	AppBreakdown             map[string]int `json:"appBreakdown"`
}

// FocusSession is a stretch of work completed without a distraction.
type FocusSession struct {
	Timestamp       time.Time `json:"timestamp"`
	Hour            int       `json:"hour"`
	DurationMinutes float64   `json:"durationMinutes"`
}
