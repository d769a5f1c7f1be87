package patterns

import (
	"fmt"
	"time"
)

// LearningMessage is shown until enough events exist for a snapshot.
const LearningMessage = "Keep going. We're learning your patterns."

// Period names the part of day an hour falls in.
func Period(hour int) string {
	switch {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

// HourLabel renders an hour of day on a 12-hour clock, e.g. "12am", "3pm".
func HourLabel(hour int) string {
	h := hour % 12
	if h == 0 {
		h = 12
	}
	if hour < 12 {
		return fmt.Sprintf("%dam", h)
	}
	return fmt.Sprintf("%dpm", h)
}

// FormatInsight turns a snapshot into a one-sentence summary.
func FormatInsight(s *Snapshot) string {
	if s == nil || s.TotalEvents < MinEvents {
		return LearningMessage
	}
	day := time.Weekday(s.PeakDistractionDay).String()
	return fmt.Sprintf(
		"You usually lose focus around %s (%s), especially on %ss. Your biggest distraction: %s. Stay locked in.",
		HourLabel(s.PeakDistractionHour), Period(s.PeakDistractionHour), day, s.MostDistractingApp,
	)
}
