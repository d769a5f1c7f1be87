package patterns

import (
	"cmp"
	"slices"
	"time"
)

// Analyze aggregates events into a Snapshot. It returns nil when fewer
// than MinEvents events are given. Ties for a peak go to the smallest key.
func Analyze(events []DistractionEvent, now time.Time) *Snapshot {
	if len(events) < MinEvents {
		return nil
	}

	hours := make(map[int]int)
	apps := make(map[string]int)
	days := make(map[int]int)
	for _, e := range events {
		hours[e.Hour]++
		apps[e.AppName]++
		days[e.DayOfWeek]++
	}

	peakHour, peakHourCount := peak(hours)
	app, appCount := peak(apps)
	day, _ := peak(days)

	return &Snapshot{
		PeakDistractionHour:      peakHour,
		PeakDistractionHourCount: peakHourCount,
		MostDistractingApp:       app,
		MostDistractingAppCount:  appCount,
		PeakDistractionDay:       day,
		TotalEvents:              len(events),
		LastAnalyzed:             now,
		HourlyBreakdown:          hours,
		AppBreakdown:             apps,
	}
}

func peak[K cmp.Ordered](counts map[K]int) (K, int) {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var best K
	bestCount := -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}
