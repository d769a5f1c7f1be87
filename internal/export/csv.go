package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/screentime"
)

// writeCSV creates path, writes header and then whatever rows emits.
func writeCSV(path string, header []string, rows func(emit func(...string) error) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	emit := func(fields ...string) error { return w.Write(fields) }
	if err := emit(header...); err != nil {
		return err
	}
	if err := rows(emit); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ToCSV writes one row per distraction event.
func ToCSV(events []patterns.DistractionEvent, path string) error {
	header := []string{"Timestamp", "Hour", "Day", "App", "Duration (min)", "Duration"}
	return writeCSV(path, header, func(emit func(...string) error) error {
		for _, e := range events {
			err := emit(
				e.Timestamp.Local().Format(time.RFC3339),
				strconv.Itoa(e.Hour),
				time.Weekday(e.DayOfWeek).String(),
				e.AppName,
				strconv.FormatFloat(e.DurationMinutes, 'f', -1, 64),
				clock(e.DurationMinutes),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// UsageToCSV writes one row per app per day, oldest day first and apps
// sorted by name within a day.
func UsageToCSV(week []screentime.DayUsage, path string) error {
	return writeCSV(path, []string{"Date", "Day", "App", "Minutes"}, func(emit func(...string) error) error {
		for _, d := range week {
			names := make([]string, 0, len(d.Apps))
			for name := range d.Apps {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if err := emit(d.Date, d.Day, name, strconv.FormatFloat(d.Apps[name], 'f', 1, 64)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// clock renders fractional minutes as HH:MM:SS.
func clock(minutes float64) string {
	total := int64(minutes*60 + 0.5)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
