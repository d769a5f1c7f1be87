package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/screentime"
)

type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// Formats lists the supported formats in picker order.
var Formats = []Format{CSV, JSON}

// Bundle is the engine state an export writes.
type Bundle struct {
	Events   []patterns.DistractionEvent
	Snapshot *patterns.Snapshot
	Week     []screentime.DayUsage
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// DefaultPath returns ~/winterarc-export-<date>.<format>.
func DefaultPath(f Format, now time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, fmt.Sprintf("winterarc-export-%s.%s", now.Format("2006-01-02"), f)), nil
}

// UsagePath is the companion file CSV exports write daily usage to.
func UsagePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "-usage.csv"
}

// Write exports b to path and returns every file written, path first.
// CSV splits events and usage into two files; JSON keeps them together.
func Write(f Format, path string, b Bundle) ([]string, error) {
	switch f {
	case CSV:
		if err := ToCSV(b.Events, path); err != nil {
			return nil, err
		}
		usage := UsagePath(path)
		if err := UsageToCSV(b.Week, usage); err != nil {
			return []string{path}, err
		}
		return []string{path, usage}, nil
	case JSON:
		if err := ToJSON(b.Events, b.Snapshot, b.Week, path); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}
