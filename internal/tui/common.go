package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/kv"
	"github.com/sadopc/winterarc/internal/logger"
	"github.com/sadopc/winterarc/internal/motivation"
	"github.com/sadopc/winterarc/internal/nudge"
	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/profile"
	"github.com/sadopc/winterarc/internal/screentime"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewPatterns
	viewGoals
	viewFocus
	viewCheckIn
	viewSettings
)

var viewNames = []string{"Dashboard", "Patterns", "Goals", "Focus", "Check-in", "Settings"}

// SettingsStore is the runtime settings table.
type SettingsStore interface {
	GetSetting(key string) (string, error)
	SettingInt(key string, fallback int) int
	SetSetting(key, value string) error
}

// Services are the engine components the UI drives. Local may be nil when
// notifications are disabled.
type Services struct {
	KV        kv.KV
	Settings  SettingsStore
	Tracker   *patterns.Tracker
	Scheduler *nudge.Scheduler
	Local     *nudge.Local
	Monitor   *screentime.Monitor
	Journal   *journal.Journal
	Profiles  *profile.Source
	Picker    *motivation.Picker
	AI        *motivation.Client
	Log       *logger.Logger

	CheckInterval time.Duration
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// checkLimitsMsg fires on the screen-time check interval.
type checkLimitsMsg time.Time

type exportDoneMsg struct {
	path string
}

type distractionRecordedMsg struct {
	app string
}

// routeMsg opens the screen a tapped notification points at.
type routeMsg struct {
	dest nudge.Destination
}

// --- Helpers ---

// formatMinutes renders usage as "1h 05m" or "42m".
func formatMinutes(minutes float64) string {
	total := int(minutes + 0.5)
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
