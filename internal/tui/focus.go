package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/store"
)

const defaultFocusMinutes = 25

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusRunning
	focusPaused
	focusDone
)

var focusPhaseNames = map[focusPhase]string{
	focusIdle:    "READY",
	focusRunning: "FOCUSING",
	focusPaused:  "PAUSED",
	focusDone:    "COMPLETE",
}

// focusModel is a countdown for a distraction-free work block. A block
// that runs out is logged as a focus session; a cancelled one is not.
type focusModel struct {
	svc    *Services
	width  int
	height int

	phase     focusPhase
	duration  time.Duration
	remaining time.Duration
	phaseEnd  time.Time

	completed int
	now       func() time.Time
}

func newFocusModel(svc *Services) focusModel {
	m := focusModel{
		svc:   svc,
		phase: focusIdle,
		now:   time.Now,
	}
	m.loadSettings()
	return m
}

func (f *focusModel) loadSettings() {
	minutes := defaultFocusMinutes
	if f.svc.Settings != nil {
		minutes = f.svc.Settings.SettingInt(store.SettingFocusMinutes, defaultFocusMinutes)
	}
	if minutes <= 0 {
		minutes = defaultFocusMinutes
	}
	f.duration = time.Duration(minutes) * time.Minute
	if f.phase == focusIdle {
		f.remaining = f.duration
	}
}

func (f *focusModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f focusModel) active() bool {
	return f.phase == focusRunning || f.phase == focusPaused
}

func (f focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if f.phase == focusRunning {
			f.remaining = f.phaseEnd.Sub(f.now())
			if f.remaining <= 0 {
				return f.complete()
			}
		}
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			if f.phase == focusIdle || f.phase == focusDone {
				return f.start(), nil
			}
		case key.Matches(msg, keys.Stop):
			if f.active() {
				return f.cancel()
			}
		case key.Matches(msg, keys.Pause):
			f.toggle()
			return f, nil
		}
	}
	return f, nil
}

func (f focusModel) start() focusModel {
	f.loadSettings()
	f.phase = focusRunning
	f.remaining = f.duration
	f.phaseEnd = f.now().Add(f.duration)
	return f
}

func (f *focusModel) toggle() {
	switch f.phase {
	case focusRunning:
		f.remaining = f.phaseEnd.Sub(f.now())
		f.phase = focusPaused
	case focusPaused:
		f.phaseEnd = f.now().Add(f.remaining)
		f.phase = focusRunning
	}
}

func (f focusModel) complete() (focusModel, tea.Cmd) {
	f.phase = focusDone
	f.remaining = 0
	f.completed++
	if f.svc.Tracker.RecordFocusSession(f.duration.Minutes()) == nil {
		return f, func() tea.Msg {
			return statusMsg{text: "Could not save focus session", isError: true}
		}
	}
	title := fmt.Sprintf("Focused for %d min", int(f.duration.Minutes()))
	if _, err := f.svc.Journal.LogActivity(title, journal.ActivityFocus); err != nil {
		f.svc.Log.Error("log focus activity", "error", err)
	}
	return f, func() tea.Msg {
		return statusMsg{text: "Focus session complete! \a"}
	}
}

func (f focusModel) cancel() (focusModel, tea.Cmd) {
	f.phase = focusIdle
	f.remaining = f.duration
	return f, func() tea.Msg {
		return statusMsg{text: "Focus session cancelled"}
	}
}

func (f focusModel) view() string {
	w := f.width - 4

	title := titleStyle.Render("Focus Block")

	var timeDisplay, phaseLabel string
	switch f.phase {
	case focusIdle:
		timeDisplay = countdownStyle.Width(w - 6).Render(formatCountdown(f.duration))
		phaseLabel = mutedStyle.Render("Press s to begin")
	case focusRunning:
		timeDisplay = accentStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(f.remaining))
		phaseLabel = accentStyle.Bold(true).Render(focusPhaseNames[f.phase])
	case focusPaused:
		timeDisplay = warningStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(f.remaining))
		phaseLabel = warningStyle.Bold(true).Render(focusPhaseNames[f.phase])
	case focusDone:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		phaseLabel = successStyle.Bold(true).Render(focusPhaseNames[f.phase])
	}

	counter := mutedStyle.Render(fmt.Sprintf("%d completed this run", f.completed))

	var controls string
	switch f.phase {
	case focusIdle, focusDone:
		controls = mutedStyle.Render("s: start")
	default:
		controls = mutedStyle.Render("space: pause/resume  x: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, title, "", timeDisplay, phaseLabel, "", counter, "", controls),
	)
}
