package patterns

import (
	"time"

	"github.com/sadopc/winterarc/internal/kv"
	"github.com/sadopc/winterarc/internal/logger"
)

// Tracker owns the distraction event log and the persisted snapshot.
// Storage failures are logged and never returned: recording is best-effort.
type Tracker struct {
	kv  kv.KV
	log *logger.Logger

	// WrapMidnight selects circular hour distance for risk checks.
	WrapMidnight bool
	Now          func() time.Time
}

func NewTracker(store kv.KV, log *logger.Logger) *Tracker {
	return &Tracker{
		kv:           store,
		log:          log.With("service", "patterns"),
		WrapMidnight: true,
		Now:          time.Now,
	}
}

// Record appends a distraction event, trims the log to MaxEvents and
// re-analyzes. It returns nil when the log could not be persisted.
func (t *Tracker) Record(appName string, durationMinutes float64) *DistractionEvent {
	now := t.Now()
	event := NewEvent(appName, durationMinutes, now)

	events := t.Events()
	events = append(events, event)
	if over := len(events) - MaxEvents; over > 0 {
		events = events[over:]
	}

	if err := kv.SetJSON(t.kv, eventsKey, events); err != nil {
		t.log.Error("record distraction", "app", appName, "error", err)
		return nil
	}
	t.log.Debug("distraction recorded", "app", appName, "minutes", durationMinutes, "events", len(events))

	t.analyze(events, now)
	return &event
}

// Events returns the stored log oldest first, or an empty slice.
func (t *Tracker) Events() []DistractionEvent {
	var events []DistractionEvent
	if _, err := kv.GetJSON(t.kv, eventsKey, &events); err != nil {
		t.log.Error("read distraction events", "error", err)
		return []DistractionEvent{}
	}
	if events == nil {
		return []DistractionEvent{}
	}
	return events
}

// Analyze recomputes the snapshot from the stored log.
func (t *Tracker) Analyze() *Snapshot {
	return t.analyze(t.Events(), t.Now())
}

func (t *Tracker) analyze(events []DistractionEvent, now time.Time) *Snapshot {
	snap := Analyze(events, now)
	if snap == nil {
		return nil
	}
	if err := kv.SetJSON(t.kv, snapshotKey, snap); err != nil {
		t.log.Error("save pattern snapshot", "error", err)
		return nil
	}
	return snap
}

// Snapshot loads the last persisted analysis, or nil.
func (t *Tracker) Snapshot() *Snapshot {
	var snap Snapshot
	ok, err := kv.GetJSON(t.kv, snapshotKey, &snap)
	if err != nil {
		t.log.Error("read pattern snapshot", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &snap
}

func (t *Tracker) Insight() string {
	return FormatInsight(t.Snapshot())
}

func (t *Tracker) IsHighRiskTime(now time.Time) bool {
	return HighRisk(t.Snapshot(), now.Hour(), t.WrapMidnight)
}

// RecordFocusSession logs a distraction-free work block, keeping the last MaxFocusSessions.
func (t *Tracker) RecordFocusSession(durationMinutes float64) *FocusSession {
	now := t.Now()
	session := FocusSession{Timestamp: now, Hour: now.Hour(), DurationMinutes: durationMinutes}

	sessions := t.FocusSessions()
	sessions = append(sessions, session)
	if over := len(sessions) - MaxFocusSessions; over > 0 {
		sessions = sessions[over:]
	}
	if err := kv.SetJSON(t.kv, focusSessionsKey, sessions); err != nil {
		t.log.Error("record focus session", "error", err)
		return nil
	}
	return &session
}

func (t *Tracker) FocusSessions() []FocusSession {
	var sessions []FocusSession
	if _, err := kv.GetJSON(t.kv, focusSessionsKey, &sessions); err != nil {
		t.log.Error("read focus sessions", "error", err)
		return []FocusSession{}
	}
	if sessions == nil {
		return []FocusSession{}
	}
	return sessions
}
