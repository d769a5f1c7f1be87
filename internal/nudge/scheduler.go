package nudge

import (
	"context"
	"time"

	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/kv"
	"github.com/sadopc/winterarc/internal/logger"
	"github.com/sadopc/winterarc/internal/motivation"
	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/profile"
)

const (
	patternNudgeKey = "pattern_nudge_id"
	checkInNudgeKey = "checkin_nudge_id"
	streakNudgeKey  = "streak_nudge_id"
	// missedCheckInKey holds the local date the last missed check-in alert
	// went out.
	missedCheckInKey = "missed_checkin_alert"
)

// MissedCheckInHour is the hour from which a day without a check-in
// triggers an alert.
const MissedCheckInHour = 20

// Keys lists every key the scheduler writes.
var Keys = []string{patternNudgeKey, checkInNudgeKey, streakNudgeKey, missedCheckInKey}

// ReminderGenerator writes personalized reminder text.
type ReminderGenerator interface {
	HarshReminder(ctx context.Context, mc motivation.Context) string
}

// Scheduler turns patterns, limits and goals into notifications. Every
// method is best-effort: failures are logged and reported as an empty id.
type Scheduler struct {
	notifier Notifier
	kv       kv.KV
	tracker  *patterns.Tracker
	profiles *profile.Source
	picker   *motivation.Picker
	ai       ReminderGenerator
	log      *logger.Logger

	Now func() time.Time
}

func NewScheduler(
	n Notifier,
	store kv.KV,
	tracker *patterns.Tracker,
	profiles *profile.Source,
	picker *motivation.Picker,
	ai ReminderGenerator,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		notifier: n,
		kv:       store,
		tracker:  tracker,
		profiles: profiles,
		picker:   picker,
		ai:       ai,
		log:      log.With("service", "nudge"),
		Now:      time.Now,
	}
}

func (s *Scheduler) Notifier() Notifier { return s.notifier }

// ============================================================
// Pattern nudges
// ============================================================

// SchedulePatternNudge replaces the recurring pattern nudge with one firing
// daily at half past the hour before the peak distraction hour.
func (s *Scheduler) SchedulePatternNudge(snap *patterns.Snapshot) string {
	if snap == nil || snap.TotalEvents < patterns.MinEvents {
		return ""
	}
	if !s.available("pattern nudge") {
		return ""
	}

	s.cancelStored(patternNudgeKey)

	hour := (snap.PeakDistractionHour + 23) % 24
	id := s.schedule(Content{
		Title:   "Focus Alert",
		Body:    s.picker.PatternNudge(snap.PeakDistractionHour, snap.MostDistractingApp),
		Payload: Payload{Type: KindPatternNudge},
	}, Daily(hour, 30))
	if id == "" {
		return ""
	}
	if err := s.kv.Set(patternNudgeKey, id); err != nil {
		s.log.Error("persist pattern nudge id", "id", id, "error", err)
	}
	s.log.Info("pattern nudge scheduled", "id", id, "hour", hour, "minute", 30)
	return id
}

// PatternNudgeID returns the outstanding pattern nudge id, or "".
func (s *Scheduler) PatternNudgeID() string {
	return s.storedID(patternNudgeKey)
}

// UpdatePatternNudges re-analyzes the event log and reschedules.
func (s *Scheduler) UpdatePatternNudges() string {
	return s.SchedulePatternNudge(s.tracker.Analyze())
}

// SendImmediateRiskNudge fires a warning right away when now falls in the
// high-risk window.
func (s *Scheduler) SendImmediateRiskNudge(now time.Time) string {
	if !s.tracker.IsHighRiskTime(now) {
		return ""
	}
	snap := s.tracker.Snapshot()
	if snap == nil || !s.available("risk nudge") {
		return ""
	}
	p := s.profiles.Current()
	return s.schedule(Content{
		Title:   "High Risk Time",
		Body:    s.picker.DistractionWarning(p.Style(), snap.PeakDistractionHour, snap.MostDistractingApp),
		Payload: Payload{Type: KindHighRiskNudge, App: snap.MostDistractingApp},
	}, Immediate())
}

// ============================================================
// Reminders
// ============================================================

// ScheduleDailyCheckIn replaces the previous check-in reminder.
func (s *Scheduler) ScheduleDailyCheckIn(hour, minute int) string {
	if !s.available("check-in reminder") {
		return ""
	}
	s.cancelStored(checkInNudgeKey)

	body := "Time for your daily check-in. How did today go?"
	if name := s.profiles.Current().Name; name != "" {
		body = name + ", how did today go? Time to reflect on your progress."
	}
	id := s.schedule(Content{
		Title:   "Winter Arc Check-In",
		Body:    body,
		Payload: Payload{Type: KindDailyCheckIn},
	}, Daily(hour, minute))
	if id != "" {
		if err := s.kv.Set(checkInNudgeKey, id); err != nil {
			s.log.Error("persist check-in nudge id", "id", id, "error", err)
		}
	}
	return id
}

// ScheduleWeeklyStreak reminds every Monday at 9:00.
func (s *Scheduler) ScheduleWeeklyStreak() string {
	if !s.available("weekly streak") {
		return ""
	}
	s.cancelStored(streakNudgeKey)

	id := s.schedule(Content{
		Title:   "New Week",
		Body:    "A new week starts now. Keep your streak alive.",
		Payload: Payload{Type: KindWeeklyStreak},
	}, Weekly(time.Monday, 9, 0))
	if id != "" {
		if err := s.kv.Set(streakNudgeKey, id); err != nil {
			s.log.Error("persist streak nudge id", "id", id, "error", err)
		}
	}
	return id
}

// ScheduleGoalDeadline reminds at 20:00 on the day before the deadline.
func (s *Scheduler) ScheduleGoalDeadline(g journal.Goal) string {
	if g.Deadline == nil || g.Completed {
		return ""
	}
	d := g.Deadline.In(time.Local).AddDate(0, 0, -1)
	at := time.Date(d.Year(), d.Month(), d.Day(), 20, 0, 0, 0, time.Local)
	if !at.After(s.Now()) {
		return ""
	}
	if !s.available("goal deadline") {
		return ""
	}
	return s.schedule(Content{
		Title:   "Deadline Tomorrow",
		Body:    "\"" + g.Title + "\" is due tomorrow. Finish strong.",
		Payload: Payload{Type: KindGoalDeadline, GoalID: g.ID},
	}, At(at))
}

func (s *Scheduler) SendScreenTimeWarning(app string, used, limit int) string {
	if !s.available("screen time warning") {
		return ""
	}
	p := s.profiles.Current()
	return s.schedule(Content{
		Title:   "Screen Time Limit",
		Body:    s.picker.LimitExceeded(p.Style(), app, used, limit),
		Payload: Payload{Type: KindScreenTimeWarning, App: app},
	}, Immediate())
}

// SendMissedCheckInAlert fires an immediate alert once per day from
// MissedCheckInHour onward while checkedIn is false.
func (s *Scheduler) SendMissedCheckInAlert(checkedIn bool) string {
	now := s.Now().In(time.Local)
	if checkedIn || now.Hour() < MissedCheckInHour {
		return ""
	}
	today := now.Format("2006-01-02")
	if s.storedID(missedCheckInKey) == today {
		return ""
	}
	if !s.available("missed check-in") {
		return ""
	}
	p := s.profiles.Current()
	id := s.schedule(Content{
		Title:   "Missed Check-In",
		Body:    s.picker.MissedCheckIn(p.Style()),
		Payload: Payload{Type: KindMissedCheckIn},
	}, Immediate())
	if id == "" {
		return ""
	}
	if err := s.kv.Set(missedCheckInKey, today); err != nil {
		s.log.Error("persist missed check-in date", "error", err)
	}
	s.log.Info("missed check-in alert sent", "id", id)
	return id
}

// ScheduleHarshReminder fires once after delay with generated text.
func (s *Scheduler) ScheduleHarshReminder(ctx context.Context, delay time.Duration) string {
	if !s.available("harsh reminder") {
		return ""
	}
	p := s.profiles.Current()
	body := motivation.ReminderFallback(p.BiggestDream, p.BiggestSetback)
	if s.ai != nil {
		body = s.ai.HarshReminder(ctx, p.MotivationContext())
	}
	return s.schedule(Content{
		Title:   "Reality Check",
		Body:    body,
		Payload: Payload{Type: KindHarshReminder},
	}, After(delay))
}

// ============================================================
// Lifecycle
// ============================================================

// Initialize schedules the standing reminders for the current profile.
func (s *Scheduler) Initialize() {
	if !s.available("initialize") {
		return
	}
	p := s.profiles.Current()
	s.ScheduleDailyCheckIn(p.CheckInHour, p.CheckInMinute)
	s.ScheduleWeeklyStreak()
	if snap := s.tracker.Snapshot(); snap != nil {
		s.SchedulePatternNudge(snap)
	}
}

func (s *Scheduler) CancelAll() {
	if err := s.notifier.CancelAll(); err != nil {
		s.log.Error("cancel all notifications", "error", err)
	}
	if err := s.kv.MultiRemove(Keys...); err != nil {
		s.log.Error("clear nudge ids", "error", err)
	}
}

func (s *Scheduler) available(what string) bool {
	if s.notifier.Available() {
		return true
	}
	s.log.Info("notifications unavailable, skipping", "nudge", what)
	return false
}

func (s *Scheduler) schedule(c Content, t Trigger) string {
	id, err := s.notifier.Schedule(c, t)
	if err != nil {
		s.log.Error("schedule notification", "type", c.Payload.Type, "error", err)
		return ""
	}
	s.log.Debug("notification scheduled", "id", id, "type", c.Payload.Type, "trigger", t.Kind)
	return id
}

func (s *Scheduler) storedID(key string) string {
	id, ok, err := s.kv.Get(key)
	if err != nil {
		s.log.Error("read nudge id", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return id
}

func (s *Scheduler) cancelStored(key string) {
	id := s.storedID(key)
	if id == "" {
		return
	}
	if err := s.notifier.Cancel(id); err != nil {
		s.log.Warn("cancel previous nudge", "key", key, "id", id, "error", err)
	}
}
