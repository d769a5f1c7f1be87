// Package nudge schedules local notifications from distraction patterns,
// limits, goals and check-in reminders, and routes taps back into the app.
package nudge

type Kind string

const (
	KindDailyCheckIn      Kind = "daily-checkin"
	KindGoalDeadline      Kind = "goal-deadline"
	KindScreenTimeWarning Kind = "screen-time-warning"
	KindPatternNudge      Kind = "pattern-nudge"
	KindHighRiskNudge     Kind = "high-risk-nudge"
	KindHarshReminder     Kind = "harsh-reminder"
	KindWeeklyStreak      Kind = "weekly-streak"
	KindMissedCheckIn     Kind = "missed-checkin"
)

// Payload travels with a notification and comes back on tap.
type Payload struct {
	Type   Kind   `json:"type"`
	GoalID string `json:"goalId,omitempty"`
	App    string `json:"app,omitempty"`
}

type Content struct {
	Title   string
	Body    string
	Payload Payload
}

// Destination is the screen a tapped notification opens.
type Destination struct {
	Screen string
	GoalID string
}

const (
	ScreenCheckIn   = "checkin"
	ScreenGoals     = "goals"
	ScreenSettings  = "settings"
	ScreenAnalytics = "analytics"
	ScreenHome      = "home"
)

func Route(p Payload) Destination {
	switch p.Type {
	case KindDailyCheckIn, KindMissedCheckIn:
		return Destination{Screen: ScreenCheckIn}
	case KindGoalDeadline:
		if p.GoalID == "" {
			return Destination{Screen: ScreenHome}
		}
		return Destination{Screen: ScreenGoals, GoalID: p.GoalID}
	case KindScreenTimeWarning:
		return Destination{Screen: ScreenSettings}
	case KindPatternNudge, KindHighRiskNudge:
		return Destination{Screen: ScreenAnalytics}
	default:
		return Destination{Screen: ScreenHome}
	}
}
