package nudge

import "time"

type TriggerKind string

const (
	TriggerImmediate TriggerKind = "immediate"
	TriggerDelay     TriggerKind = "delay"
	TriggerDate      TriggerKind = "date"
	TriggerDaily     TriggerKind = "daily"
	TriggerWeekly    TriggerKind = "weekly"
)

// Trigger says when a notification fires. Daily and weekly triggers repeat.
type Trigger struct {
	Kind    TriggerKind
	Delay   time.Duration
	At      time.Time
	Hour    int
	Minute  int
	Weekday time.Weekday
}

func Immediate() Trigger { return Trigger{Kind: TriggerImmediate} }

func After(d time.Duration) Trigger { return Trigger{Kind: TriggerDelay, Delay: d} }

func At(t time.Time) Trigger { return Trigger{Kind: TriggerDate, At: t} }

func Daily(hour, minute int) Trigger {
	return Trigger{Kind: TriggerDaily, Hour: hour, Minute: minute}
}

func Weekly(day time.Weekday, hour, minute int) Trigger {
	return Trigger{Kind: TriggerWeekly, Weekday: day, Hour: hour, Minute: minute}
}

func (t Trigger) Repeats() bool {
	return t.Kind == TriggerDaily || t.Kind == TriggerWeekly
}

// Next returns the first fire time strictly after from for repeating
// triggers, and the fixed fire time otherwise.
func (t Trigger) Next(from time.Time) time.Time {
	switch t.Kind {
	case TriggerDelay:
		return from.Add(t.Delay)
	case TriggerDate:
		return t.At
	case TriggerDaily:
		next := time.Date(from.Year(), from.Month(), from.Day(), t.Hour, t.Minute, 0, 0, from.Location())
		if !next.After(from) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	case TriggerWeekly:
		ahead := (int(t.Weekday) - int(from.Weekday()) + 7) % 7
		next := time.Date(from.Year(), from.Month(), from.Day()+ahead, t.Hour, t.Minute, 0, 0, from.Location())
		if !next.After(from) {
			next = next.AddDate(0, 0, 7)
		}
		return next
	default:
		return from
	}
}
