package store

import "time"

type Setting struct {
	Key   string
	Value string
}

// Notification is a locally scheduled notification awaiting delivery.
type Notification struct {
	ID          string
	Title       string
	Body        string
	Payload     string // JSON
	TriggerKind string // immediate, delay, date, daily, weekly
	FireAt      time.Time
	Hour        int
	Minute      int
	Weekday     int
	Repeats     bool
	CreatedAt   time.Time
}
