package nudge

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/winterarc/internal/store"
)

// ErrUnavailable is returned by notifiers that cannot deliver anything.
var ErrUnavailable = errors.New("notifications unavailable")

// Notifier is the local notification capability.
type Notifier interface {
	Available() bool
	Schedule(c Content, t Trigger) (string, error)
	Cancel(id string) error
	CancelAll() error
	Scheduled() ([]Scheduled, error)
}

type Scheduled struct {
	ID      string
	Content Content
	Trigger Trigger
	FireAt  time.Time
}

// Delivered is a notification that has fired and waits for the user.
type Delivered struct {
	ID      string
	Content Content
	FiredAt time.Time
}

// Disabled is the notifier used when notifications are turned off.
type Disabled struct{}

func (Disabled) Available() bool { return false }
func (Disabled) Schedule(Content, Trigger) (string, error) { return "", ErrUnavailable }
func (Disabled) Cancel(string) error { return nil }
func (Disabled) CancelAll() error { return nil }
func (Disabled) Scheduled() ([]Scheduled, error) { return nil, nil }

// NotificationStore is the persistence Local needs.
type NotificationStore interface {
	InsertNotification(n *store.Notification) error
	GetNotification(id string) (*store.Notification, error)
	DeleteNotification(id string) error
	DeleteAllNotifications() error
	RescheduleNotification(id string, fireAt time.Time) error
	ListNotifications() ([]store.Notification, error)
	DueNotifications(now time.Time) ([]store.Notification, error)
}

// Local keeps scheduled notifications in the database. The host polls Due
// to deliver them.
type Local struct {
	store NotificationStore
	Now   func() time.Time
}

func NewLocal(s NotificationStore) *Local {
	return &Local{store: s, Now: time.Now}
}

func (l *Local) Available() bool { return true }

func (l *Local) Schedule(c Content, t Trigger) (string, error) {
	payload, err := json.Marshal(c.Payload)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	n := &store.Notification{
		ID:          uuid.NewString(),
		Title:       c.Title,
		Body:        c.Body,
		Payload:     string(payload),
		TriggerKind: string(t.Kind),
		FireAt:      t.Next(l.Now()),
		Hour:        t.Hour,
		Minute:      t.Minute,
		Weekday:     int(t.Weekday),
		Repeats:     t.Repeats(),
	}
	if err := l.store.InsertNotification(n); err != nil {
		return "", err
	}
	return n.ID, nil
}

func (l *Local) Cancel(id string) error {
	if err := l.store.DeleteNotification(id); err != nil {
		return fmt.Errorf("cancel notification %s: %w", id, err)
	}
	return nil
}

func (l *Local) CancelAll() error {
	if err := l.store.DeleteAllNotifications(); err != nil {
		return fmt.Errorf("cancel all notifications: %w", err)
	}
	return nil
}

func (l *Local) Scheduled() ([]Scheduled, error) {
	rows, err := l.store.ListNotifications()
	if err != nil {
		return nil, err
	}
	out := make([]Scheduled, 0, len(rows))
	for _, n := range rows {
		out = append(out, Scheduled{
			ID:      n.ID,
			Content: contentOf(n),
			Trigger: triggerOf(n),
			FireAt:  n.FireAt,
		})
	}
	return out, nil
}

// Lookup returns one pending notification by ID.
func (l *Local) Lookup(id string) (Scheduled, error) {
	n, err := l.store.GetNotification(id)
	if err != nil {
		return Scheduled{}, err
	}
	return Scheduled{ID: n.ID, Content: contentOf(*n), Trigger: triggerOf(*n), FireAt: n.FireAt}, nil
}

// Due delivers every notification whose fire time has passed. One-shot
// notifications are removed; repeating ones move to their next fire time.
func (l *Local) Due() ([]Delivered, error) {
	now := l.Now()
	rows, err := l.store.DueNotifications(now)
	if err != nil {
		return nil, err
	}
	var out []Delivered
	for _, n := range rows {
		if n.Repeats {
			next := triggerOf(n).Next(now.In(time.Local))
			if err := l.store.RescheduleNotification(n.ID, next); err != nil {
				return out, fmt.Errorf("reschedule notification %s: %w", n.ID, err)
			}
		} else if err := l.store.DeleteNotification(n.ID); err != nil {
			return out, fmt.Errorf("remove delivered notification %s: %w", n.ID, err)
		}
		out = append(out, Delivered{ID: n.ID, Content: contentOf(n), FiredAt: now})
	}
	return out, nil
}

func contentOf(n store.Notification) Content {
	c := Content{Title: n.Title, Body: n.Body}
	// A malformed payload still delivers; it just routes home.
	_ = json.Unmarshal([]byte(n.Payload), &c.Payload)
	return c
}

func triggerOf(n store.Notification) Trigger {
	return Trigger{
		Kind:    TriggerKind(n.TriggerKind),
		At:      n.FireAt,
		Hour:    n.Hour,
		Minute:  n.Minute,
		Weekday: time.Weekday(n.Weekday),
	}
}
