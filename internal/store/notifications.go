package store

import (
	"fmt"
	"time"
)

const notificationColumns = `id, title, body, payload, trigger_kind, fire_at, hour, minute, weekday, repeats, created_at`

func (s *Store) InsertNotification(n *Notification) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Body, n.Payload, n.TriggerKind, n.FireAt.UTC().Format(time.RFC3339),
		n.Hour, n.Minute, n.Weekday, boolToInt(n.Repeats), now,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *Store) GetNotification(id string) (*Notification, error) {
	n := &Notification{}
	var fireAt, createdAt string
	var repeats int
	err := s.db.QueryRow(
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id,
	).Scan(&n.ID, &n.Title, &n.Body, &n.Payload, &n.TriggerKind, &fireAt, &n.Hour, &n.Minute, &n.Weekday, &repeats, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get notification %s: %w", id, err)
	}
	n.Repeats = repeats == 1
	n.FireAt, _ = time.Parse(time.RFC3339, fireAt)
	n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return n, nil
}

func (s *Store) DeleteNotification(id string) error {
	_, err := s.db.Exec(`DELETE FROM notifications WHERE id = ?`, id)
	return err
}

func (s *Store) DeleteAllNotifications() error {
	_, err := s.db.Exec(`DELETE FROM notifications`)
	return err
}

func (s *Store) RescheduleNotification(id string, fireAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE notifications SET fire_at = ? WHERE id = ?`,
		fireAt.UTC().Format(time.RFC3339), id,
	)
	return err
}

// ListNotifications returns pending notifications ordered by fire time.
func (s *Store) ListNotifications() ([]Notification, error) {
	return s.queryNotifications(`SELECT ` + notificationColumns + ` FROM notifications ORDER BY fire_at, id`)
}

// DueNotifications returns notifications whose fire time is at or before now.
func (s *Store) DueNotifications(now time.Time) ([]Notification, error) {
	return s.queryNotifications(
		`SELECT `+notificationColumns+` FROM notifications WHERE fire_at <= ? ORDER BY fire_at, id`,
		now.UTC().Format(time.RFC3339),
	)
}

func (s *Store) queryNotifications(query string, args ...any) ([]Notification, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var fireAt, createdAt string
		var repeats int
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Payload, &n.TriggerKind, &fireAt, &n.Hour, &n.Minute, &n.Weekday, &repeats, &createdAt); err != nil {
			return nil, err
		}
		n.Repeats = repeats == 1
		n.FireAt, _ = time.Parse(time.RFC3339, fireAt)
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
