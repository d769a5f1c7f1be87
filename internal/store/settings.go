package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// Rows of the settings table. All are seeded by the v1 schema.
const (
	SettingCheckInHour     = "checkin_hour"
	SettingCheckInMinute   = "checkin_minute"
	SettingMotivationStyle = "motivation_style"
	SettingDefaultLimit    = "default_limit"
	SettingFocusMinutes    = "focus_minutes"
)

// ErrUnknownSetting is returned for keys that have no settings row.
var ErrUnknownSetting = errors.New("unknown setting")

// settingRange bounds the numeric settings. Keys absent here are free text.
var settingRange = map[string][2]int{
	SettingCheckInHour:   {0, 23},
	SettingCheckInMinute: {0, 59},
	SettingDefaultLimit:  {1, 24 * 60},
	SettingFocusMinutes:  {1, 240},
}

// ValidateSetting checks value against the bounds of a numeric setting.
func ValidateSetting(key, value string) error {
	bounds, numeric := settingRange[key]
	if !numeric {
		if value == "" {
			return fmt.Errorf("setting %q: empty value", key)
		}
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("setting %q takes a number", key)
	}
	if n < bounds[0] || n > bounds[1] {
		return fmt.Errorf("setting %q must be between %d and %d", key, bounds[0], bounds[1])
	}
	return nil
}

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	switch err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("%w %q", ErrUnknownSetting, key)
	case err != nil:
		return "", fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, nil
}

// SettingInt returns the integer setting at key, or fallback when missing or malformed.
func (s *Store) SettingInt(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return fallback
}

// SetSetting upserts a settings row without validating it.
func (s *Store) SetSetting(key, value string) error {
	const upsert = `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := s.db.Exec(upsert, key, value); err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}

// GetAllSettings lists the runtime settings sorted by key.
func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var row Setting
		if err := rows.Scan(&row.Key, &row.Value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
