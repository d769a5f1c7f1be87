package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/motivation"
	"github.com/sadopc/winterarc/internal/profile"
	"github.com/sadopc/winterarc/internal/store"
)

// DefaultsFrom reads the profile defaults out of the settings table.
func DefaultsFrom(st SettingsStore) profile.Defaults {
	style, err := st.GetSetting(store.SettingMotivationStyle)
	if err != nil {
		style = string(motivation.Balanced)
	}
	return profile.Defaults{
		CheckInHour:     st.SettingInt(store.SettingCheckInHour, 20),
		CheckInMinute:   st.SettingInt(store.SettingCheckInMinute, 0),
		MotivationStyle: style,
		LimitMinutes:    st.SettingInt(store.SettingDefaultLimit, profile.DefaultLimit),
	}
}

// ApplySetting validates and writes one settings row, then carries it into
// the stored profile so an onboarded user sees the change. A new check-in
// time moves the daily reminder.
func (s *Services) ApplySetting(key, value string) error {
	value = strings.TrimSpace(value)
	if err := store.ValidateSetting(key, value); err != nil {
		return err
	}
	if key == store.SettingMotivationStyle && string(motivation.ParseStyle(value)) != value {
		return fmt.Errorf("unknown motivation style %q", value)
	}
	if s.Settings == nil {
		return errors.New("settings are not available")
	}
	if _, err := s.Settings.GetSetting(key); err != nil {
		return err
	}
	if err := s.Settings.SetSetting(key, value); err != nil {
		return err
	}

	d := DefaultsFrom(s.Settings)
	s.Profiles.SetDefaults(d)

	p := s.Profiles.Current()
	switch key {
	case store.SettingCheckInHour:
		p.CheckInHour = d.CheckInHour
	case store.SettingCheckInMinute:
		p.CheckInMinute = d.CheckInMinute
	case store.SettingMotivationStyle:
		p.MotivationStyle = d.MotivationStyle
	default:
		return nil
	}
	if p.Onboarded {
		if err := s.Profiles.Save(p); err != nil {
			return err
		}
	}
	if key != store.SettingMotivationStyle && s.Scheduler != nil {
		s.Scheduler.ScheduleDailyCheckIn(p.CheckInHour, p.CheckInMinute)
	}
	return nil
}

// CheckMissedCheckIn raises the evening alert when today has no check-in.
// It returns the scheduled notification ID, or "".
func (s *Services) CheckMissedCheckIn() string {
	if s.Journal == nil || s.Scheduler == nil {
		return ""
	}
	c, err := s.Journal.TodayCheckIn()
	if err != nil {
		s.Log.Error("read today's check-in", "error", err)
		return ""
	}
	return s.Scheduler.SendMissedCheckInAlert(c != nil)
}

// SetAppLimit tracks app with a daily limit in minutes.
func (s *Services) SetAppLimit(app string, minutes int) error {
	app = strings.TrimSpace(app)
	if app == "" {
		return errors.New("app name is required")
	}
	if minutes <= 0 {
		return fmt.Errorf("limit must be positive, got %d", minutes)
	}
	p := s.Profiles.Current()
	p.SetLimit(app, minutes)
	return s.Profiles.Save(p)
}

// RemoveAppLimit stops tracking app. Unknown apps are an error.
func (s *Services) RemoveAppLimit(app string) error {
	p := s.Profiles.Current()
	before := len(p.DistractionApps)
	p.RemoveApp(strings.TrimSpace(app))
	if len(p.DistractionApps) == before {
		return fmt.Errorf("%q is not a tracked app", app)
	}
	return s.Profiles.Save(p)
}

// FindGoal resolves ref as a goal ID prefix or a case-insensitive title.
func (s *Services) FindGoal(ref string) (*journal.Goal, error) {
	ref = strings.TrimSpace(ref)
	goals, err := s.Journal.Goals()
	if err != nil {
		return nil, err
	}
	var found []journal.Goal
	for _, g := range goals {
		if strings.EqualFold(g.Title, ref) {
			return &g, nil
		}
		if ref != "" && strings.HasPrefix(g.ID, ref) {
			found = append(found, g)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no goal matches %q", ref)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d goals", ref, len(found))
	}
}
