package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/motivation"
	"github.com/sadopc/winterarc/internal/profile"
	"github.com/sadopc/winterarc/internal/store"
)

type settingsModel struct {
	svc    *Services
	width  int
	height int

	profile    *profile.Profile
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	name         *string
	style        *string
	dream        *string
	setback      *string
	checkInAt    *string
	apps         *string
	defaultLimit *string
	focusMinutes *string
}

func newSettingsModel(svc *Services) settingsModel {
	n, st, d, sb := "", "", "", ""
	ci, a, dl, fm := "", "", "", ""
	return settingsModel{
		svc:          svc,
		name:         &n,
		style:        &st,
		dream:        &d,
		setback:      &sb,
		checkInAt:    &ci,
		apps:         &a,
		defaultLimit: &dl,
		focusMinutes: &fm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	profile *profile.Profile
}

func (s settingsModel) refresh() tea.Cmd {
	src := s.svc.Profiles
	return func() tea.Msg {
		return settingsDataMsg{profile: src.Current()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.profile = msg.profile
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p := s.svc.Profiles.Current()
	*s.name = p.Name
	*s.style = string(p.Style())
	*s.dream = p.BiggestDream
	*s.setback = p.BiggestSetback
	*s.checkInAt = fmt.Sprintf("%02d:%02d", p.CheckInHour, p.CheckInMinute)
	*s.apps = formatApps(p.DistractionApps)
	*s.defaultLimit = s.getVal(store.SettingDefaultLimit, strconv.Itoa(profile.DefaultLimit))
	*s.focusMinutes = s.getVal(store.SettingFocusMinutes, strconv.Itoa(defaultFocusMinutes))

	within := func(setting string) func(string) error {
		return func(v string) error {
			return store.ValidateSetting(setting, strings.TrimSpace(v))
		}
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(s.name),
			huh.NewSelect[string]().Title("Motivation style").
				Options(
					huh.NewOption("Tough love", string(motivation.Harsh)),
					huh.NewOption("Balanced", string(motivation.Balanced)),
					huh.NewOption("Supportive", string(motivation.Supportive)),
				).Value(s.style),
			huh.NewInput().Title("Biggest dream").Value(s.dream),
			huh.NewInput().Title("Biggest setback").Value(s.setback),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewInput().Title("Tracked apps (App=minutes, ...)").
				Validate(func(v string) error {
					_, err := parseApps(v)
					return err
				}).
				Value(s.apps),
			huh.NewInput().Title("Default daily limit (min)").Validate(within(store.SettingDefaultLimit)).Value(s.defaultLimit),
			huh.NewInput().Title("Daily check-in (HH:MM)").
				Validate(func(v string) error {
					_, _, err := parseClock(v)
					return err
				}).
				Value(s.checkInAt),
			huh.NewInput().Title("Focus block (min)").Validate(within(store.SettingFocusMinutes)).Value(s.focusMinutes),
		).Title("Limits & Reminders"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return statusMsg{text: "Settings saved"} })
	}

	return s, cmd
}

// saveSettings writes the profile, mirrors the defaults into the settings
// table and moves the check-in reminder.
func (s settingsModel) saveSettings() error {
	apps, err := parseApps(*s.apps)
	if err != nil {
		return err
	}
	hour, minute, err := parseClock(*s.checkInAt)
	if err != nil {
		return err
	}

	p := s.svc.Profiles.Current()
	p.Name = strings.TrimSpace(*s.name)
	p.MotivationStyle = *s.style
	p.BiggestDream = strings.TrimSpace(*s.dream)
	p.BiggestSetback = strings.TrimSpace(*s.setback)
	p.DistractionApps = apps
	p.CheckInHour = hour
	p.CheckInMinute = minute
	p.Onboarded = true
	if err := s.svc.Profiles.Save(p); err != nil {
		return err
	}

	if st := s.svc.Settings; st != nil {
		rows := []store.Setting{
			{Key: store.SettingCheckInHour, Value: strconv.Itoa(hour)},
			{Key: store.SettingCheckInMinute, Value: strconv.Itoa(minute)},
			{Key: store.SettingMotivationStyle, Value: *s.style},
			{Key: store.SettingDefaultLimit, Value: strings.TrimSpace(*s.defaultLimit)},
			{Key: store.SettingFocusMinutes, Value: strings.TrimSpace(*s.focusMinutes)},
		}
		for _, row := range rows {
			if err := st.SetSetting(row.Key, row.Value); err != nil {
				return err
			}
		}
	}
	limit, _ := strconv.Atoi(strings.TrimSpace(*s.defaultLimit))
	s.svc.Profiles.SetDefaults(profile.Defaults{
		CheckInHour:     hour,
		CheckInMinute:   minute,
		MotivationStyle: *s.style,
		LimitMinutes:    limit,
	})

	s.svc.Scheduler.ScheduleDailyCheckIn(hour, minute)
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	if s.svc.Settings == nil {
		return fallback
	}
	v, err := s.svc.Settings.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	p := s.profile
	if p == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", hint))
	}

	fields := [][2]string{
		{"Name", p.Name},
		{"Motivation style", string(p.Style())},
		{"Biggest dream", p.BiggestDream},
		{"Biggest setback", p.BiggestSetback},
		{"Daily check-in", fmt.Sprintf("%02d:%02d", p.CheckInHour, p.CheckInMinute)},
		{"Default limit", s.getVal(store.SettingDefaultLimit, strconv.Itoa(profile.DefaultLimit)) + " min"},
		{"Focus block", s.getVal(store.SettingFocusMinutes, strconv.Itoa(defaultFocusMinutes)) + " min"},
	}

	var rows []string
	rows = append(rows, title, "")
	for _, f := range fields {
		label := lipgloss.NewStyle().Width(24).Render(f[0])
		value := f[1]
		if value == "" {
			value = "-"
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(value)))
	}

	rows = append(rows, "", titleStyle.Render("Tracked apps"))
	if len(p.DistractionApps) == 0 {
		rows = append(rows, mutedStyle.Render("  none"))
	}
	for _, a := range p.DistractionApps {
		label := lipgloss.NewStyle().Width(24).Render(a.Name)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(formatMinutes(float64(p.LimitFor(a.Name))))))
	}

	rows = append(rows, "", hint)
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// parseApps reads "Instagram=30, TikTok" into limits. A missing limit is
// stored as zero so the default applies.
func parseApps(s string) ([]profile.AppLimit, error) {
	var apps []profile.AppLimit
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, limit, found := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("missing app name in %q", part)
		}
		a := profile.AppLimit{Name: name}
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(limit))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("bad limit for %s", name)
			}
			a.LimitMinutes = n
		}
		apps = append(apps, a)
	}
	return apps, nil
}

func formatApps(apps []profile.AppLimit) string {
	parts := make([]string, len(apps))
	for i, a := range apps {
		if a.LimitMinutes > 0 {
			parts[i] = fmt.Sprintf("%s=%d", a.Name, a.LimitMinutes)
		} else {
			parts[i] = a.Name
		}
	}
	return strings.Join(parts, ", ")
}

func parseClock(s string) (int, int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, errors.New("use HH:MM")
	}
	hour, err1 := strconv.Atoi(h)
	minute, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, errors.New("use HH:MM")
	}
	return hour, minute, nil
}
