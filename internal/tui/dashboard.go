package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/screentime"
)

const (
	formDistraction = "distraction"
	formUsage       = "usage"
)

type dashboardModel struct {
	svc    *Services
	width  int
	height int

	stats     screentime.Stats
	breakdown []screentime.AppUsage
	insight   string
	message   string
	highRisk  bool

	formActive bool
	form       *huh.Form
	formKind   string

	// Form field pointers (survive value copies)
	formApp     *string
	formMinutes *string
}

func newDashboardModel(svc *Services) dashboardModel {
	app, minutes := "", ""
	return dashboardModel{
		svc:         svc,
		formApp:     &app,
		formMinutes: &minutes,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	stats     screentime.Stats
	breakdown []screentime.AppUsage
	insight   string
	message   string
	highRisk  bool
}

func (d dashboardModel) loadData() tea.Cmd {
	svc := d.svc
	return func() tea.Msg {
		stats := svc.Monitor.Stats()
		p := svc.Profiles.Current()
		return dashboardDataMsg{
			stats:     stats,
			breakdown: svc.Monitor.AppBreakdown(),
			insight:   svc.Tracker.Insight(),
			message:   svc.Picker.ScreenTime(p.Style(), stats.Today, p.Name, p.BiggestDream),
			highRisk:  svc.Tracker.IsHighRiskTime(time.Now()),
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.stats = msg.stats
		d.breakdown = msg.breakdown
		d.insight = msg.insight
		d.message = msg.message
		d.highRisk = msg.highRisk
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Record):
			return d.showForm(formDistraction)
		case key.Matches(msg, keys.Usage):
			return d.showForm(formUsage)
		}
	}
	return d, nil
}

func (d dashboardModel) showForm(kind string) (dashboardModel, tea.Cmd) {
	*d.formApp = ""
	*d.formMinutes = ""
	d.formKind = kind

	var suggestions []string
	for _, a := range d.svc.Profiles.Current().DistractionApps {
		suggestions = append(suggestions, a.Name)
	}

	title := "Record Distraction"
	if kind == formUsage {
		title = "Log Screen Time"
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("App").
				Suggestions(suggestions).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("app name is required")
					}
					return nil
				}).
				Value(d.formApp),
			huh.NewInput().Title("Minutes").
				Validate(func(s string) error {
					_, err := parseMinutes(s)
					return err
				}).
				Value(d.formMinutes),
		).Title(title),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateCompleted {
		d.formActive = false
		app := strings.TrimSpace(*d.formApp)
		minutes, _ := parseMinutes(*d.formMinutes)
		if d.formKind == formUsage {
			return d, tea.Batch(d.logUsage(app, minutes), d.loadData())
		}
		return d, tea.Batch(d.recordDistraction(app, minutes), d.loadData())
	}

	return d, cmd
}

// recordDistraction runs in Update so engine writes stay on the run loop.
func (d dashboardModel) recordDistraction(app string, minutes float64) tea.Cmd {
	event := d.svc.Tracker.Record(app, minutes)
	if event == nil {
		return func() tea.Msg {
			return statusMsg{text: "Could not save distraction", isError: true}
		}
	}
	d.svc.Scheduler.UpdatePatternNudges()
	d.svc.Scheduler.SendImmediateRiskNudge(event.Timestamp)
	return func() tea.Msg { return distractionRecordedMsg{app: app} }
}

func (d dashboardModel) logUsage(app string, minutes float64) tea.Cmd {
	exceeded := d.svc.Monitor.LogManualUsage(app, minutes)
	text := fmt.Sprintf("Logged %s on %s", formatMinutes(minutes), app)
	if exceeded > 0 {
		text += fmt.Sprintf(" (%d over limit)", exceeded)
	}
	return func() tea.Msg { return statusMsg{text: text} }
}

func parseMinutes(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.New("enter a number of minutes")
	}
	if v <= 0 || v > 24*60 {
		return 0, errors.New("minutes must be between 0 and 1440")
	}
	return v, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		return activePanelStyle.Width(contentWidth).Render(d.form.View())
	}

	var panels []string
	if d.highRisk {
		panels = append(panels, riskPanelStyle.Width(contentWidth).Render("HIGH RISK TIME: this is when you usually lose focus"))
	}
	panels = append(panels,
		d.renderStatsPanel(contentWidth),
		d.renderBreakdownPanel(contentWidth),
		d.renderInsightPanel(contentWidth),
	)
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func (d dashboardModel) renderStatsPanel(w int) string {
	trend := mutedStyle.Render("→ stable")
	switch d.stats.Trend {
	case screentime.TrendIncreasing:
		trend = errorStyle.Render("↑ increasing")
	case screentime.TrendDecreasing:
		trend = successStyle.Render("↓ decreasing")
	}

	row := fmt.Sprintf("%s %s   %s %s   %s %s   %s",
		titleStyle.Render("Today"), highlightStyle.Render(formatMinutes(float64(d.stats.Today))),
		titleStyle.Render("Week"), highlightStyle.Render(formatMinutes(float64(d.stats.WeekTotal))),
		titleStyle.Render("Avg"), highlightStyle.Render(formatMinutes(float64(d.stats.WeekAverage))),
		trend,
	)

	content := row
	if d.message != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, row, "", mutedStyle.Render(d.message))
	}
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderBreakdownPanel(w int) string {
	title := titleStyle.Render("Apps Today")
	if len(d.breakdown) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No usage logged today. Press u to log screen time."),
		)
		return panelStyle.Width(w).Render(content)
	}

	barWidth := max(10, min(30, w-50))
	var rows []string
	rows = append(rows, title)
	for _, a := range d.breakdown {
		filled := int(a.Percentage / 100 * float64(barWidth))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		style := usageStyle(a.Percentage, a.Exceeded)
		rows = append(rows, fmt.Sprintf("  %-16s %s %4s / %s",
			a.Name, style.Render(bar), formatMinutes(float64(a.Minutes)), formatMinutes(float64(a.Limit))))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderInsightPanel(w int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Insight"),
		highlightStyle.Render(d.insight),
		"",
		mutedStyle.Render("r: record distraction  u: log screen time"),
	)
	return panelStyle.Width(w).Render(content)
}
