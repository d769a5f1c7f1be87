package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/patterns"
	"github.com/sadopc/winterarc/internal/screentime"
)

type chartMode int

const (
	chartHourly chartMode = iota
	chartWeekly
)

type patternsModel struct {
	svc    *Services
	width  int
	height int

	mode     chartMode
	snapshot *patterns.Snapshot
	week     []screentime.DayUsage
	sessions []patterns.FocusSession

	chart barchart.Model
}

func newPatternsModel(svc *Services) patternsModel {
	return patternsModel{
		svc:   svc,
		chart: barchart.New(60, 12),
	}
}

func (p *patternsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type patternsDataMsg struct {
	snapshot *patterns.Snapshot
	week     []screentime.DayUsage
	sessions []patterns.FocusSession
}

func (p patternsModel) refresh() tea.Cmd {
	svc := p.svc
	return func() tea.Msg {
		return patternsDataMsg{
			snapshot: svc.Tracker.Snapshot(),
			week:     svc.Monitor.WeekUsage(),
			sessions: svc.Tracker.FocusSessions(),
		}
	}
}

func (p patternsModel) update(msg tea.Msg) (patternsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case patternsDataMsg:
		p.snapshot = msg.snapshot
		p.week = msg.week
		p.sessions = msg.sessions
		p.buildChart()
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if p.mode == chartHourly {
				p.mode = chartWeekly
			} else {
				p.mode = chartHourly
			}
			p.buildChart()
			return p, nil
		}
	}
	return p, nil
}

func (p *patternsModel) buildChart() {
	chartWidth := max(20, p.width-8)
	chartHeight := 12
	if p.height > 30 {
		chartHeight = 16
	}

	p.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	if p.mode == chartWeekly {
		bars = weeklyBars(p.week)
	} else {
		bars = hourlyBars(p.snapshot)
	}

	p.chart.PushAll(bars)
	p.chart.Draw()
}

// hourlyBars has one bar per hour; the peak hour is drawn in the accent color.
func hourlyBars(snap *patterns.Snapshot) []barchart.BarData {
	bars := make([]barchart.BarData, 24)
	for h := 0; h < 24; h++ {
		var count int
		style := fg(colorPrimary)
		if snap != nil {
			count = snap.HourlyBreakdown[h]
			if h == snap.PeakDistractionHour {
				style = fg(colorAccent)
			}
		}
		label := ""
		if h%3 == 0 {
			label = fmt.Sprintf("%02d", h)
		}
		bars[h] = barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{{Name: patterns.HourLabel(h), Value: float64(count), Style: style}},
		}
	}
	return bars
}

func weeklyBars(week []screentime.DayUsage) []barchart.BarData {
	var bars []barchart.BarData
	for _, d := range week {
		style := fg(colorHighlight)
		if d.TotalMinutes == 0 {
			style = fg(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label:  d.Day,
			Values: []barchart.BarValue{{Name: d.Date, Value: d.TotalMinutes / 60, Style: style}},
		})
	}
	return bars
}

func (p patternsModel) view() string {
	w := p.width - 4

	hourlyTab := inactiveTabStyle.Render("Hourly")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if p.mode == chartHourly {
		hourlyTab = activeTabStyle.Render("Hourly")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, hourlyTab, weeklyTab)

	caption := "distractions per hour"
	if p.mode == chartWeekly {
		caption = "screen time per day (hours)"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Patterns"), "  ", modeTabs, "  ", mutedStyle.Render(caption),
	)

	body := p.chart.View()
	if p.mode == chartHourly && p.snapshot == nil {
		body = mutedStyle.Render(patterns.LearningMessage)
	}

	nav := mutedStyle.Render("  ←/→: switch chart")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", body, "", p.renderSummary(), "", p.renderApps(w), "", nav,
		),
	)
}

func (p patternsModel) renderSummary() string {
	var lines []string
	if s := p.snapshot; s != nil {
		lines = append(lines, fmt.Sprintf("  Peak: %s (%d)   Worst day: %s   Events: %d   Analyzed: %s",
			highlightStyle.Render(patterns.HourLabel(s.PeakDistractionHour)),
			s.PeakDistractionHourCount,
			highlightStyle.Render(time.Weekday(s.PeakDistractionDay).String()),
			s.TotalEvents,
			s.LastAnalyzed.Local().Format("Jan 02 15:04"),
		))
	}

	var focusMinutes float64
	for _, fs := range p.sessions {
		focusMinutes += fs.DurationMinutes
	}
	lines = append(lines, fmt.Sprintf("  Focus sessions: %d   Total focus: %s",
		len(p.sessions), successStyle.Render(formatMinutes(focusMinutes))))
	return strings.Join(lines, "\n")
}

func (p patternsModel) renderApps(w int) string {
	if p.snapshot == nil || len(p.snapshot.AppBreakdown) == 0 {
		return mutedStyle.Render("  No distractions recorded yet")
	}

	type appCount struct {
		name  string
		count int
	}
	var apps []appCount
	for name, n := range p.snapshot.AppBreakdown {
		apps = append(apps, appCount{name, n})
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].count != apps[j].count {
			return apps[i].count > apps[j].count
		}
		return apps[i].name < apps[j].name
	})

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %8s", "App", "Events")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 30))))
	for _, a := range apps {
		name := a.name
		if name == p.snapshot.MostDistractingApp {
			name = accentStyle.Render(fmt.Sprintf("%-20s", name))
		} else {
			name = fmt.Sprintf("%-20s", name)
		}
		rows = append(rows, fmt.Sprintf("  %s %8d", name, a.count))
	}
	return strings.Join(rows, "\n")
}
