package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/journal"
)

var goalCategories = []string{"fitness", "career", "learning", "health", "creative", "other"}

const dateLayout = "2006-01-02"

type goalsModel struct {
	svc    *Services
	width  int
	height int

	goals  []journal.Goal
	cursor int

	winCounts map[string]int
	winStats  journal.WinStats
	recent    []journal.Activity

	// focusID selects a goal once data arrives, e.g. after a deadline tap.
	focusID string

	formActive bool
	winForm    bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formTitle    *string
	formCategory *string
	formDeadline *string
	formNote     *string
	formEvidence *string
}

// recentActivities is how much of the feed the goals view shows.
const recentActivities = 5

func newGoalsModel(svc *Services) goalsModel {
	title, cat, deadline, note, evidence := "", goalCategories[0], "", "", ""
	return goalsModel{
		svc:          svc,
		formTitle:    &title,
		formCategory: &cat,
		formDeadline: &deadline,
		formNote:     &note,
		formEvidence: &evidence,
	}
}

func (g *goalsModel) setSize(w, h int) {
	g.width = w
	g.height = h
}

type goalsDataMsg struct {
	goals     []journal.Goal
	winCounts map[string]int
	winStats  journal.WinStats
	recent    []journal.Activity
	err       error
}

func (g goalsModel) refresh() tea.Cmd {
	j := g.svc.Journal
	return func() tea.Msg {
		goals, err := j.Goals()
		if err != nil {
			return goalsDataMsg{err: err}
		}
		wins, err := j.Wins("")
		if err != nil {
			return goalsDataMsg{err: err}
		}
		counts := make(map[string]int, len(goals))
		for _, w := range wins {
			counts[w.GoalID]++
		}
		stats, err := j.WinStats()
		if err != nil {
			return goalsDataMsg{err: err}
		}
		recent, err := j.Activities()
		if err != nil {
			return goalsDataMsg{err: err}
		}
		if len(recent) > recentActivities {
			recent = recent[:recentActivities]
		}
		return goalsDataMsg{goals: goals, winCounts: counts, winStats: stats, recent: recent}
	}
}

func (g goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if g.formActive && g.form != nil {
		return g.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		if msg.err != nil {
			return g, func() tea.Msg { return statusMsg{text: msg.err.Error(), isError: true} }
		}
		g.goals = msg.goals
		g.winCounts = msg.winCounts
		g.winStats = msg.winStats
		g.recent = msg.recent
		if g.focusID != "" {
			for i, goal := range g.goals {
				if goal.ID == g.focusID {
					g.cursor = i
				}
			}
			g.focusID = ""
		}
		if g.cursor >= len(g.goals) {
			g.cursor = max(0, len(g.goals)-1)
		}
		return g, nil

	case tea.KeyMsg:
		return g.updateList(msg)
	}
	return g, nil
}

func (g goalsModel) updateList(msg tea.KeyMsg) (goalsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if g.cursor > 0 {
			g.cursor--
		}
	case key.Matches(msg, keys.Down):
		if g.cursor < len(g.goals)-1 {
			g.cursor++
		}
	case key.Matches(msg, keys.New):
		return g.showNewGoalForm()
	case len(g.goals) == 0:
		return g, nil
	case key.Matches(msg, keys.Win):
		return g.showWinForm()
	case key.Matches(msg, keys.Toggle):
		return g, g.apply(g.svc.Journal.ToggleCompleted(g.goals[g.cursor].ID))
	case key.Matches(msg, keys.More):
		cur := g.goals[g.cursor]
		return g, g.apply(g.svc.Journal.SetProgress(cur.ID, cur.Progress+10))
	case key.Matches(msg, keys.Less):
		cur := g.goals[g.cursor]
		return g, g.apply(g.svc.Journal.SetProgress(cur.ID, cur.Progress-10))
	case key.Matches(msg, keys.Delete):
		if err := g.svc.Journal.DeleteGoal(g.goals[g.cursor].ID); err != nil {
			return g, func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
		}
		return g, g.refresh()
	}
	return g, nil
}

func (g goalsModel) apply(goal *journal.Goal, err error) tea.Cmd {
	if err != nil {
		return func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	if goal.Completed {
		return tea.Batch(g.refresh(), func() tea.Msg {
			return statusMsg{text: "Goal complete: " + goal.Title}
		})
	}
	return g.refresh()
}

func (g goalsModel) showNewGoalForm() (goalsModel, tea.Cmd) {
	*g.formTitle = ""
	*g.formCategory = goalCategories[0]
	*g.formDeadline = ""

	catOptions := make([]huh.Option[string], len(goalCategories))
	for i, c := range goalCategories {
		catOptions[i] = huh.NewOption(c, c)
	}

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("goal is required")
					}
					return nil
				}).
				Value(g.formTitle),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(g.formCategory),
			huh.NewInput().Title("Deadline (YYYY-MM-DD, optional)").
				Validate(func(s string) error {
					_, err := parseDeadline(s)
					return err
				}).
				Value(g.formDeadline),
		),
	).WithShowHelp(true).WithShowErrors(true)

	g.formActive = true
	g.winForm = false
	return g, g.form.Init()
}

func (g goalsModel) showWinForm() (goalsModel, tea.Cmd) {
	*g.formNote = ""
	*g.formEvidence = ""

	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("What did you get done?").Value(g.formNote),
			huh.NewInput().Title("Evidence file (optional)").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" && strings.TrimSpace(*g.formNote) == "" {
						return errors.New("add a note or a file")
					}
					return nil
				}).
				Value(g.formEvidence),
		),
	).WithShowHelp(true).WithShowErrors(true)

	g.formActive = true
	g.winForm = true
	return g, g.form.Init()
}

func (g goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			g.formActive = false
			g.form = nil
			return g, nil
		}
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.formActive = false
		if g.winForm {
			return g, g.logWin()
		}
		return g, g.createGoal()
	}

	return g, cmd
}

func (g goalsModel) createGoal() tea.Cmd {
	deadline, _ := parseDeadline(*g.formDeadline)
	goal, err := g.svc.Journal.AddGoal(strings.TrimSpace(*g.formTitle), *g.formCategory, deadline)
	if err != nil {
		return func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	text := "Goal added"
	if g.svc.Scheduler.ScheduleGoalDeadline(*goal) != "" {
		text += ", reminder set for the evening before"
	}
	return tea.Batch(g.refresh(), func() tea.Msg { return statusMsg{text: text} })
}

func (g goalsModel) logWin() tea.Cmd {
	if len(g.goals) == 0 {
		return nil
	}
	goal := g.goals[g.cursor]
	if _, err := g.svc.Journal.AddWin(goal.ID, strings.TrimSpace(*g.formEvidence), *g.formNote); err != nil {
		return func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	return tea.Batch(g.refresh(), func() tea.Msg { return statusMsg{text: "Win logged for " + goal.Title} })
}

// parseDeadline accepts an empty string as "no deadline".
func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, errors.New("use YYYY-MM-DD")
	}
	return &t, nil
}

func (g goalsModel) view() string {
	w := g.width - 4

	if g.formActive && g.form != nil {
		title := titleStyle.Render("New Goal")
		if g.winForm && len(g.goals) > 0 {
			title = titleStyle.Render("Win: " + g.goals[g.cursor].Title)
		}
		return activePanelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", g.form.View()),
		)
	}

	title := titleStyle.Render("Goals")
	if len(g.goals) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No goals yet. Press n to set one."),
		))
	}

	var rows []string
	rows = append(rows, title, "")
	for i, goal := range g.goals {
		cursor := "  "
		style := normalItemStyle
		if i == g.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := mutedStyle.Render("○")
		if goal.Completed {
			check = successStyle.Render("●")
		}
		due := ""
		if goal.Deadline != nil {
			due = mutedStyle.Render("  due " + goal.Deadline.Format("Jan 02"))
			if !goal.Completed && goal.Deadline.Before(time.Now()) {
				due = errorStyle.Render("  overdue")
			}
		}
		wins := ""
		if n := g.winCounts[goal.ID]; n > 0 {
			wins = highlightStyle.Render(fmt.Sprintf("  %d win(s)", n))
		}
		rows = append(rows, fmt.Sprintf("%s%s %s %s %s%s%s",
			cursor, check, style.Render(fmt.Sprintf("%-28s", goal.Title)),
			progressBar(goal.Progress, 20), mutedStyle.Render(goal.Category), due, wins))
	}
	rows = append(rows, "", mutedStyle.Render(fmt.Sprintf("  Wins: %d total, %d this week, %d this month",
		g.winStats.Total, g.winStats.ThisWeek, g.winStats.ThisMonth)))
	if len(g.recent) > 0 {
		rows = append(rows, "", accentStyle.Render("Recent activity"))
		for _, a := range g.recent {
			rows = append(rows, mutedStyle.Render("  "+a.CreatedAt.Local().Format("Jan 02 15:04")+"  ")+a.Title)
		}
	}
	rows = append(rows, "", mutedStyle.Render("  n: new  w: log win  c: complete  +/-: progress  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func progressBar(pct, width int) string {
	filled := pct * width / 100
	bar := successStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
