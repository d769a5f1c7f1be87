package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/journal"
	"github.com/sadopc/winterarc/internal/motivation"
)

type checkInModel struct {
	svc    *Services
	width  int
	height int

	prompt string
	today  *journal.CheckIn
	recent []journal.CheckIn
	streak journal.Streak

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formWins      *string
	formStruggles *string
	formRating    *string
}

func newCheckInModel(svc *Services) checkInModel {
	wins, struggles, rating := "", "", "3"
	return checkInModel{
		svc:           svc,
		prompt:        motivation.CheckInPromptFallback,
		formWins:      &wins,
		formStruggles: &struggles,
		formRating:    &rating,
	}
}

func (c *checkInModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type checkInDataMsg struct {
	today  *journal.CheckIn
	recent []journal.CheckIn
	streak journal.Streak
}

type checkInPromptMsg struct {
	prompt string
}

func (c checkInModel) refresh() tea.Cmd {
	j := c.svc.Journal
	return func() tea.Msg {
		today, _ := j.TodayCheckIn()
		all, _ := j.CheckIns()
		streak, _ := j.Streak()
		return checkInDataMsg{today: today, recent: all[:min(5, len(all))], streak: streak}
	}
}

// fetchPrompt asks the generator for today's question. It falls back to
// static text on its own, so the message always carries a prompt.
func (c checkInModel) fetchPrompt() tea.Cmd {
	if c.svc.AI == nil {
		return nil
	}
	ai := c.svc.AI
	mc := c.svc.Profiles.Current().MotivationContext()
	return func() tea.Msg {
		return checkInPromptMsg{prompt: ai.CheckInPrompt(context.Background(), mc)}
	}
}

func (c checkInModel) update(msg tea.Msg) (checkInModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case checkInDataMsg:
		c.today = msg.today
		c.recent = msg.recent
		c.streak = msg.streak
		return c, nil

	case checkInPromptMsg:
		c.prompt = msg.prompt
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return c.showForm()
		}
	}
	return c, nil
}

func (c checkInModel) showForm() (checkInModel, tea.Cmd) {
	*c.formWins = ""
	*c.formStruggles = ""
	*c.formRating = "3"

	ratings := make([]huh.Option[string], 5)
	for i := range ratings {
		n := strconv.Itoa(i + 1)
		ratings[i] = huh.NewOption(strings.Repeat("★", i+1), n)
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Wins today").Value(c.formWins),
			huh.NewText().Title("What got in the way?").Value(c.formStruggles),
			huh.NewSelect[string]().Title("Rate your day").Options(ratings...).Value(c.formRating),
		).Title(c.prompt),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c checkInModel) updateForm(msg tea.Msg) (checkInModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c, c.save()
	}

	return c, cmd
}

func (c checkInModel) save() tea.Cmd {
	rating, _ := strconv.Atoi(*c.formRating)
	_, streak, err := c.svc.Journal.SaveCheckIn(strings.TrimSpace(*c.formWins), strings.TrimSpace(*c.formStruggles), rating)
	if err != nil {
		return func() tea.Msg { return statusMsg{text: err.Error(), isError: true} }
	}
	text := "Check-in saved"
	if streak != nil {
		text = fmt.Sprintf("Check-in saved. Streak: %d day(s)", streak.Count)
	}
	return tea.Batch(c.refresh(), func() tea.Msg { return statusMsg{text: text} })
}

func (c checkInModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		return activePanelStyle.Width(w).Render(c.form.View())
	}

	title := titleStyle.Render("Daily Check-in")
	streak := highlightStyle.Render(fmt.Sprintf("Streak: %d day(s)", c.streak.Count))

	var body []string
	body = append(body, lipgloss.JoinHorizontal(lipgloss.Bottom, title, "   ", streak), "")
	if c.today != nil {
		body = append(body,
			successStyle.Render("Checked in today "+strings.Repeat("★", c.today.Rating)),
			"  Wins: "+c.today.Wins,
			"  Struggles: "+c.today.Struggles,
		)
	} else {
		body = append(body,
			highlightStyle.Render(c.prompt),
			mutedStyle.Render("Press enter to check in"),
		)
	}

	if len(c.recent) > 0 {
		body = append(body, "", titleStyle.Render("Recent"))
		for _, ci := range c.recent {
			body = append(body, fmt.Sprintf("  %s  %-5s %s",
				ci.Timestamp.Local().Format("Mon Jan 02"),
				strings.Repeat("★", ci.Rating),
				mutedStyle.Render(truncate(ci.Wins, 40))))
		}
	}

	return panelStyle.Width(w).Render(strings.Join(body, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
