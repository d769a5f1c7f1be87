package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/nudge"
)

const inboxCapacity = 50

// inboxModel holds notifications delivered while the UI is open. Opening
// one routes to the screen its payload names.
type inboxModel struct {
	width  int
	height int

	items  []nudge.Delivered
	cursor int
}

func (m *inboxModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// add prepends delivered notifications, newest first.
func (m *inboxModel) add(ds []nudge.Delivered) {
	for _, d := range ds {
		m.items = append([]nudge.Delivered{d}, m.items...)
	}
	if len(m.items) > inboxCapacity {
		m.items = m.items[:inboxCapacity]
	}
}

func (m inboxModel) update(msg tea.KeyMsg) (inboxModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Delete):
		if len(m.items) > 0 {
			m.items = append(m.items[:m.cursor], m.items[m.cursor+1:]...)
			if m.cursor >= len(m.items) {
				m.cursor = max(0, len(m.items)-1)
			}
		}
	case key.Matches(msg, keys.Enter):
		if len(m.items) == 0 {
			return m, nil
		}
		d := m.items[m.cursor]
		m.items = append(m.items[:m.cursor], m.items[m.cursor+1:]...)
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
		dest := nudge.Route(d.Content.Payload)
		return m, func() tea.Msg { return routeMsg{dest: dest} }
	}
	return m, nil
}

func (m inboxModel) view() string {
	w := m.width - 4
	title := titleStyle.Render(fmt.Sprintf("Inbox (%d)", len(m.items)))

	if len(m.items) == 0 {
		return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("  Nothing here yet."), "", mutedStyle.Render("  esc: close"),
		))
	}

	rows := []string{title, ""}
	for i, d := range m.items {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		when := mutedStyle.Render(d.FiredAt.Format("15:04"))
		rows = append(rows, style.Render(cursor+d.Content.Title)+"  "+when)
		rows = append(rows, mutedStyle.Render("    "+truncate(d.Content.Body, max(10, w-8))))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: open  d: dismiss  esc: close"))
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
