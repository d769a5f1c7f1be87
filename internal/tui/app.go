package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/winterarc/internal/export"
	"github.com/sadopc/winterarc/internal/nudge"
	"github.com/sadopc/winterarc/internal/screentime"
)

// App is the root Bubble Tea model.
type App struct {
	svc    *Services
	width  int
	height int

	activeView    viewState
	showHelp      bool
	showInbox     bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	patterns  patternsModel
	goals     goalsModel
	focus     focusModel
	checkIn   checkInModel
	settings  settingsModel
	inbox     inboxModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(svc *Services) App {
	h := help.New()
	h.ShowAll = false

	if svc.CheckInterval <= 0 {
		svc.CheckInterval = screentime.DefaultInterval
	}

	return App{
		svc:        svc,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(svc),
		patterns:   newPatternsModel(svc),
		goals:      newGoalsModel(svc),
		focus:      newFocusModel(svc),
		checkIn:    newCheckInModel(svc),
		settings:   newSettingsModel(svc),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		a.checkIn.fetchPrompt(),
		tickCmd(),
		checkLimitsCmd(a.svc.CheckInterval),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func checkLimitsCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return checkLimitsMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.patterns.setSize(a.width, contentHeight)
		a.goals.setSize(a.width, contentHeight)
		a.focus.setSize(a.width, contentHeight)
		a.checkIn.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.inbox.setSize(a.width, contentHeight)
		return a, nil

	case tea.FocusMsg:
		if !a.svc.Monitor.InSession() {
			a.svc.Monitor.StartSession()
		}
		return a, a.dashboard.loadData()

	case tea.BlurMsg:
		a.svc.Monitor.EndSession()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		if a.showInbox {
			if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Inbox) {
				a.showInbox = false
				return a, nil
			}
			var cmd tea.Cmd
			a.inbox, cmd = a.inbox.update(msg)
			return a, cmd
		}

		if v, ok := keys.viewFor(msg); ok {
			return a.switchTo(v)
		}
		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Inbox):
			a.showInbox = true
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.svc.Monitor.Cleanup()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Next):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		var cmd tea.Cmd
		a.focus, cmd = a.focus.update(msg)
		cmds = append(cmds, cmd)
		cmds = append(cmds, a.deliverDue())
		return a, tea.Batch(cmds...)

	case checkLimitsMsg:
		a.svc.Monitor.CheckLimits()
		a.svc.CheckMissedCheckIn()
		return a, tea.Batch(checkLimitsCmd(a.svc.CheckInterval), a.dashboard.loadData())

	case routeMsg:
		a.showInbox = false
		return a.route(msg.dest)

	case dashboardDataMsg, patternsDataMsg, goalsDataMsg, checkInDataMsg, checkInPromptMsg, settingsDataMsg:
		return a.updateOwner(msg)

	case distractionRecordedMsg:
		a.status = "Recorded distraction on " + msg.app
		a.isErr = false
		return a, a.patterns.refresh()

	case statusMsg:
		a.status = msg.text
		a.isErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.isErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// deliverDue moves fired notifications into the inbox and rings the bell.
func (a *App) deliverDue() tea.Cmd {
	if a.svc.Local == nil {
		return nil
	}
	due, err := a.svc.Local.Due()
	if err != nil {
		a.svc.Log.Error("deliver notifications", "error", err)
	}
	if len(due) == 0 {
		return nil
	}
	a.inbox.add(due)
	latest := due[len(due)-1]
	text := latest.Content.Title
	if len(due) > 1 {
		text = fmt.Sprintf("%s (+%d more, i: inbox)", text, len(due)-1)
	}
	return func() tea.Msg { return statusMsg{text: text + " \a"} }
}

func (a App) route(dest nudge.Destination) (tea.Model, tea.Cmd) {
	switch dest.Screen {
	case nudge.ScreenCheckIn:
		return a.switchTo(viewCheckIn)
	case nudge.ScreenGoals:
		a.goals.focusID = dest.GoalID
		return a.switchTo(viewGoals)
	case nudge.ScreenSettings:
		return a.switchTo(viewSettings)
	case nudge.ScreenAnalytics:
		return a.switchTo(viewPatterns)
	}
	return a.switchTo(viewDashboard)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

// updateOwner hands loaded data to the view that asked for it, even when
// another tab is showing by the time it arrives.
func (a App) updateOwner(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case dashboardDataMsg:
		a.dashboard, cmd = a.dashboard.update(msg)
	case patternsDataMsg:
		a.patterns, cmd = a.patterns.update(msg)
	case goalsDataMsg:
		a.goals, cmd = a.goals.update(msg)
	case checkInDataMsg, checkInPromptMsg:
		a.checkIn, cmd = a.checkIn.update(msg)
	case settingsDataMsg:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewPatterns:
		a.patterns, cmd = a.patterns.update(msg)
	case viewGoals:
		a.goals, cmd = a.goals.update(msg)
	case viewFocus:
		a.focus, cmd = a.focus.update(msg)
	case viewCheckIn:
		a.checkIn, cmd = a.checkIn.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.formActive
	case viewGoals:
		return a.goals.formActive
	case viewCheckIn:
		return a.checkIn.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewPatterns:
		return a.patterns.refresh()
	case viewGoals:
		return a.goals.refresh()
	case viewCheckIn:
		return a.checkIn.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewPatterns:
		content = a.patterns.view()
	case viewGoals:
		content = a.goals.view()
	case viewFocus:
		content = a.focus.view()
	case viewCheckIn:
		content = a.checkIn.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.showInbox:
		content = a.inbox.view()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("winter arc")
	if n := len(a.inbox.items); n > 0 {
		title += warningStyle.Render(fmt.Sprintf(" [%d]", n))
	}
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Focus countdown stays visible from every tab.
	focusInfo := ""
	switch a.focus.phase {
	case focusRunning:
		focusInfo = successStyle.Render(" ● " + formatCountdown(a.focus.remaining))
	case focusPaused:
		focusInfo = warningStyle.Render(" ⏸ " + formatCountdown(a.focus.remaining))
	}

	left := footerStyle.Render(helpView)
	right := focusInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range export.Formats {
		label := strings.ToUpper(string(f))
		if i == a.exportCursor {
			rows = append(rows, selectedItemStyle.Render("> "+label))
			continue
		}
		rows = append(rows, normalItemStyle.Render("  "+label))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))
	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	svc := a.svc
	return func() tea.Msg {
		path, err := export.DefaultPath(format, time.Now())
		if err != nil {
			return statusMsg{text: "Export failed: " + err.Error(), isError: true}
		}
		written, err := export.Write(format, path, export.Bundle{
			Events:   svc.Tracker.Events(),
			Snapshot: svc.Tracker.Snapshot(),
			Week:     svc.Monitor.WeekUsage(),
		})
		if err != nil {
			return statusMsg{text: "Export failed: " + err.Error(), isError: true}
		}
		return exportDoneMsg{path: strings.Join(written, ", ")}
	}
}
