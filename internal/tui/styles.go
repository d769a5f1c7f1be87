package tui

import "github.com/charmbracelet/lipgloss"

// Palette. Cold tones for normal state, ember for risk.
var (
	colorPrimary   = lipgloss.Color("#7DCFFF") // ice
	colorSecondary = lipgloss.Color("#B4F9F8") // frost
	colorAccent    = lipgloss.Color("#FF757F") // ember
	colorMuted     = lipgloss.Color("#636DA6")
	colorSuccess   = lipgloss.Color("#9ECE6A")
	colorWarning   = lipgloss.Color("#E0AF68")
	colorError     = lipgloss.Color("#F7768E")
	colorFg        = lipgloss.Color("#C8D3F5")
	colorSubtle    = lipgloss.Color("#3B4261")
	colorHighlight = lipgloss.Color("#82AAFF")
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boxed(border lipgloss.Border, c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(border).BorderForeground(c)
}

var (
	titleStyle     = fg(colorFg).Bold(true)
	accentStyle    = fg(colorAccent)
	successStyle   = fg(colorSuccess)
	warningStyle   = fg(colorWarning)
	errorStyle     = fg(colorError)
	mutedStyle     = fg(colorMuted)
	highlightStyle = fg(colorHighlight)

	activeTabStyle = fg(colorPrimary).Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)
	inactiveTabStyle = fg(colorMuted).Padding(0, 2)

	panelStyle       = boxed(lipgloss.RoundedBorder(), colorSubtle).Padding(1, 2)
	activePanelStyle = boxed(lipgloss.RoundedBorder(), colorPrimary).Padding(1, 2)
	// riskPanelStyle frames the high-risk banner on the dashboard.
	riskPanelStyle = boxed(lipgloss.ThickBorder(), colorAccent).
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 2)

	countdownStyle = fg(colorSecondary).Bold(true).Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = fg(colorMuted).Padding(0, 1)

	selectedItemStyle = fg(colorPrimary).Bold(true)
	normalItemStyle   = fg(colorFg)
)

// usageStyle colors an app's usage bar: red once over the limit, amber from
// 75% of it.
func usageStyle(percentage float64, exceeded bool) lipgloss.Style {
	switch {
	case exceeded:
		return errorStyle
	case percentage >= 75:
		return warningStyle
	default:
		return successStyle
	}
}
