package article

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the palette the rest of the UI uses.
var (
	mochaLavender = lipgloss.Color("#b4befe")
	mochaBlue     = lipgloss.Color("#89b4fa")
	mochaTeal     = lipgloss.Color("#94e2d5")
	mochaMauve    = lipgloss.Color("#cba6f7")
	mochaPeach    = lipgloss.Color("#fab387")
	mochaText     = lipgloss.Color("#cdd6f4")
	mochaSubtext0 = lipgloss.Color("#a6adc8")
	mochaOverlay1 = lipgloss.Color("#7f849c")
	mochaSurface2 = lipgloss.Color("#585b70")
)

var headingStyles = []lipgloss.Style{
	lipgloss.NewStyle().Bold(true).Foreground(mochaLavender),
	lipgloss.NewStyle().Bold(true).Foreground(mochaBlue),
	lipgloss.NewStyle().Bold(true).Foreground(mochaTeal),
}

// headingStyle maps h1 and h2 to the first style, h3 to the second and
// anything deeper to the last.
func headingStyle(level int) lipgloss.Style {
	i := min(max(level-2, 0), len(headingStyles)-1)
	return headingStyles[i]
}

var (
	boldStyle       = lipgloss.NewStyle().Bold(true).Foreground(mochaText)
	italicStyle     = lipgloss.NewStyle().Italic(true)
	inlineCodeStyle = lipgloss.NewStyle().Foreground(mochaPeach)
	linkStyle       = lipgloss.NewStyle().Foreground(mochaBlue).Faint(true)
	quoteBar        = lipgloss.NewStyle().Foreground(mochaOverlay1).Render("│ ")
	quoteStyle      = lipgloss.NewStyle().Italic(true).Foreground(mochaSubtext0)
	ruleStyle       = lipgloss.NewStyle().Foreground(mochaSurface2)
	cellSeparator   = lipgloss.NewStyle().Foreground(mochaSurface2).Render(" │ ")
	imageTagStyle   = lipgloss.NewStyle().Foreground(mochaMauve).Italic(true)
	imageAltStyle   = lipgloss.NewStyle().Foreground(mochaSubtext0).Italic(true)
)
