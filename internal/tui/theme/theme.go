package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title      lipgloss.Style
	ModePill   lipgloss.Style
	Section    lipgloss.Style
	ImageCount lipgloss.Style
	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	StateIdle  lipgloss.Style
	StateWarn  lipgloss.Style
	StateLoad  lipgloss.Style

	CardTitle   lipgloss.Style
	CardExcerpt lipgloss.Style
	CardDate    lipgloss.Style
	Match       lipgloss.Style

	EditorCaret       lipgloss.Style
	EditorSelection   lipgloss.Style
	EditorPlaceholder lipgloss.Style
	EditorGutter      lipgloss.Style
	EditorImage       lipgloss.Style
	MenuActive        lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay0 := lipgloss.Color("#6c7086")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")
	cpBase := lipgloss.Color("#1e1e2e")

	return Theme{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:   lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:    lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		ImageCount: lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		StateIdle:  lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn:  lipgloss.NewStyle().Foreground(cpRed),
		StateLoad:  lipgloss.NewStyle().Foreground(cpPeach),

		CardTitle:   lipgloss.NewStyle().Bold(true).Foreground(cpText),
		CardExcerpt: lipgloss.NewStyle().Foreground(cpSubtext0),
		CardDate:    lipgloss.NewStyle().Foreground(cpOverlay0),
		Match:       lipgloss.NewStyle().Background(cpYellow).Foreground(cpBase),

		EditorCaret:       lipgloss.NewStyle().Reverse(true),
		EditorSelection:   lipgloss.NewStyle().Background(cpSurface2).Foreground(cpRosewater),
		EditorPlaceholder: lipgloss.NewStyle().Foreground(cpOverlay0).Italic(true),
		EditorGutter:      lipgloss.NewStyle().Foreground(cpOverlay1),
		EditorImage:       lipgloss.NewStyle().Foreground(cpMauve).Italic(true),
		MenuActive:        lipgloss.NewStyle().Bold(true).Foreground(cpBase).Background(cpLavender),
	}
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}

// HighlightMatch is the wrap function handed to search highlighting.
func (t Theme) HighlightMatch(s string) string {
	return t.Match.Render(s)
}
