package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/sheetblog/internal/editor"
	tuitheme "github.com/glabrego/sheetblog/internal/tui/theme"
)

const gutterWidth = 5

type EditorParams struct {
	Doc       editor.Document
	Selection editor.Selection
	Focused   bool
	Width     int
}

// RenderEditor draws the document block by block with a gutter naming each
// block's kind. It also returns the line holding the caret so callers can
// keep it on screen.
func RenderEditor(p EditorParams, th tuitheme.Theme) ([]string, int) {
	textWidth := max(1, p.Width-gutterWidth)
	var lines []string
	caretLine := 0

	emit := func(gutter string, body []string, caretAt int) {
		if caretAt >= 0 {
			caretLine = len(lines) + caretAt
		}
		for i, line := range body {
			g := strings.Repeat(" ", gutterWidth)
			if i == 0 {
				g = th.EditorGutter.Render(padRight(gutter, gutterWidth))
			}
			lines = append(lines, g+line)
		}
	}

	for bi, block := range p.Doc.Blocks {
		switch block.Kind {
		case editor.List:
			for ii, item := range block.Items {
				marker := "•"
				if block.Ordered {
					marker = fmt.Sprintf("%d.", ii+1)
				}
				body, at := renderUnit(item, bi, ii, p, textWidth, th)
				emit(marker, body, at)
			}
		default:
			if block.Image != nil {
				emit("img", []string{imageLabel(*block.Image, textWidth, th)}, -1)
				if block.Text == "" && !caretIn(p, bi) {
					continue
				}
			}
			body, at := renderUnit(block.Text, bi, 0, p, textWidth, th)
			if block.Text == "" && at < 0 && block.Image == nil && len(p.Doc.Blocks) == 1 {
				body = []string{th.EditorPlaceholder.Render("...")}
			}
			emit(blockGutter(block), body, at)
		}
	}
	return lines, caretLine
}

func blockGutter(b editor.Block) string {
	switch b.Kind {
	case editor.Heading:
		return fmt.Sprintf("H%d", b.Level)
	case editor.Quote:
		return "❝"
	case editor.Code:
		return "</>"
	default:
		return "¶"
	}
}

func imageLabel(img editor.Image, width int, th tuitheme.Theme) string {
	name := img.Alt
	if name == "" {
		name = "image"
	}
	state := "staged"
	if !img.Staged() {
		state = img.Src
	}
	return th.EditorImage.Render(truncateRunes(fmt.Sprintf("▣ %s (%s)", name, state), width))
}

func caretIn(p EditorParams, block int) bool {
	return p.Focused && p.Selection.Focus.Block == block
}

// renderUnit styles the text of one block or list item. The returned index
// is the body line holding the caret, or -1.
func renderUnit(text string, block, item int, p EditorParams, width int, th tuitheme.Theme) ([]string, int) {
	start, end := p.Selection.Bounds()
	runes := []rune(text)
	var (
		lines     []string
		b         strings.Builder
		col       int
		caretLine = -1
	)
	newline := func() {
		lines = append(lines, b.String())
		b.Reset()
		col = 0
	}

	for i := 0; i <= len(runes); i++ {
		pos := editor.Position{Block: block, Item: item, Offset: i}
		caret := p.Focused && pos == p.Selection.Focus
		if caret {
			caretLine = len(lines)
		}
		if i == len(runes) || runes[i] == '\n' {
			if caret {
				b.WriteString(th.EditorCaret.Render(" "))
			}
			if i == len(runes) {
				break
			}
			newline()
			continue
		}
		if col >= width {
			newline()
			if caret {
				caretLine = len(lines)
			}
		}
		s := string(runes[i])
		switch {
		case caret:
			s = th.EditorCaret.Render(s)
		case p.Focused && !p.Selection.Collapsed() && !pos.Before(start) && pos.Before(end):
			s = th.EditorSelection.Render(s)
		}
		b.WriteString(s)
		col++
	}
	lines = append(lines, b.String())
	return lines, caretLine
}

// FormatMenuLines lists the format actions with the highlighted one marked.
func FormatMenuLines(labels []string, cursor int, th tuitheme.Theme) []string {
	out := make([]string, 0, len(labels)+1)
	out = append(out, th.Section.Render("Format"))
	for i, label := range labels {
		if i == cursor {
			out = append(out, th.MenuActive.Render("> "+label))
			continue
		}
		out = append(out, "  "+label)
	}
	return out
}

func padRight(s string, width int) string {
	if n := visibleLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
