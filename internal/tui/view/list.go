package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/postservice"
	"github.com/glabrego/sheetblog/internal/search"
	tuitheme "github.com/glabrego/sheetblog/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// CardHeight is the number of lines RenderCard produces.
const CardHeight = 3

type CardParams struct {
	Card         feed.Card
	Excerpt      string
	EmptyExcerpt string
	Query        string
	Locale       string
	Active       bool
	Width        int
}

// RenderCard draws one post card: title with date, excerpt and a spacer.
// Matches of Query are highlighted in the title and excerpt.
func RenderCard(p CardParams, th tuitheme.Theme) []string {
	post := p.Card.Post
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf("  %s ", cursorMarker)

	date := DateLabel(post.Time(), p.Locale)
	suffix := date
	if n := len(postservice.SplitImageRefs(post.ImageURL)); n > 0 {
		suffix = fmt.Sprintf("%s %s", th.ImageCount.Render(ImageCountLabel(n)), date)
	}
	available := p.Width - visibleLen(prefix) - 1 - visibleLen(suffix)
	if available < 1 {
		available = 1
	}
	title := truncateRunes(strings.TrimSpace(post.Title), available)
	styledTitle := th.CardTitle.Render(search.Highlight(title, p.Query, th.HighlightMatch))
	gap := p.Width - visibleLen(prefix) - visibleLen(title) - visibleLen(suffix)
	if gap < 1 {
		gap = 1
	}
	titleLine := th.RenderActiveLine(p.Active, prefix+styledTitle+strings.Repeat(" ", gap)+th.CardDate.Render(suffix))

	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = p.EmptyExcerpt
	}
	indent := strings.Repeat(" ", visibleLen(prefix))
	excerpt = truncateRunes(excerpt, max(1, p.Width-len(indent)))
	excerptLine := indent + th.CardExcerpt.Render(search.Highlight(excerpt, p.Query, th.HighlightMatch))

	return []string{titleLine, excerptLine, ""}
}

func ImageCountLabel(n int) string {
	if n == 1 {
		return "[1 image]"
	}
	return fmt.Sprintf("[%d images]", n)
}

// DateLabel formats a post date the way the browser's locale date string
// does for the supported locales.
func DateLabel(t time.Time, locale string) string {
	if t.IsZero() {
		return "-"
	}
	t = t.UTC()
	switch locale {
	case "en":
		return t.Format("1/2/2006")
	default:
		return t.Format("2006. 1. 2.")
	}
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
