package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glabrego/sheetblog/internal/postservice"
)

const (
	ModeSubstring = "like"
	ModeFullText  = "fts"
)

// Matcher selects the posts matching a free-text query. It never modifies
// posts and keeps their relative order unless stated otherwise.
type Matcher interface {
	Match(posts []postservice.Post, query string) ([]postservice.Post, error)
}

// New returns the matcher for a configured search mode.
func New(mode string) (Matcher, error) {
	switch mode {
	case "", ModeSubstring:
		return Substring{}, nil
	case ModeFullText:
		return NewFullText(), nil
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
}

// Substring matches posts whose title or content contains the query,
// ignoring case.
type Substring struct{}

func (Substring) Match(posts []postservice.Post, query string) ([]postservice.Post, error) {
	needle := strings.ToLower(query)
	out := make([]postservice.Post, 0, len(posts))
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.Title), needle) ||
			strings.Contains(strings.ToLower(post.Content), needle) {
			out = append(out, post)
		}
	}
	return out, nil
}

// Highlight wraps every case-insensitive occurrence of query in text.
func Highlight(text, query string, wrap func(string) string) string {
	if query == "" || wrap == nil {
		return text
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, wrap)
}
