package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/postservice"
)

type WrapFunc func(string, int) []string

func DetailMetaLines(post feed.Post, location, locale string, width int, wrap WrapFunc) []string {
	lines := make([]string, 0, 8)
	lines = append(lines, wrap(post.Title, width)...)
	lines = append(lines, strings.Repeat("=", max(1, min(width, visibleLen(post.Title)))))
	lines = append(lines, "")

	lines = append(lines, "Date: "+DateLabel(post.Time(), locale))
	if n := len(postservice.SplitImageRefs(post.ImageURL)); n > 0 {
		lines = append(lines, fmt.Sprintf("Images: %d", n))
	}
	if location != "" {
		lines = append(lines, "Location: "+location)
	}
	return lines
}
