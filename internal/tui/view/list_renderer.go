package view

import (
	"strings"

	"github.com/glabrego/sheetblog/internal/feed"
)

type ListRenderInput struct {
	Cards  []feed.Card
	Start  int
	End    int
	Cursor int

	RenderCard func(card feed.Card, active bool) []string
}

func RenderListBody(in ListRenderInput) string {
	if len(in.Cards) == 0 || in.Start >= in.End || in.Start < 0 {
		return ""
	}
	if in.End > len(in.Cards) {
		in.End = len(in.Cards)
	}
	var b strings.Builder
	for i := in.Start; i < in.End; i++ {
		for _, line := range in.RenderCard(in.Cards[i], i == in.Cursor) {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}
