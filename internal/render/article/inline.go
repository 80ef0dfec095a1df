package article

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	nethtml "golang.org/x/net/html"
)

// inlineRun concatenates the inline text of nodes. Text nodes carry their
// own spacing, so nothing is inserted between them.
func (r *htmlArticleRenderer) inlineRun(nodes []*nethtml.Node) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(r.inline(node))
	}
	return b.String()
}

func (r *htmlArticleRenderer) inlineChildren(node *nethtml.Node) string {
	return r.inlineRun(childNodes(node))
}

func (r *htmlArticleRenderer) inline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
	default:
		return ""
	}

	switch strings.ToLower(node.Data) {
	case "script", "style", "noscript":
		return ""
	case "br":
		return "\n"
	case "img":
		lines := r.image(node)
		if len(lines) == 0 {
			return ""
		}
		return "\n" + strings.Join(lines, "\n") + "\n"
	case "a":
		text := strings.TrimSpace(r.inlineChildren(node))
		href := nodeAttr(node, "href")
		switch {
		case href == "" || text == href:
			return text
		case text == "":
			return href
		default:
			return text + " (" + href + ")"
		}
	case "b", "strong":
		return styleWords(r.inlineChildren(node), boldStyle)
	case "i", "em":
		return styleWords(r.inlineChildren(node), italicStyle)
	case "code":
		text := strings.TrimSpace(r.inlineChildren(node))
		if text == "" {
			return ""
		}
		return styleWords("`"+text+"`", inlineCodeStyle)
	default:
		return r.inlineChildren(node)
	}
}

// styleWords styles each word on its own so wrapping never splits an
// escape sequence across lines. Surrounding whitespace survives as a
// single space.
func styleWords(s string, style lipgloss.Style) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		words := strings.Fields(line)
		for j, word := range words {
			words[j] = style.Render(word)
		}
		styled := strings.Join(words, " ")
		if styled != "" && startsWithSpace(line) {
			styled = " " + styled
		}
		if styled != "" && endsWithSpace(line) {
			styled += " "
		}
		lines[i] = styled
	}
	return strings.Join(lines, "\n")
}

func startsWithSpace(s string) bool {
	return strings.TrimLeftFunc(s, unicode.IsSpace) != s
}

func endsWithSpace(s string) bool {
	return strings.TrimRightFunc(s, unicode.IsSpace) != s
}

// collapseSpace squeezes whitespace inside each line and drops empty lines.
func collapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
