package article

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)
var reHTTPURL = regexp.MustCompile(`https?://[^\s)]+`)

type ImageMode int

const (
	ImageModeLabel ImageMode = iota
	ImageModeNone
)

type Options struct {
	StyleLinks    bool
	HighlightCode bool
	ImageMode     ImageMode
}

var DefaultOptions = Options{
	StyleLinks:    true,
	HighlightCode: true,
	ImageMode:     ImageModeLabel,
}

func withDefaults(opts Options) Options {
	out := opts
	if out.ImageMode != ImageModeLabel && out.ImageMode != ImageModeNone {
		out.ImageMode = DefaultOptions.ImageMode
	}
	return out
}

type htmlArticleRenderer struct {
	width  int
	opts   Options
	images int
}

// ContentLines renders a post body for the detail view.
func ContentLines(content string, width int) []string {
	return ContentLinesWithOptions(content, width, DefaultOptions)
}

func ContentLinesWithOptions(content string, width int, opts Options) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	lines := renderHTMLFragmentLines(content, width, withDefaults(opts))
	if len(lines) > 0 {
		return lines
	}
	text := PlainText(content)
	if text == "" {
		return nil
	}
	return wrapText(text, width)
}

// PlainText is the text of a post body without its h1 headings, used for
// card excerpts and the search index.
func PlainText(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}
	nodes, err := nethtml.ParseFragment(strings.NewReader(content), &nethtml.Node{
		Type: nethtml.ElementNode,
		Data: "body",
	})
	if err != nil {
		return strings.Join(strings.Fields(html.UnescapeString(content)), " ")
	}
	var b strings.Builder
	for _, node := range nodes {
		collectPlainText(&b, node)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func collectPlainText(b *strings.Builder, node *nethtml.Node) {
	switch node.Type {
	case nethtml.TextNode:
		b.WriteString(node.Data)
		return
	case nethtml.ElementNode:
		switch strings.ToLower(node.Data) {
		case "h1", "script", "style", "noscript":
			return
		case "br":
			b.WriteString(" ")
			return
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectPlainText(b, child)
	}
	if node.Type == nethtml.ElementNode && isBlockElement(node.Data) {
		b.WriteString(" ")
	}
}

// Excerpt is PlainText cut to at most maxRunes runes.
func Excerpt(content string, maxRunes int) string {
	return truncateRunes(PlainText(content), maxRunes)
}

func renderHTMLFragmentLines(raw string, width int, opts Options) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	body := findBodyNode(doc)
	if body == nil {
		return wrapText(strings.TrimSpace(html.UnescapeString(raw)), width)
	}
	renderer := &htmlArticleRenderer{width: max(1, width), opts: opts}
	lines := trimBlankLines(renderer.renderFlow(childNodes(body), 0))
	if opts.StyleLinks {
		lines = styleDetailLinks(lines)
	}
	return lines
}

// ImageURLsFromContent lists the http(s) image sources of content in
// document order without duplicates.
func ImageURLsFromContent(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	reImgSrc := regexp.MustCompile(`(?is)<img[^>]+src\s*=\s*["']?([^"'\s>]+)`)
	matches := reImgSrc.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		raw := strings.TrimSpace(html.UnescapeString(m[1]))
		if raw == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			continue
		}
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out
}

func trimBlankLines(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := strings.TrimSpace(lines[i]) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}

func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		if p == "" {
			out = append(out, "")
			continue
		}
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for visibleLen(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				head, tail := splitRunes(word, width)
				out = append(out, head)
				word = tail
			}

			if line == "" {
				line = word
				continue
			}
			if visibleLen(line)+1+visibleLen(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}

	return out
}

// WrapText wraps plain text at width, counting runes rather than bytes.
func WrapText(text string, width int) []string {
	return wrapText(text, width)
}

func splitRunes(s string, n int) (string, string) {
	if strings.Contains(s, "\x1b") {
		s = stripANSI(s)
	}
	runes := []rune(s)
	if n >= len(runes) {
		return s, ""
	}
	return string(runes[:n]), string(runes[n:])
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
	return utf8.RuneCountInString(stripANSI(s))
}

func stripANSI(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}

func findBodyNode(node *nethtml.Node) *nethtml.Node {
	if node == nil {
		return nil
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "body") {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findBodyNode(child); found != nil {
			return found
		}
	}
	return nil
}

func childNodes(node *nethtml.Node) []*nethtml.Node {
	var children []*nethtml.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	return children
}

func nodeAttr(node *nethtml.Node, name string) string {
	for _, attr := range node.Attr {
		if strings.EqualFold(attr.Key, name) {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}

func collectRawText(node *nethtml.Node) string {
	if node == nil {
		return ""
	}
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	if node.Type == nethtml.ElementNode && strings.EqualFold(node.Data, "br") {
		return "\n"
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectRawText(child))
	}
	return b.String()
}

func styleDetailLinks(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = reHTTPURL.ReplaceAllStringFunc(line, func(m string) string {
			return linkStyle.Render(m)
		})
	}
	return out
}
