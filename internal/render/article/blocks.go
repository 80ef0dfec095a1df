package article

import (
	"fmt"
	"strings"

	nethtml "golang.org/x/net/html"
)

const codeIndent = "    "

// blockWriter keeps exactly one blank line between rendered blocks.
type blockWriter struct {
	lines []string
}

func (w *blockWriter) add(block []string) {
	block = trimBlankLines(block)
	if len(block) == 0 {
		return
	}
	if len(w.lines) > 0 {
		w.lines = append(w.lines, "")
	}
	w.lines = append(w.lines, block...)
}

// renderFlow renders sibling nodes. Inline runs between block elements
// become paragraphs.
func (r *htmlArticleRenderer) renderFlow(nodes []*nethtml.Node, depth int) []string {
	var w blockWriter
	var run []*nethtml.Node
	flush := func() {
		if len(run) > 0 {
			w.add(r.paragraph(run))
			run = run[:0]
		}
	}
	for _, node := range nodes {
		if node.Type == nethtml.ElementNode && isBlockElement(node.Data) {
			flush()
			w.add(r.renderBlock(node, depth))
			continue
		}
		run = append(run, node)
	}
	flush()
	return w.lines
}

func (r *htmlArticleRenderer) renderBlock(node *nethtml.Node, depth int) []string {
	tag := strings.ToLower(node.Data)
	switch tag {
	case "script", "style", "noscript", "head", "title":
		return nil
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return r.heading(node, int(tag[1]-'0'))
	case "blockquote":
		return r.quote(node, depth)
	case "pre":
		return r.code(node)
	case "ul", "ol":
		return r.list(node, tag == "ol", depth)
	case "li":
		return r.listItem(node, bulletFor(depth), depth)
	case "img":
		return r.image(node)
	case "hr":
		return []string{ruleStyle.Render(strings.Repeat("─", min(r.width, 24)))}
	case "table":
		return r.table(node)
	default:
		return r.renderFlow(childNodes(node), depth)
	}
}

func (r *htmlArticleRenderer) paragraph(nodes []*nethtml.Node) []string {
	text := collapseSpace(r.inlineRun(nodes))
	if text == "" {
		return nil
	}
	return wrapText(text, r.width)
}

func (r *htmlArticleRenderer) heading(node *nethtml.Node, level int) []string {
	text := collapseSpace(r.inlineChildren(node))
	if text == "" {
		return nil
	}
	style := headingStyle(level)
	lines := wrapHanging(text, r.width, strings.Repeat("#", level)+" ")
	for i := range lines {
		lines[i] = style.Render(lines[i])
	}
	return lines
}

func (r *htmlArticleRenderer) quote(node *nethtml.Node, depth int) []string {
	width := r.width
	r.width = max(1, width-visibleLen(quoteBar))
	inner := r.renderFlow(childNodes(node), depth)
	r.width = width

	out := make([]string, len(inner))
	for i, line := range inner {
		if line == "" {
			continue
		}
		out[i] = quoteBar + quoteStyle.Render(line)
	}
	return out
}

func (r *htmlArticleRenderer) code(node *nethtml.Node) []string {
	src := strings.ReplaceAll(collectRawText(node), "\r\n", "\n")
	lines := strings.Split(src, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	lines = trimBlankLines(lines)
	if len(lines) == 0 {
		return nil
	}
	if r.opts.HighlightCode {
		lines = highlightCode(strings.Join(lines, "\n"))
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		if stripANSI(line) == "" {
			continue
		}
		out[i] = codeIndent + line
	}
	return out
}

func (r *htmlArticleRenderer) list(node *nethtml.Node, ordered bool, depth int) []string {
	var out []string
	n := 0
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode || !strings.EqualFold(child.Data, "li") {
			continue
		}
		n++
		marker := bulletFor(depth)
		if ordered {
			marker = fmt.Sprintf("%d. ", n)
		}
		out = append(out, r.listItem(child, marker, depth)...)
	}
	return out
}

// listItem renders the item text after marker and any nested lists one
// level deeper.
func (r *htmlArticleRenderer) listItem(node *nethtml.Node, marker string, depth int) []string {
	var inline, nested []*nethtml.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == nethtml.ElementNode && (strings.EqualFold(child.Data, "ul") || strings.EqualFold(child.Data, "ol")) {
			nested = append(nested, child)
			continue
		}
		inline = append(inline, child)
	}
	var out []string
	if text := collapseSpace(r.inlineRun(inline)); text != "" {
		out = wrapHanging(text, r.width, strings.Repeat("  ", depth)+marker)
	}
	for _, sub := range nested {
		out = append(out, r.list(sub, strings.EqualFold(sub.Data, "ol"), depth+1)...)
	}
	return out
}

func bulletFor(depth int) string {
	switch depth {
	case 0:
		return "• "
	case 1:
		return "◦ "
	default:
		return "▪ "
	}
}

// image renders a numbered placeholder; the detail view lists the actual
// URLs under the same numbers.
func (r *htmlArticleRenderer) image(node *nethtml.Node) []string {
	if r.opts.ImageMode == ImageModeNone {
		return nil
	}
	r.images++
	line := styleWords(fmt.Sprintf("▣ image %d", r.images), imageTagStyle)
	alt := collapseSpace(nodeAttr(node, "alt"))
	if alt == "" {
		alt = collapseSpace(nodeAttr(node, "title"))
	}
	if alt != "" {
		line += " " + styleWords(alt, imageAltStyle)
	}
	return wrapText(line, r.width)
}

func (r *htmlArticleRenderer) table(node *nethtml.Node) []string {
	var out []string
	forEachRow(node, func(row *nethtml.Node) {
		var cells []string
		for cell := row.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type != nethtml.ElementNode {
				continue
			}
			if tag := strings.ToLower(cell.Data); tag != "td" && tag != "th" {
				continue
			}
			cells = append(cells, collapseSpace(strings.ReplaceAll(r.inlineChildren(cell), "\n", " ")))
		}
		if len(cells) > 0 {
			out = append(out, wrapText(strings.Join(cells, cellSeparator), r.width)...)
		}
	})
	return out
}

func forEachRow(node *nethtml.Node, fn func(*nethtml.Node)) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != nethtml.ElementNode {
			continue
		}
		if strings.EqualFold(child.Data, "tr") {
			fn(child)
			continue
		}
		forEachRow(child, fn)
	}
}

// wrapHanging wraps text behind marker and indents continuation lines to
// the marker's width.
func wrapHanging(text string, width int, marker string) []string {
	indent := strings.Repeat(" ", visibleLen(marker))
	wrapped := wrapText(text, max(1, width-len(indent)))
	out := make([]string, len(wrapped))
	for i, line := range wrapped {
		if i == 0 {
			out[i] = marker + line
			continue
		}
		out[i] = indent + line
	}
	return out
}

func isBlockElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "address", "article", "aside", "blockquote", "dd", "div", "dl", "dt",
		"figcaption", "figure", "footer", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hr", "img", "li", "main", "nav", "ol", "p", "pre", "section",
		"table", "tbody", "td", "tfoot", "th", "thead", "tr", "ul":
		return true
	}
	return false
}
