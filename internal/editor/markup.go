package editor

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const emptyParagraphMarkup = "<p><br></p>"

// Render serializes the document to the HTML fragment stored as post
// content.
func Render(doc Document) string {
	var b strings.Builder
	for _, block := range doc.Blocks {
		renderBlock(&b, block)
	}
	return b.String()
}

func renderBlock(b *strings.Builder, block Block) {
	switch block.Kind {
	case Heading:
		level := clamp(block.Level, 1, 6)
		fmt.Fprintf(b, "<h%d>%s</h%d>", level, block.inlineHTML(block.Text), level)
	case Quote:
		b.WriteString("<blockquote>" + block.inlineHTML(block.Text) + "</blockquote>")
	case Code:
		b.WriteString("<pre>" + html.EscapeString(block.Text) + "</pre>")
	case List:
		tag := "ul"
		if block.Ordered {
			tag = "ol"
		}
		b.WriteString("<" + tag + ">")
		for _, item := range block.Items {
			b.WriteString("<li>" + block.inlineHTML(item) + "</li>")
		}
		b.WriteString("</" + tag + ">")
	default:
		if block.IsEmptyParagraph() {
			b.WriteString(emptyParagraphMarkup)
			return
		}
		b.WriteString("<p>")
		if block.Image != nil {
			fmt.Fprintf(b, `<img src="%s" alt="%s">`, html.EscapeString(block.Image.Src), html.EscapeString(block.Image.Alt))
		}
		b.WriteString(block.inlineHTML(block.Text))
		b.WriteString("</p>")
	}
}

func inlineText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// inlineTags are the inline elements kept in post markup. Other elements
// inside a block are unwrapped to their children.
var inlineTags = map[atom.Atom]bool{
	atom.A: true, atom.B: true, atom.Strong: true, atom.I: true, atom.Em: true,
	atom.U: true, atom.S: true, atom.Code: true,
}

func openTag(n *html.Node) string {
	if n.DataAtom != atom.A {
		return "<" + n.Data + ">"
	}
	href := attr(n, "href")
	if href == "" || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "<a>"
	}
	return `<a href="` + html.EscapeString(href) + `">`
}

func closeTag(n *html.Node) string {
	return "</" + n.Data + ">"
}

// Parse reads post content into a document. Every image ends up in a
// paragraph of its own: images inside headings, quotes and list items are
// lifted out and follow their block. Inline markup is kept per block until
// its text is edited.
func Parse(content string) (Document, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), root)
	if err != nil {
		return Document{}, fmt.Errorf("parse content: %w", err)
	}

	p := parser{}
	for _, n := range nodes {
		p.node(n)
	}
	p.flush()

	doc := Document{Blocks: p.blocks}
	doc.Normalize()
	return doc, nil
}

// parser builds paragraphs incrementally. open holds the inline elements
// being walked so a paragraph split inside one closes and reopens it.
type parser struct {
	blocks []Block
	inline *Block
	markup strings.Builder
	open   []*html.Node
}

func (p *parser) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if p.inline == nil && strings.TrimSpace(n.Data) == "" {
			return
		}
		p.current().Text += n.Data
		p.markup.WriteString(html.EscapeString(n.Data))
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title:
		return
	case atom.P, atom.Div:
		p.flush()
		p.start(&Block{Kind: Paragraph})
		p.children(n)
		p.flush()
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		p.flush()
		p.flattened(Block{Kind: Heading, Level: int(n.Data[1] - '0')}, n)
	case atom.Blockquote:
		p.flush()
		p.flattened(Block{Kind: Quote}, n)
	case atom.Pre:
		p.flush()
		p.blocks = append(p.blocks, Block{Kind: Code, Text: rawText(n)})
	case atom.Ul, atom.Ol:
		p.flush()
		p.list(n)
	case atom.Img:
		p.image(n)
	case atom.Br:
		p.current().Text += "\n"
		p.markup.WriteString("<br>")
	case atom.Table, atom.Hr, atom.Figure, atom.Section, atom.Article:
		p.flush()
		p.children(n)
		p.flush()
	default:
		if !inlineTags[n.DataAtom] {
			p.children(n)
			return
		}
		p.open = append(p.open, n)
		if p.inline != nil {
			p.markup.WriteString(openTag(n))
		}
		p.children(n)
		p.open = p.open[:len(p.open)-1]
		if p.inline != nil {
			p.markup.WriteString(closeTag(n))
		}
	}
}

func (p *parser) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.node(c)
	}
}

// flattened appends a heading or quote read from n, followed by paragraphs
// for the images inside it.
func (p *parser) flattened(b Block, n *html.Node) {
	text, markup, images := flatten(n)
	b.Text = strings.TrimSpace(text)
	if b.Text != "" || len(images) == 0 {
		b.keepMarkup(b.Text, trimMarkup(markup))
		p.blocks = append(p.blocks, b)
	}
	p.images(images)
}

func (p *parser) list(n *html.Node) {
	list := Block{Kind: List, Ordered: n.DataAtom == atom.Ol}
	var images []*Image
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		text, markup, imgs := flatten(c)
		images = append(images, imgs...)
		text = strings.TrimSpace(text)
		if text == "" && len(imgs) > 0 {
			continue
		}
		list.Items = append(list.Items, text)
		list.keepMarkup(text, trimMarkup(markup))
	}
	if len(list.Items) > 0 {
		p.blocks = append(p.blocks, list)
	}
	p.images(images)
}

func (p *parser) images(images []*Image) {
	for _, img := range images {
		p.blocks = append(p.blocks, Block{Kind: Paragraph, Image: img})
	}
}

// image puts img on the current paragraph when that holds nothing yet and
// starts a new paragraph otherwise.
func (p *parser) image(n *html.Node) {
	img := imageOf(n)
	if img == nil {
		return
	}
	cur := p.current()
	if cur.Image == nil && strings.TrimSpace(cur.Text) == "" {
		cur.Text = ""
		p.start(cur)
		cur.Image = img
		return
	}
	p.flush()
	p.start(&Block{Kind: Paragraph, Image: img})
}

func (p *parser) start(b *Block) {
	p.inline = b
	p.markup.Reset()
	for _, n := range p.open {
		p.markup.WriteString(openTag(n))
	}
}

func (p *parser) current() *Block {
	if p.inline == nil {
		p.start(&Block{Kind: Paragraph})
	}
	return p.inline
}

func (p *parser) flush() {
	if p.inline == nil {
		return
	}
	for i := len(p.open) - 1; i >= 0; i-- {
		p.markup.WriteString(closeTag(p.open[i]))
	}
	block := *p.inline
	p.inline = nil
	if strings.TrimSpace(block.Text) == "" {
		block.Text = ""
	}
	block.keepMarkup(block.Text, p.markup.String())
	p.blocks = append(p.blocks, block)
}

// flatten reads the inline content of a heading, quote or list item. The
// images it meets are returned separately; nested blocks become line breaks.
func flatten(n *html.Node) (string, string, []*Image) {
	var text, markup strings.Builder
	var images []*Image
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
			markup.WriteString(html.EscapeString(n.Data))
			return
		case html.ElementNode:
		default:
			return
		}
		switch {
		case n.DataAtom == atom.Script || n.DataAtom == atom.Style:
			return
		case n.DataAtom == atom.Br:
			text.WriteString("\n")
			markup.WriteString("<br>")
			return
		case n.DataAtom == atom.Img:
			if img := imageOf(n); img != nil {
				images = append(images, img)
			}
			return
		case inlineTags[n.DataAtom]:
			markup.WriteString(openTag(n))
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			markup.WriteString(closeTag(n))
			return
		case (n.DataAtom == atom.P || n.DataAtom == atom.Div || n.DataAtom == atom.Li) &&
			strings.TrimSpace(text.String()) != "" && !strings.HasSuffix(text.String(), "\n"):
			text.WriteString("\n")
			markup.WriteString("<br>")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return text.String(), markup.String(), images
}

// trimMarkup strips the whitespace and line breaks around flattened markup,
// mirroring the trimmed text.
func trimMarkup(m string) string {
	for {
		t := strings.TrimSpace(m)
		t = strings.TrimPrefix(t, "<br>")
		t = strings.TrimSuffix(t, "<br>")
		if t == m {
			return t
		}
		m = t
	}
}

func imageOf(n *html.Node) *Image {
	src := attr(n, "src")
	if src == "" {
		return nil
	}
	return &Image{Src: src, Alt: attr(n, "alt")}
}

// rawText is the text of n without <br> conversion, as code blocks keep
// their own newlines.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
