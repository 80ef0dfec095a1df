package editor

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"unicode/utf8"
)

// ErrValidation marks input the editor refuses: empty drafts, oversized or
// non-image files.
var ErrValidation = errors.New("validation failed")

var (
	ErrEmptyTitle    = fmt.Errorf("%w: title is empty", ErrValidation)
	ErrEmptyContent  = fmt.Errorf("%w: content is empty", ErrValidation)
	ErrImageTooLarge = fmt.Errorf("%w: image too large", ErrValidation)
	ErrNotImage      = fmt.Errorf("%w: not an image", ErrValidation)
	ErrTooManyImages = fmt.Errorf("%w: too many images", ErrValidation)
)

type Kind int

const (
	Paragraph Kind = iota
	Heading
	Quote
	Code
	List
)

func (k Kind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case Quote:
		return "quote"
	case Code:
		return "code"
	case List:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Image is an inline image. Src is either a remote reference or, while the
// image is staged, a data: URI.
type Image struct {
	Src string
	Alt string
}

func (img Image) Staged() bool {
	return strings.HasPrefix(img.Src, "data:")
}

// Block is one block-level node. Level applies to headings, Ordered and
// Items to lists, Image to paragraphs. Text holds everything else; code
// blocks keep their newlines.
//
// Inline maps a text of the block to the inline markup (links, bold) it was
// parsed from. Render uses it only while that text is unchanged, so an
// edited text is written back plain.
type Block struct {
	Kind    Kind
	Level   int
	Ordered bool
	Text    string
	Items   []string
	Image   *Image
	Inline  map[string]string
}

func EmptyParagraph() Block {
	return Block{Kind: Paragraph}
}

// IsEmptyParagraph reports a paragraph with no text and no image.
func (b Block) IsEmptyParagraph() bool {
	return b.Kind == Paragraph && b.Image == nil && strings.TrimSpace(b.Text) == ""
}

// PlainText is the block's text content as a reader would select it.
func (b Block) PlainText() string {
	if b.Kind == List {
		return strings.Join(b.Items, "\n")
	}
	return b.Text
}

func (b Block) clone() Block {
	out := b
	if b.Items != nil {
		out.Items = append([]string(nil), b.Items...)
	}
	if b.Image != nil {
		img := *b.Image
		out.Image = &img
	}
	out.Inline = maps.Clone(b.Inline)
	return out
}

func (b *Block) keepMarkup(text, markup string) {
	if text == "" || markup == inlineText(text) {
		return
	}
	if b.Inline == nil {
		b.Inline = make(map[string]string)
	}
	b.Inline[text] = markup
}

func (b Block) inlineHTML(text string) string {
	if markup, ok := b.Inline[text]; ok {
		return markup
	}
	return inlineText(text)
}

// Document is an ordered sequence of blocks holding at least one paragraph.
type Document struct {
	Blocks []Block
}

func NewDocument() Document {
	return Document{Blocks: []Block{EmptyParagraph()}}
}

// Normalize restores the document invariants: no empty lists, at least one
// paragraph.
func (d *Document) Normalize() {
	blocks := d.Blocks[:0]
	for _, b := range d.Blocks {
		if b.Kind == List && len(b.Items) == 0 {
			continue
		}
		blocks = append(blocks, b)
	}
	d.Blocks = blocks

	for _, b := range d.Blocks {
		if b.Kind == Paragraph {
			return
		}
	}
	d.Blocks = append(d.Blocks, EmptyParagraph())
}

func (d Document) Clone() Document {
	blocks := make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		blocks[i] = b.clone()
	}
	return Document{Blocks: blocks}
}

// Images returns the document's images in order.
func (d Document) Images() []Image {
	var out []Image
	for _, b := range d.Blocks {
		if b.Image != nil {
			out = append(out, *b.Image)
		}
	}
	return out
}

func (d Document) StagedCount() int {
	n := 0
	for _, img := range d.Images() {
		if img.Staged() {
			n++
		}
	}
	return n
}

// Blank reports a document with no images whose blocks hold nothing but
// whitespace or their placeholder text.
func (d Document) Blank(ph Placeholders) bool {
	for _, b := range d.Blocks {
		if b.Image != nil {
			return false
		}
		if b.Kind == List {
			for _, item := range b.Items {
				if text := strings.TrimSpace(item); text != "" && text != ph.ListItem {
					return false
				}
			}
			continue
		}
		text := strings.TrimSpace(b.Text)
		if text != "" && text != ph.For(b.Kind) {
			return false
		}
	}
	return true
}

func (d *Document) insert(at int, blocks ...Block) {
	if at > len(d.Blocks) {
		at = len(d.Blocks)
	}
	d.Blocks = append(d.Blocks[:at], append(append([]Block(nil), blocks...), d.Blocks[at:]...)...)
}

func (d *Document) remove(at int) {
	d.Blocks = append(d.Blocks[:at], d.Blocks[at+1:]...)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func insertRunes(s string, offset int, ins string) string {
	r := []rune(s)
	offset = clamp(offset, 0, len(r))
	return string(r[:offset]) + ins + string(r[offset:])
}

func deleteRunes(s string, from, to int) string {
	r := []rune(s)
	from = clamp(from, 0, len(r))
	to = clamp(to, from, len(r))
	return string(r[:from]) + string(r[to:])
}

func sliceRunes(s string, from, to int) string {
	r := []rune(s)
	from = clamp(from, 0, len(r))
	to = clamp(to, from, len(r))
	return string(r[from:to])
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
