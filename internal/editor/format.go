package editor

import (
	"fmt"
	"strings"
)

type FormatKind string

const (
	FormatHeading2      FormatKind = "heading-2"
	FormatHeading3      FormatKind = "heading-3"
	FormatQuote         FormatKind = "quote"
	FormatCode          FormatKind = "code"
	FormatOrderedList   FormatKind = "ordered-list"
	FormatUnorderedList FormatKind = "unordered-list"
	FormatImagePrompt   FormatKind = "image-prompt"
)

// FormatKinds lists the toolbar actions in menu order.
var FormatKinds = []FormatKind{
	FormatHeading2,
	FormatHeading3,
	FormatQuote,
	FormatCode,
	FormatOrderedList,
	FormatUnorderedList,
	FormatImagePrompt,
}

type FormatResult struct {
	// OpenPicker asks the caller to open the image picker. The document is
	// left untouched.
	OpenPicker bool
	// Block is the index of the inserted block.
	Block int
}

// ApplyFormat inserts a new block built from the selection. An empty
// paragraph under the caret, or a block whose whole text is selected, is
// replaced; any other block gets the new one right after it. Outside the
// editor the block is appended. A fresh empty paragraph always follows the
// new block and receives the caret.
func (e *Editor) ApplyFormat(kind FormatKind) (FormatResult, error) {
	if kind == FormatImagePrompt {
		return FormatResult{OpenPicker: true}, nil
	}

	selected := e.SelectedText()
	block, err := e.newBlock(kind, selected)
	if err != nil {
		return FormatResult{}, err
	}

	at := len(e.doc.Blocks)
	if e.focused {
		cur := e.sel.Focus.Block
		current := e.doc.Blocks[cur]
		switch {
		case selected != "" && strings.TrimSpace(current.PlainText()) == strings.TrimSpace(selected) && current.Image == nil:
			e.doc.remove(cur)
			at = cur
		case current.IsEmptyParagraph():
			e.doc.remove(cur)
			at = cur
		default:
			at = cur + 1
		}
	}

	e.doc.insert(at, block, EmptyParagraph())
	e.doc.Normalize()
	e.SetCursor(Position{Block: at + 1})
	return FormatResult{Block: at}, nil
}

func (e *Editor) newBlock(kind FormatKind, selected string) (Block, error) {
	text := func(k Kind) string {
		if selected != "" {
			return selected
		}
		return e.ph.For(k)
	}

	switch kind {
	case FormatHeading2:
		return Block{Kind: Heading, Level: 2, Text: singleLine(text(Heading))}, nil
	case FormatHeading3:
		return Block{Kind: Heading, Level: 3, Text: singleLine(text(Heading))}, nil
	case FormatQuote:
		return Block{Kind: Quote, Text: text(Quote)}, nil
	case FormatCode:
		return Block{Kind: Code, Text: text(Code)}, nil
	case FormatOrderedList, FormatUnorderedList:
		return Block{
			Kind:    List,
			Ordered: kind == FormatOrderedList,
			Items:   strings.Split(text(List), "\n"),
		}, nil
	default:
		return Block{}, fmt.Errorf("unknown format %q", kind)
	}
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
