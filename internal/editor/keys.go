package editor

import "strings"

const codeIndent = "    "

var closingBrackets = map[string]string{
	"{": "}",
	"(": ")",
}

// InsertText types s at the caret, replacing any selection. Outside code
// blocks each newline acts like Enter.
func (e *Editor) InsertText(s string) {
	if s == "" {
		return
	}
	if !e.focused {
		e.Focus()
	}
	e.deleteSelection()

	if e.inCode() {
		if closing, ok := closingBrackets[s]; ok {
			e.pairBracket(s, closing)
			return
		}
		e.insertAtCaret(s)
		return
	}

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			e.Enter()
		}
		if line != "" {
			e.insertAtCaret(line)
		}
	}
}

// pairBracket writes open, a blank indented line and closing, leaving the
// caret on the blank line.
func (e *Editor) pairBracket(open, closing string) {
	pos := e.sel.Focus
	e.insertAtCaret(open + "\n" + codeIndent + "\n" + closing)
	pos.Offset += runeLen(open + "\n" + codeIndent)
	e.sel = Caret(pos)
}

// Enter handles the Enter key. In code blocks it starts a new line with the
// current indentation. Everywhere else, lists included, it inserts an empty
// paragraph after the current block and moves the caret there.
func (e *Editor) Enter() {
	if !e.focused {
		e.doc.insert(len(e.doc.Blocks), EmptyParagraph())
		e.SetCursor(Position{Block: len(e.doc.Blocks) - 1})
		return
	}
	e.deleteSelection()

	pos := e.sel.Focus
	block := e.doc.Blocks[pos.Block]
	switch block.Kind {
	case Code:
		line := currentLine(block.Text, pos.Offset)
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		e.insertAtCaret("\n" + indent)
	default:
		e.doc.insert(pos.Block+1, EmptyParagraph())
		e.sel = Caret(Position{Block: pos.Block + 1})
	}
}

// NewListItem splits the list item at the caret into two. On an empty last
// item it leaves the list for a new paragraph instead. Outside lists it is
// Enter.
func (e *Editor) NewListItem() {
	if !e.focused {
		e.Enter()
		return
	}
	e.deleteSelection()
	pos := e.sel.Focus
	if e.doc.Blocks[pos.Block].Kind != List {
		e.Enter()
		return
	}
	b := &e.doc.Blocks[pos.Block]
	item := b.Items[pos.Item]
	last := pos.Item == len(b.Items)-1

	if last && strings.TrimSpace(item) == "" && len(b.Items) > 1 {
		b.Items = b.Items[:pos.Item]
		e.doc.insert(pos.Block+1, EmptyParagraph())
		e.sel = Caret(Position{Block: pos.Block + 1})
		return
	}

	head := sliceRunes(item, 0, pos.Offset)
	tail := sliceRunes(item, pos.Offset, runeLen(item))
	items := append([]string(nil), b.Items[:pos.Item]...)
	items = append(items, head, tail)
	items = append(items, b.Items[pos.Item+1:]...)
	b.Items = items
	e.sel = Caret(Position{Block: pos.Block, Item: pos.Item + 1})
}

// Tab indents inside code blocks and reports whether it was consumed.
func (e *Editor) Tab() bool {
	if !e.focused || !e.inCode() {
		return false
	}
	e.deleteSelection()
	e.insertAtCaret(codeIndent)
	return true
}

// Backspace deletes the selection or the rune before the caret. At the start
// of a block it removes the block's image, or joins the block with the
// previous one.
func (e *Editor) Backspace() {
	if !e.focused {
		return
	}
	if !e.sel.Collapsed() {
		e.deleteSelection()
		return
	}

	pos := e.sel.Focus
	if pos.Offset > 0 {
		e.setTextAt(pos, deleteRunes(e.textAt(pos), pos.Offset-1, pos.Offset))
		pos.Offset--
		e.sel = Caret(pos)
		return
	}

	block := &e.doc.Blocks[pos.Block]
	if block.Image != nil {
		block.Image = nil
		return
	}
	if block.Kind == List && pos.Item > 0 {
		prev := block.Items[pos.Item-1]
		block.Items[pos.Item-1] = prev + block.Items[pos.Item]
		block.Items = append(block.Items[:pos.Item], block.Items[pos.Item+1:]...)
		e.sel = Caret(Position{Block: pos.Block, Item: pos.Item - 1, Offset: runeLen(prev)})
		return
	}
	if pos.Block == 0 {
		return
	}
	if block.Kind == List && len(block.Items) > 1 {
		first := block.Items[0]
		block.Items = block.Items[1:]
		end := e.endOf(pos.Block - 1)
		e.setTextAt(end, e.textAt(end)+first)
		e.sel = Caret(end)
		return
	}

	text := block.PlainText()
	e.doc.remove(pos.Block)
	end := e.endOf(pos.Block - 1)
	if text != "" {
		e.setTextAt(end, e.textAt(end)+text)
	}
	e.doc.Normalize()
	e.sel = Caret(e.clampPosition(end))
}

func (e *Editor) inCode() bool {
	return e.doc.Blocks[e.sel.Focus.Block].Kind == Code
}

func (e *Editor) insertAtCaret(s string) {
	pos := e.sel.Focus
	e.setTextAt(pos, insertRunes(e.textAt(pos), pos.Offset, s))
	pos.Offset += runeLen(s)
	e.sel = Caret(pos)
}

// deleteSelection removes the selected text. A selection that crosses
// blocks keeps the start block and drops everything up to the end.
func (e *Editor) deleteSelection() {
	if e.sel.Collapsed() {
		return
	}
	start, end := e.sel.Bounds()
	if start.sameUnit(end) {
		e.setTextAt(start, deleteRunes(e.textAt(start), start.Offset, end.Offset))
		e.sel = Caret(start)
		return
	}

	tail := sliceRunes(e.textAt(end), end.Offset, runeLen(e.textAt(end)))
	e.setTextAt(start, sliceRunes(e.textAt(start), 0, start.Offset)+tail)

	if start.Block == end.Block {
		b := &e.doc.Blocks[start.Block]
		b.Items = append(b.Items[:start.Item+1], b.Items[end.Item+1:]...)
	} else {
		if b := &e.doc.Blocks[end.Block]; b.Kind == List && end.Item < len(b.Items)-1 {
			b.Items = b.Items[end.Item+1:]
			end.Block--
		}
		if b := &e.doc.Blocks[start.Block]; b.Kind == List {
			b.Items = b.Items[:start.Item+1]
		}
		e.doc.Blocks = append(e.doc.Blocks[:start.Block+1], e.doc.Blocks[end.Block+1:]...)
	}
	e.doc.Normalize()
	e.sel = Caret(e.clampPosition(start))
}
