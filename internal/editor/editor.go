package editor

import "strings"

// Position addresses a rune offset inside a block. Item selects the list
// item and is zero for every other kind.
type Position struct {
	Block  int
	Item   int
	Offset int
}

func (p Position) Before(q Position) bool {
	if p.Block != q.Block {
		return p.Block < q.Block
	}
	if p.Item != q.Item {
		return p.Item < q.Item
	}
	return p.Offset < q.Offset
}

func (p Position) sameUnit(q Position) bool {
	return p.Block == q.Block && p.Item == q.Item
}

type Selection struct {
	Anchor Position
	Focus  Position
}

func Caret(p Position) Selection {
	return Selection{Anchor: p, Focus: p}
}

func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// Bounds returns the selection start and end in document order.
func (s Selection) Bounds() (Position, Position) {
	if s.Focus.Before(s.Anchor) {
		return s.Focus, s.Anchor
	}
	return s.Anchor, s.Focus
}

type Motion int

const (
	MoveLeft Motion = iota
	MoveRight
	MoveUp
	MoveDown
	MoveHome
	MoveEnd
)

// Editor holds a document and the caret inside it. When the editor is not
// focused the selection is gone, as it is after any focus change; callers
// that open menus or prompts save it first and restore it afterwards.
type Editor struct {
	doc           Document
	sel           Selection
	focused       bool
	saved         *Selection
	ph            Placeholders
	maxImageBytes int64
}

func New(doc Document, ph Placeholders, maxImageBytes int64) *Editor {
	doc = doc.Clone()
	doc.Normalize()
	return &Editor{doc: doc, ph: ph, maxImageBytes: maxImageBytes}
}

// Document returns a copy of the current document.
func (e *Editor) Document() Document {
	return e.doc.Clone()
}

func (e *Editor) Placeholders() Placeholders {
	return e.ph
}

func (e *Editor) Focused() bool {
	return e.focused
}

func (e *Editor) Cursor() Position {
	return e.sel.Focus
}

func (e *Editor) Selection() (Selection, bool) {
	return e.sel, e.focused
}

// Focus enters the editor with the caret at the end of the document.
func (e *Editor) Focus() {
	if e.focused {
		return
	}
	e.focused = true
	e.sel = Caret(e.endOf(len(e.doc.Blocks) - 1))
}

// Blur leaves the editor and drops the selection.
func (e *Editor) Blur() {
	e.focused = false
	e.sel = Selection{}
}

func (e *Editor) SetCursor(p Position) {
	e.focused = true
	e.sel = Caret(e.clampPosition(p))
}

func (e *Editor) SetSelection(s Selection) {
	e.focused = true
	e.sel = Selection{Anchor: e.clampPosition(s.Anchor), Focus: e.clampPosition(s.Focus)}
}

// SaveSelection remembers the live selection so it survives a focus change.
func (e *Editor) SaveSelection() {
	if !e.focused {
		e.saved = nil
		return
	}
	saved := e.sel
	e.saved = &saved
}

// RestoreSelection brings back the saved selection and reports whether there
// was one.
func (e *Editor) RestoreSelection() bool {
	if e.saved == nil {
		return false
	}
	e.SetSelection(*e.saved)
	e.saved = nil
	return true
}

// SelectBlock selects the whole text of the block under the caret.
func (e *Editor) SelectBlock() {
	if !e.focused {
		return
	}
	b := e.sel.Focus.Block
	start := Position{Block: b}
	end := e.endOf(b)
	e.sel = Selection{Anchor: start, Focus: end}
}

// SelectedText returns the selected text. Selections spanning several
// blocks or items are joined with newlines.
func (e *Editor) SelectedText() string {
	if !e.focused || e.sel.Collapsed() {
		return ""
	}
	start, end := e.sel.Bounds()
	if start.sameUnit(end) {
		return sliceRunes(e.textAt(start), start.Offset, end.Offset)
	}

	var parts []string
	pos := start
	for {
		text := e.textAt(pos)
		if pos.sameUnit(end) {
			parts = append(parts, sliceRunes(text, 0, end.Offset))
			break
		}
		parts = append(parts, sliceRunes(text, pos.Offset, runeLen(text)))
		next, ok := e.nextUnit(pos)
		if !ok {
			break
		}
		pos = next
	}
	return strings.Join(parts, "\n")
}

// Move moves the caret. With extend the selection anchor stays put.
func (e *Editor) Move(m Motion, extend bool) {
	if !e.focused {
		e.Focus()
	}
	if !extend && !e.sel.Collapsed() {
		start, end := e.sel.Bounds()
		switch m {
		case MoveLeft:
			e.sel = Caret(start)
			return
		case MoveRight:
			e.sel = Caret(end)
			return
		}
	}

	pos := e.move(e.sel.Focus, m)
	if extend {
		e.sel.Focus = pos
		return
	}
	e.sel = Caret(pos)
}

func (e *Editor) move(pos Position, m Motion) Position {
	text := e.textAt(pos)
	switch m {
	case MoveLeft:
		if pos.Offset > 0 {
			pos.Offset--
			return pos
		}
		if prev, ok := e.prevUnit(pos); ok {
			prev.Offset = runeLen(e.textAt(prev))
			return prev
		}
	case MoveRight:
		if pos.Offset < runeLen(text) {
			pos.Offset++
			return pos
		}
		if next, ok := e.nextUnit(pos); ok {
			return next
		}
	case MoveUp:
		line, col := lineCol(text, pos.Offset)
		if line > 0 {
			pos.Offset = offsetAt(text, line-1, col)
			return pos
		}
		if prev, ok := e.prevUnit(pos); ok {
			prevText := e.textAt(prev)
			last := strings.Count(prevText, "\n")
			prev.Offset = offsetAt(prevText, last, col)
			return prev
		}
	case MoveDown:
		line, col := lineCol(text, pos.Offset)
		if line < strings.Count(text, "\n") {
			pos.Offset = offsetAt(text, line+1, col)
			return pos
		}
		if next, ok := e.nextUnit(pos); ok {
			next.Offset = offsetAt(e.textAt(next), 0, col)
			return next
		}
	case MoveHome:
		line, _ := lineCol(text, pos.Offset)
		pos.Offset = offsetAt(text, line, 0)
	case MoveEnd:
		line, _ := lineCol(text, pos.Offset)
		pos.Offset = offsetAt(text, line, runeLen(text))
	}
	return pos
}

func (e *Editor) textAt(pos Position) string {
	if pos.Block < 0 || pos.Block >= len(e.doc.Blocks) {
		return ""
	}
	b := e.doc.Blocks[pos.Block]
	if b.Kind == List {
		if pos.Item < 0 || pos.Item >= len(b.Items) {
			return ""
		}
		return b.Items[pos.Item]
	}
	return b.Text
}

func (e *Editor) setTextAt(pos Position, text string) {
	b := &e.doc.Blocks[pos.Block]
	if b.Kind == List {
		b.Items[pos.Item] = text
		return
	}
	b.Text = text
}

func (e *Editor) endOf(block int) Position {
	if block < 0 {
		return Position{}
	}
	b := e.doc.Blocks[block]
	if b.Kind == List {
		last := len(b.Items) - 1
		return Position{Block: block, Item: last, Offset: runeLen(b.Items[last])}
	}
	return Position{Block: block, Offset: runeLen(b.Text)}
}

func (e *Editor) prevUnit(pos Position) (Position, bool) {
	if e.doc.Blocks[pos.Block].Kind == List && pos.Item > 0 {
		return Position{Block: pos.Block, Item: pos.Item - 1}, true
	}
	if pos.Block == 0 {
		return pos, false
	}
	prev := e.endOf(pos.Block - 1)
	prev.Offset = 0
	return prev, true
}

func (e *Editor) nextUnit(pos Position) (Position, bool) {
	b := e.doc.Blocks[pos.Block]
	if b.Kind == List && pos.Item < len(b.Items)-1 {
		return Position{Block: pos.Block, Item: pos.Item + 1}, true
	}
	if pos.Block >= len(e.doc.Blocks)-1 {
		return pos, false
	}
	return Position{Block: pos.Block + 1}, true
}

func (e *Editor) clampPosition(p Position) Position {
	p.Block = clamp(p.Block, 0, len(e.doc.Blocks)-1)
	b := e.doc.Blocks[p.Block]
	if b.Kind == List {
		p.Item = clamp(p.Item, 0, len(b.Items)-1)
	} else {
		p.Item = 0
	}
	p.Offset = clamp(p.Offset, 0, runeLen(e.textAt(p)))
	return p
}

// lineCol converts a rune offset into a zero-based line and column.
func lineCol(text string, offset int) (int, int) {
	line, col := 0, 0
	for i, r := range []rune(text) {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return line, col
}

// offsetAt converts a line and column back into a rune offset, clamping the
// column to the line length.
func offsetAt(text string, line, col int) int {
	runes := []rune(text)
	offset := 0
	for l := 0; l < line && offset < len(runes); offset++ {
		if runes[offset] == '\n' {
			l++
		}
	}
	for c := 0; c < col && offset < len(runes) && runes[offset] != '\n'; c++ {
		offset++
	}
	return offset
}

// currentLine returns the text of the caret's line up to the caret.
func currentLine(text string, offset int) string {
	before := sliceRunes(text, 0, offset)
	if i := strings.LastIndex(before, "\n"); i >= 0 {
		return before[i+1:]
	}
	return before
}
