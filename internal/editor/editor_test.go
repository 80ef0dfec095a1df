package editor

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testMaxImage = 5 * 1024 * 1024

func newTestEditor(blocks ...Block) *Editor {
	return New(Document{Blocks: blocks}, PlaceholdersFor("ko"), testMaxImage)
}

func kinds(doc Document) []Kind {
	out := make([]Kind, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		out = append(out, b.Kind)
	}
	return out
}

func sameKinds(got []Kind, want ...Kind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNew_EmptyDocumentGetsParagraph(t *testing.T) {
	e := New(Document{}, PlaceholdersFor("ko"), testMaxImage)
	doc := e.Document()
	if len(doc.Blocks) != 1 || !doc.Blocks[0].IsEmptyParagraph() {
		t.Fatalf("expected one empty paragraph, got %+v", doc.Blocks)
	}
	if Render(doc) != "<p><br></p>" {
		t.Fatalf("unexpected markup: %s", Render(doc))
	}
}

func TestApplyFormat_EmptyParagraphIsReplaced(t *testing.T) {
	for _, kind := range []FormatKind{FormatHeading2, FormatQuote, FormatCode} {
		t.Run(string(kind), func(t *testing.T) {
			e := newTestEditor(Block{Kind: Paragraph, Text: "intro"}, EmptyParagraph())
			e.SetCursor(Position{Block: 1})

			res, err := e.ApplyFormat(kind)
			if err != nil {
				t.Fatalf("ApplyFormat returned error: %v", err)
			}
			doc := e.Document()
			if len(doc.Blocks) != 3 || res.Block != 1 {
				t.Fatalf("expected replacement at 1, got %d blocks at %d", len(doc.Blocks), res.Block)
			}
			if doc.Blocks[1].Kind == Paragraph || !doc.Blocks[2].IsEmptyParagraph() {
				t.Fatalf("unexpected blocks: %+v", doc.Blocks)
			}
			if e.Cursor() != (Position{Block: 2}) {
				t.Fatalf("caret must move into the trailing paragraph, got %+v", e.Cursor())
			}
		})
	}
}

func TestApplyFormat_NonEmptyBlockGetsNewBlockAfter(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "first"}, Block{Kind: Paragraph, Text: "second"})
	e.SetCursor(Position{Block: 0, Offset: 2})

	if _, err := e.ApplyFormat(FormatHeading3); err != nil {
		t.Fatalf("ApplyFormat returned error: %v", err)
	}
	doc := e.Document()
	if !sameKinds(kinds(doc), Paragraph, Heading, Paragraph, Paragraph) {
		t.Fatalf("unexpected kinds: %v", kinds(doc))
	}
	if doc.Blocks[0].Text != "first" || doc.Blocks[1].Level != 3 || doc.Blocks[1].Text != "제목" {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
	if !doc.Blocks[2].IsEmptyParagraph() || doc.Blocks[3].Text != "second" {
		t.Fatalf("expected trailing empty paragraph before the next block: %+v", doc.Blocks)
	}
	if e.Cursor() != (Position{Block: 2}) {
		t.Fatalf("unexpected caret: %+v", e.Cursor())
	}
}

func TestApplyFormat_PlaceholdersPerKind(t *testing.T) {
	cases := map[FormatKind]Block{
		FormatHeading2:      {Kind: Heading, Level: 2, Text: "제목"},
		FormatQuote:         {Kind: Quote, Text: ""},
		FormatCode:          {Kind: Code, Text: `print("Hello, World!")`},
		FormatUnorderedList: {Kind: List, Items: []string{"목록"}},
	}
	for kind, want := range cases {
		e := newTestEditor(EmptyParagraph())
		e.SetCursor(Position{})
		if _, err := e.ApplyFormat(kind); err != nil {
			t.Fatalf("%s: ApplyFormat returned error: %v", kind, err)
		}
		got := e.Document().Blocks[0]
		if got.Kind != want.Kind || got.Text != want.Text || got.Level != want.Level || strings.Join(got.Items, "|") != strings.Join(want.Items, "|") {
			t.Fatalf("%s: got %+v, want %+v", kind, got, want)
		}
	}
}

func TestApplyFormat_SelectedTextBecomesContent(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "hello world"})
	e.SetSelection(Selection{Anchor: Position{Offset: 6}, Focus: Position{Offset: 11}})

	if _, err := e.ApplyFormat(FormatQuote); err != nil {
		t.Fatalf("ApplyFormat returned error: %v", err)
	}
	doc := e.Document()
	if doc.Blocks[0].Text != "hello world" || doc.Blocks[1].Kind != Quote || doc.Blocks[1].Text != "world" {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
}

func TestApplyFormat_WholeBlockSelectionReplacesBlock(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "Title line"}, Block{Kind: Paragraph, Text: "body"})
	e.SetCursor(Position{Block: 0, Offset: 3})
	e.SelectBlock()

	if _, err := e.ApplyFormat(FormatHeading2); err != nil {
		t.Fatalf("ApplyFormat returned error: %v", err)
	}
	doc := e.Document()
	if !sameKinds(kinds(doc), Heading, Paragraph, Paragraph) || doc.Blocks[0].Text != "Title line" {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
}

func TestApplyFormat_OutsideEditorAppends(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "only"})

	if _, err := e.ApplyFormat(FormatCode); err != nil {
		t.Fatalf("ApplyFormat returned error: %v", err)
	}
	doc := e.Document()
	if !sameKinds(kinds(doc), Paragraph, Code, Paragraph) {
		t.Fatalf("unexpected kinds: %v", kinds(doc))
	}
	if !e.Focused() || e.Cursor() != (Position{Block: 2}) {
		t.Fatalf("unexpected caret: %+v", e.Cursor())
	}
}

func TestApplyFormat_ImagePromptDoesNotMutate(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "x"})
	e.SetCursor(Position{Offset: 1})
	before := Render(e.Document())

	res, err := e.ApplyFormat(FormatImagePrompt)
	if err != nil || !res.OpenPicker {
		t.Fatalf("expected picker request, got %+v %v", res, err)
	}
	if Render(e.Document()) != before {
		t.Fatal("image prompt must not mutate the document")
	}
}

func TestSelection_SaveAndRestoreAcrossBlur(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "keep me"}, Block{Kind: Paragraph, Text: "other"})
	e.SetSelection(Selection{Anchor: Position{Offset: 0}, Focus: Position{Offset: 4}})

	e.SaveSelection()
	e.Blur()
	if e.SelectedText() != "" {
		t.Fatal("blur must drop the live selection")
	}
	if !e.RestoreSelection() {
		t.Fatal("expected saved selection")
	}
	if got := e.SelectedText(); got != "keep" {
		t.Fatalf("unexpected restored selection: %q", got)
	}
	if e.RestoreSelection() {
		t.Fatal("a saved selection restores once")
	}
}

func TestCode_BracketPairing(t *testing.T) {
	for open, closing := range map[string]string{"{": "}", "(": ")"} {
		e := newTestEditor(Block{Kind: Code, Text: "func main() "}, EmptyParagraph())
		e.SetCursor(Position{Offset: runeLen("func main() ")})

		e.InsertText(open)

		want := "func main() " + open + "\n    \n" + closing
		doc := e.Document()
		if doc.Blocks[0].Text != want {
			t.Fatalf("unexpected code text: %q", doc.Blocks[0].Text)
		}
		if e.Cursor().Offset != runeLen("func main() "+open+"\n    ") {
			t.Fatalf("caret must sit on the blank line, got offset %d", e.Cursor().Offset)
		}
		e.InsertText("x")
		if got := e.Document().Blocks[0].Text; got != "func main() "+open+"\n    x\n"+closing {
			t.Fatalf("typing after pairing landed elsewhere: %q", got)
		}
	}
}

func TestCode_EnterKeepsIndentation(t *testing.T) {
	e := newTestEditor(Block{Kind: Code, Text: "if x {\n    call()"}, EmptyParagraph())
	e.SetCursor(Position{Offset: runeLen("if x {\n    call()")})

	e.Enter()

	doc := e.Document()
	if doc.Blocks[0].Text != "if x {\n    call()\n    " {
		t.Fatalf("unexpected code text: %q", doc.Blocks[0].Text)
	}
	if len(doc.Blocks) != 2 {
		t.Fatal("enter in code must not add blocks")
	}
	if e.Cursor().Offset != runeLen(doc.Blocks[0].Text) {
		t.Fatalf("unexpected caret: %+v", e.Cursor())
	}
}

func TestCode_TabInsertsFourSpaces(t *testing.T) {
	e := newTestEditor(Block{Kind: Code, Text: "x"}, EmptyParagraph())
	e.SetCursor(Position{})

	if !e.Tab() {
		t.Fatal("tab must be consumed in code blocks")
	}
	if got := e.Document().Blocks[0].Text; got != "    x" {
		t.Fatalf("unexpected code text: %q", got)
	}

	e.SetCursor(Position{Block: 1})
	if e.Tab() {
		t.Fatal("tab outside code must not be consumed")
	}
}

func TestEnter_InsertsEmptyParagraphAfterBlock(t *testing.T) {
	e := newTestEditor(Block{Kind: Heading, Level: 2, Text: "Title"}, Block{Kind: Paragraph, Text: "tail"})
	e.SetCursor(Position{Offset: 2})

	e.Enter()

	doc := e.Document()
	if !sameKinds(kinds(doc), Heading, Paragraph, Paragraph) {
		t.Fatalf("unexpected kinds: %v", kinds(doc))
	}
	if doc.Blocks[0].Text != "Title" || !doc.Blocks[1].IsEmptyParagraph() {
		t.Fatalf("enter must not split the block: %+v", doc.Blocks)
	}
	if e.Cursor() != (Position{Block: 1}) {
		t.Fatalf("unexpected caret: %+v", e.Cursor())
	}
}

func TestEnter_OutsideEditorAppendsParagraph(t *testing.T) {
	e := newTestEditor(Block{Kind: Quote, Text: "q"}, Block{Kind: Paragraph, Text: "p"})

	e.Enter()

	doc := e.Document()
	if len(doc.Blocks) != 3 || !doc.Blocks[2].IsEmptyParagraph() || e.Cursor() != (Position{Block: 2}) {
		t.Fatalf("unexpected result: %+v caret %+v", doc.Blocks, e.Cursor())
	}
}

func TestEnter_LeavesListForParagraph(t *testing.T) {
	e := newTestEditor(Block{Kind: List, Items: []string{"one", "two"}}, Block{Kind: Paragraph, Text: "after"})
	e.SetCursor(Position{Item: 0, Offset: 3})

	e.Enter()
	doc := e.Document()
	if strings.Join(doc.Blocks[0].Items, "|") != "one|two" {
		t.Fatalf("Enter must not touch the list items: %v", doc.Blocks[0].Items)
	}
	if !sameKinds(kinds(doc), List, Paragraph, Paragraph) || !doc.Blocks[1].IsEmptyParagraph() || e.Cursor() != (Position{Block: 1}) {
		t.Fatalf("unexpected result: %v caret %+v", kinds(doc), e.Cursor())
	}
}

func TestNewListItem_SplitsItemsAndLeavesFromEmptyLast(t *testing.T) {
	e := newTestEditor(Block{Kind: List, Items: []string{"one"}}, EmptyParagraph())
	e.SetCursor(Position{Offset: 3})

	e.NewListItem()
	e.InsertText("two")
	if got := e.Document().Blocks[0].Items; strings.Join(got, "|") != "one|two" {
		t.Fatalf("unexpected items: %v", got)
	}

	e.NewListItem()
	e.NewListItem()
	doc := e.Document()
	if strings.Join(doc.Blocks[0].Items, "|") != "one|two" {
		t.Fatalf("empty last item must leave the list: %v", doc.Blocks[0].Items)
	}
	if !sameKinds(kinds(doc), List, Paragraph, Paragraph) || e.Cursor() != (Position{Block: 1}) {
		t.Fatalf("unexpected result: %v caret %+v", kinds(doc), e.Cursor())
	}

	e.NewListItem()
	if !sameKinds(kinds(e.Document()), List, Paragraph, Paragraph, Paragraph) || e.Cursor() != (Position{Block: 2}) {
		t.Fatalf("outside lists NewListItem is Enter: %v caret %+v", kinds(e.Document()), e.Cursor())
	}
}

func TestInsertText_ReplacesSelectionAndSplitsLines(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "hello world"})
	e.SetSelection(Selection{Anchor: Position{Offset: 6}, Focus: Position{Offset: 11}})

	e.InsertText("there\nnext")

	doc := e.Document()
	if doc.Blocks[0].Text != "hello there" || doc.Blocks[1].Text != "next" {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
}

func TestBackspace_JoinsBlocksAndRemovesImages(t *testing.T) {
	e := newTestEditor(
		Block{Kind: Paragraph, Text: "ab"},
		Block{Kind: Paragraph, Text: "cd"},
		Block{Kind: Paragraph, Image: &Image{Src: "https://x/y.png"}},
	)

	e.SetCursor(Position{Block: 1})
	e.Backspace()
	doc := e.Document()
	if len(doc.Blocks) != 2 || doc.Blocks[0].Text != "abcd" || e.Cursor() != (Position{Block: 0, Offset: 2}) {
		t.Fatalf("unexpected join: %+v caret %+v", doc.Blocks, e.Cursor())
	}

	e.SetCursor(Position{Block: 1})
	e.Backspace()
	if e.Document().Blocks[1].Image != nil {
		t.Fatal("backspace at an image paragraph start must drop the image")
	}

	e.SetCursor(Position{Block: 0, Offset: 4})
	e.Backspace()
	if got := e.Document().Blocks[0].Text; got != "abc" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestMove_AcrossBlocksAndCodeLines(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "ab"}, Block{Kind: Code, Text: "line1\nl2"})
	e.SetCursor(Position{Block: 0, Offset: 2})

	e.Move(MoveRight, false)
	if e.Cursor() != (Position{Block: 1}) {
		t.Fatalf("unexpected caret: %+v", e.Cursor())
	}
	e.Move(MoveEnd, false)
	e.Move(MoveDown, false)
	if e.Cursor().Offset != runeLen("line1\nl2") {
		t.Fatalf("down must clamp to the shorter line: %+v", e.Cursor())
	}
	e.Move(MoveUp, false)
	e.Move(MoveUp, false)
	if e.Cursor().Block != 0 {
		t.Fatalf("expected caret back in first block: %+v", e.Cursor())
	}

	e.SetCursor(Position{Block: 0})
	e.Move(MoveRight, true)
	if e.SelectedText() != "a" {
		t.Fatalf("unexpected selection: %q", e.SelectedText())
	}
}

func TestStageImage_InsertsAfterCaretBlock(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "before"}, Block{Kind: Paragraph, Text: "after"})
	e.SetCursor(Position{Offset: 3})

	if err := e.StageImage("photo.png", pngBytes(t)); err != nil {
		t.Fatalf("StageImage returned error: %v", err)
	}
	doc := e.Document()
	if len(doc.Blocks) != 4 || doc.Blocks[1].Image == nil || !doc.Blocks[2].IsEmptyParagraph() {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
	if !strings.HasPrefix(doc.Blocks[1].Image.Src, "data:image/png;base64,") {
		t.Fatalf("expected data URI, got %s", doc.Blocks[1].Image.Src[:20])
	}
	if e.Cursor() != (Position{Block: 2}) {
		t.Fatalf("unexpected caret: %+v", e.Cursor())
	}
}

func TestStageImage_OutsideEditorAppends(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "text"})

	if err := e.StageImage("photo.png", pngBytes(t)); err != nil {
		t.Fatalf("StageImage returned error: %v", err)
	}
	doc := e.Document()
	if len(doc.Blocks) != 3 || doc.Blocks[1].Image == nil || !doc.Blocks[2].IsEmptyParagraph() {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
}

func TestStageImage_RejectsOversizedWithoutMutation(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "text"})
	e.SetCursor(Position{Offset: 2})
	before := Render(e.Document())

	data := append(pngBytes(t), make([]byte, 6*1024*1024)...)
	err := e.StageImage("huge.png", data)
	if !errors.Is(err, ErrImageTooLarge) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
	if Render(e.Document()) != before {
		t.Fatal("rejected image must not mutate the document")
	}
}

func TestStageImage_RejectsNonImages(t *testing.T) {
	e := newTestEditor(Block{Kind: Paragraph, Text: "text"})

	err := e.StageImage("notes.png", []byte("just some text"))
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
	if len(e.Document().Blocks) != 1 {
		t.Fatal("rejected file must not mutate the document")
	}
}

func TestStageFile_ChecksSizeBeforeReading(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.png")
	if err := os.WriteFile(big, make([]byte, 2048), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	small := filepath.Join(dir, "small.png")
	if err := os.WriteFile(small, pngBytes(t), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	e := New(NewDocument(), PlaceholdersFor("en"), 1024)
	if err := e.StageFile(big); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
	if err := e.StageFile(small); err != nil {
		t.Fatalf("StageFile returned error: %v", err)
	}
	if imgs := e.Document().Images(); len(imgs) != 1 || imgs[0].Alt != "small.png" {
		t.Fatalf("unexpected images: %+v", imgs)
	}
}

func TestDataURI_RoundTrip(t *testing.T) {
	uri := DataURI("image/png", []byte{1, 2, 3})
	mimeType, data, err := DecodeDataURI(uri)
	if err != nil || mimeType != "image/png" || !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Fatalf("unexpected decode: %q %v %v", mimeType, data, err)
	}
	if _, _, err := DecodeDataURI("https://x/y.png"); err == nil {
		t.Fatal("expected error for non-data URI")
	}
}
