package tui

import (
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/tui/actions"
)

// openEditor starts an editing session. A nil original writes a new post.
func (m *Model) openEditor(original *feed.Post) {
	doc := editor.NewDocument()
	title := ""
	m.editOriginal = nil
	if original != nil {
		parsed, err := editor.Parse(original.Content)
		if err != nil {
			m.log.Warn().Err(err).Str("timestamp", original.Timestamp).Msg("post content did not parse, editing from blank")
		} else {
			doc = parsed
		}
		title = original.Title
		post := *original
		m.editOriginal = &post
	}

	m.ed = editor.New(doc, editor.PlaceholdersFor(m.locale), m.maxImageBytes)
	m.titleInput.SetValue(title)
	m.titleInput.CursorEnd()
	m.screen = screenEditor
	m.showHelp = false
	m.formatMenu = false
	m.pathPrompt = false
	m.publishing = false
	m.previewOn = false
	if original == nil {
		m.focusTitle()
	} else {
		m.focusBody()
	}
}

// closeEditor discards the session and returns to the list.
func (m *Model) closeEditor() {
	m.ed = nil
	m.editOriginal = nil
	m.formatMenu = false
	m.pathPrompt = false
	m.titleInput.Blur()
	m.titleInput.SetValue("")
	m.nav.Reset()
	m.screen = screenList
	m.refilter()
}

func (m *Model) focusTitle() {
	m.editingTitle = true
	m.ed.Blur()
	m.titleInput.Focus()
}

func (m *Model) focusBody() {
	m.editingTitle = false
	m.titleInput.Blur()
	m.ed.Focus()
}

// restoreAfterOverlay gives the body its selection back once a menu or
// prompt closes.
func (m *Model) restoreAfterOverlay() {
	if m.ed.RestoreSelection() {
		m.editingTitle = false
		m.titleInput.Blur()
	}
}

func (m *Model) openPathPrompt() tea.Cmd {
	m.ed.SaveSelection()
	m.ed.Blur()
	m.pathPrompt = true
	m.pathInput.SetValue("")
	return m.pathInput.Focus()
}

func (m Model) editorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ed == nil || m.publishing {
		return m, nil
	}
	if m.formatMenu {
		return m.formatMenuKey(msg)
	}
	if m.pathPrompt {
		return m.pathPromptKey(msg)
	}

	switch msg.String() {
	case "esc":
		m.closeEditor()
		return m, nil
	case "ctrl+s":
		return m.publish()
	case "ctrl+f":
		m.ed.SaveSelection()
		m.ed.Blur()
		m.formatMenu = true
		m.formatCursor = 0
		return m, nil
	case "ctrl+o":
		return m, m.openPathPrompt()
	case "tab":
		if m.editingTitle {
			m.focusBody()
			return m, nil
		}
		if !m.ed.Tab() {
			m.focusTitle()
		}
		return m, nil
	case "shift+tab":
		m.focusTitle()
		return m, nil
	}

	if m.editingTitle {
		if msg.Type == tea.KeyEnter {
			m.focusBody()
			return m, nil
		}
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}
	return m.bodyKey(msg)
}

func (m Model) bodyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if msg.Alt {
			m.ed.NewListItem()
			break
		}
		m.ed.Enter()
	case tea.KeyBackspace:
		m.ed.Backspace()
	case tea.KeyLeft:
		m.ed.Move(editor.MoveLeft, false)
	case tea.KeyRight:
		m.ed.Move(editor.MoveRight, false)
	case tea.KeyUp:
		m.ed.Move(editor.MoveUp, false)
	case tea.KeyDown:
		m.ed.Move(editor.MoveDown, false)
	case tea.KeyHome:
		m.ed.Move(editor.MoveHome, false)
	case tea.KeyEnd:
		m.ed.Move(editor.MoveEnd, false)
	case tea.KeyShiftLeft:
		m.ed.Move(editor.MoveLeft, true)
	case tea.KeyShiftRight:
		m.ed.Move(editor.MoveRight, true)
	case tea.KeyShiftUp:
		m.ed.Move(editor.MoveUp, true)
	case tea.KeyShiftDown:
		m.ed.Move(editor.MoveDown, true)
	case tea.KeyShiftHome:
		m.ed.Move(editor.MoveHome, true)
	case tea.KeyShiftEnd:
		m.ed.Move(editor.MoveEnd, true)
	case tea.KeyCtrlA:
		m.ed.SelectBlock()
	case tea.KeySpace:
		m.ed.InsertText(" ")
	case tea.KeyRunes:
		if msg.Paste {
			return m.paste(string(msg.Runes))
		}
		m.ed.InsertText(string(msg.Runes))
	}
	return m, nil
}

func (m Model) formatMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.formatMenu = false
		m.restoreAfterOverlay()
	case "up", "k":
		if m.formatCursor > 0 {
			m.formatCursor--
		}
	case "down", "j":
		if m.formatCursor < len(editor.FormatKinds)-1 {
			m.formatCursor++
		}
	case "enter":
		m.formatMenu = false
		m.restoreAfterOverlay()
		res, err := m.ed.ApplyFormat(editor.FormatKinds[m.formatCursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		if res.OpenPicker {
			return m, m.openPathPrompt()
		}
		m.editingTitle = false
		m.titleInput.Blur()
	}
	return m, nil
}

func (m Model) pathPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pathPrompt = false
		m.pathInput.Blur()
		m.restoreAfterOverlay()
		return m, nil
	case "enter":
		path := cleanPastedPath(m.pathInput.Value())
		m.pathPrompt = false
		m.pathInput.Blur()
		m.restoreAfterOverlay()
		if path == "" {
			return m, nil
		}
		return m, actions.ReadImageCmd(path, m.maxImageBytes)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// paste stages pasted image file paths in order; any other text is typed.
func (m Model) paste(text string) (tea.Model, tea.Cmd) {
	paths := pastedImagePaths(text)
	if len(paths) == 0 {
		m.ed.InsertText(text)
		return m, nil
	}
	cmds := make([]tea.Cmd, len(paths))
	for i, path := range paths {
		cmds[i] = actions.ReadImageCmd(path, m.maxImageBytes)
	}
	return m, tea.Sequence(cmds...)
}

func (m Model) publish() (tea.Model, tea.Cmd) {
	if m.service == nil || m.publishing {
		return m, nil
	}
	draft := editor.Draft{
		Title:    m.titleInput.Value(),
		Doc:      m.ed.Document(),
		Original: m.editOriginal,
	}
	m.publishing = true
	m.loading = true
	m.err = nil
	return m, actions.PublishCmd(m.service, draft)
}

// pastedImagePaths returns the paths when every non-blank line of text names
// an existing file with an image extension, as terminals paste dropped
// files.
func pastedImagePaths(text string) []string {
	var paths []string
	for _, line := range strings.Split(text, "\n") {
		path := cleanPastedPath(line)
		if path == "" {
			continue
		}
		if !strings.HasPrefix(mime.TypeByExtension(strings.ToLower(filepath.Ext(path))), "image/") {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		paths = append(paths, path)
	}
	return paths
}

func cleanPastedPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	if rest, ok := strings.CutPrefix(s, "file://"); ok {
		if unescaped, err := url.PathUnescape(rest); err == nil {
			rest = unescaped
		}
		s = rest
	}
	return strings.ReplaceAll(s, `\ `, " ")
}
