package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/postservice"
	article "github.com/glabrego/sheetblog/internal/render/article"
	"github.com/glabrego/sheetblog/internal/search"
	"github.com/glabrego/sheetblog/internal/tui/actions"
	"github.com/glabrego/sheetblog/internal/tui/platform"
	"github.com/glabrego/sheetblog/internal/tui/state"
	tuitheme "github.com/glabrego/sheetblog/internal/tui/theme"
	"github.com/glabrego/sheetblog/internal/tui/view"
)

const (
	screenList   = view.ScreenList
	screenDetail = view.ScreenDetail
	screenEditor = view.ScreenEditor

	detailMargin  = 2
	excerptLength = 300
)

// Feed is the part of the feed controller the UI drives. All of it runs on
// the update loop.
type Feed interface {
	State() feed.State
	Reconcile(ctx context.Context, posts []feed.Post) bool
	FetchFailed(ctx context.Context, err error, viewEmpty bool) bool
}

type StartMode int

const (
	StartList StartMode = iota
	// StartEdit opens the editor on the stored edit record.
	StartEdit
	// StartWrite opens a blank editor.
	StartWrite
)

type Options struct {
	Locale        string
	ImageHost     string
	MaxImageBytes int64
	SyncInterval  time.Duration
	// AssumeFocus arms background sync in Init. Otherwise the first
	// tea.FocusMsg arms it.
	AssumeFocus bool
	Matcher     search.Matcher
	// NeedsFetch is set when nothing fresh came from the cache.
	NeedsFetch bool
	// OpenFragment is a "#post-N" deep link opened once the list is available.
	OpenFragment string
	Start        StartMode
	Log          zerolog.Logger
}

type clearStatusMsg struct {
	id int
}

type Model struct {
	service actions.Service
	ctrl    Feed
	matcher search.Matcher
	nav     *feed.Navigator
	syncer  *feed.Syncer
	log     zerolog.Logger
	theme   tuitheme.Theme
	text    messages

	assumeFocus bool

	locale        string
	imageHost     string
	maxImageBytes int64
	needsFetch    bool
	start         StartMode

	screen   string
	showHelp bool

	cards       []feed.Card
	excerpts    []string
	cursor      int
	query       string
	searchInput textinput.Model
	searching   bool

	detailPost feed.Post
	detailTop  int
	previewOn  bool
	deleting   bool

	ed             *editor.Editor
	titleInput     textinput.Model
	editingTitle   bool
	editOriginal   *feed.Post
	formatMenu     bool
	formatCursor   int
	pathPrompt     bool
	pathInput      textinput.Model
	publishing     bool
	loadingEditRec bool

	spinner      spinner.Model
	loading      bool
	syncInFlight bool
	status       string
	statusID     int
	err          error
	width        int
	height       int

	openURLFn           func(string) error
	copyURLFn           func(string) error
	renderImageFn       func(string, int) (string, error)
	imagePreview        map[string]string
	imagePreviewErr     map[string]string
	imagePreviewLoading map[string]bool
}

func NewModel(service actions.Service, ctrl Feed, opts Options) Model {
	text := messagesFor(opts.Locale)

	searchInput := textinput.New()
	searchInput.Prompt = "/ "
	titleInput := textinput.New()
	titleInput.Prompt = "» "
	titleInput.Placeholder = text.TitlePlaceholder
	titleInput.CharLimit = 200
	pathInput := textinput.New()
	pathInput.Prompt = "image file: "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		service:             service,
		ctrl:                ctrl,
		matcher:             opts.Matcher,
		nav:                 feed.NewNavigator(),
		syncer:              feed.NewSyncer(opts.SyncInterval),
		assumeFocus:         opts.AssumeFocus,
		log:                 opts.Log,
		theme:               tuitheme.Default(),
		text:                text,
		locale:              opts.Locale,
		imageHost:           opts.ImageHost,
		maxImageBytes:       opts.MaxImageBytes,
		needsFetch:          opts.NeedsFetch,
		start:               opts.Start,
		screen:              screenList,
		searchInput:         searchInput,
		titleInput:          titleInput,
		pathInput:           pathInput,
		spinner:             sp,
		loading:             opts.NeedsFetch,
		openURLFn:           platform.OpenURLInBrowser,
		copyURLFn:           platform.CopyURLToClipboard,
		renderImageFn:       view.NewPreviewer().Render,
		imagePreview:        make(map[string]string),
		imagePreviewErr:     make(map[string]string),
		imagePreviewLoading: make(map[string]bool),
	}
	m.refilter()
	if opts.OpenFragment != "" && !m.nav.SetPending(opts.OpenFragment) {
		m.log.Warn().Str("fragment", opts.OpenFragment).Msg("ignoring malformed post link")
	}
	m, _ = m.resolvePending()

	switch opts.Start {
	case StartWrite:
		m.openEditor(nil)
	case StartEdit:
		m.loadingEditRec = true
		m.loading = true
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.service != nil && m.needsFetch {
		cmds = append(cmds, actions.FetchCmd(m.service, actions.SourceInit))
	}
	if m.service != nil && m.start == StartEdit {
		cmds = append(cmds, actions.LoadEditPostCmd(m.service))
	}
	if m.assumeFocus && m.syncer.Interval() > 0 {
		cmds = append(cmds, actions.SyncTickCmd(m.syncer.Interval(), m.syncer.Arm()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(10, msg.Width-4)
		m.titleInput.Width = max(10, msg.Width-4)
		m.pathInput.Width = max(10, msg.Width-16)
		return m, nil
	case tea.FocusMsg:
		if m.syncer.Interval() <= 0 {
			return m, nil
		}
		return m, actions.SyncTickCmd(m.syncer.Interval(), m.syncer.Arm())
	case tea.BlurMsg:
		m.syncer.Disarm()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	case actions.SyncTickMsg:
		if !m.syncer.Accept(msg.Gen) {
			return m, nil
		}
		next := actions.SyncTickCmd(m.syncer.Interval(), msg.Gen)
		if m.service == nil || m.syncInFlight {
			return m, next
		}
		m.syncInFlight = true
		return m, tea.Batch(actions.FetchCmd(m.service, actions.SourceSync), next)
	case actions.FetchSuccessMsg:
		return m.fetchSucceeded(msg)
	case actions.FetchErrorMsg:
		return m.fetchFailed(msg)
	case actions.DeleteSuccessMsg:
		m.deleting = false
		m.nav.Reset()
		m.leaveDetail()
		m.refilter()
		m.err = nil
		statusCmd := m.setStatus(m.text.DeleteDone)
		m.loading = true
		return m, tea.Batch(statusCmd, actions.FetchCmd(m.service, actions.SourceDelete))
	case actions.DeleteErrorMsg:
		m.deleting = false
		m.loading = false
		m.log.Error().Err(msg.Err).Str("timestamp", m.detailPost.Timestamp).Msg("delete failed")
		m.err = errors.New(m.text.DeleteFailed + msg.Err.Error())
		return m, nil
	case actions.EditPostSavedMsg:
		m.openEditor(&msg.Post)
		return m, nil
	case actions.EditPostLoadedMsg:
		m.loading = false
		m.loadingEditRec = false
		m.openEditor(&msg.Post)
		return m, nil
	case actions.EditPostErrorMsg:
		if m.loadingEditRec {
			m.loading = false
			m.loadingEditRec = false
			m.openEditor(nil)
		}
		m.err = msg.Err
		return m, nil
	case actions.PublishSuccessMsg:
		return m.published(msg)
	case actions.PublishErrorMsg:
		m.publishing = false
		m.loading = false
		if errors.Is(msg.Err, editor.ErrValidation) {
			m.err = errors.New(m.validationMessage(msg.Err, ""))
			return m, nil
		}
		m.log.Error().Err(msg.Err).Bool("update", msg.Updated).Msg("publish failed")
		if msg.Updated {
			m.err = errors.New(m.text.UpdateFailed)
		} else {
			m.err = errors.New(m.text.PublishFailed)
		}
		return m, nil
	case actions.ImageReadSuccessMsg:
		if m.ed == nil {
			return m, nil
		}
		if err := m.ed.StageImage(msg.Name, msg.Data); err != nil {
			m.err = errors.New(m.validationMessage(err, msg.Name))
			return m, nil
		}
		m.err = nil
		m.editingTitle = false
		m.titleInput.Blur()
		return m, nil
	case actions.ImageReadErrorMsg:
		m.err = errors.New(m.validationMessage(msg.Err, filepath.Base(msg.Path)))
		return m, nil
	case actions.ImagePreviewSuccessMsg:
		delete(m.imagePreviewLoading, msg.URL)
		delete(m.imagePreviewErr, msg.URL)
		m.imagePreview[msg.URL] = msg.Preview
		return m, nil
	case actions.ImagePreviewErrorMsg:
		delete(m.imagePreviewLoading, msg.URL)
		m.imagePreviewErr[msg.URL] = msg.Err.Error()
		return m, nil
	case actions.OpenURLSuccessMsg:
		m.err = nil
		return m, m.setStatus(m.urlStatus(msg.Outcome))
	case actions.OpenURLErrorMsg:
		m.err = nil
		if msg.CopyOnly {
			return m, m.setStatus(m.text.CopyURLFailed)
		}
		return m, m.setStatus(m.text.OpenURLFailed)
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) fetchSucceeded(msg actions.FetchSuccessMsg) (tea.Model, tea.Cmd) {
	if msg.Source == actions.SourceSync {
		m.syncInFlight = false
	} else {
		m.loading = m.loadingEditRec
		m.err = nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if m.ctrl.Reconcile(ctx, msg.Posts) {
		m.refilter()
	}
	m.log.Debug().Str("source", msg.Source).Dur("took", msg.Duration).Int("posts", len(msg.Posts)).Msg("fetch finished")
	return m.resolvePending()
}

func (m Model) fetchFailed(msg actions.FetchErrorMsg) (tea.Model, tea.Cmd) {
	if msg.Source == actions.SourceSync {
		m.syncInFlight = false
	} else {
		m.loading = m.loadingEditRec
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	adopted := m.ctrl.FetchFailed(ctx, msg.Err, m.ctrl.State().Empty())
	if adopted {
		m.refilter()
	}
	switch {
	case msg.Source == actions.SourceSync:
	case msg.Source == actions.SourceInit && adopted:
	default:
		m.err = msg.Err
	}
	return m.resolvePending()
}

func (m Model) published(msg actions.PublishSuccessMsg) (tea.Model, tea.Cmd) {
	m.publishing = false
	m.closeEditor()
	m.err = nil
	text := m.text.PublishDone
	if msg.Result.Updated {
		text = m.text.UpdateDone
	}
	statusCmd := m.setStatus(text)
	if m.service == nil {
		m.loading = false
		return m, statusCmd
	}
	m.loading = true
	return m, tea.Batch(statusCmd, actions.FetchCmd(m.service, actions.SourcePublish))
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.screen == screenEditor {
		return m.editorKey(msg)
	}
	if m.searching {
		return m.searchKey(msg)
	}

	switch msg.String() {
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "q":
		return m, tea.Quit
	}
	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	if m.screen == screenDetail {
		return m.detailKey(msg)
	}
	return m.listKey(msg)
}

func (m Model) listKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "g":
		m.cursor = 0
	case "G":
		m.cursor = state.ClampCursor(len(m.cards)-1, len(m.cards))
	case "pgup", "ctrl+b":
		m.moveCursor(-m.cardsPerPage())
	case "pgdown", "ctrl+f":
		m.moveCursor(m.cardsPerPage())
	case "enter":
		if len(m.cards) == 0 {
			return m, nil
		}
		snap := feed.Snapshot{
			Version: m.ctrl.State().Version,
			Cards:   m.cards,
			Cursor:  m.cursor,
			Query:   m.query,
		}
		return m.showPost(m.cards[m.cursor].Index, &snap)
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "ctrl+l":
		m.searchInput.SetValue("")
		m.setQuery("")
	case "r":
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		m.status = ""
		m.err = nil
		return m, actions.FetchCmd(m.service, actions.SourceManual)
	case "w":
		m.openEditor(nil)
	}
	return m, nil
}

func (m Model) searchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.setQuery("")
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != m.query {
		m.setQuery(value)
	}
	return m, cmd
}

func (m Model) detailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		return m.back()
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
	case "down", "j":
		maxTop := view.DetailMaxTop(len(m.detailLines()), m.detailBodyHeight())
		if m.detailTop < maxTop {
			m.detailTop++
		}
	case "[":
		return m.stepPost(-1)
	case "]":
		return m.stepPost(1)
	case "e":
		if m.service == nil {
			return m, nil
		}
		return m, actions.SaveEditPostCmd(m.service, m.detailPost)
	case "D":
		if m.service == nil || m.deleting {
			return m, nil
		}
		m.deleting = true
		m.loading = true
		m.err = nil
		return m, actions.DeleteCmd(m.service, m.detailPost)
	case "o":
		url, err := m.currentImageURL()
		if err != nil {
			return m, m.setStatus(err.Error())
		}
		return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
	case "y":
		url, err := m.currentImageURL()
		if err != nil {
			return m, m.setStatus(err.Error())
		}
		return m, actions.CopyURLCmd(url, m.copyURLFn)
	case "p":
		m.previewOn = !m.previewOn
		return m, m.ensurePreviewCmd()
	}
	return m, nil
}

// showPost opens the detail of the post at index in the working list. snap
// is the list being left, nil when no list is on screen.
func (m Model) showPost(index int, snap *feed.Snapshot) (Model, tea.Cmd) {
	route, ok := m.nav.ShowPost(m.ctrl.State(), index, snap)
	if !ok {
		return m, nil
	}
	m.screen = screenDetail
	m.showHelp = false
	m.detailPost = route.Post
	m.detailTop = 0
	return m, m.ensurePreviewCmd()
}

func (m Model) stepPost(delta int) (tea.Model, tea.Cmd) {
	pos := state.CardCursorForPost(m.cards, m.detailPost)
	if pos < 0 {
		return m, nil
	}
	next := pos + delta
	if next < 0 || next >= len(m.cards) {
		return m, nil
	}
	return m.showPost(m.cards[next].Index, nil)
}

func (m Model) back() (tea.Model, tea.Cmd) {
	res := m.nav.Back(m.ctrl.State())
	switch res.Action {
	case feed.BackPost:
		m.detailPost = res.Route.Post
		m.detailTop = 0
		return m, m.ensurePreviewCmd()
	case feed.BackRestore:
		m.query = res.Snapshot.Query
		m.setCards(res.Snapshot.Cards)
		m.cursor = state.ClampCursor(res.Snapshot.Cursor, len(m.cards))
	case feed.BackRerender:
		m.query = res.Snapshot.Query
		m.setCards(res.Snapshot.Cards)
		m.cursor = res.Snapshot.Cursor
		m.refilter()
	case feed.BackReload:
		m.query = ""
		m.refilter()
		m.leaveDetail()
		m.searchInput.SetValue("")
		if m.service == nil {
			return m, nil
		}
		m.loading = true
		return m, actions.FetchCmd(m.service, actions.SourceReload)
	}
	m.leaveDetail()
	m.searchInput.SetValue(m.query)
	return m, nil
}

func (m *Model) leaveDetail() {
	m.screen = screenList
	m.previewOn = false
	m.detailTop = 0
}

func (m Model) resolvePending() (Model, tea.Cmd) {
	index, ok := m.nav.ResolvePending(m.ctrl.State())
	if !ok {
		return m, nil
	}
	return m.showPost(index, nil)
}

func (m *Model) setQuery(query string) {
	m.query = query
	m.refilter()
}

// refilter rebuilds the cards from the working list, keeping the cursor on
// the post it was on.
func (m *Model) refilter() {
	var anchor *feed.Post
	if m.cursor >= 0 && m.cursor < len(m.cards) {
		post := m.cards[m.cursor].Post
		anchor = &post
	}
	cards, err := feed.Filter(m.ctrl.State(), m.matcher, m.query)
	if err != nil {
		m.log.Warn().Err(err).Str("query", m.query).Msg("search failed")
		m.err = err
		return
	}
	m.setCards(cards)
	m.cursor = 0
	if anchor != nil {
		if i := state.CardCursorForPost(cards, *anchor); i >= 0 {
			m.cursor = i
		}
	}
}

func (m *Model) setCards(cards []feed.Card) {
	m.cards = cards
	m.excerpts = make([]string, len(cards))
	for i, card := range cards {
		m.excerpts[i] = article.Excerpt(card.Post.Content, excerptLength)
	}
	m.cursor = state.ClampCursor(m.cursor, len(cards))
}

func (m *Model) moveCursor(delta int) {
	m.cursor = state.ClampCursor(m.cursor+delta, len(m.cards))
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	m.statusID++
	return clearStatusCmd(m.statusID, 4*time.Second)
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// currentImageURL is the first image of the detail post, preferring the
// post's image references over images found in its content.
func (m Model) currentImageURL() (string, error) {
	refs := postservice.SplitImageRefs(m.detailPost.ImageURL)
	if len(refs) == 0 {
		refs = article.ImageURLsFromContent(m.detailPost.Content)
	}
	if len(refs) == 0 {
		return "", errors.New(m.text.NoImage)
	}
	return platform.ValidateImageURL(postservice.DisplayURL(m.imageHost, refs[0]))
}

func (m Model) urlStatus(outcome actions.URLOutcome) string {
	switch outcome {
	case actions.URLOpened:
		return m.text.ImageOpened
	case actions.URLCopiedFallback:
		return m.text.URLCopyFallback
	default:
		return m.text.URLCopied
	}
}

func (m *Model) ensurePreviewCmd() tea.Cmd {
	if !m.previewOn || m.renderImageFn == nil {
		return nil
	}
	url, err := m.currentImageURL()
	if err != nil {
		return nil
	}
	if _, ok := m.imagePreview[url]; ok || m.imagePreviewLoading[url] {
		return nil
	}
	delete(m.imagePreviewErr, url)
	m.imagePreviewLoading[url] = true
	return actions.ImagePreviewCmd(url, m.detailContentWidth(), m.renderImageFn)
}

func (m Model) previewState() view.InlineImagePreviewState {
	if !m.previewOn {
		return view.InlineImagePreviewState{}
	}
	url, err := m.currentImageURL()
	if err != nil {
		return view.InlineImagePreviewState{Enabled: true, Err: err.Error()}
	}
	return view.InlineImagePreviewState{
		Enabled: true,
		Loading: m.imagePreviewLoading[url],
		Raw:     m.imagePreview[url],
		Err:     m.imagePreviewErr[url],
	}
}

// validationMessage turns an editor or publish error into the text shown
// to the user. name is the offending file, if any.
func (m Model) validationMessage(err error, name string) string {
	withName := func(s string) string {
		if name == "" {
			return s
		}
		return s + ": " + name
	}
	switch {
	case errors.Is(err, editor.ErrEmptyTitle):
		return m.text.TitleRequired
	case errors.Is(err, editor.ErrEmptyContent):
		return m.text.ContentRequired
	case errors.Is(err, editor.ErrImageTooLarge):
		return withName(fmt.Sprintf(m.text.ImageTooLarge, m.maxImageBytes>>20))
	case errors.Is(err, editor.ErrNotImage):
		return withName(m.text.NotImage)
	case errors.Is(err, editor.ErrTooManyImages):
		return fmt.Sprintf(m.text.TooManyImages, editor.MaxStagedImages)
	default:
		return err.Error()
	}
}

func (m Model) cardsPerPage() int {
	return state.CardsPerPage(m.listBodyHeight(), view.CardHeight)
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return m.width - 1
	}
	return 100
}

func (m Model) detailContentWidth() int {
	return max(20, m.contentWidth()-2*detailMargin)
}

func (m Model) listBodyHeight() int {
	if m.height <= 0 {
		return 15
	}
	used := 6
	if m.searching || m.query != "" {
		used++
	}
	return max(view.CardHeight, m.height-used)
}

func (m Model) detailBodyHeight() int {
	if m.height > 0 {
		if h := m.height - 6; h > 3 {
			return h
		}
	}
	return 16
}

func (m Model) editorBodyHeight() int {
	if m.height > 0 {
		used := 8
		if m.formatMenu {
			used += len(editor.FormatKinds) + 1
		}
		if m.pathPrompt || m.publishing {
			used++
		}
		if h := m.height - used; h > 3 {
			return h
		}
	}
	return 16
}

func (m Model) detailLines() []string {
	return view.DetailLines(view.DetailParams{
		Post:             m.detailPost,
		Location:         m.nav.Location(),
		Locale:           m.locale,
		ContentWidth:     m.detailContentWidth(),
		HorizontalMargin: detailMargin,
		Options:          article.DefaultOptions,
		Wrap:             article.WrapText,
		Preview:          m.previewState(),
	})
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	toolbar := m.screen
	if m.searching {
		toolbar = view.ScreenSearch
	}
	b.WriteString(view.Toolbar(toolbar))
	b.WriteString("\n\n")

	switch {
	case m.showHelp:
		b.WriteString(m.helpView())
		b.WriteString("\n")
	case m.screen == screenDetail:
		b.WriteString(view.RenderDetailLines(m.detailLines(), m.detailTop, m.detailBodyHeight()))
	case m.screen == screenEditor:
		b.WriteString(m.editorView())
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	b.WriteString(view.Message(m.loading, m.err != nil, m.status, warning, m.theme))
	b.WriteString("\n")
	b.WriteString(view.Footer(m.screen, m.nav.Location(), len(m.cards), len(m.ctrl.State().Posts), m.query, m.syncer.Armed(), m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) header() string {
	title := m.theme.Title.Render("sheetblog") + " " + m.theme.ModePill.Render(m.screen)
	if m.loading || m.publishing {
		title += " " + m.spinner.View()
	}
	return title
}

func (m Model) listView() string {
	var b strings.Builder
	if m.searching || m.query != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	switch {
	case len(m.cards) == 0 && m.loading:
		b.WriteString(m.text.Loading + "\n")
	case len(m.cards) == 0 && m.query != "":
		b.WriteString(m.text.NoMatches + "\n")
	case len(m.cards) == 0:
		b.WriteString(m.text.EmptyList + "\n")
	default:
		start, end := state.CenteredWindow(len(m.cards), m.cursor, m.cardsPerPage())
		excerpts := make(map[int]string, len(m.cards))
		for i, card := range m.cards {
			excerpts[card.Index] = m.excerpts[i]
		}
		b.WriteString(view.RenderListBody(view.ListRenderInput{
			Cards:  m.cards,
			Start:  start,
			End:    end,
			Cursor: m.cursor,
			RenderCard: func(card feed.Card, active bool) []string {
				return view.RenderCard(view.CardParams{
					Card:         card,
					Excerpt:      excerpts[card.Index],
					EmptyExcerpt: m.text.EmptyExcerpt,
					Query:        m.query,
					Locale:       m.locale,
					Active:       active,
					Width:        m.contentWidth(),
				}, m.theme)
			},
		}))
	}
	return b.String()
}

func (m Model) editorView() string {
	if m.ed == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.titleInput.View())
	b.WriteString("\n\n")

	sel, focused := m.ed.Selection()
	lines, caret := view.RenderEditor(view.EditorParams{
		Doc:       m.ed.Document(),
		Selection: sel,
		Focused:   focused,
		Width:     m.contentWidth(),
	}, m.theme)
	start, end := state.CenteredWindow(len(lines), caret, m.editorBodyHeight())
	b.WriteString(strings.Join(lines[start:end], "\n"))
	b.WriteString("\n")

	if m.formatMenu {
		b.WriteString("\n")
		b.WriteString(strings.Join(view.FormatMenuLines(m.text.FormatLabels, m.formatCursor, m.theme), "\n"))
		b.WriteString("\n")
	}
	if m.pathPrompt {
		b.WriteString(m.pathInput.View())
		b.WriteString("\n")
	}
	if m.publishing {
		b.WriteString(m.spinner.View() + " " + m.text.Publishing + "\n")
	}
	return b.String()
}

func (m Model) helpView() string {
	lines := []string{
		"List:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
		"  enter opens a post, / searches, ctrl+l clears the search",
		"  r refreshes, w writes a new post",
		"Post:",
		"  j/k scroll, [ ] previous/next post, esc/backspace goes back",
		"  e edits, D deletes, o opens the first image, y copies its URL, p previews it",
		"Editor:",
		"  tab switches between title and body (inside code it indents)",
		"  enter starts a paragraph after the block, alt+enter adds a list item",
		"  ctrl+f format menu, ctrl+o add image, paste image paths to add them",
		"  shift+arrows select, ctrl+a selects the block, ctrl+s publishes, esc leaves",
	}
	return strings.Join(lines, "\n")
}
