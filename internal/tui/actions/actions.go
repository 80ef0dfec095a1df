package actions

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
)

type Service interface {
	Fetch(ctx context.Context) ([]feed.Post, error)
	Delete(ctx context.Context, post feed.Post) error
	Publish(ctx context.Context, draft editor.Draft) (editor.PublishResult, error)
	SaveEditPost(ctx context.Context, post feed.Post) error
	LoadEditPost(ctx context.Context) (feed.Post, error)
}

const (
	SourceInit    = "init"
	SourceManual  = "manual"
	SourceSync    = "sync"
	SourceReload  = "reload"
	SourceDelete  = "delete"
	SourcePublish = "publish"
)

type FetchSuccessMsg struct {
	Posts    []feed.Post
	Duration time.Duration
	Source   string
}

type FetchErrorMsg struct {
	Err      error
	Duration time.Duration
	Source   string
}

type SyncTickMsg struct {
	Gen uint64
}

type DeleteSuccessMsg struct {
	Post feed.Post
}

type DeleteErrorMsg struct {
	Err error
}

type PublishSuccessMsg struct {
	Result editor.PublishResult
}

type PublishErrorMsg struct {
	Err     error
	Updated bool
}

type EditPostSavedMsg struct {
	Post feed.Post
}

type EditPostLoadedMsg struct {
	Post feed.Post
}

type EditPostErrorMsg struct {
	Err error
}

type ImageReadSuccessMsg struct {
	Name string
	Data []byte
}

type ImageReadErrorMsg struct {
	Path string
	Err  error
}

type ImagePreviewSuccessMsg struct {
	URL     string
	Preview string
}

type ImagePreviewErrorMsg struct {
	URL string
	Err error
}

// URLOutcome says how an image URL reached the user. The model turns it
// into a localized status line.
type URLOutcome int

const (
	URLOpened URLOutcome = iota
	URLCopiedFallback
	URLCopied
)

type OpenURLSuccessMsg struct {
	Outcome URLOutcome
}

// OpenURLErrorMsg reports that neither the browser nor the clipboard took
// the URL. CopyOnly is set when only the clipboard was attempted.
type OpenURLErrorMsg struct {
	Err      error
	CopyOnly bool
}

func FetchCmd(service Service, source string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		start := time.Now()

		posts, err := service.Fetch(ctx)
		if err != nil {
			return FetchErrorMsg{Err: err, Duration: time.Since(start), Source: source}
		}
		return FetchSuccessMsg{Posts: posts, Duration: time.Since(start), Source: source}
	}
}

// SyncTickCmd schedules the next background refresh of generation gen.
func SyncTickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return SyncTickMsg{Gen: gen}
	})
}

func DeleteCmd(service Service, post feed.Post) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := service.Delete(ctx, post); err != nil {
			return DeleteErrorMsg{Err: err}
		}
		return DeleteSuccessMsg{Post: post}
	}
}

// PublishCmd gets a longer deadline than the other calls since it uploads
// every staged image before writing the post.
func PublishCmd(service Service, draft editor.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		res, err := service.Publish(ctx, draft)
		if err != nil {
			return PublishErrorMsg{Err: err, Updated: draft.Original != nil}
		}
		return PublishSuccessMsg{Result: res}
	}
}

func SaveEditPostCmd(service Service, post feed.Post) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := service.SaveEditPost(ctx, post); err != nil {
			return EditPostErrorMsg{Err: err}
		}
		return EditPostSavedMsg{Post: post}
	}
}

func LoadEditPostCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		post, err := service.LoadEditPost(ctx)
		if err != nil {
			return EditPostErrorMsg{Err: err}
		}
		return EditPostLoadedMsg{Post: post}
	}
}

func ReadImageCmd(path string, maxBytes int64) tea.Cmd {
	return func() tea.Msg {
		name, data, err := editor.ReadImageFile(path, maxBytes)
		if err != nil {
			return ImageReadErrorMsg{Path: path, Err: err}
		}
		return ImageReadSuccessMsg{Name: name, Data: data}
	}
}

func ImagePreviewCmd(url string, width int, renderFn func(string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		if renderFn == nil {
			return ImagePreviewErrorMsg{URL: url, Err: fmt.Errorf("image preview is disabled")}
		}
		preview, err := renderFn(url, width)
		if err != nil {
			return ImagePreviewErrorMsg{URL: url, Err: err}
		}
		return ImagePreviewSuccessMsg{URL: url, Preview: preview}
	}
}

func OpenURLCmd(url string, openFn, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if openFn != nil {
			if err := openFn(url); err == nil {
				return OpenURLSuccessMsg{Outcome: URLOpened}
			}
		}
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Outcome: URLCopiedFallback}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not open URL or copy to clipboard")}
	}
}

func CopyURLCmd(url string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		if copyFn != nil {
			if err := copyFn(url); err == nil {
				return OpenURLSuccessMsg{Outcome: URLCopied}
			}
		}
		return OpenURLErrorMsg{Err: fmt.Errorf("could not copy URL to clipboard"), CopyOnly: true}
	}
}
