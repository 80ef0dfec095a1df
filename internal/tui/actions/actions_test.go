package actions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
)

type fakeService struct {
	posts    []feed.Post
	fetchErr error

	deleteErr error
	deleted   []feed.Post

	publishRes editor.PublishResult
	publishErr error

	editPost feed.Post
	editErr  error

	lastFetchDeadline   time.Time
	lastPublishDeadline time.Time
}

func (f *fakeService) Fetch(ctx context.Context) ([]feed.Post, error) {
	if dl, ok := ctx.Deadline(); ok {
		f.lastFetchDeadline = dl
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.posts, nil
}

func (f *fakeService) Delete(_ context.Context, post feed.Post) error {
	f.deleted = append(f.deleted, post)
	return f.deleteErr
}

func (f *fakeService) Publish(ctx context.Context, _ editor.Draft) (editor.PublishResult, error) {
	if dl, ok := ctx.Deadline(); ok {
		f.lastPublishDeadline = dl
	}
	if f.publishErr != nil {
		return editor.PublishResult{}, f.publishErr
	}
	return f.publishRes, nil
}

func (f *fakeService) SaveEditPost(_ context.Context, post feed.Post) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.editPost = post
	return nil
}

func (f *fakeService) LoadEditPost(context.Context) (feed.Post, error) {
	if f.editErr != nil {
		return feed.Post{}, f.editErr
	}
	return f.editPost, nil
}

func TestFetchCmd(t *testing.T) {
	svc := &fakeService{posts: []feed.Post{{Title: "a", Content: "b", Timestamp: "2026-01-01T00:00:00.000Z"}}}
	msg := FetchCmd(svc, SourceManual)()
	success, ok := msg.(FetchSuccessMsg)
	if !ok {
		t.Fatalf("expected FetchSuccessMsg, got %T", msg)
	}
	if success.Source != SourceManual || len(success.Posts) != 1 {
		t.Fatalf("unexpected success payload: %+v", success)
	}
	if svc.lastFetchDeadline.IsZero() {
		t.Fatal("expected fetch context deadline to be set")
	}
}

func TestPublishCmd(t *testing.T) {
	svc := &fakeService{publishRes: editor.PublishResult{Post: feed.Post{Title: "t"}}}
	msg := PublishCmd(svc, editor.Draft{Title: "t"})()
	if res, ok := msg.(PublishSuccessMsg); !ok || res.Result.Post.Title != "t" {
		t.Fatalf("expected PublishSuccessMsg, got %T %+v", msg, msg)
	}
	if svc.lastPublishDeadline.IsZero() {
		t.Fatal("expected publish context deadline to be set")
	}

	svc.publishErr = editor.ErrEmptyTitle
	original := feed.Post{Title: "old"}
	msg = PublishCmd(svc, editor.Draft{Original: &original})()
	failed, ok := msg.(PublishErrorMsg)
	if !ok || !failed.Updated || !errors.Is(failed.Err, editor.ErrEmptyTitle) {
		t.Fatalf("expected update PublishErrorMsg, got %T %+v", msg, msg)
	}
}

func TestEditPostCmds(t *testing.T) {
	svc := &fakeService{}
	post := feed.Post{Title: "edit me", Content: "<p>x</p>"}

	if saved, ok := SaveEditPostCmd(svc, post)().(EditPostSavedMsg); !ok || saved.Post != post {
		t.Fatalf("expected EditPostSavedMsg, got %+v", saved)
	}
	if loaded, ok := LoadEditPostCmd(svc)().(EditPostLoadedMsg); !ok || loaded.Post != post {
		t.Fatalf("expected EditPostLoadedMsg, got %+v", loaded)
	}
}

func TestActionErrors(t *testing.T) {
	svc := &fakeService{
		fetchErr:  errors.New("fetch failed"),
		deleteErr: errors.New("delete failed"),
		editErr:   errors.New("storage failed"),
	}

	if msg, ok := FetchCmd(svc, SourceSync)().(FetchErrorMsg); !ok || msg.Source != SourceSync {
		t.Fatal("expected FetchErrorMsg")
	}
	if _, ok := DeleteCmd(svc, feed.Post{Timestamp: "t"})().(DeleteErrorMsg); !ok {
		t.Fatal("expected DeleteErrorMsg")
	}
	if _, ok := SaveEditPostCmd(svc, feed.Post{})().(EditPostErrorMsg); !ok {
		t.Fatal("expected EditPostErrorMsg on save")
	}
	if _, ok := LoadEditPostCmd(svc)().(EditPostErrorMsg); !ok {
		t.Fatal("expected EditPostErrorMsg on load")
	}
}

func TestDeleteCmd(t *testing.T) {
	svc := &fakeService{}
	post := feed.Post{Title: "gone", Timestamp: "2026-01-01T00:00:00.000Z"}
	msg := DeleteCmd(svc, post)()
	if success, ok := msg.(DeleteSuccessMsg); !ok || success.Post != post {
		t.Fatalf("expected DeleteSuccessMsg, got %T", msg)
	}
	if len(svc.deleted) != 1 {
		t.Fatalf("expected one delete call, got %d", len(svc.deleted))
	}
}

func TestReadImageCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg := ReadImageCmd(path, 100)()
	read, ok := msg.(ImageReadSuccessMsg)
	if !ok || read.Name != "pic.png" || len(read.Data) != 10 {
		t.Fatalf("expected ImageReadSuccessMsg, got %T %+v", msg, msg)
	}

	msg = ReadImageCmd(path, 5)()
	failed, ok := msg.(ImageReadErrorMsg)
	if !ok || !errors.Is(failed.Err, editor.ErrImageTooLarge) {
		t.Fatalf("expected too-large ImageReadErrorMsg, got %T %+v", msg, msg)
	}
}

func TestSyncTickCmdCarriesGeneration(t *testing.T) {
	msg := SyncTickCmd(time.Millisecond, 7)()
	if tick, ok := msg.(SyncTickMsg); !ok || tick.Gen != 7 {
		t.Fatalf("expected SyncTickMsg{7}, got %T %+v", msg, msg)
	}
}

func TestImagePreviewCmd(t *testing.T) {
	msg := ImagePreviewCmd("https://example.com/a.png", 40, func(url string, width int) (string, error) {
		return "##", nil
	})()
	if ok := msg.(ImagePreviewSuccessMsg).Preview == "##"; !ok {
		t.Fatalf("unexpected preview msg %+v", msg)
	}
	if _, ok := ImagePreviewCmd("u", 40, nil)().(ImagePreviewErrorMsg); !ok {
		t.Fatal("expected ImagePreviewErrorMsg without renderer")
	}
}

func TestOpenURLCmd_Fallbacks(t *testing.T) {
	msg := OpenURLCmd("https://example.com",
		func(string) error { return nil },
		func(string) error { return nil },
	)()
	success, ok := msg.(OpenURLSuccessMsg)
	if !ok || success.Outcome != URLOpened {
		t.Fatalf("expected opened success, got %T %+v", msg, success)
	}

	msg = OpenURLCmd("https://example.com",
		func(string) error { return errors.New("open failed") },
		func(string) error { return nil },
	)()
	success, ok = msg.(OpenURLSuccessMsg)
	if !ok || success.Outcome != URLCopiedFallback {
		t.Fatalf("expected copy fallback success, got %T %+v", msg, success)
	}

	msg = OpenURLCmd("https://example.com",
		func(string) error { return errors.New("open failed") },
		func(string) error { return errors.New("copy failed") },
	)()
	if failed, ok := msg.(OpenURLErrorMsg); !ok || failed.CopyOnly {
		t.Fatalf("expected OpenURLErrorMsg, got %T %+v", msg, msg)
	}
}

func TestCopyURLCmd(t *testing.T) {
	msg := CopyURLCmd("https://example.com", func(string) error { return nil })()
	if success, ok := msg.(OpenURLSuccessMsg); !ok || success.Outcome != URLCopied {
		t.Fatalf("expected copied success, got %T %+v", msg, msg)
	}
	msg = CopyURLCmd("https://example.com", func(string) error { return errors.New("copy failed") })()
	if failed, ok := msg.(OpenURLErrorMsg); !ok || !failed.CopyOnly {
		t.Fatalf("expected copy-only OpenURLErrorMsg, got %T %+v", msg, msg)
	}
}
