package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/postservice"
	"github.com/glabrego/sheetblog/internal/storage"
)

func TestIntegration_FetchReconcileAndEditRecord(t *testing.T) {
	if os.Getenv("SHEETBLOG_INTEGRATION") != "1" {
		t.Skip("set SHEETBLOG_INTEGRATION=1 to run integration tests")
	}
	serviceURL := os.Getenv("SHEETBLOG_SERVICE_URL")
	if serviceURL == "" {
		t.Skip("SHEETBLOG_SERVICE_URL is required")
	}

	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "sheetblog-integration.db"))
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		t.Fatalf("Init returned error: %v", err)
	}

	client := postservice.NewClient(serviceURL, "drive.google.com", nil, zerolog.Nop())
	ctrl := feed.NewController(client, feed.NewCache(repo, time.Hour, zerolog.Nop()), zerolog.Nop())
	publisher := editor.NewPublisher(client, editor.PlaceholdersFor("en"), 5<<20, zerolog.Nop())
	svc := NewService(ctrl, publisher, repo)

	posts, err := svc.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if !ctrl.Reconcile(ctx, posts) && len(posts) > 0 {
		t.Fatal("expected first reconcile to adopt the fetched list")
	}
	if ctrl.Reconcile(ctx, posts) {
		t.Fatal("second reconcile of the same list must be a no-op")
	}

	cached, ok := feed.NewCache(repo, time.Hour, zerolog.Nop()).LoadFresh(ctx)
	if len(posts) > 0 && (!ok || len(cached) != len(posts)) {
		t.Fatalf("expected cache to hold %d posts, got %d (ok=%v)", len(posts), len(cached), ok)
	}

	if len(posts) == 0 {
		return
	}
	if err := svc.SaveEditPost(ctx, posts[0]); err != nil {
		t.Fatalf("SaveEditPost returned error: %v", err)
	}
	edit, err := svc.LoadEditPost(ctx)
	if err != nil || !feed.SamePost(edit, posts[0]) {
		t.Fatalf("unexpected edit record: %+v %v", edit, err)
	}
	if _, err := editor.Parse(edit.Content); err != nil {
		t.Fatalf("post content does not parse: %v", err)
	}
}
