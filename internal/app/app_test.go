package app

import (
	"context"
	"errors"
	"testing"

	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/storage"
)

type fakeFeed struct {
	posts   []feed.Post
	err     error
	deleted []feed.Post
}

func (f *fakeFeed) Fetch(context.Context) ([]feed.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.posts, nil
}

func (f *fakeFeed) Delete(_ context.Context, post feed.Post) error {
	f.deleted = append(f.deleted, post)
	return f.err
}

type fakePublisher struct {
	drafts []editor.Draft
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, draft editor.Draft) (editor.PublishResult, error) {
	f.drafts = append(f.drafts, draft)
	if f.err != nil {
		return editor.PublishResult{}, f.err
	}
	return editor.PublishResult{Post: feed.Post{Title: draft.Title}}, nil
}

type fakeStore struct {
	values map[string][]byte
	err    error
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	v, ok := f.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.values == nil {
		f.values = map[string][]byte{}
	}
	f.values[key] = value
	return nil
}

func TestService_FetchWrapsErrors(t *testing.T) {
	fetchErr := errors.New("offline")
	svc := NewService(&fakeFeed{err: fetchErr}, &fakePublisher{}, &fakeStore{})

	_, err := svc.Fetch(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestService_PublishPassesDraft(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(&fakeFeed{}, pub, &fakeStore{})

	res, err := svc.Publish(context.Background(), editor.Draft{Title: "Hello", Doc: editor.NewDocument()})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if res.Post.Title != "Hello" || len(pub.drafts) != 1 {
		t.Fatalf("unexpected result: %+v drafts=%d", res, len(pub.drafts))
	}

	pub.err = editor.ErrEmptyTitle
	if _, err := svc.Publish(context.Background(), editor.Draft{}); !errors.Is(err, editor.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_EditPostRoundTripAndOverwrite(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(&fakeFeed{}, &fakePublisher{}, store)
	ctx := context.Background()

	if _, err := svc.LoadEditPost(ctx); !errors.Is(err, ErrNoEditPost) {
		t.Fatalf("expected ErrNoEditPost, got %v", err)
	}

	first := feed.Post{Title: "First", Content: "<p>1</p>", Timestamp: "2026-01-01T00:00:00.000Z"}
	second := feed.Post{Title: "Second", Content: "<p>2</p>", ImageURL: "a,b", Timestamp: "2026-01-02T00:00:00.000Z"}
	if err := svc.SaveEditPost(ctx, first); err != nil {
		t.Fatalf("SaveEditPost returned error: %v", err)
	}
	if err := svc.SaveEditPost(ctx, second); err != nil {
		t.Fatalf("SaveEditPost returned error: %v", err)
	}

	got, err := svc.LoadEditPost(ctx)
	if err != nil {
		t.Fatalf("LoadEditPost returned error: %v", err)
	}
	if got != second {
		t.Fatalf("expected the last saved post, got %+v", got)
	}
}

func TestService_EditPostStorageFailure(t *testing.T) {
	store := &fakeStore{err: storage.ErrStorage}
	svc := NewService(&fakeFeed{}, &fakePublisher{}, store)

	if err := svc.SaveEditPost(context.Background(), feed.Post{Title: "x"}); !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if _, err := svc.LoadEditPost(context.Background()); !errors.Is(err, storage.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
