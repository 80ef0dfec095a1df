package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/glabrego/sheetblog/internal/editor"
	"github.com/glabrego/sheetblog/internal/feed"
	"github.com/glabrego/sheetblog/internal/storage"
)

var ErrNoEditPost = errors.New("no post is being edited")

type Feed interface {
	Fetch(ctx context.Context) ([]feed.Post, error)
	Delete(ctx context.Context, post feed.Post) error
}

type Publisher interface {
	Publish(ctx context.Context, draft editor.Draft) (editor.PublishResult, error)
}

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Service is what the UI calls for everything that leaves the process.
type Service struct {
	feed      Feed
	publisher Publisher
	store     Store
}

func NewService(feed Feed, publisher Publisher, store Store) *Service {
	return &Service{feed: feed, publisher: publisher, store: store}
}

func (s *Service) Fetch(ctx context.Context) ([]feed.Post, error) {
	posts, err := s.feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	return posts, nil
}

func (s *Service) Delete(ctx context.Context, post feed.Post) error {
	return s.feed.Delete(ctx, post)
}

func (s *Service) Publish(ctx context.Context, draft editor.Draft) (editor.PublishResult, error) {
	res, err := s.publisher.Publish(ctx, draft)
	if err != nil {
		return editor.PublishResult{}, fmt.Errorf("publish post: %w", err)
	}
	return res, nil
}

// SaveEditPost records post as the one the editor opens in edit mode. Any
// earlier record is overwritten.
func (s *Service) SaveEditPost(ctx context.Context, post feed.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("encode edit post: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyEditPost, data); err != nil {
		return fmt.Errorf("save edit post: %w", err)
	}
	return nil
}

func (s *Service) LoadEditPost(ctx context.Context) (feed.Post, error) {
	data, err := s.store.Get(ctx, storage.KeyEditPost)
	if errors.Is(err, storage.ErrNotFound) {
		return feed.Post{}, ErrNoEditPost
	}
	if err != nil {
		return feed.Post{}, fmt.Errorf("load edit post: %w", err)
	}
	var post feed.Post
	if err := json.Unmarshal(data, &post); err != nil {
		return feed.Post{}, fmt.Errorf("decode edit post: %w", err)
	}
	return post, nil
}
