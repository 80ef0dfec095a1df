package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var ErrDeleteInFlight = errors.New("a delete is already in progress")

type Client interface {
	ListPosts(ctx context.Context) ([]Post, error)
	DeletePost(ctx context.Context, timestamp string) error
}

// State is the working post list. Version increases every time the list is
// replaced, so readers can tell whether what they rendered is still current.
type State struct {
	Posts   []Post
	Version uint64
}

func (s State) Empty() bool {
	return len(s.Posts) == 0
}

// At returns the post at index of the working list.
func (s State) At(index int) (Post, bool) {
	if index < 0 || index >= len(s.Posts) {
		return Post{}, false
	}
	return s.Posts[index], true
}

type StartResult struct {
	FromCache  bool
	NeedsFetch bool
}

// Controller owns the post list. Start, Reconcile and FetchFailed must run
// on the UI loop; Fetch and Delete touch no state and may run anywhere.
type Controller struct {
	client   Client
	cache    *Cache
	log      zerolog.Logger
	state    State
	deleting atomic.Bool
}

func NewController(client Client, cache *Cache, log zerolog.Logger) *Controller {
	return &Controller{client: client, cache: cache, log: log}
}

func (c *Controller) State() State {
	return c.state
}

// Start adopts a fresh cached list when one exists.
func (c *Controller) Start(ctx context.Context) StartResult {
	posts, ok := c.cache.LoadFresh(ctx)
	if !ok {
		return StartResult{NeedsFetch: true}
	}
	c.replace(posts)
	c.log.Info().Int("posts", len(posts)).Msg("post list loaded from cache")
	return StartResult{FromCache: true}
}

func (c *Controller) Fetch(ctx context.Context) ([]Post, error) {
	posts, err := c.client.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	return ValidPosts(posts), nil
}

// Reconcile adopts posts when they differ from the working list and reports
// whether anything changed. An identical list is a no-op: no version bump,
// no cache write.
func (c *Controller) Reconcile(ctx context.Context, posts []Post) bool {
	next, err := Serialize(posts)
	if err != nil {
		c.log.Error().Err(err).Msg("serialize fetched posts")
		return false
	}
	current, err := Serialize(c.state.Posts)
	if err == nil && bytes.Equal(next, current) {
		return false
	}

	c.replace(posts)
	if err := c.cache.Save(ctx, c.state.Posts); err != nil {
		c.log.Warn().Err(err).Msg("post cache write failed")
	}
	c.log.Info().Int("posts", len(posts)).Uint64("version", c.state.Version).Msg("post list replaced")
	return true
}

// FetchFailed handles a failed fetch. When nothing is on screen yet it falls
// back to any cached list, however old, and reports whether one was adopted.
// Otherwise the failure is swallowed and the current list stays.
func (c *Controller) FetchFailed(ctx context.Context, err error, viewEmpty bool) bool {
	if !viewEmpty {
		c.log.Debug().Err(err).Msg("background refresh failed")
		return false
	}
	c.log.Warn().Err(err).Msg("post fetch failed, falling back to cache")
	posts, ok := c.cache.LoadAny(ctx)
	if !ok {
		return false
	}
	c.replace(posts)
	return true
}

// Delete removes post on the remote service by timestamp. Only one delete
// may be outstanding; the working list is not touched.
func (c *Controller) Delete(ctx context.Context, post Post) error {
	if !c.deleting.CompareAndSwap(false, true) {
		return ErrDeleteInFlight
	}
	defer c.deleting.Store(false)

	if err := c.client.DeletePost(ctx, post.Timestamp); err != nil {
		return fmt.Errorf("delete post %q: %w", post.Timestamp, err)
	}
	c.log.Info().Str("timestamp", post.Timestamp).Msg("post deleted")
	return nil
}

func (c *Controller) replace(posts []Post) {
	c.state = State{
		Posts:   append([]Post(nil), posts...),
		Version: c.state.Version + 1,
	}
}
