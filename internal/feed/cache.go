package feed

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/sheetblog/internal/storage"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
}

// Cache persists the post list together with its capture time in
// milliseconds since the epoch.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

func NewCache(store Store, ttl time.Duration, log zerolog.Logger) *Cache {
	return &Cache{store: store, ttl: ttl, now: time.Now, log: log}
}

// LoadFresh returns the cached list only while it is younger than the TTL.
func (c *Cache) LoadFresh(ctx context.Context) ([]Post, bool) {
	posts, captured, ok := c.load(ctx)
	if !ok {
		return nil, false
	}
	if c.now().Sub(captured) >= c.ttl {
		c.log.Debug().Time("captured", captured).Dur("ttl", c.ttl).Msg("post cache expired")
		return nil, false
	}
	return posts, true
}

// LoadAny returns the cached list regardless of its age.
func (c *Cache) LoadAny(ctx context.Context) ([]Post, bool) {
	posts, _, ok := c.load(ctx)
	return posts, ok
}

func (c *Cache) Save(ctx context.Context, posts []Post) error {
	data, err := Serialize(posts)
	if err != nil {
		return err
	}
	stamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	return c.store.SetMany(ctx, map[string][]byte{
		storage.KeyPostsCache:          data,
		storage.KeyPostsCacheTimestamp: []byte(stamp),
	})
}

func (c *Cache) load(ctx context.Context) ([]Post, time.Time, bool) {
	data, err := c.store.Get(ctx, storage.KeyPostsCache)
	if err != nil {
		c.logReadError(err, storage.KeyPostsCache)
		return nil, time.Time{}, false
	}
	rawStamp, err := c.store.Get(ctx, storage.KeyPostsCacheTimestamp)
	if err != nil {
		c.logReadError(err, storage.KeyPostsCacheTimestamp)
		return nil, time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(string(rawStamp)), 10, 64)
	if err != nil {
		c.log.Warn().Err(err).Msg("post cache timestamp unreadable")
		return nil, time.Time{}, false
	}

	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		c.log.Warn().Err(err).Msg("post cache unparseable")
		return nil, time.Time{}, false
	}
	return posts, time.UnixMilli(ms), true
}

func (c *Cache) logReadError(err error, key string) {
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	c.log.Warn().Err(err).Str("key", key).Msg("post cache read failed")
}
