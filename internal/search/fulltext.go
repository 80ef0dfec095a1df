package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/glabrego/sheetblog/internal/postservice"
	"github.com/glabrego/sheetblog/internal/render/article"
)

type indexedPost struct {
	Title   string
	Content string
}

// FullText matches posts through an in-memory bleve index. The index is
// rebuilt whenever it is asked about a different list than last time.
// Results keep the order of posts.
type FullText struct {
	index       bleve.Index
	fingerprint []byte
}

func NewFullText() *FullText {
	return &FullText{}
}

func (f *FullText) Match(posts []postservice.Post, query string) ([]postservice.Post, error) {
	if strings.TrimSpace(query) == "" {
		return append([]postservice.Post(nil), posts...), nil
	}
	if err := f.ensureIndex(posts); err != nil {
		return nil, err
	}

	q := bleve.NewMatchQuery(query)
	req := bleve.NewSearchRequestOptions(q, len(posts), 0, false)
	res, err := f.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make(map[int]bool, len(res.Hits))
	for _, hit := range res.Hits {
		i, err := strconv.Atoi(hit.ID)
		if err != nil || i < 0 || i >= len(posts) {
			continue
		}
		hits[i] = true
	}
	out := make([]postservice.Post, 0, len(hits))
	for i, post := range posts {
		if hits[i] {
			out = append(out, post)
		}
	}
	return out, nil
}

func (f *FullText) Close() error {
	if f.index == nil {
		return nil
	}
	return f.index.Close()
}

func (f *FullText) ensureIndex(posts []postservice.Post) error {
	fingerprint, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("fingerprint posts: %w", err)
	}
	if f.index != nil && bytes.Equal(fingerprint, f.fingerprint) {
		return nil
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	batch := idx.NewBatch()
	for i, post := range posts {
		doc := indexedPost{Title: post.Title, Content: article.PlainText(post.Content)}
		if err := batch.Index(strconv.Itoa(i), doc); err != nil {
			_ = idx.Close()
			return fmt.Errorf("batch index %d: %w", i, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return fmt.Errorf("commit batch: %w", err)
	}

	if f.index != nil {
		_ = f.index.Close()
	}
	f.index = idx
	f.fingerprint = fingerprint
	return nil
}

func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", bleve.NewTextFieldMapping())
	docMapping.AddFieldMappingsAt("Content", bleve.NewTextFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
