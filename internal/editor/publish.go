package editor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/sheetblog/internal/postservice"
)

// MaxStagedImages caps the uploads of a single publish.
const MaxStagedImages = 10

type PostWriter interface {
	UploadImage(ctx context.Context, filename, mimeType string, data []byte) (string, error)
	CreatePost(ctx context.Context, post postservice.Post) error
	UpdatePost(ctx context.Context, post postservice.Post) error
}

// Draft is what the editor hands over for publishing. Original is set when
// an existing post is being edited.
type Draft struct {
	Title    string
	Doc      Document
	Original *postservice.Post
}

type PublishResult struct {
	Post    postservice.Post
	Doc     Document
	Updated bool
}

type Publisher struct {
	client        PostWriter
	ph            Placeholders
	maxImageBytes int64
	maxFiles      int
	now           func() time.Time
	log           zerolog.Logger
}

func NewPublisher(client PostWriter, ph Placeholders, maxImageBytes int64, log zerolog.Logger) *Publisher {
	return &Publisher{
		client:        client,
		ph:            ph,
		maxImageBytes: maxImageBytes,
		maxFiles:      MaxStagedImages,
		now:           time.Now,
		log:           log,
	}
}

// Publish uploads the draft's staged images one by one in document order,
// rewrites their sources and then creates or updates the post. It works on
// a copy: on any error the draft's document is exactly as it was.
func (p *Publisher) Publish(ctx context.Context, draft Draft) (PublishResult, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return PublishResult{}, ErrEmptyTitle
	}
	if draft.Doc.Blank(p.ph) {
		return PublishResult{}, ErrEmptyContent
	}
	if staged := draft.Doc.StagedCount(); staged > p.maxFiles {
		return PublishResult{}, fmt.Errorf("%w: %d staged, limit %d", ErrTooManyImages, staged, p.maxFiles)
	}

	doc := draft.Doc.Clone()
	refs := make([]string, 0, len(doc.Blocks))
	uploaded := 0
	for i := range doc.Blocks {
		img := doc.Blocks[i].Image
		if img == nil {
			continue
		}
		if !img.Staged() {
			refs = append(refs, img.Src)
			continue
		}

		ref, err := p.upload(ctx, img.Src, uploaded+1)
		if err != nil {
			return PublishResult{}, err
		}
		img.Src = ref
		refs = append(refs, ref)
		uploaded++
	}

	post := postservice.Post{
		Title:     title,
		Content:   Render(doc),
		ImageURL:  postservice.JoinImageRefs(refs),
		Timestamp: p.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}
	updated := draft.Original != nil
	if updated {
		post.Timestamp = draft.Original.Timestamp
		if err := p.client.UpdatePost(ctx, post); err != nil {
			return PublishResult{}, fmt.Errorf("update post: %w", err)
		}
	} else if err := p.client.CreatePost(ctx, post); err != nil {
		return PublishResult{}, fmt.Errorf("create post: %w", err)
	}

	p.log.Info().
		Str("timestamp", post.Timestamp).
		Bool("update", updated).
		Int("images", len(refs)).
		Int("uploaded", uploaded).
		Msg("post published")
	return PublishResult{Post: post, Doc: doc, Updated: updated}, nil
}

func (p *Publisher) upload(ctx context.Context, src string, n int) (string, error) {
	mimeType, data, err := DecodeDataURI(src)
	if err != nil {
		return "", fmt.Errorf("staged image %d: %w", n, err)
	}
	filename := fmt.Sprintf("image_%d.%s", n, extension(mimeType))
	if p.maxImageBytes > 0 && int64(len(data)) > p.maxImageBytes {
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrImageTooLarge, filename, len(data), p.maxImageBytes)
	}

	ref, err := p.client.UploadImage(ctx, filename, mimeType, data)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	p.log.Debug().Str("filename", filename).Str("ref", ref).Msg("image uploaded")
	return ref, nil
}

// extension is the subtype of a media type, "png" for "image/png".
func extension(mimeType string) string {
	if _, sub, ok := strings.Cut(mimeType, "/"); ok && sub != "" {
		return sub
	}
	return "bin"
}
