package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/glabrego/sheetblog/internal/postservice"
)

type fakeWriter struct {
	uploads   []string
	created   []postservice.Post
	updated   []postservice.Post
	uploadErr error
	failAfter int
	createErr error
}

func (f *fakeWriter) UploadImage(_ context.Context, filename, mimeType string, data []byte) (string, error) {
	if f.uploadErr != nil && len(f.uploads) >= f.failAfter {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, filename+"|"+mimeType)
	return fmt.Sprintf("https://drive.example.com/thumbnail?id=up%d&sz=w1000", len(f.uploads)), nil
}

func (f *fakeWriter) CreatePost(_ context.Context, post postservice.Post) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, post)
	return nil
}

func (f *fakeWriter) UpdatePost(_ context.Context, post postservice.Post) error {
	f.updated = append(f.updated, post)
	return nil
}

func newTestPublisher(w PostWriter) *Publisher {
	p := NewPublisher(w, PlaceholdersFor("ko"), testMaxImage, zerolog.Nop())
	p.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return p
}

func staged(mimeType string, data []byte) *Image {
	return &Image{Src: DataURI(mimeType, data)}
}

func threeImageDoc() Document {
	return Document{Blocks: []Block{
		{Kind: Paragraph, Text: "intro"},
		{Kind: Paragraph, Image: staged("image/png", []byte{1, 2, 3})},
		{Kind: Paragraph, Image: &Image{Src: "https://cdn.example.com/b.jpg"}},
		{Kind: Paragraph, Image: staged("image/jpeg", []byte{4, 5})},
		EmptyParagraph(),
	}}
}

func TestPublish_UploadsInDocumentOrder(t *testing.T) {
	w := &fakeWriter{}
	draft := Draft{Title: "  My post ", Doc: threeImageDoc()}

	res, err := newTestPublisher(w).Publish(context.Background(), draft)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if strings.Join(w.uploads, ",") != "image_1.png|image/png,image_2.jpeg|image/jpeg" {
		t.Fatalf("unexpected uploads: %v", w.uploads)
	}
	wantRefs := "https://drive.example.com/thumbnail?id=up1&sz=w1000,https://cdn.example.com/b.jpg,https://drive.example.com/thumbnail?id=up2&sz=w1000"
	if res.Post.ImageURL != wantRefs {
		t.Fatalf("unexpected image refs: %s", res.Post.ImageURL)
	}
	if len(w.created) != 1 || w.created[0].Title != "My post" || w.created[0].Timestamp != "2026-03-01T09:30:00.000Z" {
		t.Fatalf("unexpected created post: %+v", w.created)
	}
	if strings.Contains(res.Post.Content, "data:") {
		t.Fatalf("content still embeds staged data: %s", res.Post.Content)
	}
	if !strings.Contains(res.Post.Content, `src="https://drive.example.com/thumbnail?id=up2&amp;sz=w1000"`) {
		t.Fatalf("content not rewritten: %s", res.Post.Content)
	}
	if res.Doc.StagedCount() != 0 {
		t.Fatal("result document must hold no staged images")
	}
}

func TestPublish_EditReusesTimestampAndUpdates(t *testing.T) {
	w := &fakeWriter{}
	original := postservice.Post{Title: "Old", Content: "<p>old</p>", Timestamp: "2025-12-31T10:00:00.000Z"}
	draft := Draft{Title: "New", Doc: Document{Blocks: []Block{{Kind: Paragraph, Text: "new"}}}, Original: &original}

	res, err := newTestPublisher(w).Publish(context.Background(), draft)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !res.Updated || len(w.updated) != 1 || len(w.created) != 0 {
		t.Fatalf("expected an update, got created=%d updated=%d", len(w.created), len(w.updated))
	}
	if w.updated[0].Timestamp != original.Timestamp || w.updated[0].Content != "<p>new</p>" {
		t.Fatalf("unexpected update payload: %+v", w.updated[0])
	}
}

func TestPublish_UnchangedEditKeepsNestedImagesAndLinks(t *testing.T) {
	original := postservice.Post{
		Title: "Old",
		Content: `<p>intro</p>` +
			`<blockquote>q<img src="https://img.example.com/a.png"></blockquote>` +
			`<ul><li>x<img src="https://img.example.com/b.png"></li></ul>` +
			`<p><b>bold</b> <a href="https://example.com/post">link</a></p>`,
		ImageURL:  "https://img.example.com/a.png,https://img.example.com/b.png",
		Timestamp: "2025-12-31T10:00:00.000Z",
	}
	doc, err := Parse(original.Content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	w := &fakeWriter{}
	res, err := newTestPublisher(w).Publish(context.Background(), Draft{Title: "Old", Doc: doc, Original: &original})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if res.Post.ImageURL != original.ImageURL {
		t.Fatalf("image refs lost: %q", res.Post.ImageURL)
	}
	for _, want := range []string{
		`src="https://img.example.com/a.png"`,
		`src="https://img.example.com/b.png"`,
		`<b>bold</b>`,
		`<a href="https://example.com/post">link</a>`,
		`<blockquote>q</blockquote>`,
	} {
		if !strings.Contains(res.Post.Content, want) {
			t.Fatalf("expected %q in %s", want, res.Post.Content)
		}
	}
	if len(w.uploads) != 0 {
		t.Fatalf("remote images must not be uploaded again: %v", w.uploads)
	}
}

func TestPublish_Validation(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)

	_, err := p.Publish(context.Background(), Draft{Title: "  ", Doc: threeImageDoc()})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
	_, err = p.Publish(context.Background(), Draft{Title: "t", Doc: NewDocument()})
	if !errors.Is(err, ErrEmptyContent) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
	if len(w.uploads)+len(w.created) != 0 {
		t.Fatal("validation failures must not reach the service")
	}
}

func TestPublish_TooManyStagedImages(t *testing.T) {
	doc := Document{}
	for i := 0; i <= MaxStagedImages; i++ {
		doc.Blocks = append(doc.Blocks, Block{Kind: Paragraph, Image: staged("image/png", []byte{byte(i)})})
	}
	w := &fakeWriter{}

	_, err := newTestPublisher(w).Publish(context.Background(), Draft{Title: "t", Doc: doc})
	if !errors.Is(err, ErrTooManyImages) {
		t.Fatalf("expected ErrTooManyImages, got %v", err)
	}
	if len(w.uploads) != 0 {
		t.Fatal("no upload may start when the limit is exceeded")
	}
}

func TestPublish_OversizedStagedImageAborts(t *testing.T) {
	w := &fakeWriter{}
	p := newTestPublisher(w)
	p.maxImageBytes = 2

	_, err := p.Publish(context.Background(), Draft{Title: "t", Doc: threeImageDoc()})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge, got %v", err)
	}
	if len(w.uploads) != 0 || len(w.created) != 0 {
		t.Fatal("oversized image must abort before any upload")
	}
}

func TestPublish_FailureLeavesDraftIntact(t *testing.T) {
	cases := map[string]*fakeWriter{
		"second upload fails": {uploadErr: errors.New("quota"), failAfter: 1},
		"create fails":        {createErr: errors.New("sheet locked")},
	}
	for name, w := range cases {
		t.Run(name, func(t *testing.T) {
			doc := threeImageDoc()
			before := Render(doc)

			_, err := newTestPublisher(w).Publish(context.Background(), Draft{Title: "t", Doc: doc})
			if err == nil {
				t.Fatal("expected publish error")
			}
			if Render(doc) != before || doc.StagedCount() != 2 {
				t.Fatal("failed publish must leave the draft untouched")
			}
		})
	}
}
