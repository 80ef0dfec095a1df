package editor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// StageImage validates an image file and inserts it as a data: URI in a new
// paragraph at the caret, or at the end of the document when the editor is
// not focused. An empty paragraph follows it and receives the caret. Nothing
// is uploaded here.
func (e *Editor) StageImage(name string, data []byte) error {
	if e.maxImageBytes > 0 && int64(len(data)) > e.maxImageBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrImageTooLarge, name, len(data), e.maxImageBytes)
	}
	mimeType, err := imageType(name, data)
	if err != nil {
		return err
	}

	img := &Image{Src: DataURI(mimeType, data), Alt: name}
	at := len(e.doc.Blocks)
	if e.focused {
		e.deleteSelection()
		cur := e.sel.Focus.Block
		if e.doc.Blocks[cur].IsEmptyParagraph() {
			e.doc.remove(cur)
			at = cur
		} else {
			at = cur + 1
		}
	}

	e.doc.insert(at, Block{Kind: Paragraph, Image: img}, EmptyParagraph())
	e.SetCursor(Position{Block: at + 1})
	return nil
}

// StageFile stages the image at path. The size is checked before the file is
// read.
func (e *Editor) StageFile(path string) error {
	name, data, err := ReadImageFile(path, e.maxImageBytes)
	if err != nil {
		return err
	}
	return e.StageImage(name, data)
}

// ReadImageFile reads the file at path for staging, refusing directories and
// files larger than maxBytes (when positive) without reading them.
func ReadImageFile(path string, maxBytes int64) (string, []byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", ErrNotImage, path)
	}
	name := filepath.Base(path)
	if maxBytes > 0 && info.Size() > maxBytes {
		return "", nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrImageTooLarge, name, info.Size(), maxBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read image: %w", err)
	}
	return name, data, nil
}

// imageType returns the media type of data and rejects anything that does
// not decode as an image.
func imageType(name string, data []byte) (string, error) {
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotImage, name)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNotImage, name, err)
	}
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return mimeType, nil
}

func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data: URI into its media type and bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload")
	}
	mimeType, params, _ := strings.Cut(meta, ";")
	if !strings.Contains(params, "base64") {
		return "", nil, fmt.Errorf("data URI is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mimeType, data, nil
}
