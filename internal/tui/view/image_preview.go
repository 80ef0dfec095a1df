package view

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/glabrego/sheetblog/internal/editor"
)

const (
	previewRows        = 18
	previewMinWidth    = 30
	previewMaxDownload = 5 * 1024 * 1024
	kittyEscape        = "\x1b_G"
)

// Terminal describes the graphics support of the terminal sheetblog runs in.
type Terminal struct {
	Kitty bool
	Tmux  bool
}

// DetectTerminal inspects the environment through getenv.
func DetectTerminal(getenv func(string) string) Terminal {
	lower := func(key string) string { return strings.ToLower(strings.TrimSpace(getenv(key))) }
	program, term := lower("TERM_PROGRAM"), lower("TERM")
	kitty := getenv("KITTY_WINDOW_ID") != "" ||
		strings.Contains(program, "kitty") || strings.Contains(program, "ghostty") ||
		strings.Contains(term, "xterm-kitty") || strings.Contains(term, "ghostty")
	return Terminal{Kitty: kitty, Tmux: getenv("TMUX") != ""}
}

func (t Terminal) chafaArgs(width int) []string {
	size := fmt.Sprintf("%dx%d", width, previewRows)
	args := []string{"--size", size, "--view-size", size, "--align", "top,center"}
	if !t.Kitty {
		return append(args, "--format", "symbols", "-")
	}
	passthrough := "none"
	if t.Tmux {
		passthrough = "screen"
	}
	return append(args, "--format", "kitty", "--passthrough", passthrough, "--relative", "on", "-")
}

// HasKittyGraphics reports whether s carries a kitty graphics escape.
// Such lines must reach the terminal untouched.
func HasKittyGraphics(s string) bool {
	return strings.Contains(s, kittyEscape)
}

// Previewer draws post images in the terminal with chafa.
type Previewer struct {
	Terminal Terminal
	Client   *http.Client
	LookPath func(string) (string, error)
}

func NewPreviewer() *Previewer {
	return &Previewer{
		Terminal: DetectTerminal(os.Getenv),
		Client:   &http.Client{Timeout: 8 * time.Second},
		LookPath: exec.LookPath,
	}
}

// Render previews imageURL. Staged images arrive as data: URIs and are
// decoded instead of downloaded.
func (p *Previewer) Render(imageURL string, width int) (string, error) {
	data, err := p.fetch(imageURL)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", fmt.Errorf("not an image")
	}
	return p.draw(data, width)
}

func (p *Previewer) fetch(imageURL string) ([]byte, error) {
	if strings.HasPrefix(imageURL, "data:") {
		_, data, err := editor.DecodeDataURI(imageURL)
		return data, err
	}
	resp, err := p.Client.Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, previewMaxDownload))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

func (p *Previewer) draw(data []byte, width int) (string, error) {
	if width < previewMinWidth {
		width = 40
	}
	chafa, err := p.LookPath("chafa")
	if err != nil {
		return "", fmt.Errorf("chafa is not installed")
	}
	cmd := exec.Command(chafa, p.Terminal.chafaArgs(width)...)
	cmd.Stdin = bytes.NewReader(data)
	out, err := cmd.CombinedOutput()
	raw := string(out)
	if err != nil {
		return "", fmt.Errorf("render image via chafa: %w: %s", err, strings.TrimSpace(raw))
	}
	if p.Terminal.Kitty && HasKittyGraphics(raw) {
		return strings.TrimRight(raw, "\r\n"), nil
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("empty output")
	}
	return strings.TrimSpace(raw), nil
}
