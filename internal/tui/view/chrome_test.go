package view

import (
	"regexp"
	"strings"
	"testing"

	tuitheme "github.com/glabrego/sheetblog/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func TestToolbar(t *testing.T) {
	cases := map[string]string{
		ScreenList:   "j/k move",
		ScreenDetail: "D delete",
		ScreenEditor: "ctrl+s publish",
		ScreenSearch: "type to filter",
	}
	for screen, want := range cases {
		if got := Toolbar(screen); !strings.Contains(got, want) {
			t.Fatalf("Toolbar(%q) = %q, want it to contain %q", screen, got, want)
		}
	}
}

func TestFooter(t *testing.T) {
	th := tuitheme.Default()
	got := stripANSI(Footer("list", "#post-3", 3, 42, "go", true, th))
	for _, want := range []string{"mode list", "3/42 posts", "at #post-3", `search "go" (3)`, "sync on"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in footer, got %q", want, got)
		}
	}
	if got := stripANSI(Footer("detail", "", 1, 1, "", false, th)); !strings.Contains(got, "sync paused") || strings.Contains(got, "search") {
		t.Fatalf("unexpected footer without search: %q", got)
	}
}

func TestMessage(t *testing.T) {
	th := tuitheme.Default()
	if got := stripANSI(Message(false, false, "", "", th)); !strings.Contains(got, "state: idle | Ready") {
		t.Fatalf("unexpected idle message: %q", got)
	}
	if got := stripANSI(Message(true, false, "", "", th)); !strings.Contains(got, "state: loading") {
		t.Fatalf("unexpected loading message: %q", got)
	}
	if got := stripANSI(Message(false, true, "", "boom", th)); !strings.Contains(got, "state: warning | boom") {
		t.Fatalf("unexpected warning message: %q", got)
	}
	if got := stripANSI(Message(false, true, "삭제가 완료되었습니다.", "boom", th)); !strings.Contains(got, "| 삭제가 완료되었습니다.") {
		t.Fatalf("status must win over warning: %q", got)
	}
}
