package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/sheetblog/internal/tui/theme"
)

const (
	ScreenList   = "list"
	ScreenDetail = "detail"
	ScreenEditor = "editor"
	ScreenSearch = "search"
)

func Toolbar(screen string) string {
	switch screen {
	case ScreenDetail:
		return "j/k scroll | e edit | D delete | o open image | y copy | p preview | esc back | ? help"
	case ScreenEditor:
		return "tab title/body | ctrl+f format | ctrl+o image | ctrl+s publish | esc leave"
	case ScreenSearch:
		return "type to filter | enter keep | esc clear"
	default:
		return "j/k move | enter open | / search | w write | r refresh | ? help | q quit"
	}
}

func Footer(mode, location string, shown, total int, searchQuery string, syncing bool, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(mode),
		th.MetaValue.Render(fmt.Sprintf("%d/%d posts", shown, total)),
	}
	if location != "" {
		parts = append(parts, th.MetaLabel.Render("at")+" "+th.MetaValue.Render(location))
	}
	if searchQuery != "" {
		parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(fmt.Sprintf("%q (%d)", searchQuery, shown)))
	}
	sync := "paused"
	if syncing {
		sync = "on"
	}
	parts = append(parts, th.MetaLabel.Render("sync")+" "+th.MetaValue.Render(sync))
	return strings.Join(parts, " • ")
}

func Message(loading bool, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
