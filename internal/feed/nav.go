package feed

import (
	"fmt"
	"strconv"
	"strings"
)

const RoutePost = "post"

const fragmentPrefix = "#post-"

// Route is one history entry of the detail view. Index points into the
// list at Version; Post is what was shown.
type Route struct {
	Type    string
	Index   int
	Version uint64
	Post    Post
}

// in relocates r in state. A route from an older list is looked up again by
// its post.
func (r Route) in(state State) (Route, bool) {
	if r.Version == state.Version {
		_, ok := state.At(r.Index)
		return r, ok
	}
	index := IndexOf(state.Posts, r.Post)
	if index < 0 {
		return Route{}, false
	}
	r.Index = index
	r.Version = state.Version
	return r, true
}

func (r Route) Fragment() string {
	return fmt.Sprintf("%s%d", fragmentPrefix, r.Index)
}

// ParseFragment reads a "#post-<N>" location fragment.
func ParseFragment(fragment string) (int, bool) {
	fragment = strings.TrimSpace(fragment)
	if !strings.HasPrefix(fragment, fragmentPrefix) {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(fragment, fragmentPrefix))
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

// Snapshot is the list view as it was rendered when a detail was opened.
type Snapshot struct {
	Version uint64
	Cards   []Card
	Cursor  int
	Query   string
}

type BackAction int

const (
	BackNone BackAction = iota
	// BackRestore shows the snapshot as-is.
	BackRestore
	// BackRerender renders the list again because the snapshot is stale.
	BackRerender
	// BackReload starts over with a full load because there is no snapshot.
	BackReload
	// BackPost shows an earlier detail entry.
	BackPost
)

type BackResult struct {
	Action   BackAction
	Snapshot Snapshot
	Route    Route
}

type Navigator struct {
	stack      []Route
	snapshot   *Snapshot
	pending    int
	hasPending bool
}

func NewNavigator() *Navigator {
	return &Navigator{}
}

// SetPending records a deep link to resolve once the list is available.
func (n *Navigator) SetPending(fragment string) bool {
	index, ok := ParseFragment(fragment)
	if !ok {
		return false
	}
	n.pending = index
	n.hasPending = true
	return true
}

// ResolvePending returns the deep-linked index once state holds that post.
// A resolved link is consumed.
func (n *Navigator) ResolvePending(state State) (int, bool) {
	if !n.hasPending {
		return 0, false
	}
	if _, ok := state.At(n.pending); !ok {
		return 0, false
	}
	n.hasPending = false
	return n.pending, true
}

// ShowPost pushes a detail entry for the post at index in state. Opening
// from the list captures snap; a nil snap means no list was on screen.
func (n *Navigator) ShowPost(state State, index int, snap *Snapshot) (Route, bool) {
	post, ok := state.At(index)
	if !ok {
		return Route{}, false
	}
	if len(n.stack) == 0 {
		n.snapshot = nil
		if snap != nil {
			captured := *snap
			captured.Cards = append([]Card(nil), snap.Cards...)
			n.snapshot = &captured
		}
	}
	n.hasPending = false
	route := Route{Type: RoutePost, Index: index, Version: state.Version, Post: post}
	n.stack = append(n.stack, route)
	return route, true
}

func (n *Navigator) Current() (Route, bool) {
	if len(n.stack) == 0 {
		return Route{}, false
	}
	return n.stack[len(n.stack)-1], true
}

// Location is the fragment of the current entry, empty on the list.
func (n *Navigator) Location() string {
	route, ok := n.Current()
	if !ok {
		return ""
	}
	return route.Fragment()
}

// Back pops the current entry. An earlier detail entry is shown again if
// state still holds its post, found by identity when the list has changed
// since. Otherwise the list comes back from the snapshot when it was taken
// at state's version.
func (n *Navigator) Back(state State) BackResult {
	if len(n.stack) == 0 {
		return BackResult{Action: BackNone}
	}
	n.stack = n.stack[:len(n.stack)-1]

	if prev, ok := n.Current(); ok && prev.Type == RoutePost {
		if route, ok := prev.in(state); ok {
			n.stack[len(n.stack)-1] = route
			return BackResult{Action: BackPost, Route: route}
		}
	}
	n.stack = nil

	if n.snapshot == nil {
		return BackResult{Action: BackReload}
	}
	snap := *n.snapshot
	if snap.Version != state.Version {
		return BackResult{Action: BackRerender, Snapshot: snap}
	}
	return BackResult{Action: BackRestore, Snapshot: snap}
}

// Reset forgets history and the list snapshot.
func (n *Navigator) Reset() {
	n.stack = nil
	n.snapshot = nil
	n.hasPending = false
}
