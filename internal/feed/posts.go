package feed

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/glabrego/sheetblog/internal/postservice"
)

type Post = postservice.Post

// Card is one rendered list entry. Index points into the working list the
// card was built from, not into the sorted order.
type Card struct {
	Post  Post
	Index int
}

// ValidPosts drops entries without a title or content.
func ValidPosts(posts []Post) []Post {
	out := make([]Post, 0, len(posts))
	for _, post := range posts {
		if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Content) == "" {
			continue
		}
		out = append(out, post)
	}
	return out
}

func SamePost(a, b Post) bool {
	return a.Title == b.Title && a.Content == b.Content && a.Timestamp == b.Timestamp
}

// IndexOf returns the position of the first post structurally equal to target.
func IndexOf(posts []Post, target Post) int {
	for i, post := range posts {
		if SamePost(post, target) {
			return i
		}
	}
	return -1
}

// Sorted orders posts newest first. Each card carries the index of its post
// in posts, recomputed by structural match.
func Sorted(posts []Post) []Card {
	cards := make([]Card, 0, len(posts))
	for _, post := range posts {
		cards = append(cards, Card{Post: post, Index: IndexOf(posts, post)})
	}
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Post.Time().After(cards[j].Post.Time())
	})
	return cards
}

// Serialize encodes a list the way it is compared and cached. A nil list
// encodes like an empty one.
func Serialize(posts []Post) ([]byte, error) {
	if posts == nil {
		posts = []Post{}
	}
	return json.Marshal(posts)
}
