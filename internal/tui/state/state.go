package state

import "github.com/glabrego/sheetblog/internal/feed"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// CardCursorForPost finds the card showing post, or -1.
func CardCursorForPost(cards []feed.Card, post feed.Post) int {
	for i, card := range cards {
		if feed.SamePost(card.Post, post) {
			return i
		}
	}
	return -1
}

// CardCursorForIndex finds the card for a working-list index, or -1.
func CardCursorForIndex(cards []feed.Card, index int) int {
	for i, card := range cards {
		if card.Index == index {
			return i
		}
	}
	return -1
}

// CardsPerPage is how many cards of cardHeight lines fit in height.
func CardsPerPage(height, cardHeight int) int {
	if cardHeight <= 0 {
		cardHeight = 1
	}
	n := height / cardHeight
	if n < 1 {
		return 1
	}
	return n
}
