package feed

import "github.com/glabrego/sheetblog/internal/search"

// Filter returns the cards to render for query, newest first. The working
// list is never modified; card indexes point into state.Posts.
func Filter(state State, matcher search.Matcher, query string) ([]Card, error) {
	if query == "" || matcher == nil {
		return Sorted(state.Posts), nil
	}
	matched, err := matcher.Match(state.Posts, query)
	if err != nil {
		return nil, err
	}
	cards := Sorted(matched)
	for i := range cards {
		cards[i].Index = IndexOf(state.Posts, cards[i].Post)
	}
	return cards, nil
}
