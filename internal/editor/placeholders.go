package editor

// Placeholders is the initial text of a new block when nothing is selected.
type Placeholders struct {
	Heading  string
	Quote    string
	Code     string
	ListItem string
}

func PlaceholdersFor(locale string) Placeholders {
	switch locale {
	case "en":
		return Placeholders{
			Heading:  "Heading",
			Quote:    "",
			Code:     `print("Hello, World!")`,
			ListItem: "List item",
		}
	default:
		return Placeholders{
			Heading:  "제목",
			Quote:    "",
			Code:     `print("Hello, World!")`,
			ListItem: "목록",
		}
	}
}

func (p Placeholders) For(kind Kind) string {
	switch kind {
	case Heading:
		return p.Heading
	case Quote:
		return p.Quote
	case Code:
		return p.Code
	case List:
		return p.ListItem
	default:
		return ""
	}
}
