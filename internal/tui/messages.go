package tui

type messages struct {
	EmptyList        string
	NoMatches        string
	EmptyExcerpt     string
	Loading          string
	Publishing       string
	TitlePlaceholder string
	DeleteDone       string
	DeleteFailed     string
	PublishDone      string
	UpdateDone       string
	PublishFailed    string
	UpdateFailed     string
	TitleRequired    string
	ContentRequired  string
	ImageTooLarge    string
	NotImage         string
	TooManyImages    string
	NoImage          string
	ImageOpened      string
	URLCopyFallback  string
	URLCopied        string
	OpenURLFailed    string
	CopyURLFailed    string
	FormatLabels     []string
}

// messagesFor returns the user-facing strings for locale. FormatLabels
// follows editor.FormatKinds.
func messagesFor(locale string) messages {
	switch locale {
	case "en":
		return messages{
			EmptyList:        "No posts yet.",
			NoMatches:        "No posts match the search.",
			EmptyExcerpt:     "No content.",
			Loading:          "Loading posts...",
			Publishing:       "Publishing...",
			TitlePlaceholder: "Title",
			DeleteDone:       "Post deleted.",
			DeleteFailed:     "Delete failed: ",
			PublishDone:      "Post published.",
			UpdateDone:       "Post updated.",
			PublishFailed:    "Publishing failed.",
			UpdateFailed:     "Updating failed.",
			TitleRequired:    "Please enter a title.",
			ContentRequired:  "Please enter some content.",
			ImageTooLarge:    "Image is larger than %dMB",
			NotImage:         "Only image files can be added",
			TooManyImages:    "At most %d new images can be uploaded at once.",
			NoImage:          "Post has no image.",
			ImageOpened:      "Opened image in browser.",
			URLCopyFallback:  "Could not open browser, URL copied to clipboard.",
			URLCopied:        "URL copied to clipboard.",
			OpenURLFailed:    "Could not open URL or copy to clipboard.",
			CopyURLFailed:    "Could not copy URL to clipboard.",
			FormatLabels:     []string{"Heading 2", "Heading 3", "Quote", "Code", "Ordered list", "Bulleted list", "Image"},
		}
	default:
		return messages{
			EmptyList:        "작성된 포스트가 없습니다.",
			NoMatches:        "검색 결과가 없습니다.",
			EmptyExcerpt:     "내용이 없습니다.",
			Loading:          "포스트를 불러오는 중...",
			Publishing:       "발행 중...",
			TitlePlaceholder: "제목",
			DeleteDone:       "삭제가 완료되었습니다.",
			DeleteFailed:     "삭제 실패: ",
			PublishDone:      "발행 완료되었습니다.",
			UpdateDone:       "수정 완료되었습니다.",
			PublishFailed:    "발행에 실패했습니다.",
			UpdateFailed:     "수정에 실패했습니다.",
			TitleRequired:    "제목을 입력해주세요.",
			ContentRequired:  "내용을 입력해주세요.",
			ImageTooLarge:    "이미지 크기가 %dMB를 초과합니다",
			NotImage:         "이미지 파일만 추가할 수 있습니다",
			TooManyImages:    "새 이미지는 한 번에 최대 %d개까지 올릴 수 있습니다.",
			NoImage:          "이미지가 없는 포스트입니다.",
			ImageOpened:      "브라우저에서 이미지를 열었습니다.",
			URLCopyFallback:  "브라우저를 열 수 없어 URL을 클립보드에 복사했습니다.",
			URLCopied:        "URL을 클립보드에 복사했습니다.",
			OpenURLFailed:    "URL을 열거나 복사할 수 없습니다.",
			CopyURLFailed:    "URL을 클립보드에 복사할 수 없습니다.",
			FormatLabels:     []string{"제목 2", "제목 3", "인용", "코드", "번호 목록", "글머리 목록", "이미지"},
		}
	}
}
