package postservice

import (
	"net/url"
	"strings"
)

// ThumbnailURL builds the resized-preview URL the image host serves for fileID.
func ThumbnailURL(host, fileID string) string {
	q := make(url.Values)
	q.Set("id", fileID)
	q.Set("sz", "w1000")
	return "https://" + host + "/thumbnail?" + q.Encode()
}

// SplitImageRefs splits a post's comma-joined imageUrl field, dropping blanks.
func SplitImageRefs(imageURL string) []string {
	if strings.TrimSpace(imageURL) == "" {
		return nil
	}
	parts := strings.Split(imageURL, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func JoinImageRefs(refs []string) string {
	return strings.Join(refs, ",")
}

// FileID returns the id= query value of an image reference, if any.
func FileID(ref string) string {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	return parsed.Query().Get("id")
}

// DisplayURL maps an image reference to the URL to show: references that
// carry a host file id become thumbnail URLs, anything else is used as-is.
func DisplayURL(host, ref string) string {
	if id := FileID(ref); id != "" {
		return ThumbnailURL(host, id)
	}
	return strings.TrimSpace(ref)
}
