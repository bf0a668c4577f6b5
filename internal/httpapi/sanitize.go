package httpapi

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

var errBadPhoto = errors.New("photoDataUrl must be a data:image/ URL")

// maxCleanPasses bounds cleanText on nested entity encodings.
const maxCleanPasses = 4

// cleanText strips markup from user text and stores it unescaped. Decoding
// entities can surface new tags, so the policy runs again until the text is
// stable. Input that never settles keeps the policy's escaped form.
func cleanText(s string) string {
	cur := s
	for i := 0; i < maxCleanPasses; i++ {
		next := html.UnescapeString(textPolicy.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	return strings.TrimSpace(textPolicy.Sanitize(cur))
}

func cleanTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := cleanText(*s)
	return &v
}

func checkPhoto(url string) error {
	if url == "" || strings.HasPrefix(url, "data:image/") {
		return nil
	}
	return errBadPhoto
}
