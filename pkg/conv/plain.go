package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToPlain strips Telegram HTML back to readable text. Used when Telegram
// refuses a chunk because of broken markup.
func HTMLToPlain(s string) string {
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: false})
	if err != nil {
		return bluemondayStrict(s)
	}
	return strings.TrimSpace(text)
}

func bluemondayStrict(s string) string {
	return strings.TrimSpace(stripPolicy.Sanitize(s))
}
