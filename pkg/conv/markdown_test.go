package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToTelegramHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty input", input: "", expected: ""},
		{name: "plain text", input: "Hello world", expected: "Hello world\n"},
		{name: "bold text", input: "**bold**", expected: "<strong>bold</strong>\n"},
		{name: "inline code", input: "`code`", expected: "<code>code</code>\n"},
		{
			name:     "code block with language",
			input:    "```go\nfunc main() {}\n```",
			expected: "<pre><code class=\"language-go\">func main() {}\n</code></pre>\n",
		},
		{
			name:     "link keeps href only",
			input:    "[link](https://example.com)",
			expected: "<a href=\"https://example.com\">link</a>\n",
		},
		{name: "header tags stripped", input: "# Info", expected: "Info\n"},
		{name: "script tags sanitized", input: "<script>alert('xss')</script>", expected: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}

func TestReplyHTML_Trims(t *testing.T) {
	assert.Equal(t, "<strong>hi</strong>", ReplyHTML("  **hi**  \n"))
	assert.Equal(t, "", ReplyHTML("   "))
}

func TestHTMLToPlain(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		absent   string
	}{
		{name: "bold", input: "<strong>done</strong>", contains: "done", absent: "<strong>"},
		{name: "code", input: "<pre><code>x := 1</code></pre>", contains: "x := 1", absent: "<code>"},
		{name: "link text kept", input: `<a href="https://example.com">docs</a>`, contains: "docs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTMLToPlain(tt.input)
			assert.Contains(t, got, tt.contains)
			if tt.absent != "" {
				assert.NotContains(t, got, tt.absent)
			}
		})
	}
}
