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
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain notice",
			input:    "No commands available.",
			expected: "No commands available.\n",
		},
		{
			name:     "command syntax",
			input:    "Invalid command syntax. Correct command syntax is: `/mode <value>|reset`",
			expected: "Invalid command syntax. Correct command syntax is: <code>/mode &lt;value&gt;|reset</code>\n",
		},
		{
			name:     "bold title",
			input:    "**Available commands**",
			expected: "<strong>Available commands</strong>\n",
		},
		{
			name:     "listing keeps line breaks",
			input:    "**Available commands**\n› `/help`  List available commands\n› `/ping`",
			expected: "<strong>Available commands</strong>\n› <code>/help</code>  List available commands\n› <code>/ping</code>\n",
		},
		{
			name:     "strikethrough",
			input:    "~~strikethrough~~",
			expected: "<del>strikethrough</del>\n",
		},
		{
			name:     "code block with language",
			input:    "```go\nfunc main() {}\n```",
			expected: "<pre><code class=\"language-go\">func main() {}\n</code></pre>\n",
		},
		{
			name:     "link with target blank stripped",
			input:    "[link](https://example.com)",
			expected: "<a href=\"https://example.com\">link</a>\n",
		},
		{
			name:     "header tags stripped",
			input:    "# Info",
			expected: "Info\n",
		},
		{
			name:     "script tags sanitized",
			input:    "<script>alert('xss')</script>",
			expected: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MarkdownToTelegramHTML([]byte(tt.input)))
		})
	}
}
