package ui

import (
	"regexp"
	"strings"
)

var (
	titleLine = regexp.MustCompile(`^\*\*([^*]+)\*\*$`)
	boldSpan  = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	codeSpan  = regexp.MustCompile("`([^`]+)`")
)

// Render turns the light markdown produced for senders into styled terminal
// text. Whole bold lines become titles and code spans are highlighted.
func Render(md string) string {
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		if m := titleLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			lines[i] = TitleStyle.Render(m[1])
			continue
		}
		line = codeSpan.ReplaceAllStringFunc(line, func(s string) string {
			return UsageStyle.Render(strings.Trim(s, "`"))
		})
		lines[i] = boldSpan.ReplaceAllString(line, "$1")
	}
	return strings.Join(lines, "\n")
}
