package decorate

import (
	"fmt"
	"strings"
)

// Formatter renders light markdown understood by every transport: bold
// titles, code spans for command syntax, one line per list item.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Title(title string) string {
	return fmt.Sprintf("**%s**\n", title)
}

func (f *Formatter) Command(syntax string) string {
	return fmt.Sprintf("`/%s`", syntax)
}

func (f *Formatter) Entry(syntax, description string) string {
	if description == "" {
		return fmt.Sprintf("› %s", f.Command(syntax))
	}
	return fmt.Sprintf("› %s  %s", f.Command(syntax), description)
}

func (f *Formatter) List(items []string) string {
	return strings.Join(items, "\n")
}

func (f *Formatter) Tip(text string) string {
	return fmt.Sprintf("**Tip**: %s", text)
}

func (f *Formatter) Combine(sections ...string) string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		if s = strings.TrimRight(s, "\n"); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}
