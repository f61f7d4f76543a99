package cli

import (
	"strings"

	"github.com/sandevgo/cmdgate/internal/core"
)

// completer feeds readline's tab completion from the command tree. Only
// suggestions extending the typed token are offered, since readline appends
// the candidate to the line.
type completer struct {
	dispatcher core.Dispatcher
	sender     func() core.Sender
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	typed := string(line[:pos])

	last := typed
	if i := strings.LastIndexByte(typed, ' '); i >= 0 {
		last = typed[i+1:]
	}
	prefix := strings.ToLower(strings.TrimPrefix(last, "/"))

	var out [][]rune
	for _, s := range c.dispatcher.Suggest(c.sender(), typed) {
		if !strings.HasPrefix(strings.ToLower(s), prefix) {
			continue
		}
		out = append(out, []rune(s[len(prefix):]+" "))
	}
	return out, len([]rune(prefix))
}
