package tree

import (
	"iter"
	"sort"
	"strings"

	"github.com/sandevgo/cmdgate/internal/core"
)

// HelpEntry describes one command visible to a sender.
type HelpEntry struct {
	Syntax      string
	Description string
	Confirm     bool
}

const confirmDescription = "Run the command waiting for your confirmation"

// Query yields the commands sender may run whose syntax contains query,
// ignoring case, sorted by syntax. Nothing is cached: every iteration reads
// the tree and the sender's permissions again.
func (t *Tree) Query(sender core.Sender, query string) iter.Seq[HelpEntry] {
	q := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(query), "/")))

	return func(yield func(HelpEntry) bool) {
		for _, e := range t.entries(sender) {
			if q != "" && !strings.Contains(strings.ToLower(e.Syntax), q) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func (t *Tree) entries(sender core.Sender) []HelpEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []HelpEntry
	if t.confirm != nil {
		out = append(out, HelpEntry{Syntax: t.confirm.name, Description: confirmDescription})
	}
	t.root.walk(func(c *core.Command) {
		if !c.Permitted(sender) || !c.AcceptsKind(sender.Kind()) {
			return
		}
		out = append(out, HelpEntry{Syntax: c.Syntax, Description: c.Description, Confirm: c.Confirm})
	})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Syntax < out[j].Syntax
	})
	return out
}
