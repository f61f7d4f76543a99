package tree

import (
	"sort"
	"strings"

	"github.com/sandevgo/cmdgate/internal/core"
)

// Suggest completes the last token of partial. Candidates are child literals
// and closed-set argument values whose text contains the token, ignoring case.
// Only the completed token is returned, not the whole line.
func (t *Tree) Suggest(sender core.Sender, partial string) []string {
	partial = strings.TrimPrefix(strings.TrimLeft(partial, " "), "/")
	tokens := strings.Fields(partial)
	last := ""
	if len(tokens) > 0 && !strings.HasSuffix(partial, " ") {
		last = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	last = strings.ToLower(last)

	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if !strings.Contains(strings.ToLower(s), last) {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	cur := t.root
	for pos := 0; pos < len(tokens); {
		next, n := t.step(cur, sender, tokens[pos:])
		if next == nil {
			return nil
		}
		cur = next
		pos += n
	}

	if cur == t.root && t.confirm != nil {
		add(t.confirm.name)
	}
	for _, c := range cur.children {
		if !c.visible(sender) {
			continue
		}
		switch c.kind {
		case kindLiteral:
			add(c.name)
		case kindArgument:
			if s, ok := c.parser.(Suggester); ok {
				for _, v := range s.Suggestions() {
					add(v)
				}
			}
		}
	}

	sort.Strings(out)
	return out
}

func (t *Tree) step(cur *node, sender core.Sender, tokens []string) (*node, int) {
	if next := cur.literal(tokens[0]); next != nil && next.visible(sender) {
		return next, 1
	}
	for _, c := range cur.children {
		if c.kind != kindArgument || !c.visible(sender) {
			continue
		}
		if _, n, err := c.parser.Parse(tokens); err == nil {
			if n < 1 {
				n = 1
			}
			if n > len(tokens) {
				n = len(tokens)
			}
			return c, n
		}
	}
	return nil, 0
}
