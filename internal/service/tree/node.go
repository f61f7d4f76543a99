package tree

import (
	"slices"
	"strings"

	"github.com/sandevgo/cmdgate/internal/core"
)

type node struct {
	kind     elementKind
	name     string
	aliases  []string
	parser   Parser
	children []*node
	command  *core.Command
}

func newNode(e Element) *node {
	return &node{kind: e.kind, name: e.name, aliases: e.aliases, parser: e.parser}
}

func (n *node) matches(token string) bool {
	if n.kind == kindArgument {
		return false
	}
	token = strings.ToLower(token)
	if n.name == token {
		return true
	}
	for _, a := range n.aliases {
		if a == token {
			return true
		}
	}
	return false
}

// slot returns the child e would occupy, or nil when e opens a new branch.
// ok is false when e would shadow or be shadowed by a different sibling:
// a literal whose name or alias another literal already answers to, or an
// argument unlike the one already at this position.
func (n *node) slot(e Element) (child *node, ok bool) {
	for _, c := range n.children {
		if c.kind != e.kind {
			continue
		}
		switch e.kind {
		case kindArgument:
			if c.name != e.name || !sameParser(c.parser, e.parser) {
				return nil, false
			}
			return c, true
		case kindLiteral:
			if c.name == e.name {
				child = c
				continue
			}
			if c.matches(e.name) || slices.ContainsFunc(e.aliases, c.matches) {
				return nil, false
			}
		}
	}
	return child, true
}

func (n *node) literal(token string) *node {
	for _, c := range n.children {
		if c.kind == kindLiteral && c.matches(token) {
			return c
		}
	}
	return nil
}

func (n *node) syntax() string {
	if n.kind == kindArgument {
		return "<" + n.name + ">"
	}
	return n.name
}

// visible reports whether sender may run at least one command at or below n.
func (n *node) visible(sender core.Sender) bool {
	if n.command != nil && n.command.Permitted(sender) {
		return true
	}
	for _, c := range n.children {
		if c.visible(sender) {
			return true
		}
	}
	return false
}

// walk calls fn for every command at or below n in registration order.
func (n *node) walk(fn func(*core.Command)) {
	if n.command != nil {
		fn(n.command)
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}

func mergeAliases(dst, src []string) []string {
	for _, a := range src {
		found := false
		for _, d := range dst {
			if d == a {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, a)
		}
	}
	return dst
}
