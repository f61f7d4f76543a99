// Package tree stores registered commands as a prefix tree of literal and
// argument nodes and resolves raw input against it.
package tree

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/cmdgate/internal/core"
)

var (
	ErrEmptyPath  = errors.New("command path is empty")
	ErrNoHandler  = errors.New("command has no handler")
	ErrRootIsArgs = errors.New("command path must start with a literal")
)

// Tree is safe for concurrent resolution. Registration takes the write lock
// and is expected to happen before dispatch starts.
type Tree struct {
	mu      sync.RWMutex
	root    *node
	confirm *node
}

// New returns an empty tree. A non-empty confirmWord reserves that root token
// for the confirm pseudo-command.
func New(confirmWord string) *Tree {
	t := &Tree{root: &node{}}
	if confirmWord != "" {
		t.confirm = &node{kind: kindConfirm, name: strings.ToLower(confirmWord)}
	}
	return t
}

// Register inserts def. It fails with *core.DuplicateDefinitionError and
// leaves the tree unchanged when the path is already bound, when a literal
// name or alias is claimed by another sibling, or when an argument differs
// in name or parser from the one already registered at that position.
func (t *Tree) Register(def Definition) error {
	if len(def.Path) == 0 {
		return ErrEmptyPath
	}
	if def.Handler == nil {
		return fmt.Errorf("%s: %w", def.syntax(), ErrNoHandler)
	}
	if def.Path[0].kind != kindLiteral {
		return fmt.Errorf("%s: %w", def.syntax(), ErrRootIsArgs)
	}
	syntax := def.syntax()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.confirm != nil {
		head := newNode(def.Path[0])
		if head.matches(t.confirm.name) || t.confirm.matches(head.name) {
			return &core.DuplicateDefinitionError{Syntax: syntax}
		}
	}
	if !t.fits(def.Path) {
		return &core.DuplicateDefinitionError{Syntax: syntax}
	}

	cur := t.root
	for _, e := range def.Path {
		next, _ := cur.slot(e)
		if next == nil {
			next = newNode(e)
			cur.children = append(cur.children, next)
		} else if e.kind == kindLiteral {
			next.aliases = mergeAliases(next.aliases, e.aliases)
		}
		cur = next
	}
	cur.command = &core.Command{
		Syntax:      syntax,
		Description: def.Description,
		Permission:  def.Permission,
		SenderKinds: def.SenderKinds,
		Confirm:     def.Confirm,
		Handler:     def.Handler,
	}
	return nil
}

// fits reports whether path can be inserted without clashing with a sibling
// or landing on an existing terminal.
func (t *Tree) fits(path []Element) bool {
	cur := t.root
	for _, e := range path {
		next, ok := cur.slot(e)
		if !ok {
			return false
		}
		if next == nil {
			return true
		}
		cur = next
	}
	return cur.command == nil
}

// Commands returns every registered command in registration order.
func (t *Tree) Commands() []*core.Command {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []*core.Command
	t.root.walk(func(c *core.Command) {
		out = append(out, c)
	})
	return out
}

// Resolve matches input against the tree. It has no side effects.
func (t *Tree) Resolve(sender core.Sender, input string) (*core.Request, error) {
	tokens := strings.Fields(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	line := strings.Join(tokens, " ")
	if len(tokens) == 0 {
		return nil, &core.InvalidSyntaxError{Input: line}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.confirm != nil && t.confirm.matches(tokens[0]) {
		if len(tokens) > 1 {
			return nil, &core.InvalidSyntaxError{Input: line, Syntax: t.confirm.name}
		}
		return &core.Request{Sender: sender, Input: line, Confirm: true}, nil
	}

	cur := t.root
	path := make([]string, 0, len(tokens))
	args := core.Args{}

	for pos := 0; pos < len(tokens); {
		if next := cur.literal(tokens[pos]); next != nil {
			if !next.visible(sender) {
				return nil, &core.NoPermissionError{Input: line, Permission: firstPermission(next)}
			}
			path = append(path, next.name)
			cur = next
			pos++
			continue
		}

		var (
			next     *node
			parseErr error
			denied   *node
		)
		for _, c := range cur.children {
			if c.kind != kindArgument {
				continue
			}
			if !c.visible(sender) {
				if denied == nil {
					denied = c
				}
				continue
			}
			v, n, err := c.parser.Parse(tokens[pos:])
			if err != nil {
				if parseErr == nil {
					parseErr = &core.ArgumentParsingError{Position: pos, Token: tokens[pos], Argument: c.name, Err: err}
				}
				continue
			}
			if n < 1 {
				n = 1
			}
			if n > len(tokens)-pos {
				n = len(tokens) - pos
			}
			args[c.name] = v
			pos += n
			next = c
			break
		}

		switch {
		case next != nil:
			path = append(path, next.syntax())
			cur = next
		case parseErr != nil:
			return nil, parseErr
		case denied != nil:
			return nil, &core.NoPermissionError{Input: line, Permission: firstPermission(denied)}
		case cur.command != nil:
			// trailing tokens after a complete command
			return nil, &core.InvalidSyntaxError{Input: line, Syntax: cur.command.Syntax}
		default:
			return nil, &core.InvalidSyntaxError{Input: line, Syntax: usage(cur, path, sender)}
		}
	}

	if cur.command == nil {
		return nil, &core.InvalidSyntaxError{Input: line, Syntax: usage(cur, path, sender)}
	}
	cmd := cur.command
	if !cmd.Permitted(sender) {
		return nil, &core.NoPermissionError{Input: line, Permission: cmd.Permission}
	}
	if !cmd.AcceptsKind(sender.Kind()) {
		return nil, &core.InvalidSenderError{Kind: sender.Kind(), Required: cmd.SenderKinds}
	}

	return &core.Request{Sender: sender, Command: cmd, Args: args, Input: line}, nil
}

// usage renders the matched path followed by the alternatives the sender
// could continue with. It is empty when nothing past the root matched.
func usage(n *node, path []string, sender core.Sender) string {
	if len(path) == 0 {
		return ""
	}
	var alts []string
	for _, c := range n.children {
		if c.visible(sender) {
			alts = append(alts, c.syntax())
		}
	}
	if len(alts) == 0 {
		return strings.Join(path, " ")
	}
	return strings.Join(path, " ") + " " + strings.Join(alts, "|")
}

func firstPermission(n *node) string {
	perm := ""
	n.walk(func(c *core.Command) {
		if perm == "" {
			perm = c.Permission
		}
	})
	return perm
}
