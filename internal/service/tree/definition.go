package tree

import (
	"strings"

	"github.com/sandevgo/cmdgate/internal/core"
)

type elementKind int

const (
	kindLiteral elementKind = iota
	kindArgument
	kindConfirm
)

// Element is one step of a command path: a literal token or a typed argument.
type Element struct {
	kind    elementKind
	name    string
	aliases []string
	parser  Parser
}

// Literal matches the token name or any alias, case-insensitively.
func Literal(name string, aliases ...string) Element {
	return Element{kind: kindLiteral, name: strings.ToLower(name), aliases: lower(aliases)}
}

// Arg consumes one or more tokens with p and stores the value under name.
func Arg(name string, p Parser) Element {
	return Element{kind: kindArgument, name: name, parser: p}
}

func (e Element) syntax() string {
	if e.kind == kindArgument {
		return "<" + e.name + ">"
	}
	return e.name
}

// Definition describes a command to register.
type Definition struct {
	Path        []Element
	Description string
	// Permission is checked with Sender.HasPermission; empty means open.
	Permission string
	// SenderKinds restricts the command to senders of these kinds; empty means any.
	SenderKinds []string
	// Confirm parks the command until the sender confirms it.
	Confirm bool
	Handler core.Handler
}

func (d Definition) syntax() string {
	parts := make([]string, len(d.Path))
	for i, e := range d.Path {
		parts[i] = e.syntax()
	}
	return strings.Join(parts, " ")
}

func lower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
