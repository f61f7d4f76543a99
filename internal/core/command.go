package core

import (
	"context"
	"strings"
)

// Dispatcher is the call surface transports feed raw input into.
type Dispatcher interface {
	Handle(ctx context.Context, sender Sender, input string)
	Suggest(sender Sender, partial string) []string
}

// Handler runs a resolved command. A non-empty result is delivered to the
// sender as a success message.
type Handler func(ctx context.Context, req *Request) (string, error)

// Command is a registered terminal of the command tree.
type Command struct {
	Syntax      string
	Description string
	Permission  string
	SenderKinds []string
	Confirm     bool
	Handler     Handler
}

// Permitted reports whether sender may run the command.
func (c *Command) Permitted(sender Sender) bool {
	return c.Permission == "" || sender.HasPermission(c.Permission)
}

// AcceptsKind reports whether the command may be issued by a sender of the given kind.
func (c *Command) AcceptsKind(kind string) bool {
	if len(c.SenderKinds) == 0 {
		return true
	}
	for _, k := range c.SenderKinds {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}
