package core

import "context"

// Sender is whoever issued a command: a console operator, a chat user.
// ID must be stable for the lifetime of the session, pending confirmations
// are keyed by it.
type Sender interface {
	ID() string
	Kind() string
	HasPermission(permission string) bool
	SendMessage(ctx context.Context, msg string) error
}
