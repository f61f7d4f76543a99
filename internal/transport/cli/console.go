package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/internal/service/ui"
)

const (
	ConsoleID   = "console"
	ConsoleKind = "console"
)

// Console is the local operator. It holds every permission.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

var _ core.Sender = (*Console)(nil)

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) ID() string { return ConsoleID }
func (c *Console) Kind() string { return ConsoleKind }
func (c *Console) HasPermission(string) bool { return true }

// SendMessage may be called from handler goroutines while a prompt is open.
func (c *Console) SendMessage(_ context.Context, msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, ui.Render(msg))
	return err
}
