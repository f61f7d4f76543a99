package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/internal/service/tree"
	"github.com/sandevgo/cmdgate/internal/transport/cli"
)

const adminPermission = "gate.admin"

type builtins struct {
	started  time.Time
	mode     atomic.Value
	shutdown func()
}

func builtinCommands(shutdown func()) []tree.Definition {
	b := &builtins{started: time.Now(), shutdown: shutdown}
	b.mode.Store("normal")

	return []tree.Definition{
		{
			Path:        []tree.Element{tree.Literal("ping")},
			Description: "Check that the gate answers",
			Handler:     b.ping,
		},
		{
			Path:        []tree.Element{tree.Literal("echo", "say"), tree.Arg("message", tree.Greedy())},
			Description: "Repeat a message",
			Handler:     b.echo,
		},
		{
			Path:        []tree.Element{tree.Literal("roll"), tree.Arg("sides", tree.Int(2, 1000))},
			Description: "Roll a die",
			Handler:     b.roll,
		},
		{
			Path:        []tree.Element{tree.Literal("sleep"), tree.Arg("duration", tree.Duration())},
			Description: "Hold a worker for a while",
			Handler:     b.sleep,
		},
		{
			Path:        []tree.Element{tree.Literal("whoami")},
			Description: "Show who the gate thinks you are",
			Handler:     b.whoami,
		},
		{
			Path:        []tree.Element{tree.Literal("uptime")},
			Description: "Time since start",
			Handler:     b.uptime,
		},
		{
			Path:        []tree.Element{tree.Literal("mode")},
			Description: "Show the current mode",
			Handler:     b.showMode,
		},
		{
			Path:        []tree.Element{tree.Literal("mode"), tree.Arg("mode", tree.Choice("normal", "maintenance"))},
			Description: "Switch mode",
			Permission:  adminPermission,
			Confirm:     true,
			Handler:     b.setMode,
		},
		{
			Path:        []tree.Element{tree.Literal("stop")},
			Description: "Shut the gate down",
			Permission:  adminPermission,
			SenderKinds: []string{cli.ConsoleKind},
			Confirm:     true,
			Handler:     b.stop,
		},
	}
}

func (b *builtins) ping(context.Context, *core.Request) (string, error) {
	return "pong", nil
}

func (b *builtins) echo(_ context.Context, req *core.Request) (string, error) {
	return req.Args.String("message"), nil
}

func (b *builtins) roll(_ context.Context, req *core.Request) (string, error) {
	sides := req.Args.Int("sides")
	return fmt.Sprintf("Rolled %d (d%d)", rand.IntN(sides)+1, sides), nil
}

func (b *builtins) sleep(ctx context.Context, req *core.Request) (string, error) {
	d := req.Args.Duration("duration")
	select {
	case <-time.After(d):
		return fmt.Sprintf("Slept for %s", d), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *builtins) whoami(_ context.Context, req *core.Request) (string, error) {
	return fmt.Sprintf("You are `%s` (%s).", req.Sender.ID(), req.Sender.Kind()), nil
}

func (b *builtins) uptime(context.Context, *core.Request) (string, error) {
	return fmt.Sprintf("Up for %s", time.Since(b.started).Round(time.Second)), nil
}

func (b *builtins) showMode(context.Context, *core.Request) (string, error) {
	return fmt.Sprintf("Mode is **%s**", b.mode.Load()), nil
}

func (b *builtins) setMode(_ context.Context, req *core.Request) (string, error) {
	mode := req.Args.String("mode")
	if old := b.mode.Swap(mode); old == mode {
		return fmt.Sprintf("Mode is already **%s**", mode), nil
	}
	return fmt.Sprintf("Mode switched to **%s**", mode), nil
}

func (b *builtins) stop(context.Context, *core.Request) (string, error) {
	b.shutdown()
	return "Shutting down.", nil
}
