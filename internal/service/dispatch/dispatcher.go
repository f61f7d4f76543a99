// Package dispatch is the single entry point hosts feed raw command input
// into. It wires the command tree, the confirmation manager, the execution
// coordinator and the decorator together.
package dispatch

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/internal/service/confirm"
	"github.com/sandevgo/cmdgate/internal/service/decorate"
	"github.com/sandevgo/cmdgate/internal/service/executor"
	"github.com/sandevgo/cmdgate/internal/service/tree"
	"github.com/sandevgo/cmdgate/pkg/log"
)

const (
	DefaultHelpCommand    = "help"
	DefaultConfirmCommand = "confirm"
)

type Config struct {
	// Prefix is applied to every message delivered to a sender.
	Prefix decorate.Prefixer

	CacheCapacity int
	CacheTTL      time.Duration

	// Notifiers default to a decorated message sent to the sender.
	OnNoPending       confirm.NoPendingNotifier
	OnConfirmRequired confirm.RequiredNotifier

	HelpCommand    string
	ConfirmCommand string

	Workers     int64
	GracePeriod time.Duration
}

type Dispatcher struct {
	cfg       Config
	tree      *tree.Tree
	exec      *executor.Coordinator
	confirm   *confirm.Manager
	decorator *decorate.Decorator
}

var _ core.Dispatcher = (*Dispatcher)(nil)

func New(cfg Config) (*Dispatcher, error) {
	if cfg.HelpCommand == "" {
		cfg.HelpCommand = DefaultHelpCommand
	}
	if cfg.ConfirmCommand == "" {
		cfg.ConfirmCommand = DefaultConfirmCommand
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = confirm.DefaultTTL
	}

	d := &Dispatcher{
		cfg:       cfg,
		tree:      tree.New(cfg.ConfirmCommand),
		decorator: decorate.New(cfg.Prefix, cfg.HelpCommand),
	}
	d.exec = executor.NewCoordinator(executor.Config{
		Workers:     cfg.Workers,
		GracePeriod: cfg.GracePeriod,
		OnOutcome:   d.report,
	})

	onRequired := cfg.OnConfirmRequired
	if onRequired == nil {
		onRequired = d.notifyRequired
	}
	onNoPending := cfg.OnNoPending
	if onNoPending == nil {
		onNoPending = d.notifyNoPending
	}
	d.confirm = confirm.NewManager(confirm.Config{
		Capacity:    cfg.CacheCapacity,
		TTL:         cfg.CacheTTL,
		OnRequired:  onRequired,
		OnNoPending: onNoPending,
	}, d.exec)

	if err := d.registerHelp(); err != nil {
		return nil, fmt.Errorf("register help command: %w", err)
	}
	return d, nil
}

// Register adds a command. A *core.DuplicateDefinitionError means two
// definitions claim the same path and startup should be aborted.
func (d *Dispatcher) Register(def tree.Definition) error {
	return d.tree.Register(def)
}

// Handle resolves input and runs, parks or confirms the command. It never
// waits for a handler; every result reaches the sender via SendMessage.
func (d *Dispatcher) Handle(ctx context.Context, sender core.Sender, input string) {
	reqID := uuid.NewString()
	ctx = log.WithSender(ctx, sender.ID(), reqID)
	logger := log.FromCtx(ctx)

	req, err := d.tree.Resolve(sender, input)
	if err != nil {
		logger.Debug().Err(err).Str("input", input).Msg("resolution failed")
		d.deliver(ctx, sender, d.decorator.Error(err))
		return
	}
	req.ID = reqID

	switch {
	case req.Confirm:
		logger.Debug().Msg("confirm requested")
		d.confirm.Confirm(ctx, sender)
	case d.confirm.RequiresConfirmation(req.Command):
		logger.Debug().Str("input", req.Input).Msg("command parked for confirmation")
		d.confirm.Intercept(ctx, req)
	default:
		logger.Debug().Str("input", req.Input).Msg("command dispatched")
		d.exec.Dispatch(ctx, req)
	}
}

// Help delivers the listing of commands the sender may run matching query.
func (d *Dispatcher) Help(ctx context.Context, sender core.Sender, query string) {
	d.deliver(ctx, sender, d.decorator.Notice(d.decorator.Help(query, d.tree.Query(sender, query))))
}

// Query exposes the help entries visible to sender.
func (d *Dispatcher) Query(sender core.Sender, query string) iter.Seq[tree.HelpEntry] {
	return d.tree.Query(sender, query)
}

// Suggest completes the last token of partial for sender.
func (d *Dispatcher) Suggest(sender core.Sender, partial string) []string {
	return d.tree.Suggest(sender, partial)
}

// Pending reports whether sender has a command waiting for confirmation.
func (d *Dispatcher) Pending(sender core.Sender) bool {
	return d.confirm.Pending(sender)
}

// PendingCount is the number of senders with a command awaiting confirmation.
func (d *Dispatcher) PendingCount() int {
	return d.confirm.Len()
}

func (d *Dispatcher) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().
		Int("commands", len(d.tree.Commands())).
		Str("confirm", d.cfg.ConfirmCommand).
		Msg("dispatcher started")
	return nil
}

// Shutdown stops accepting work and drains running handlers; their outcomes
// are not delivered.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	err := d.exec.Shutdown(ctx)
	log.FromCtx(ctx).Info().Err(err).Int64("running", d.exec.Running()).Msg("dispatcher stopped")
	return err
}

func (d *Dispatcher) report(ctx context.Context, out core.Outcome) {
	logger := log.FromCtx(ctx)
	if out.Err != nil {
		logger.Warn().Err(out.Err).Str("input", out.Request.Input).Msg("command failed")
	} else {
		logger.Debug().Str("input", out.Request.Input).Msg("command completed")
	}

	if msg := d.decorator.Decorate(out); msg != "" {
		d.deliver(ctx, out.Request.Sender, msg)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sender core.Sender, msg string) {
	if err := sender.SendMessage(ctx, msg); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("sender", sender.ID()).Msg("failed to deliver message")
	}
}

func (d *Dispatcher) notifyRequired(ctx context.Context, c confirm.Context) {
	msg := fmt.Sprintf("Confirmation required for `/%s`. Type `/%s` within %s to run it.",
		c.Command, d.cfg.ConfirmCommand, c.ExpiresAt.Sub(c.CreatedAt).Round(time.Second))
	d.deliver(ctx, c.Sender, d.decorator.Notice(msg))
}

func (d *Dispatcher) notifyNoPending(ctx context.Context, sender core.Sender) {
	d.deliver(ctx, sender, d.decorator.Notice("You don't have any pending commands."))
}

func (d *Dispatcher) registerHelp() error {
	run := func(ctx context.Context, req *core.Request) (string, error) {
		query := req.Args.String("query")
		return d.decorator.Help(query, d.tree.Query(req.Sender, query)), nil
	}
	defs := []tree.Definition{
		{
			Path:        []tree.Element{tree.Literal(d.cfg.HelpCommand)},
			Description: "List available commands",
			Handler:     run,
		},
		{
			Path:        []tree.Element{tree.Literal(d.cfg.HelpCommand), tree.Arg("query", tree.Greedy())},
			Description: "Search commands",
			Handler:     run,
		},
	}
	for _, def := range defs {
		if err := d.tree.Register(def); err != nil {
			return err
		}
	}
	return nil
}
