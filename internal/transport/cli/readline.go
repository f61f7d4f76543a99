package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/cmdgate/internal/config"
	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/pkg/log"
)

type ReadLine struct {
	cfg        *config.AppConfig
	dispatcher core.Dispatcher
	sender     *Console
	rl         *readline.Instance
}

func NewReadLine(dispatcher core.Dispatcher, cfg *config.AppConfig) (*ReadLine, error) {
	// Ensure runtime directory exists
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	r := &ReadLine{
		cfg:        cfg,
		dispatcher: dispatcher,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &completer{dispatcher: dispatcher, sender: r.senderRef},
	})
	if err != nil {
		return nil, err
	}

	r.rl = rl
	r.sender = NewConsole(rl.Stdout())
	return r, nil
}

func (r *ReadLine) senderRef() core.Sender {
	return r.sender
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("console started. Type 'exit' to quit.")

	for {
		// Check context before blocking read
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil // Exit on Ctrl+C
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.dispatcher.Handle(ctx, r.sender, line)
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
