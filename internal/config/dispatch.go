package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/cmdgate/pkg/log"
)

type DispatchConfig struct {
	// Prepended to every message a sender receives
	MessagePrefix string `env:"GATE_MESSAGE_PREFIX"`

	// Pending confirmations
	ConfirmCapacity int           `env:"GATE_CONFIRM_CAPACITY" envDefault:"1000"`
	ConfirmTTL      time.Duration `env:"GATE_CONFIRM_TTL" envDefault:"5m"`

	// Execution
	Workers     int64         `env:"GATE_WORKERS" envDefault:"8"`
	GracePeriod time.Duration `env:"GATE_GRACE_PERIOD" envDefault:"5s"`

	HelpCommand    string `env:"GATE_HELP_COMMAND" envDefault:"help"`
	ConfirmCommand string `env:"GATE_CONFIRM_COMMAND" envDefault:"confirm"`
}

func NewDispatchConfig(ctx context.Context) *DispatchConfig {
	c := &DispatchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Dispatch config")
	}
	return c
}
