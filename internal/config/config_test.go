package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDispatchConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want DispatchConfig
	}{
		{
			name: "defaults",
			want: DispatchConfig{
				ConfirmCapacity: 1000,
				ConfirmTTL:      5 * time.Minute,
				Workers:         8,
				GracePeriod:     5 * time.Second,
				HelpCommand:     "help",
				ConfirmCommand:  "confirm",
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"GATE_MESSAGE_PREFIX":   "[gate] ",
				"GATE_CONFIRM_CAPACITY": "10",
				"GATE_CONFIRM_TTL":      "30s",
				"GATE_WORKERS":          "2",
				"GATE_CONFIRM_COMMAND":  "yes",
			},
			want: DispatchConfig{
				MessagePrefix:   "[gate] ",
				ConfirmCapacity: 10,
				ConfirmTTL:      30 * time.Second,
				Workers:         2,
				GracePeriod:     5 * time.Second,
				HelpCommand:     "help",
				ConfirmCommand:  "yes",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got := NewDispatchConfig(context.Background())
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestNewTelegramConfig(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_IDS", "42,7")

	c := NewTelegramConfig(context.Background())

	assert.Equal(t, []int64{42, 7}, c.AdminIDs)
	assert.True(t, c.IsAdmin(7))
	assert.False(t, c.IsAdmin(8))
}

func TestRuntimePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "gate")
	t.Setenv("GATE_RUNTIME_PATH", abs)
	assert.Equal(t, abs, GetRuntimePath())

	app := NewAppConfig(context.Background())
	assert.Equal(t, abs, app.GetRuntimePath())
	assert.Equal(t, filepath.Join(abs, ".env"), app.GetEnvPath())
	assert.True(t, app.EnableCLI)
	assert.False(t, app.EnableTelegram)

	t.Setenv("GATE_RUNTIME_PATH", "")
	assert.True(t, filepath.IsAbs(GetRuntimePath()))
}
