package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "plain",
			input:    "You don't have any pending commands.",
			contains: []string{"You don't have any pending commands."},
		},
		{
			name:     "title_and_entries",
			input:    "**Available commands**\n› `/kick <player>`  Kick a player",
			contains: []string{"Available commands", "/kick <player>", "Kick a player"},
		},
		{
			name:     "inline_bold",
			input:    "**Tip**: type `/help` to list every command",
			contains: []string{"Tip: type", "/help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			assert.NotContains(t, got, "**")
			assert.NotContains(t, got, "`")
		})
	}
}
