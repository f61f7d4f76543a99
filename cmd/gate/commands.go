package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/cmdgate/internal/service/ui"
	"github.com/sandevgo/cmdgate/internal/transport/cli"
	"github.com/spf13/cobra"
)

var commandsCmd = &cobra.Command{
	Use:          "commands [query]",
	Short:        "List the registered commands",
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		loadEnv(ctx)
		d := newDispatcher(ctx, func() {})
		defer d.Shutdown(context.WithoutCancel(ctx))

		query := strings.Join(args, " ")
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.TitleStyle.Render("COMMANDS"))

		n := 0
		for e := range d.Query(cli.NewConsole(out), query) {
			line := "  " + ui.UsageStyle.Render("/"+e.Syntax)
			if e.Description != "" {
				line += "  " + ui.DescStyle.Render(e.Description)
			}
			if e.Confirm {
				line += " " + ui.FlagStyle.Render("(confirm)")
			}
			fmt.Fprintln(out, line)
			n++
		}
		if n == 0 {
			fmt.Fprintln(out, ui.DescStyle.Render("  no matching commands"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}
