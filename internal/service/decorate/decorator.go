// Package decorate turns outcomes and failures into the messages a sender
// sees.
package decorate

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/sandevgo/cmdgate/internal/core"
	"github.com/sandevgo/cmdgate/internal/service/tree"
)

const (
	msgUnknownCommand = "Unknown command %s. Type %s for help."
	msgInvalidSyntax  = "Invalid command syntax. Correct command syntax is: %s"
	msgInvalidSender  = "This command can only be used by: %s."
	msgNoPermission   = "I'm sorry, but you do not have permission to perform this command."
	msgArgumentParse  = "Invalid command argument at position %d: %s"
	msgArgumentValue  = "'%s' is not a valid %s"
	msgExecution      = "Command execution failed."
)

// Prefixer is applied to every outgoing message.
type Prefixer func(string) string

// PrefixWith returns a Prefixer that prepends prefix.
func PrefixWith(prefix string) Prefixer {
	return func(msg string) string {
		return prefix + msg
	}
}

type Decorator struct {
	prefix    Prefixer
	formatter *Formatter
	helpName  string
}

// New returns a decorator. A nil prefix leaves messages untouched; helpName
// is the command suggested for unknown input.
func New(prefix Prefixer, helpName string) *Decorator {
	if prefix == nil {
		prefix = func(s string) string { return s }
	}
	return &Decorator{prefix: prefix, formatter: NewFormatter(), helpName: helpName}
}

// Decorate renders out. A successful outcome with an empty result yields "".
func (d *Decorator) Decorate(out core.Outcome) string {
	if out.Err != nil {
		return d.Error(out.Err)
	}
	if out.Result == "" {
		return ""
	}
	return d.prefix(out.Result)
}

// Error classifies err and renders its template. Unclassified errors and
// handler failures get a generic message; the cause is never included.
func (d *Decorator) Error(err error) string {
	var (
		syntaxErr *core.InvalidSyntaxError
		senderErr *core.InvalidSenderError
		permErr   *core.NoPermissionError
		parseErr  *core.ArgumentParsingError
	)

	var msg string
	switch {
	case errors.As(err, &syntaxErr):
		if syntaxErr.Syntax == "" {
			msg = fmt.Sprintf(msgUnknownCommand, d.formatter.Command(firstToken(syntaxErr.Input)), d.formatter.Command(d.helpName))
		} else {
			msg = fmt.Sprintf(msgInvalidSyntax, d.formatter.Command(syntaxErr.Syntax))
		}
	case errors.As(err, &senderErr):
		msg = fmt.Sprintf(msgInvalidSender, strings.Join(senderErr.Required, ", "))
	case errors.As(err, &permErr):
		msg = msgNoPermission
	case errors.As(err, &parseErr):
		msg = fmt.Sprintf(msgArgumentParse, parseErr.Position, argumentReason(parseErr))
	default:
		msg = msgExecution
	}
	return d.prefix(msg)
}

// Notice prefixes a plain informational message.
func (d *Decorator) Notice(msg string) string {
	return d.prefix(msg)
}

// Help renders a help listing without prefix.
func (d *Decorator) Help(query string, entries iter.Seq[tree.HelpEntry]) string {
	var items []string
	for e := range entries {
		desc := e.Description
		if e.Confirm {
			desc = strings.TrimSpace(desc + " (needs confirmation)")
		}
		items = append(items, d.formatter.Entry(e.Syntax, desc))
	}

	query = strings.TrimSpace(query)
	if len(items) == 0 {
		if query == "" {
			return "No commands available."
		}
		return d.formatter.Combine(
			fmt.Sprintf("No results for query %q.", query),
			d.formatter.Tip("type "+d.formatter.Command(d.helpName)+" to list every command"),
		)
	}

	title := "Available commands"
	if query != "" {
		title = fmt.Sprintf("Commands matching %q", query)
	}
	return d.formatter.Combine(
		d.formatter.Title(title),
		d.formatter.List(items),
	)
}

// argumentReason shows a parser's own message only when it is a
// *tree.ValueError; other causes stay in the debug log.
func argumentReason(e *core.ArgumentParsingError) string {
	var ve *tree.ValueError
	if errors.As(e.Err, &ve) {
		return ve.Error()
	}
	return fmt.Sprintf(msgArgumentValue, e.Token, e.Argument)
}

func firstToken(input string) string {
	if i := strings.IndexByte(input, ' '); i >= 0 {
		return input[:i]
	}
	return input
}
