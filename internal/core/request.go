package core

import "time"

// Args holds parsed argument values keyed by argument name.
type Args map[string]any

func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

func (a Args) Int(name string) int {
	n, _ := a[name].(int)
	return n
}

func (a Args) Float(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

func (a Args) Bool(name string) bool {
	b, _ := a[name].(bool)
	return b
}

func (a Args) Duration(name string) time.Duration {
	d, _ := a[name].(time.Duration)
	return d
}

// Request is a resolved command ready to run.
type Request struct {
	ID      string
	Sender  Sender
	Command *Command
	Args    Args
	// Input is the normalized command line without the leading slash.
	Input string
	// Confirm is set when the input was the confirm pseudo-command.
	Confirm bool
}

// Outcome is the result of running a request. Err is nil on success.
type Outcome struct {
	Request *Request
	Result  string
	Err     error
}
