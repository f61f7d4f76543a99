package tree

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Parser turns the leading tokens of the remaining input into a value.
// tokens always holds at least one element; consumed must be at least 1.
type Parser interface {
	Parse(tokens []string) (value any, consumed int, err error)
}

// Suggester is implemented by parsers with a closed set of values.
type Suggester interface {
	Suggestions() []string
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(tokens []string) (any, int, error)

func (f ParserFunc) Parse(tokens []string) (any, int, error) {
	return f(tokens)
}

// ValueError is a parse failure whose message is safe to show the sender.
// Any other parser error is replaced by a generic message.
type ValueError struct {
	msg string
}

func (e *ValueError) Error() string {
	return e.msg
}

// Invalidf returns a *ValueError.
func Invalidf(format string, args ...any) error {
	return &ValueError{msg: fmt.Sprintf(format, args...)}
}

// sameParser reports whether a and b parse identically. Function parsers are
// equal only when they share the same code.
func sameParser(a, b Parser) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

type stringParser struct{}

func (stringParser) Parse(tokens []string) (any, int, error) {
	return tokens[0], 1, nil
}

// String accepts any single token.
func String() Parser {
	return stringParser{}
}

type greedyParser struct{}

func (greedyParser) Parse(tokens []string) (any, int, error) {
	return strings.Join(tokens, " "), len(tokens), nil
}

// Greedy joins every remaining token with single spaces.
func Greedy() Parser {
	return greedyParser{}
}

type intParser struct {
	min, max int
}

func (p intParser) Parse(tokens []string) (any, int, error) {
	n, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, 0, Invalidf("'%s' is not a valid number", tokens[0])
	}
	if n < p.min || n > p.max {
		return nil, 0, Invalidf("%d is not in the range %d to %d", n, p.min, p.max)
	}
	return n, 1, nil
}

// Int accepts an integer within [min, max].
func Int(min, max int) Parser {
	return intParser{min: min, max: max}
}

type floatParser struct{}

func (floatParser) Parse(tokens []string) (any, int, error) {
	f, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return nil, 0, Invalidf("'%s' is not a valid decimal", tokens[0])
	}
	return f, 1, nil
}

func Float() Parser {
	return floatParser{}
}

type durationParser struct{}

func (durationParser) Parse(tokens []string) (any, int, error) {
	d, err := time.ParseDuration(tokens[0])
	if err != nil {
		return nil, 0, Invalidf("'%s' is not a valid duration (e.g. 30s, 5m)", tokens[0])
	}
	return d, 1, nil
}

func Duration() Parser {
	return durationParser{}
}

type boolParser struct{}

var boolWords = map[string]bool{
	"true": true, "yes": true, "on": true,
	"false": false, "no": false, "off": false,
}

func (boolParser) Parse(tokens []string) (any, int, error) {
	b, ok := boolWords[strings.ToLower(tokens[0])]
	if !ok {
		return nil, 0, Invalidf("'%s' is not a valid boolean", tokens[0])
	}
	return b, 1, nil
}

func (boolParser) Suggestions() []string {
	return []string{"true", "false"}
}

// Bool accepts true/false, yes/no and on/off.
func Bool() Parser {
	return boolParser{}
}

type choiceParser struct {
	values []string
}

func (p choiceParser) Parse(tokens []string) (any, int, error) {
	for _, v := range p.values {
		if strings.EqualFold(v, tokens[0]) {
			return v, 1, nil
		}
	}
	return nil, 0, Invalidf("'%s' is not one of %s", tokens[0], strings.Join(p.values, ", "))
}

func (p choiceParser) Suggestions() []string {
	return p.values
}

// Choice accepts one of values, case-insensitively, and yields the canonical spelling.
func Choice(values ...string) Parser {
	return choiceParser{values: values}
}
