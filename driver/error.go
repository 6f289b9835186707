package driver

import (
	"fmt"
	"strings"
)

// ParseError reports a token the ACTION table has no entry for. It concerns only the parse that
// raised it.
type ParseError struct {
	State int

	// Terminal is the name of the offending terminal. It is `$` at the end of input and empty when
	// the token matches no terminal.
	Terminal string

	Text string

	// Row and Col are 1-based.
	Row int
	Col int

	ExpectedTerminals []string
}

func (e *ParseError) Error() string {
	var tok string
	switch {
	case e.Terminal == "":
		tok = fmt.Sprintf("invalid token %q", e.Text)
	case e.Text == "" || e.Text == e.Terminal:
		tok = fmt.Sprintf("%v", e.Terminal)
	default:
		tok = fmt.Sprintf("%v (%q)", e.Terminal, e.Text)
	}
	return fmt.Sprintf("%v:%v: unexpected %v in state %v; expected: %v", e.Row, e.Col, tok, e.State, strings.Join(e.ExpectedTerminals, ", "))
}

// InternalTableError means a GOTO entry a reduction needs is missing. A table produced by
// grammar.Compile never causes it.
type InternalTableError struct {
	State       int
	NonTerminal string
	Production  string
}

func (e *InternalTableError) Error() string {
	return fmt.Sprintf("malformed parsing table: no GOTO entry for state %v and %v after reducing %v", e.State, e.NonTerminal, e.Production)
}
