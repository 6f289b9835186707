// Package grammar defines the portable documents produced by the table generator: the
// compiled grammar a driver runs and the report describing how its table was built.
package grammar

import (
	mlspec "github.com/nihei9/maleeni/spec"

	"github.com/lrkit/lrkit/compressor"
)

type CompiledGrammar struct {
	Name      string         `json:"name"`
	Lexical   *LexicalSpec   `json:"lexical"`
	Syntactic *SyntacticSpec `json:"syntactic"`
}

// LexicalSpec tokenizes raw text into the terminals of a grammar. Kind IDs are maleeni's;
// terminal numbers are the column indices of the ACTION table.
type LexicalSpec struct {
	Maleeni *mlspec.CompiledLexSpec `json:"maleeni"`

	// KindToTerminal is indexed by kind ID. Kinds that match no terminal map to 0.
	KindToTerminal []int `json:"kind_to_terminal"`

	// TerminalToKind is indexed by terminal number.
	TerminalToKind []int `json:"terminal_to_kind"`

	// Skip is indexed by kind ID. 1 means the driver discards tokens of the kind.
	Skip []int `json:"skip"`
}

// Class names of table construction algorithms.
const (
	ClassLR0   = "lr0"
	ClassSLR1  = "slr1"
	ClassCLR1  = "clr1"
	ClassLALR1 = "lalr1"
)

// SyntacticSpec is a flattened ACTION/GOTO table.
//
// Action is a row-major state × terminal matrix. A negative entry -n is a shift to state
// n, a positive entry n is a reduction by production n, and 0 is an error. A reduction by
// StartProduction is the accept action.
//
// GoTo is a row-major state × non-terminal matrix. 0 means no transition, which is never
// a valid target because the initial state cannot be reached by a GOTO.
//
// Above compression level 0, CompressedAction and CompressedGoTo replace Action and GoTo.
type SyntacticSpec struct {
	Class                   string            `json:"class"`
	CompressionLevel        int               `json:"compression_level"`
	Action                  []int             `json:"action,omitempty"`
	GoTo                    []int             `json:"goto,omitempty"`
	CompressedAction        *compressor.Table `json:"compressed_action,omitempty"`
	CompressedGoTo          *compressor.Table `json:"compressed_goto,omitempty"`
	StateCount              int               `json:"state_count"`
	InitialState            int               `json:"initial_state"`
	StartProduction         int               `json:"start_production"`
	LHSSymbols              []int             `json:"lhs_symbols"`
	AlternativeSymbolCounts []int             `json:"alternative_symbol_counts"`
	Productions             []string          `json:"productions"`
	Terminals               []string          `json:"terminals"`
	TerminalCount           int               `json:"terminal_count"`
	NonTerminals            []string          `json:"non_terminals"`
	NonTerminalCount        int               `json:"non_terminal_count"`
	EOFSymbol               int               `json:"eof_symbol"`
}

// ActionEntry reads the ACTION table at any compression level.
func (s *SyntacticSpec) ActionEntry(state int, terminal int) int {
	if s.CompressedAction != nil {
		// An out-of-range lookup reads as an error entry.
		e, _ := s.CompressedAction.Lookup(state, terminal)
		return e
	}
	return s.Action[state*s.TerminalCount+terminal]
}

// GoToEntry reads the GOTO table at any compression level.
func (s *SyntacticSpec) GoToEntry(state int, nonTerminal int) int {
	if s.CompressedGoTo != nil {
		e, _ := s.CompressedGoTo.Lookup(state, nonTerminal)
		return e
	}
	return s.GoTo[state*s.NonTerminalCount+nonTerminal]
}
