package driver

import gspec "github.com/lrkit/lrkit/spec/grammar"

// Grammar is the read-only view of a parsing table the parser runs on.
type Grammar interface {
	// Class returns the name of the algorithm that built the table.
	Class() string

	// InitialState returns the initial state of the parser.
	InitialState() int

	// StartProduction returns the production number of the augmented start production. A reduction
	// by it is the accept action.
	StartProduction() int

	// Action returns an ACTION entry: a negative value is a shift, a positive value is a reduction,
	// and 0 is an error.
	Action(state int, terminal int) int

	// GoTo returns a GOTO entry. 0 means no transition.
	GoTo(state int, lhs int) int

	// AlternativeSymbolCount returns the length of the RHS of a production.
	AlternativeSymbolCount(prod int) int

	// LHS returns the LHS symbol of a production.
	LHS(prod int) int

	// Production returns a production formatted as `A → α`.
	Production(prod int) string

	// TerminalCount returns the number of ACTION columns, including the unused column 0.
	TerminalCount() int

	// EOF returns the end marker.
	EOF() int

	// Terminal returns the name of a terminal.
	Terminal(terminal int) string

	// TerminalID looks a terminal up by name.
	TerminalID(name string) (int, bool)

	// NonTerminal returns the name of a non-terminal.
	NonTerminal(nonTerminal int) string
}

var _ Grammar = &grammarImpl{}

type grammarImpl struct {
	g         *gspec.CompiledGrammar
	name2Term map[string]int
}

// NewGrammar wraps a compiled grammar. The result never changes, so any number of parsers may
// share it.
func NewGrammar(g *gspec.CompiledGrammar) *grammarImpl {
	name2Term := make(map[string]int, len(g.Syntactic.Terminals))
	for i, name := range g.Syntactic.Terminals {
		if name == "" {
			continue
		}
		name2Term[name] = i
	}
	return &grammarImpl{
		g:         g,
		name2Term: name2Term,
	}
}

func (g *grammarImpl) Class() string {
	return g.g.Syntactic.Class
}

func (g *grammarImpl) InitialState() int {
	return g.g.Syntactic.InitialState
}

func (g *grammarImpl) StartProduction() int {
	return g.g.Syntactic.StartProduction
}

func (g *grammarImpl) Action(state int, terminal int) int {
	return g.g.Syntactic.ActionEntry(state, terminal)
}

func (g *grammarImpl) GoTo(state int, lhs int) int {
	return g.g.Syntactic.GoToEntry(state, lhs)
}

func (g *grammarImpl) AlternativeSymbolCount(prod int) int {
	return g.g.Syntactic.AlternativeSymbolCounts[prod]
}

func (g *grammarImpl) LHS(prod int) int {
	return g.g.Syntactic.LHSSymbols[prod]
}

func (g *grammarImpl) Production(prod int) string {
	return g.g.Syntactic.Productions[prod]
}

func (g *grammarImpl) TerminalCount() int {
	return g.g.Syntactic.TerminalCount
}

func (g *grammarImpl) EOF() int {
	return g.g.Syntactic.EOFSymbol
}

func (g *grammarImpl) Terminal(terminal int) string {
	return g.g.Syntactic.Terminals[terminal]
}

func (g *grammarImpl) TerminalID(name string) (int, bool) {
	term, ok := g.name2Term[name]
	return term, ok
}

func (g *grammarImpl) NonTerminal(nonTerminal int) string {
	return g.g.Syntactic.NonTerminals[nonTerminal]
}
