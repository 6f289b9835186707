package driver

import (
	"fmt"
	"strings"
)

type ParserOption func(p *Parser) error

// SemanticAction replaces the default tree builder. Tree then returns nil.
func SemanticAction(semAct SemanticActionSet) ParserOption {
	return func(p *Parser) error {
		p.semAct = semAct
		p.treeAct = nil
		return nil
	}
}

// RecordSteps makes the parser keep a trace of every step it takes.
func RecordSteps() ParserOption {
	return func(p *Parser) error {
		p.recordSteps = true
		return nil
	}
}

// Step is a snapshot of the parser taken before an action runs.
type Step struct {
	Stack  []int
	Input  []string
	Action string
}

// Parser runs a parsing table over a token stream. A parser serves a single parse. The grammar
// is only read, so parsers running in parallel may share it.
type Parser struct {
	toks        TokenStream
	gram        Grammar
	stateStack  []int
	semAct      SemanticActionSet
	treeAct     *TreeActionSet
	recordSteps bool
	steps       []*Step
	buf         []VToken
	cursor      int
}

func NewParser(toks TokenStream, gram Grammar, opts ...ParserOption) (*Parser, error) {
	treeAct := NewTreeActionSet(gram)
	p := &Parser{
		toks:       toks,
		gram:       gram,
		stateStack: []int{},
		semAct:     treeAct,
		treeAct:    treeAct,
	}

	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Parser) Parse() error {
	err := p.readTokens()
	if err != nil {
		return err
	}

	p.push(p.gram.InitialState())
	for {
		tok := p.buf[p.cursor]
		term := p.tokenToTerminal(tok)
		act := 0
		if term != 0 {
			act = p.gram.Action(p.top(), term)
		}
		switch {
		case act < 0: // Shift
			nextState := act * -1
			p.record(fmt.Sprintf("shift %v", nextState))

			p.push(nextState)
			p.semAct.Shift(tok)
			p.cursor++
		case act > 0: // Reduce
			prodNum := act
			if prodNum == p.gram.StartProduction() {
				p.record("accept")
				p.semAct.Accept()
				return nil
			}

			p.record(fmt.Sprintf("reduce %v (%v)", prodNum, p.gram.Production(prodNum)))
			err := p.reduce(prodNum)
			if err != nil {
				return err
			}
			p.semAct.Reduce(prodNum)
		default: // Error
			p.record("error")
			return p.syntaxError(tok, term)
		}
	}
}

// readTokens drains the token stream up to and including the end marker.
func (p *Parser) readTokens() error {
	for {
		tok, err := p.toks.Next()
		if err != nil {
			return err
		}
		p.buf = append(p.buf, tok)
		if tok.EOF() {
			return nil
		}
	}
}

func (p *Parser) tokenToTerminal(tok VToken) int {
	if tok.EOF() {
		return p.gram.EOF()
	}

	return tok.TerminalID()
}

func (p *Parser) reduce(prodNum int) error {
	lhs := p.gram.LHS(prodNum)

	// When an alternative is empty, `n` will be 0, and the parser pops nothing.
	n := p.gram.AlternativeSymbolCount(prodNum)
	p.pop(n)
	nextState := p.gram.GoTo(p.top(), lhs)
	if nextState == 0 {
		return &InternalTableError{
			State:       p.top(),
			NonTerminal: p.gram.NonTerminal(lhs),
			Production:  p.gram.Production(prodNum),
		}
	}
	p.push(nextState)
	return nil
}

func (p *Parser) syntaxError(tok VToken, term int) *ParseError {
	row, col := tok.Position()
	var name string
	switch {
	case tok.EOF():
		name = p.gram.Terminal(p.gram.EOF())
	case term != 0:
		name = p.gram.Terminal(term)
	}
	return &ParseError{
		State:             p.top(),
		Terminal:          name,
		Text:              string(tok.Lexeme()),
		Row:               row + 1,
		Col:               col + 1,
		ExpectedTerminals: p.searchLookahead(p.top()),
	}
}

// searchLookahead lists the terminals a state accepts. The end marker comes last.
func (p *Parser) searchLookahead(state int) []string {
	kinds := []string{}
	eof := p.gram.EOF()
	termCount := p.gram.TerminalCount()
	for term := 0; term < termCount; term++ {
		if term == eof {
			continue
		}
		if p.gram.Action(state, term) == 0 {
			continue
		}
		kinds = append(kinds, p.gram.Terminal(term))
	}
	if p.gram.Action(state, eof) != 0 {
		kinds = append(kinds, p.gram.Terminal(eof))
	}

	return kinds
}

func (p *Parser) record(action string) {
	if !p.recordSteps {
		return
	}

	stack := make([]int, len(p.stateStack))
	copy(stack, p.stateStack)
	input := make([]string, 0, len(p.buf)-p.cursor)
	for _, tok := range p.buf[p.cursor:] {
		if tok.Invalid() {
			input = append(input, string(tok.Lexeme()))
			continue
		}
		input = append(input, p.gram.Terminal(p.tokenToTerminal(tok)))
	}
	p.steps = append(p.steps, &Step{
		Stack:  stack,
		Input:  input,
		Action: action,
	})
}

func (p *Parser) top() int {
	return p.stateStack[len(p.stateStack)-1]
}

func (p *Parser) push(state int) {
	p.stateStack = append(p.stateStack, state)
}

func (p *Parser) pop(n int) {
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
}

// Tree returns the parse tree built by the default semantic actions. It is nil until the input
// is accepted or when SemanticAction replaced the tree builder.
func (p *Parser) Tree() *Tree {
	if p.treeAct == nil {
		return nil
	}
	return p.treeAct.Tree()
}

// Steps returns the trace recorded under RecordSteps.
func (p *Parser) Steps() []*Step {
	return p.steps
}

func (s *Step) String() string {
	return fmt.Sprintf("%v | %v | %v", s.Stack, strings.Join(s.Input, " "), s.Action)
}
