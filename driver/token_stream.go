package driver

import (
	"io"
	"strings"

	mldriver "github.com/nihei9/maleeni/driver"

	gspec "github.com/lrkit/lrkit/spec/grammar"
)

type VToken interface {
	// TerminalID returns a terminal ID. 0 means the token matches no terminal.
	TerminalID() int

	// Lexeme returns a lexeme.
	Lexeme() []byte

	// EOF returns true when a token represents EOF.
	EOF() bool

	// Invalid returns true when a token is invalid.
	Invalid() bool

	// Position returns the 0-based row and column of a token.
	Position() (int, int)
}

type TokenStream interface {
	Next() (VToken, error)
}

type vToken struct {
	terminalID int
	tok        *mldriver.Token
}

func (t *vToken) TerminalID() int {
	return t.terminalID
}

func (t *vToken) Lexeme() []byte {
	return t.tok.Lexeme
}

func (t *vToken) EOF() bool {
	return t.tok.EOF
}

func (t *vToken) Invalid() bool {
	return t.tok.Invalid
}

func (t *vToken) Position() (int, int) {
	return t.tok.Row, t.tok.Col
}

type tokenStream struct {
	lex            *mldriver.Lexer
	kindToTerminal []int
	skip           []int
}

// NewTokenStream tokenizes raw text with the lexer compiled into g. White space is skipped.
func NewTokenStream(g *gspec.CompiledGrammar, src io.Reader) (TokenStream, error) {
	lex, err := mldriver.NewLexer(mldriver.NewLexSpec(g.Lexical.Maleeni), src)
	if err != nil {
		return nil, err
	}

	return &tokenStream{
		lex:            lex,
		kindToTerminal: g.Lexical.KindToTerminal,
		skip:           g.Lexical.Skip,
	}, nil
}

func (l *tokenStream) Next() (VToken, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return nil, err
		}
		if !tok.EOF && l.skip[tok.KindID] != 0 {
			continue
		}
		return &vToken{
			terminalID: l.kindToTerminal[tok.KindID],
			tok:        tok,
		}, nil
	}
}

// Token is a terminal given by name. Text defaults to the name.
type Token struct {
	Kind string
	Text string
}

// SplitTokens reads whitespace-separated terminal names.
func SplitTokens(src string) []Token {
	var toks []Token
	for _, f := range strings.Fields(src) {
		toks = append(toks, Token{
			Kind: f,
		})
	}
	return toks
}

type symbolToken struct {
	terminalID int
	text       string
	col        int
	eof        bool
}

func (t *symbolToken) TerminalID() int {
	return t.terminalID
}

func (t *symbolToken) Lexeme() []byte {
	return []byte(t.text)
}

func (t *symbolToken) EOF() bool {
	return t.eof
}

func (t *symbolToken) Invalid() bool {
	return !t.eof && t.terminalID == 0
}

func (t *symbolToken) Position() (int, int) {
	return 0, t.col
}

type symbolTokenStream struct {
	toks []*symbolToken
	pos  int
}

// NewSymbolTokenStream feeds already tokenized input to a parser. The column of each token is
// its index in toks. A name that is not a terminal of g yields an invalid token.
func NewSymbolTokenStream(g Grammar, toks []Token) TokenStream {
	vtoks := make([]*symbolToken, 0, len(toks)+1)
	for i, tok := range toks {
		text := tok.Text
		if text == "" {
			text = tok.Kind
		}
		term, _ := g.TerminalID(tok.Kind)
		if term == g.EOF() {
			term = 0
		}
		vtoks = append(vtoks, &symbolToken{
			terminalID: term,
			text:       text,
			col:        i,
		})
	}
	vtoks = append(vtoks, &symbolToken{
		col: len(toks),
		eof: true,
	})
	return &symbolTokenStream{
		toks: vtoks,
	}
}

func (s *symbolTokenStream) Next() (VToken, error) {
	tok := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return tok, nil
}
