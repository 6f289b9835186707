package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/pkg/errors"

	verr "github.com/lrkit/lrkit/error"
)

type tokenKind string

const (
	tokenKindID              = tokenKind("id")
	tokenKindTerminalPattern = tokenKind("terminal pattern")
	tokenKindStringLiteral   = tokenKind("string")
	tokenKindEpsilon         = tokenKind("ε")
	tokenKindColon           = tokenKind(":")
	tokenKindOr              = tokenKind("|")
	tokenKindSemicolon       = tokenKind(";")
	tokenKindMetaDataMarker  = tokenKind("%")
	tokenKindEOF             = tokenKind("eof")
	tokenKindInvalid         = tokenKind("invalid")
)

type token struct {
	kind tokenKind
	text string
	pos  Position
}

func newSymbolToken(kind tokenKind, pos Position) *token {
	return &token{
		kind: kind,
		pos:  pos,
	}
}

func newIDToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindID,
		text: text,
		pos:  pos,
	}
}

func newTerminalPatternToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindTerminalPattern,
		text: text,
		pos:  pos,
	}
}

func newStringLiteralToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindStringLiteral,
		text: text,
		pos:  pos,
	}
}

func newEOFToken(pos Position) *token {
	return &token{
		kind: tokenKindEOF,
		pos:  pos,
	}
}

func newInvalidToken(text string, pos Position) *token {
	return &token{
		kind: tokenKindInvalid,
		text: text,
		pos:  pos,
	}
}

const (
	lexModeTerminal      = mlspec.LexModeName("terminal")
	lexModeStringLiteral = mlspec.LexModeName("string_literal")
)

func newGrammarLexSpec() *mlspec.LexSpec {
	entry := func(kind string, pattern string) *mlspec.LexEntry {
		return &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(kind),
			Pattern: mlspec.LexPattern(pattern),
		}
	}
	inMode := func(mode mlspec.LexModeName, e *mlspec.LexEntry) *mlspec.LexEntry {
		e.Modes = []mlspec.LexModeName{mode}
		return e
	}
	push := func(mode mlspec.LexModeName, e *mlspec.LexEntry) *mlspec.LexEntry {
		e.Push = mode
		return e
	}
	pop := func(e *mlspec.LexEntry) *mlspec.LexEntry {
		e.Pop = true
		return e
	}

	return &mlspec.LexSpec{
		Name: "grammar_source",
		Entries: []*mlspec.LexEntry{
			entry("white_space", `[\u{0009}\u{000A}\u{000D}\u{0020}]+`),
			entry("line_comment", `//[^\u{000A}\u{000D}]*`),
			entry("identifier", `[A-Za-z_][0-9A-Za-z_]*`),
			entry("epsilon", `ε`),
			entry("colon", `:`),
			entry("or", `\|`),
			entry("semicolon", `;`),
			entry("metadata_marker", `%`),

			push(lexModeTerminal, entry("terminal_open", `"`)),
			inMode(lexModeTerminal, entry("pattern", `[^"\u{005C}\u{000A}\u{000D}]+`)),
			inMode(lexModeTerminal, entry("escaped_quot", `\u{005C}"`)),
			inMode(lexModeTerminal, entry("escape_sequence", `\u{005C}[^"\u{000A}\u{000D}]`)),
			pop(inMode(lexModeTerminal, entry("terminal_close", `"`))),

			push(lexModeStringLiteral, entry("string_literal_open", `'`)),
			inMode(lexModeStringLiteral, entry("char_seq", `[^'\u{005C}\u{000A}\u{000D}]+`)),
			inMode(lexModeStringLiteral, entry("escaped_apos", `\u{005C}'`)),
			inMode(lexModeStringLiteral, entry("escaped_back_slash", `\u{005C}\u{005C}`)),
			pop(inMode(lexModeStringLiteral, entry("string_literal_close", `'`))),
		},
	}
}

var (
	grammarLexSpecOnce sync.Once
	grammarLexSpec     *mlspec.CompiledLexSpec
	grammarLexSpecErr  error
)

func compiledGrammarLexSpec() (*mlspec.CompiledLexSpec, error) {
	grammarLexSpecOnce.Do(func() {
		s, err, cErrs := mlcompiler.Compile(newGrammarLexSpec(), mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				err = fmt.Errorf("%v: %v", cErrs[0].Kind, cErrs[0].Cause)
			}
			grammarLexSpecErr = errors.Wrap(err, "failed to compile the lexical specification of grammar sources")
			return
		}
		grammarLexSpec = s
	})
	return grammarLexSpec, grammarLexSpecErr
}

type lexer struct {
	s   *mlspec.CompiledLexSpec
	d   *mldriver.Lexer
	buf *token
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compiledGrammarLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	if l.buf != nil {
		tok := l.buf
		l.buf = nil
		return tok, nil
	}
	return l.lexAndSkipWSs()
}

func (l *lexer) kindName(tok *mldriver.Token) string {
	return l.s.KindNames[tok.KindID].String()
}

func tokenPos(tok *mldriver.Token) Position {
	return newPosition(tok.Row+1, tok.Col+1)
}

func (l *lexer) lexAndSkipWSs() (*token, error) {
	var tok *mldriver.Token
	for {
		var err error
		tok, err = l.d.Next()
		if err != nil {
			return nil, err
		}
		if tok.Invalid {
			return newInvalidToken(string(tok.Lexeme), tokenPos(tok)), nil
		}
		if tok.EOF {
			return newEOFToken(tokenPos(tok)), nil
		}
		switch l.kindName(tok) {
		case "white_space", "line_comment":
			continue
		}

		break
	}

	pos := tokenPos(tok)
	switch l.kindName(tok) {
	case "identifier":
		text := string(tok.Lexeme)
		if strings.HasPrefix(text, "_") {
			return nil, &verr.SpecError{
				Cause:  synErrAutoGenID,
				Detail: text,
				Row:    pos.Row,
				Col:    pos.Col,
			}
		}
		return newIDToken(text, pos), nil
	case "epsilon":
		return newSymbolToken(tokenKindEpsilon, pos), nil
	case "terminal_open":
		var b strings.Builder
		for {
			tok, err := l.d.Next()
			if err != nil {
				return nil, err
			}
			if tok.EOF || tok.Invalid {
				return nil, &verr.SpecError{
					Cause: synErrUnclosedTerminal,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			switch l.kindName(tok) {
			case "pattern":
				b.Write(tok.Lexeme)
			case "escaped_quot":
				// The escape sequences in a pattern string are interpreted by the lexer of each grammar,
				// except for the \". We must interpret the \" here because it is a delimiter.
				b.WriteString(`"`)
			case "escape_sequence":
				b.Write(tok.Lexeme)
			case "terminal_close":
				pat := b.String()
				if pat == "" {
					return nil, &verr.SpecError{
						Cause: synErrEmptyPattern,
						Row:   pos.Row,
						Col:   pos.Col,
					}
				}
				return newTerminalPatternToken(pat, pos), nil
			}
		}
	case "string_literal_open":
		var b strings.Builder
		for {
			tok, err := l.d.Next()
			if err != nil {
				return nil, err
			}
			if tok.EOF {
				return nil, &verr.SpecError{
					Cause: synErrUnclosedString,
					Row:   pos.Row,
					Col:   pos.Col,
				}
			}
			if tok.Invalid {
				cause := synErrUnclosedString
				if strings.HasPrefix(string(tok.Lexeme), `\`) {
					cause = synErrInvalidEscSeq
					if len(tok.Lexeme) == 1 {
						cause = synErrIncompletedEscSeq
					}
				}
				return nil, &verr.SpecError{
					Cause: cause,
					Row:   tok.Row + 1,
					Col:   tok.Col + 1,
				}
			}
			switch l.kindName(tok) {
			case "char_seq":
				b.Write(tok.Lexeme)
			case "escaped_apos":
				// Remove '\' character.
				b.WriteString(`'`)
			case "escaped_back_slash":
				// Remove '\' character.
				b.WriteString(`\`)
			case "string_literal_close":
				str := b.String()
				if str == "" {
					return nil, &verr.SpecError{
						Cause: synErrEmptyString,
						Row:   pos.Row,
						Col:   pos.Col,
					}
				}
				return newStringLiteralToken(str, pos), nil
			}
		}
	case "colon":
		return newSymbolToken(tokenKindColon, pos), nil
	case "or":
		return newSymbolToken(tokenKindOr, pos), nil
	case "semicolon":
		return newSymbolToken(tokenKindSemicolon, pos), nil
	case "metadata_marker":
		return newSymbolToken(tokenKindMetaDataMarker, pos), nil
	default:
		return newInvalidToken(string(tok.Lexeme), pos), nil
	}
}
