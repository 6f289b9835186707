package spec

import (
	"io"

	verr "github.com/lrkit/lrkit/error"
)

const (
	directiveName  = "name"
	directiveStart = "start"
)

func raiseSyntaxError(pos Position, synErr *SyntaxError) {
	panic(&verr.SpecError{
		Cause: synErr,
		Row:   pos.Row,
		Col:   pos.Col,
	})
}

func raiseSyntaxErrorWithDetail(pos Position, synErr *SyntaxError, detail string) {
	panic(&verr.SpecError{
		Cause:  synErr,
		Detail: detail,
		Row:    pos.Row,
		Col:    pos.Col,
	})
}

// Parse reads a grammar written in the text format:
//
//	%name cc
//	%start S
//
//	S : C C ;
//	C : c C | d ;
//	id : "[a-z]+" ;
//	opt : ε | '+' ;
//
// Identifiers that appear on a left-hand side are non-terminals. Every other identifier
// and every quoted string is a terminal. A production whose only alternative is a
// double-quoted pattern attaches that pattern to the terminal instead.
func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	return root, nil
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token

	// A token position that the parser read at last.
	// It is used as additional information in error messages.
	pos Position
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err == nil {
			return
		}
		switch e := err.(type) {
		case *verr.SpecError:
			retErr = verr.SpecErrors{e}
		case error:
			retErr = e
		default:
			panic(err)
		}
	}()
	return p.parseRoot(), nil
}

func (p *parser) parseRoot() *RootNode {
	root := &RootNode{}
	for p.consume(tokenKindMetaDataMarker) {
		dir := p.parseDirective()
		switch dir.Name {
		case directiveName:
			root.Name = dir.Parameter
		case directiveStart:
			root.Start = dir
		}
	}

	for {
		prod := p.parseProduction()
		if prod == nil {
			break
		}
		if prod.isLexical() {
			root.LexProductions = append(root.LexProductions, prod)
		} else {
			root.Productions = append(root.Productions, prod)
		}
	}
	if len(root.Productions) == 0 {
		raiseSyntaxError(p.pos, synErrNoProduction)
	}
	return root
}

func (p *parser) parseDirective() *DirectiveNode {
	pos := p.lastTok.pos
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos, synErrNoDirectiveName)
	}
	name := p.lastTok.text
	if name != directiveName && name != directiveStart {
		raiseSyntaxErrorWithDetail(p.lastTok.pos, synErrUnknownDirective, name)
	}
	if !p.consume(tokenKindID) {
		raiseSyntaxErrorWithDetail(p.pos, synErrNoDirectiveParam, name)
	}
	return &DirectiveNode{
		Name:      name,
		Parameter: p.lastTok.text,
		Pos:       pos,
	}
}

func (p *parser) parseProduction() *ProductionNode {
	if p.consume(tokenKindEOF) {
		return nil
	}
	if !p.consume(tokenKindID) {
		raiseSyntaxError(p.pos, synErrNoProductionName)
	}
	lhs := p.lastTok.text
	lhsPos := p.lastTok.pos
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(p.pos, synErrNoColon)
	}
	alt := p.parseAlternative()
	rhs := []*AlternativeNode{alt}
	for {
		if !p.consume(tokenKindOr) {
			break
		}
		alt := p.parseAlternative()
		rhs = append(rhs, alt)
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(p.pos, synErrNoSemicolon)
	}

	prod := &ProductionNode{
		LHS: lhs,
		RHS: rhs,
		Pos: lhsPos,
	}
	if !prod.isLexical() {
		for _, alt := range rhs {
			for _, elem := range alt.Elements {
				if elem.Pattern != "" {
					raiseSyntaxError(elem.Pos, synErrMisplacedPattern)
				}
			}
		}
	}
	return prod
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Elements: []*ElementNode{},
		Pos:      p.pos,
	}
	if p.consume(tokenKindEpsilon) {
		alt.Pos = p.lastTok.pos
		if elem := p.parseElement(); elem != nil {
			raiseSyntaxError(elem.Pos, synErrEpsilonNotAlone)
		}
		return alt
	}
	for {
		elem := p.parseElement()
		if elem == nil {
			break
		}
		if len(alt.Elements) == 0 {
			alt.Pos = elem.Pos
		}
		alt.Elements = append(alt.Elements, elem)
	}
	if p.consume(tokenKindEpsilon) {
		raiseSyntaxError(p.lastTok.pos, synErrEpsilonNotAlone)
	}
	return alt
}

func (p *parser) parseElement() *ElementNode {
	switch {
	case p.consume(tokenKindID):
		return &ElementNode{
			ID:  p.lastTok.text,
			Pos: p.lastTok.pos,
		}
	case p.consume(tokenKindStringLiteral):
		return &ElementNode{
			ID:      p.lastTok.text,
			Literal: true,
			Pos:     p.lastTok.pos,
		}
	case p.consume(tokenKindTerminalPattern):
		return &ElementNode{
			Pattern: p.lastTok.text,
			Pos:     p.lastTok.pos,
		}
	}
	return nil
}

func (p *parser) consume(expected tokenKind) bool {
	var tok *token
	var err error
	if p.peekedTok != nil {
		tok = p.peekedTok
		p.peekedTok = nil
	} else {
		tok, err = p.lex.next()
		if err != nil {
			panic(err)
		}
	}
	p.pos = tok.pos
	if tok.kind == tokenKindInvalid {
		raiseSyntaxErrorWithDetail(tok.pos, synErrInvalidToken, tok.text)
	}
	if tok.kind == expected {
		p.lastTok = tok
		return true
	}
	p.peekedTok = tok

	return false
}
