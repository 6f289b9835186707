// Package symbol numbers the terminals and non-terminals of a grammar. Numbers double as
// column indices of the ACTION and GOTO tables.
package symbol

import (
	"fmt"
)

type SymbolNum uint16

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol packs a kind, a marker flag, and a number into 16 bits.
//
//	bit 15        | bit 14                  | bits 13-0
//	--------------+-------------------------+-----------
//	1: terminal   | 1: EOF (terminal)       | number
//	0: non-term   |    augmented start (nt) |
//
// Both marked symbols have number 1, and user symbols start at 2. Sorting symbols by
// value lists user symbols in registration order and puts each marked symbol after the
// rest of its kind.
type Symbol uint16

const (
	bitTerminal = uint16(0x8000)
	bitMarker   = uint16(0x4000)
	maskNum     = uint16(0x3fff)

	markerNum  = SymbolNum(1)
	userNumMin = SymbolNum(2)
	userNumMax = SymbolNum(maskNum)

	SymbolNil   = Symbol(0)
	SymbolEOF   = Symbol(bitTerminal | bitMarker | uint16(markerNum))
	symbolStart = Symbol(bitMarker | uint16(markerNum))
)

const (
	// NameEOF is the name of the end marker.
	NameEOF = "$"

	// NameEpsilon marks an empty right-hand side. It never becomes a symbol.
	NameEpsilon = "ε"
)

// IsReservedName reports whether text is one of the names users cannot define.
func IsReservedName(text string) bool {
	return text == NameEOF || text == NameEpsilon
}

func newUserSymbol(terminal bool, num SymbolNum) (Symbol, error) {
	if num > userNumMax {
		return SymbolNil, fmt.Errorf("too many symbols; the limit is %v per kind", userNumMax-userNumMin+1)
	}
	if terminal {
		return Symbol(bitTerminal | uint16(num)), nil
	}
	return Symbol(uint16(num)), nil
}

func (s Symbol) String() string {
	var prefix string
	switch {
	case s.IsNil():
		return "nil"
	case s.IsStart():
		prefix = "s"
	case s.IsEOF():
		prefix = "e"
	case s.IsTerminal():
		prefix = "t"
	default:
		prefix = "n"
	}
	return fmt.Sprintf("%v%v", prefix, s.Num())
}

func (s Symbol) Num() SymbolNum {
	return SymbolNum(uint16(s) & maskNum)
}

// Byte returns the big-endian encoding of s.
func (s Symbol) Byte() []byte {
	return []byte{byte(uint16(s) >> 8), byte(s)}
}

func (s Symbol) IsNil() bool {
	return s.Num() == 0
}

func (s Symbol) IsStart() bool {
	return s == symbolStart
}

func (s Symbol) IsEOF() bool {
	return s == SymbolEOF
}

func (s Symbol) IsTerminal() bool {
	return !s.IsNil() && uint16(s)&bitTerminal != 0
}

func (s Symbol) IsNonTerminal() bool {
	return !s.IsNil() && uint16(s)&bitTerminal == 0
}

// SymbolTable assigns numbers to symbol names in the order the names are registered.
// Grammar builders fill it through a Writer and hand out Readers afterwards.
type SymbolTable struct {
	text2Sym map[string]Symbol
	sym2Text map[Symbol]string

	// termTexts and nonTermTexts are indexed by number. Slot 0 is unused and slot 1
	// holds the marked symbol of the kind.
	termTexts    []string
	nonTermTexts []string
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		text2Sym:     map[string]Symbol{NameEOF: SymbolEOF},
		sym2Text:     map[Symbol]string{SymbolEOF: NameEOF},
		termTexts:    []string{"", NameEOF},
		nonTermTexts: []string{"", ""},
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

// RegisterStartSymbol names the augmented start symbol.
func (w *SymbolTableWriter) RegisterStartSymbol(text string) (Symbol, error) {
	if IsReservedName(text) {
		return SymbolNil, fmt.Errorf("%q is a reserved name", text)
	}
	if sym, ok := w.text2Sym[text]; ok && sym != symbolStart {
		return SymbolNil, fmt.Errorf("%q is already registered as %v", text, sym)
	}
	w.text2Sym[text] = symbolStart
	w.sym2Text[symbolStart] = text
	w.nonTermTexts[markerNum] = text
	return symbolStart, nil
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	return w.register(false, text)
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	return w.register(true, text)
}

// register returns the existing symbol when text is already registered with the same kind.
func (w *SymbolTableWriter) register(terminal bool, text string) (Symbol, error) {
	if IsReservedName(text) {
		return SymbolNil, fmt.Errorf("%q is a reserved name", text)
	}
	if sym, ok := w.text2Sym[text]; ok {
		if sym.IsTerminal() != terminal {
			return SymbolNil, fmt.Errorf("%q is already registered as %v", text, kindName(sym.IsTerminal()))
		}
		return sym, nil
	}

	texts := &w.nonTermTexts
	if terminal {
		texts = &w.termTexts
	}
	sym, err := newUserSymbol(terminal, SymbolNum(len(*texts)))
	if err != nil {
		return SymbolNil, err
	}
	*texts = append(*texts, text)
	w.text2Sym[text] = sym
	w.sym2Text[sym] = text
	return sym, nil
}

func kindName(terminal bool) string {
	if terminal {
		return "a terminal"
	}
	return "a non-terminal"
}

func (r *SymbolTableReader) ToSymbol(text string) (Symbol, bool) {
	sym, ok := r.text2Sym[text]
	if !ok {
		return SymbolNil, false
	}
	return sym, true
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

// TerminalSymbols returns the terminals in registration order followed by the EOF symbol.
func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.termTexts)-1)
	for n := userNumMin; n.Int() < len(r.termTexts); n++ {
		syms = append(syms, Symbol(bitTerminal|uint16(n)))
	}
	return append(syms, SymbolEOF)
}

// NonTerminalSymbols returns the non-terminals in registration order followed by the
// augmented start symbol when one is registered.
func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.nonTermTexts)-1)
	for n := userNumMin; n.Int() < len(r.nonTermTexts); n++ {
		syms = append(syms, Symbol(uint16(n)))
	}
	if r.nonTermTexts[markerNum] != "" {
		syms = append(syms, symbolStart)
	}
	return syms
}

// Alphabet enumerates every symbol in the fixed order the automaton builders use:
// terminals first, then non-terminals.
func (r *SymbolTableReader) Alphabet() []Symbol {
	return append(r.TerminalSymbols(), r.NonTerminalSymbols()...)
}

// TerminalTexts returns terminal names indexed by symbol number. The end marker is always
// present, so a grammar deriving only ε still has one terminal.
func (r *SymbolTableReader) TerminalTexts() ([]string, error) {
	return r.termTexts, nil
}

// NonTerminalTexts returns non-terminal names indexed by symbol number.
func (r *SymbolTableReader) NonTerminalTexts() ([]string, error) {
	if r.nonTermTexts[markerNum] == "" {
		return nil, fmt.Errorf("symbol table has no start symbol")
	}
	return r.nonTermTexts, nil
}

// TerminalCount is the width of an ACTION row, including the nil and EOF columns.
func (r *SymbolTableReader) TerminalCount() int {
	return len(r.termTexts)
}

// NonTerminalCount is the width of a GOTO row, including the nil and start columns.
func (r *SymbolTableReader) NonTerminalCount() int {
	return len(r.nonTermTexts)
}
