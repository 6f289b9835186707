package grammar

import (
	"fmt"

	"github.com/lrkit/lrkit/grammar/symbol"
)

// firstEntry is FIRST of a non-terminal or of a symbol sequence. ε is kept apart from
// the terminals as the nullable flag.
type firstEntry struct {
	symbols  *symbolSet
	nullable bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: newSymbolSet(),
	}
}

// absorb adds FIRST of seq to e and reports whether e grew. Unless every symbol of seq
// is nullable, the nullable flag is left as it is.
func (e *firstEntry) absorb(fst *firstSet, seq []symbol.Symbol) (bool, error) {
	grew := false
	for _, sym := range seq {
		if sym.IsTerminal() {
			return e.symbols.add(sym) || grew, nil
		}
		sub, ok := fst.set[sym]
		if !ok {
			return false, fmt.Errorf("FIRST has no entry for %v", sym)
		}
		if e.symbols.merge(sub.symbols) {
			grew = true
		}
		if !sub.nullable {
			return grew, nil
		}
	}
	if !e.nullable {
		e.nullable = true
		grew = true
	}
	return grew, nil
}

type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

// genFirstSet computes FIRST of every non-terminal. Each pass folds every production
// into the entry of its LHS; the loop ends on the first pass that changes nothing.
func genFirstSet(prods *productionSet) (*firstSet, error) {
	fst := &firstSet{
		set: map[symbol.Symbol]*firstEntry{},
	}
	all := prods.getAllProductions()
	for _, prod := range all {
		if _, ok := fst.set[prod.lhs]; !ok {
			fst.set[prod.lhs] = newFirstEntry()
		}
	}

	for changed := true; changed; {
		changed = false
		for _, prod := range all {
			grew, err := fst.set[prod.lhs].absorb(fst, prod.rhs)
			if err != nil {
				return nil, err
			}
			changed = changed || grew
		}
	}
	return fst, nil
}

func (fst *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fst.set[sym]
}

// findBySequence returns a fresh entry holding FIRST of seq. An empty seq is nullable.
func (fst *firstSet) findBySequence(seq []symbol.Symbol) (*firstEntry, error) {
	e := newFirstEntry()
	if _, err := e.absorb(fst, seq); err != nil {
		return nil, err
	}
	return e, nil
}

// firstOfSequence computes FIRST(seq) without ε, adding fallback when the whole sequence
// can vanish. This is the lookahead rule of the LR(1) closure.
func (fst *firstSet) firstOfSequence(seq []symbol.Symbol, fallback symbol.Symbol) (*symbolSet, error) {
	e, err := fst.findBySequence(seq)
	if err != nil {
		return nil, err
	}
	if e.nullable {
		e.symbols.add(fallback)
	}
	return e.symbols, nil
}
