package grammar

import (
	"fmt"

	"github.com/lrkit/lrkit/grammar/symbol"
)

// followEntry holds FOLLOW of one non-terminal. The end marker is stored as an ordinary
// member, so it is listed after every other terminal.
type followEntry struct {
	symbols *symbolSet
}

type followSet struct {
	set map[symbol.Symbol]*followEntry
}

func (flw *followSet) find(sym symbol.Symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("FOLLOW has no entry for %v", sym)
	}
	return e, nil
}

// genFollowSet computes FOLLOW of every non-terminal. For each occurrence of B in
// A → αBβ, FOLLOW(B) gains FIRST(β), and FOLLOW(A) too when β can vanish. The passes
// repeat until none of them grows a set.
func genFollowSet(prods *productionSet, first *firstSet) (*followSet, error) {
	flw := &followSet{
		set: map[symbol.Symbol]*followEntry{},
	}
	all := prods.getAllProductions()
	for _, prod := range all {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		e := &followEntry{
			symbols: newSymbolSet(),
		}
		if prod.lhs.IsStart() {
			e.symbols.add(symbol.SymbolEOF)
		}
		flw.set[prod.lhs] = e
	}

	// FIRST of each suffix never changes, so it is computed once up front.
	type occurrence struct {
		sym    symbol.Symbol
		lhs    symbol.Symbol
		suffix *firstEntry
	}
	var occs []occurrence
	for _, prod := range all {
		for i, sym := range prod.rhs {
			if !sym.IsNonTerminal() {
				continue
			}
			suffix, err := first.findBySequence(prod.rhs[i+1:])
			if err != nil {
				return nil, err
			}
			occs = append(occs, occurrence{
				sym:    sym,
				lhs:    prod.lhs,
				suffix: suffix,
			})
		}
	}

	for changed := true; changed; {
		changed = false
		for _, o := range occs {
			target, err := flw.find(o.sym)
			if err != nil {
				return nil, err
			}
			if target.symbols.merge(o.suffix.symbols) {
				changed = true
			}
			if !o.suffix.nullable {
				continue
			}
			src, err := flw.find(o.lhs)
			if err != nil {
				return nil, err
			}
			if target.symbols.merge(src.symbols) {
				changed = true
			}
		}
	}
	return flw, nil
}
