package grammar

import (
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/lrkit/lrkit/grammar/symbol"
)

func symbolComparator(a, b interface{}) int {
	x := a.(symbol.Symbol)
	y := b.(symbol.Symbol)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// symbolSet is an ordered set of terminals. Iterating it always yields symbols in
// declaration order, so everything derived from FIRST, FOLLOW, and lookaheads is
// reproducible.
type symbolSet struct {
	set *treeset.Set
}

func newSymbolSet(syms ...symbol.Symbol) *symbolSet {
	s := &symbolSet{
		set: treeset.NewWith(symbolComparator),
	}
	for _, sym := range syms {
		s.set.Add(sym)
	}
	return s
}

func (s *symbolSet) add(sym symbol.Symbol) bool {
	if s.set.Contains(sym) {
		return false
	}
	s.set.Add(sym)
	return true
}

func (s *symbolSet) merge(t *symbolSet) bool {
	if t == nil {
		return false
	}
	changed := false
	for _, sym := range t.symbols() {
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *symbolSet) symbols() []symbol.Symbol {
	vs := s.set.Values()
	syms := make([]symbol.Symbol, len(vs))
	for i, v := range vs {
		syms[i] = v.(symbol.Symbol)
	}
	return syms
}
