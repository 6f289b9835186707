package grammar

import (
	"fmt"

	"github.com/lrkit/lrkit/grammar/symbol"
)

// itemEngine computes closures and transitions over items of one kind. With lookAhead
// set it works on LR(1) items, otherwise on LR(0) items. Its methods never modify the
// items they are given.
type itemEngine struct {
	prods     *productionSet
	first     *firstSet
	lookAhead bool
}

func newLR0ItemEngine(prods *productionSet) *itemEngine {
	return &itemEngine{
		prods: prods,
	}
}

func newLR1ItemEngine(prods *productionSet, first *firstSet) *itemEngine {
	return &itemEngine{
		prods:     prods,
		first:     first,
		lookAhead: true,
	}
}

// initialItem returns S' →・S, with the end marker as its look-ahead for LR(1).
func (e *itemEngine) initialItem(startSym symbol.Symbol) (*lrItem, error) {
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol: %v", startSym)
	}
	prods, ok := e.prods.findByLHS(startSym)
	if !ok || len(prods) != 1 {
		return nil, fmt.Errorf("the augmented start symbol must have exactly one production")
	}
	if e.lookAhead {
		return newLR1Item(prods[0], 0, symbol.SymbolEOF)
	}
	return newLR0Item(prods[0], 0)
}

// closure returns the sorted closure of items.
func (e *itemEngine) closure(items []*lrItem) ([]*lrItem, error) {
	closure := []*lrItem{}
	known := map[lrItemID]struct{}{}
	unchecked := []*lrItem{}
	for _, item := range items {
		if _, ok := known[item.id]; ok {
			continue
		}
		known[item.id] = struct{}{}
		closure = append(closure, item)
		unchecked = append(unchecked, item)
	}

	for len(unchecked) > 0 {
		nextUnchecked := []*lrItem{}
		for _, item := range unchecked {
			if !item.dottedSymbol.IsNonTerminal() {
				continue
			}

			lookAheads := []symbol.Symbol{symbol.SymbolNil}
			if e.lookAhead {
				las, err := e.first.firstOfSequence(item.prod.rhs[item.dot+1:], item.lookAhead)
				if err != nil {
					return nil, err
				}
				lookAheads = las.symbols()
			}

			ps, _ := e.prods.findByLHS(item.dottedSymbol)
			for _, prod := range ps {
				for _, la := range lookAheads {
					newItem, err := newLRItem(prod, 0, la)
					if err != nil {
						return nil, err
					}
					if _, ok := known[newItem.id]; ok {
						continue
					}
					known[newItem.id] = struct{}{}
					closure = append(closure, newItem)
					nextUnchecked = append(nextUnchecked, newItem)
				}
			}
		}
		unchecked = nextUnchecked
	}

	return sortItems(closure), nil
}

// advance moves the dot over sym in every item that expects it. The result is the kernel
// of the target state and is empty when no item expects sym.
func (e *itemEngine) advance(items []*lrItem, sym symbol.Symbol) ([]*lrItem, error) {
	var kItems []*lrItem
	for _, item := range items {
		if item.dottedSymbol.IsNil() || item.dottedSymbol != sym {
			continue
		}
		kItem, err := item.advance()
		if err != nil {
			return nil, err
		}
		kItems = append(kItems, kItem)
	}
	return kItems, nil
}

// goTo returns the closure of advance(items, sym), or nil when no item expects sym.
func (e *itemEngine) goTo(items []*lrItem, sym symbol.Symbol) ([]*lrItem, error) {
	kItems, err := e.advance(items, sym)
	if err != nil {
		return nil, err
	}
	if len(kItems) == 0 {
		return nil, nil
	}
	return e.closure(kItems)
}
