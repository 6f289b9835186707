package grammar

import (
	"github.com/lrkit/lrkit/grammar/symbol"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

func (b *lrTableBuilder) genReport(tab *ParsingTable, gram *Grammar) (*gspec.Report, error) {
	var terms []*gspec.Terminal
	for _, sym := range gram.symbolTable.TerminalSymbols() {
		name, _ := gram.symbolTable.ToText(sym)
		terms = append(terms, &gspec.Terminal{
			Number:  sym.Num().Int(),
			Name:    name,
			Pattern: gram.patterns[sym],
		})
	}

	var nonTerms []*gspec.NonTerminal
	for _, sym := range gram.symbolTable.NonTerminalSymbols() {
		name, _ := gram.symbolTable.ToText(sym)
		nt := &gspec.NonTerminal{
			Number: sym.Num().Int(),
			Name:   name,
		}
		if fst := gram.first.findBySymbol(sym); fst != nil {
			nt.First = symbolNums(fst.symbols.symbols())
			nt.Nullable = fst.nullable
		}
		flw, err := gram.follow.find(sym)
		if err != nil {
			return nil, err
		}
		nt.Follow = symbolNums(flw.symbols.symbols())
		nonTerms = append(nonTerms, nt)
	}

	var prods []*gspec.Production
	for _, p := range gram.productionSet.getAllProductions() {
		rhs := make([]int, 0, p.rhsLen)
		for _, sym := range p.rhs {
			if sym.IsTerminal() {
				rhs = append(rhs, sym.Num().Int())
			} else {
				rhs = append(rhs, sym.Num().Int()*-1)
			}
		}
		prods = append(prods, &gspec.Production{
			Number: p.num.Int(),
			LHS:    p.lhs.Num().Int(),
			RHS:    rhs,
		})
	}

	state2Conflicts := map[int][]*gspec.Conflict{}
	for _, c := range b.conflicts {
		sym, _ := gram.symbolTable.ToSymbol(c.Terminal)
		state2Conflicts[c.State] = append(state2Conflicts[c.State], &gspec.Conflict{
			Kind:     string(c.Kind),
			State:    c.State,
			Symbol:   sym.Num().Int(),
			Existing: c.Existing.String(),
			Incoming: c.Incoming.String(),
		})
	}

	termSyms := gram.symbolTable.TerminalSymbols()
	nonTermSyms := gram.symbolTable.NonTerminalSymbols()
	var states []*gspec.State
	for _, s := range b.automaton.states {
		state := &gspec.State{
			Number:    s.num.Int(),
			Kernel:    reportItems(s.items),
			Closure:   reportItems(s.closure),
			Conflicts: state2Conflicts[s.num.Int()],
		}

		for _, sym := range termSyms {
			next, ok := s.next[sym]
			if !ok {
				continue
			}
			state.Shift = append(state.Shift, &gspec.Transition{
				Symbol: sym.Num().Int(),
				State:  next.Int(),
			})
		}
		for _, sym := range nonTermSyms {
			next, ok := tab.getGoTo(s.num, sym.Num())
			if !ok {
				continue
			}
			state.GoTo = append(state.GoTo, &gspec.Transition{
				Symbol: sym.Num().Int(),
				State:  next.Int(),
			})
		}

		var reduceOrder []productionNum
		prod2LA := map[productionNum][]int{}
		for _, sym := range termSyms {
			ty, _, prodNum := tab.getAction(s.num, sym.Num())
			switch ty {
			case ActionTypeAccept:
				state.Accept = true
			case ActionTypeReduce:
				if _, ok := prod2LA[prodNum]; !ok {
					reduceOrder = append(reduceOrder, prodNum)
				}
				prod2LA[prodNum] = append(prod2LA[prodNum], sym.Num().Int())
			}
		}
		for _, prodNum := range reduceOrder {
			state.Reduce = append(state.Reduce, &gspec.Reduce{
				LookAhead:  prod2LA[prodNum],
				Production: prodNum.Int(),
			})
		}

		states = append(states, state)
	}

	return &gspec.Report{
		Name:         gram.name,
		Class:        b.class.String(),
		Terminals:    terms,
		NonTerminals: nonTerms,
		Productions:  prods,
		States:       states,
	}, nil
}

// reportItems folds sorted items that differ only in look-ahead into one entry.
func reportItems(items []*lrItem) []*gspec.Item {
	var ris []*gspec.Item
	var last *gspec.Item
	for _, item := range items {
		if last == nil || last.Production != item.prod.num.Int() || last.Dot != item.dot {
			last = &gspec.Item{
				Production: item.prod.num.Int(),
				Dot:        item.dot,
			}
			ris = append(ris, last)
		}
		if item.hasLookAhead() {
			last.LookAhead = append(last.LookAhead, item.lookAhead.Num().Int())
		}
	}
	return ris
}

func symbolNums(syms []symbol.Symbol) []int {
	nums := make([]int, 0, len(syms))
	for _, sym := range syms {
		nums = append(nums, sym.Num().Int())
	}
	return nums
}
