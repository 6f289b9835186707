package grammar

import (
	"go.uber.org/zap"

	"github.com/lrkit/lrkit/grammar/symbol"
)

func genLR0Automaton(prods *productionSet, startSym symbol.Symbol, alphabet []symbol.Symbol, logger *zap.Logger) (*lrAutomaton, error) {
	return genAutomaton(newLR0ItemEngine(prods), startSym, alphabet, logger)
}

// genAutomaton builds the canonical collection with a FIFO worklist. States are numbered
// in discovery order and the symbols of each state are tried in alphabet order, so the
// numbering depends only on the grammar.
func genAutomaton(engine *itemEngine, startSym symbol.Symbol, alphabet []symbol.Symbol, logger *zap.Logger) (*lrAutomaton, error) {
	automaton := &lrAutomaton{
		lookAhead: engine.lookAhead,
	}
	knownKernels := map[kernelID]*lrState{}

	newState := func(k *kernel) (*lrState, error) {
		closure, err := engine.closure(k.items)
		if err != nil {
			return nil, err
		}
		state := &lrState{
			kernel:  k,
			num:     stateNum(len(automaton.states)),
			closure: closure,
			next:    map[symbol.Symbol]stateNum{},
		}
		automaton.states = append(automaton.states, state)
		knownKernels[k.id] = state
		logger.Debug("state discovered",
			zap.Int("state", state.num.Int()),
			zap.Int("kernel_items", len(k.items)),
			zap.Int("closure_items", len(closure)))
		return state, nil
	}

	{
		initialItem, err := engine.initialItem(startSym)
		if err != nil {
			return nil, err
		}
		k, err := newKernel([]*lrItem{initialItem})
		if err != nil {
			return nil, err
		}
		if _, err := newState(k); err != nil {
			return nil, err
		}
	}

	for i := 0; i < len(automaton.states); i++ {
		state := automaton.states[i]
		for _, sym := range alphabet {
			kItems, err := engine.advance(state.closure, sym)
			if err != nil {
				return nil, err
			}
			if len(kItems) == 0 {
				continue
			}
			k, err := newKernel(kItems)
			if err != nil {
				return nil, err
			}
			target, ok := knownKernels[k.id]
			if !ok {
				target, err = newState(k)
				if err != nil {
					return nil, err
				}
			}
			state.next[sym] = target.num
		}
	}

	return automaton, nil
}
