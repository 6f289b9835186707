package grammar

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lrkit/lrkit/grammar/symbol"
)

// genLALR1Automaton merges the states of an LR(1) automaton that share a core. Merged
// states are numbered in the order their first member was discovered, so the initial
// state stays number 0.
func genLALR1Automaton(lr1 *lrAutomaton, logger *zap.Logger) (*lrAutomaton, error) {
	if !lr1.lookAhead {
		return nil, errors.New("an LALR(1) automaton can be made only from an LR(1) automaton")
	}

	var groups [][]*lrState
	core2Group := map[kernelID]int{}
	lr12LALR1 := make([]stateNum, len(lr1.states))
	for _, state := range lr1.states {
		g, ok := core2Group[state.coreID]
		if !ok {
			g = len(groups)
			core2Group[state.coreID] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], state)
		lr12LALR1[state.num] = stateNum(g)
	}

	automaton := &lrAutomaton{
		lookAhead: true,
		states:    make([]*lrState, 0, len(groups)),
	}
	for g, members := range groups {
		var kItems []*lrItem
		var closure []*lrItem
		for _, m := range members {
			kItems = append(kItems, m.items...)
			closure = append(closure, m.closure...)
		}
		k, err := newKernel(kItems)
		if err != nil {
			return nil, err
		}

		next := map[symbol.Symbol]stateNum{}
		for _, m := range members {
			for sym, target := range m.next {
				merged := lr12LALR1[target]
				if prev, ok := next[sym]; ok && prev != merged {
					return nil, errors.Errorf("merged states disagree on a transition; state: %v, symbol: %v, targets: %v, %v", g, sym, prev, merged)
				}
				next[sym] = merged
			}
		}

		automaton.states = append(automaton.states, &lrState{
			kernel:  k,
			num:     stateNum(g),
			closure: sortItems(closure),
			next:    next,
		})
		if len(members) > 1 {
			logger.Debug("states merged",
				zap.Int("state", g),
				zap.Int("members", len(members)))
		}
	}

	return automaton, nil
}
