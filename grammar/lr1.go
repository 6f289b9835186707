package grammar

import (
	"go.uber.org/zap"

	"github.com/lrkit/lrkit/grammar/symbol"
)

func genLR1Automaton(prods *productionSet, first *firstSet, startSym symbol.Symbol, alphabet []symbol.Symbol, logger *zap.Logger) (*lrAutomaton, error) {
	return genAutomaton(newLR1ItemEngine(prods, first), startSym, alphabet, logger)
}
