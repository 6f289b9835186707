package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrkit/lrkit/grammar/symbol"
)

func TestItemEngine_Closure(t *testing.T) {
	gram := buildTestGrammar(t, srcCC)
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	genProd := newTestProductionGenerator(t, gram)
	genLR0Item := newTestLR0ItemGenerator(t, genProd)
	genLR1Item := newTestLR1ItemGenerator(t, genSym, genProd)

	t.Run("LR(0) closure adds initial items of every expected non-terminal", func(t *testing.T) {
		e := newLR0ItemEngine(gram.productionSet)
		initial, err := e.initialItem(gram.augmentedStartSymbol)
		require.NoError(t, err)
		closure, err := e.closure([]*lrItem{initial})
		require.NoError(t, err)

		expected := []*lrItem{
			genLR0Item("S'", 0, "S"),
			genLR0Item("S", 0, "C", "C"),
			genLR0Item("C", 0, "c", "C"),
			genLR0Item("C", 0, "d"),
		}
		assert.Equal(t, itemIDs(expected), itemIDs(closure))
	})

	t.Run("LR(1) closure derives look-aheads from the rest of the item", func(t *testing.T) {
		e := newLR1ItemEngine(gram.productionSet, gram.first)
		initial, err := e.initialItem(gram.augmentedStartSymbol)
		require.NoError(t, err)
		closure, err := e.closure([]*lrItem{initial})
		require.NoError(t, err)

		expected := []*lrItem{
			genLR1Item("$", "S'", 0, "S"),
			genLR1Item("$", "S", 0, "C", "C"),
			genLR1Item("c", "C", 0, "c", "C"),
			genLR1Item("d", "C", 0, "c", "C"),
			genLR1Item("c", "C", 0, "d"),
			genLR1Item("d", "C", 0, "d"),
		}
		assert.Equal(t, itemIDs(expected), itemIDs(closure))
	})

	t.Run("goto advances the dot and closes the result", func(t *testing.T) {
		e := newLR1ItemEngine(gram.productionSet, gram.first)
		initial, err := e.initialItem(gram.augmentedStartSymbol)
		require.NoError(t, err)
		closure, err := e.closure([]*lrItem{initial})
		require.NoError(t, err)
		before := itemIDs(closure)

		next, err := e.goTo(closure, genSym("C"))
		require.NoError(t, err)
		expected := []*lrItem{
			genLR1Item("$", "S", 1, "C", "C"),
			genLR1Item("$", "C", 0, "c", "C"),
			genLR1Item("$", "C", 0, "d"),
		}
		assert.Equal(t, itemIDs(expected), itemIDs(next))

		none, err := e.goTo(closure, symbol.SymbolEOF)
		require.NoError(t, err)
		assert.Nil(t, none)

		assert.Equal(t, before, itemIDs(closure), "goto must not modify its input")
	})

	t.Run("closure of an ε production adds a reducible item", func(t *testing.T) {
		gram := buildTestGrammar(t, srcNullable)
		genProd := newTestProductionGenerator(t, gram)
		genLR0Item := newTestLR0ItemGenerator(t, genProd)

		e := newLR0ItemEngine(gram.productionSet)
		closure, err := e.closure([]*lrItem{genLR0Item("S", 1, "A", "B", "c")})
		require.NoError(t, err)

		expected := []*lrItem{
			genLR0Item("S", 1, "A", "B", "c"),
			genLR0Item("B", 0, "b"),
			genLR0Item("B", 0),
		}
		assert.Equal(t, itemIDs(expected), itemIDs(closure))
		assert.True(t, closure[2].reducible)
	})
}
