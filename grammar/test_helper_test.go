package grammar

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/lrkit/lrkit/grammar/symbol"
	"github.com/lrkit/lrkit/spec"
)

const srcCC = `
%name cc

S : C C ;
C : c C | d ;
`

// srcExpr is SLR(1) but not LR(0).
const srcExpr = `
%name expr

E : E '+' T | T ;
T : T '*' F | F ;
F : '(' E ')' | id ;
id : "[a-z]+" ;
`

// srcLR1NotLALR1 is LR(1) but merging its states makes reduce/reduce conflicts.
const srcLR1NotLALR1 = `
%name lr1

S : a A d | b B d | a B e | b A e ;
A : c ;
B : c ;
`

const srcAmbiguous = `
%name ambiguous

E : E '+' E | id ;
`

func buildTestGrammar(t *testing.T, src string, opts ...BuildOption) *Grammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse a grammar: %v", err)
	}
	b := GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build(opts...)
	if err != nil {
		t.Fatalf("failed to build a grammar: %v", err)
	}
	return gram
}

func genTestAutomaton(t *testing.T, gram *Grammar, class Class) *lrAutomaton {
	t.Helper()

	b, _, err := buildParsingTable(gram, class, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to build a parsing table: %v", err)
	}
	return b.automaton
}

type testSymbolGenerator func(text string) symbol.Symbol

func newTestSymbolGenerator(t *testing.T, symTab *symbol.SymbolTableReader) testSymbolGenerator {
	return func(text string) symbol.Symbol {
		t.Helper()

		sym, ok := symTab.ToSymbol(text)
		if !ok {
			t.Fatalf("symbol was not found: %v", text)
		}
		return sym
	}
}

type testProductionGenerator func(lhs string, rhs ...string) *production

// newTestProductionGenerator looks productions up in gram so that generated items share
// their production numbers.
func newTestProductionGenerator(t *testing.T, gram *Grammar) testProductionGenerator {
	genSym := newTestSymbolGenerator(t, gram.symbolTable)
	return func(lhs string, rhs ...string) *production {
		t.Helper()

		rhsSym := []symbol.Symbol{}
		for _, text := range rhs {
			rhsSym = append(rhsSym, genSym(text))
		}
		id := genProductionID(genSym(lhs), rhsSym)
		prod, ok := gram.productionSet.id2Prod[id]
		if !ok {
			t.Fatalf("production was not found: %v → %v", lhs, rhs)
		}
		return prod
	}
}

type testLR0ItemGenerator func(lhs string, dot int, rhs ...string) *lrItem

func newTestLR0ItemGenerator(t *testing.T, genProd testProductionGenerator) testLR0ItemGenerator {
	return func(lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		item, err := newLR0Item(genProd(lhs, rhs...), dot)
		if err != nil {
			t.Fatalf("failed to create a LR0 item: %v", err)
		}
		return item
	}
}

type testLR1ItemGenerator func(lookAhead string, lhs string, dot int, rhs ...string) *lrItem

func newTestLR1ItemGenerator(t *testing.T, genSym testSymbolGenerator, genProd testProductionGenerator) testLR1ItemGenerator {
	return func(lookAhead string, lhs string, dot int, rhs ...string) *lrItem {
		t.Helper()

		item, err := newLR1Item(genProd(lhs, rhs...), dot, genSym(lookAhead))
		if err != nil {
			t.Fatalf("failed to create a LR1 item: %v", err)
		}
		return item
	}
}

func itemIDs(items []*lrItem) []lrItemID {
	ids := make([]lrItemID, len(items))
	for i, item := range items {
		ids[i] = item.id
	}
	return ids
}
