package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrkit/lrkit/grammar/symbol"
)

const srcNullable = `
S : A B c ;
A : a | ε ;
B : b | ε ;
`

func TestGenFirst(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   map[string][]string
	}{
		{
			caption: "productions contain only non-empty productions",
			src:     srcExpr,
			first: map[string][]string{
				"E'": {"(", "id"},
				"E":  {"(", "id"},
				"T":  {"(", "id"},
				"F":  {"(", "id"},
			},
		},
		{
			caption: "productions contain the empty start production",
			src: `
S : ;
`,
			first: map[string][]string{
				"S'": {"ε"},
				"S":  {"ε"},
			},
		},
		{
			caption: "nullable prefixes let FIRST look further",
			src:     srcNullable,
			first: map[string][]string{
				"S'": {"c", "a", "b"},
				"S":  {"c", "a", "b"},
				"A":  {"a", "ε"},
				"B":  {"b", "ε"},
			},
		},
		{
			caption: "FIRST of a left-recursive non-terminal converges",
			src: `
L : L x | y | ;
`,
			first: map[string][]string{
				"L": {"x", "y", "ε"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := buildTestGrammar(t, tt.src)
			for name, expected := range tt.first {
				actual, err := gram.First(name)
				require.NoError(t, err)
				assert.Equal(t, expected, actual, "FIRST(%v)", name)
			}
		})
	}
}

func TestFirstSet_FirstOfSequence(t *testing.T) {
	gram := buildTestGrammar(t, srcNullable)
	genSym := newTestSymbolGenerator(t, gram.symbolTable)

	tests := []struct {
		caption  string
		seq      []string
		fallback string
		expected []string
	}{
		{
			caption:  "an empty sequence yields the fallback",
			seq:      nil,
			fallback: "$",
			expected: []string{"$"},
		},
		{
			caption:  "a nullable sequence adds the fallback",
			seq:      []string{"A", "B"},
			fallback: "$",
			expected: []string{"a", "b", "$"},
		},
		{
			caption:  "a non-nullable sequence ignores the fallback",
			seq:      []string{"A", "c"},
			fallback: "$",
			expected: []string{"c", "a"},
		},
		{
			caption:  "a leading terminal stops the scan",
			seq:      []string{"c", "A"},
			fallback: "b",
			expected: []string{"c"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			var seq []symbol.Symbol
			for _, s := range tt.seq {
				seq = append(seq, genSym(s))
			}
			syms, err := gram.first.firstOfSequence(seq, genSym(tt.fallback))
			require.NoError(t, err)
			var actual []string
			for _, sym := range syms.symbols() {
				text, _ := gram.symbolTable.ToText(sym)
				actual = append(actual, text)
			}
			assert.Equal(t, tt.expected, actual)
		})
	}
}
