package grammar_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrkit/lrkit/compressor"
	"github.com/lrkit/lrkit/driver"
	"github.com/lrkit/lrkit/grammar"
	"github.com/lrkit/lrkit/spec"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

const exprSrc = `
%name expr

E : E '+' T | T ;
T : T '*' F | F ;
F : '(' E ')' | id ;
id : "[a-z]+" ;
`

func compileExpr(t *testing.T, opts ...grammar.CompileOption) (*gspec.CompiledGrammar, *gspec.Report) {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(exprSrc))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	require.NoError(t, err)
	cg, report, err := grammar.Compile(gram, opts...)
	require.NoError(t, err)
	return cg, report
}

func TestCompiledGrammar_RoundTrip(t *testing.T) {
	levels := []int{
		compressor.LevelNone,
		compressor.LevelUniqueRows,
		compressor.LevelMax,
	}
	for _, lv := range levels {
		t.Run(fmt.Sprintf("level %v", lv), func(t *testing.T) {
			cg, _ := compileExpr(t, grammar.CompressionLevel(lv))

			var buf bytes.Buffer
			require.NoError(t, gspec.WriteCompiledGrammar(&buf, cg))
			read, err := gspec.ReadCompiledGrammar(&buf)
			require.NoError(t, err)

			assert.Equal(t, cg.Name, read.Name)
			assert.Equal(t, cg.Syntactic.Terminals, read.Syntactic.Terminals)
			assert.Equal(t, cg.Syntactic.NonTerminals, read.Syntactic.NonTerminals)
			assert.Equal(t, cg.Lexical.Maleeni.Name, read.Lexical.Maleeni.Name)
			for state := 0; state < cg.Syntactic.StateCount; state++ {
				for term := 0; term < cg.Syntactic.TerminalCount; term++ {
					assert.Equal(t, cg.Syntactic.ActionEntry(state, term), read.Syntactic.ActionEntry(state, term))
				}
				for nonTerm := 0; nonTerm < cg.Syntactic.NonTerminalCount; nonTerm++ {
					assert.Equal(t, cg.Syntactic.GoToEntry(state, nonTerm), read.Syntactic.GoToEntry(state, nonTerm))
				}
			}

			toks, err := driver.NewTokenStream(read, strings.NewReader("(a + b) * c"))
			require.NoError(t, err)
			p, err := driver.NewParser(toks, driver.NewGrammar(read))
			require.NoError(t, err)
			require.NoError(t, p.Parse())

			tree := p.Tree()
			var texts []string
			for _, leaf := range tree.Leaves() {
				texts = append(texts, tree.Text(leaf))
			}
			assert.Equal(t, []string{"(", "a", "+", "b", ")", "*", "c"}, texts)
		})
	}
}

func TestReadCompiledGrammar_Invalid(t *testing.T) {
	srcs := []string{
		`{`,
		`{"name": "expr"}`,
		`{"name": "expr", "lexical": {}}`,
	}
	for _, src := range srcs {
		_, err := gspec.ReadCompiledGrammar(strings.NewReader(src))
		assert.Error(t, err, src)
	}
}

func TestReport_RoundTrip(t *testing.T) {
	_, report := compileExpr(t, grammar.EnableReporting())
	require.NotNil(t, report)

	var buf bytes.Buffer
	require.NoError(t, gspec.WriteReport(&buf, report))
	read, err := gspec.ReadReport(&buf)
	require.NoError(t, err)

	assert.Equal(t, report, read)

	_, err = gspec.ReadReport(strings.NewReader(`[`))
	assert.Error(t, err)
}
