package grammar

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/lrkit/lrkit/compressor"
	verr "github.com/lrkit/lrkit/error"
	"github.com/lrkit/lrkit/spec"
)

func TestCompile(t *testing.T) {
	gram := buildTestGrammar(t, srcExpr)

	cg, report, err := Compile(gram, SpecifyClass(ClassSLR1), EnableReporting())
	require.NoError(t, err)
	require.NotNil(t, cg)
	require.NotNil(t, report)

	assert.Equal(t, "expr", cg.Name)

	synt := cg.Syntactic
	assert.Equal(t, "slr1", synt.Class)
	assert.Equal(t, []string{"", "$", "+", "*", "(", ")", "id"}, synt.Terminals)
	assert.Equal(t, []string{"", "E'", "E", "T", "F"}, synt.NonTerminals)
	assert.Equal(t, len(synt.Terminals), synt.TerminalCount)
	assert.Equal(t, len(synt.NonTerminals), synt.NonTerminalCount)
	assert.Equal(t, synt.StateCount*synt.TerminalCount, len(synt.Action))
	assert.Equal(t, synt.StateCount*synt.NonTerminalCount, len(synt.GoTo))
	assert.Equal(t, 1, synt.StartProduction)
	assert.Equal(t, 1, synt.EOFSymbol)
	assert.Equal(t, "E' → E", synt.Productions[synt.StartProduction])
	assert.Equal(t, 3, synt.AlternativeSymbolCounts[2])

	lex := cg.Lexical
	require.NotNil(t, lex.Maleeni)
	for term := 2; term < synt.TerminalCount; term++ {
		kind := lex.TerminalToKind[term]
		assert.NotZero(t, kind, "terminal %v has no kind", synt.Terminals[term])
		assert.Equal(t, term, lex.KindToTerminal[kind])
		assert.Zero(t, lex.Skip[kind])
	}

	assert.Equal(t, "slr1", report.Class)
	assert.Equal(t, synt.StateCount, len(report.States))
	assert.Zero(t, report.ConflictCount())
	assert.True(t, report.States[0].Shift != nil)

	for _, state := range report.States {
		goTo := map[int]int{}
		for _, tr := range state.GoTo {
			goTo[tr.Symbol] = tr.State
		}
		for nonTerm := 0; nonTerm < synt.NonTerminalCount; nonTerm++ {
			next, ok := goTo[nonTerm]
			if !ok {
				assert.Zero(t, synt.GoToEntry(state.Number, nonTerm), "state %v, %v", state.Number, synt.NonTerminals[nonTerm])
				continue
			}
			assert.Equal(t, next, synt.GoToEntry(state.Number, nonTerm), "state %v, %v", state.Number, synt.NonTerminals[nonTerm])
		}
	}
	assert.NotEmpty(t, report.States[0].GoTo)
}

func TestCompile_DefaultsToLALR1(t *testing.T) {
	gram := buildTestGrammar(t, srcCC)
	cg, report, err := Compile(gram)
	require.NoError(t, err)
	assert.Equal(t, "lalr1", cg.Syntactic.Class)
	assert.Equal(t, 7, cg.Syntactic.StateCount)
	assert.Nil(t, report)
}

func TestCompile_Conflicts(t *testing.T) {
	gram := buildTestGrammar(t, srcLR1NotLALR1)

	core, logs := observer.New(zap.WarnLevel)
	cg, report, err := Compile(gram, SpecifyClass(ClassLALR1), EnableReporting(), Logger(zap.New(core)))
	require.Error(t, err)
	assert.Nil(t, cg)
	require.NotNil(t, report)

	errs := multierr.Errors(err)
	assert.Len(t, errs, report.ConflictCount())
	for _, e := range errs {
		var cErr *ConflictError
		require.True(t, errors.As(e, &cErr))
		assert.Equal(t, ConflictKindReduceReduce, cErr.Kind)
		assert.Contains(t, []string{"d", "e"}, cErr.Terminal)
	}
	assert.NotZero(t, logs.FilterMessage("conflict").Len())

	// The same grammar has no conflicts as canonical LR(1).
	cg, _, err = Compile(gram, SpecifyClass(ClassCLR1))
	require.NoError(t, err)
	assert.NotNil(t, cg)
}

func TestCompile_InvalidPattern(t *testing.T) {
	gram := buildTestGrammar(t, `
S : id ;
id : "[a-z" ;
`)
	_, _, err := Compile(gram)
	require.Error(t, err)

	var specErrs verr.SpecErrors
	require.True(t, errors.As(err, &specErrs))
	var gErr *GrammarError
	require.True(t, errors.As(specErrs[0], &gErr))
	assert.Equal(t, semErrInvalidPattern, gErr)
}

func TestCompile_SharesGrammarAcrossClasses(t *testing.T) {
	gram := buildTestGrammar(t, srcCC)

	stateCounts := make([]int, len(Classes))
	var eg errgroup.Group
	for i, class := range Classes {
		i, class := i, class
		eg.Go(func() error {
			cg, _, err := Compile(gram, SpecifyClass(class))
			if err != nil {
				return err
			}
			stateCounts[i] = cg.Syntactic.StateCount
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	assert.Equal(t, []int{7, 7, 10, 7}, stateCounts)
}

func TestCompile_CompressionLevel(t *testing.T) {
	gram := buildTestGrammar(t, srcExpr)
	plain, _, err := Compile(gram, SpecifyClass(ClassLALR1))
	require.NoError(t, err)
	assert.Nil(t, plain.Syntactic.CompressedAction)

	for lv := compressor.LevelUniqueRows; lv <= compressor.LevelMax; lv++ {
		cg, _, err := Compile(gram, SpecifyClass(ClassLALR1), CompressionLevel(lv))
		require.NoError(t, err)

		synt := cg.Syntactic
		assert.Equal(t, lv, synt.CompressionLevel)
		assert.Nil(t, synt.Action)
		assert.Nil(t, synt.GoTo)
		require.NotNil(t, synt.CompressedAction)
		require.NotNil(t, synt.CompressedGoTo)
		assert.Less(t, len(synt.CompressedAction.Entries), len(plain.Syntactic.Action))

		for state := 0; state < synt.StateCount; state++ {
			for term := 0; term < synt.TerminalCount; term++ {
				assert.Equal(t, plain.Syntactic.ActionEntry(state, term), synt.ActionEntry(state, term))
			}
			for nonTerm := 0; nonTerm < synt.NonTerminalCount; nonTerm++ {
				assert.Equal(t, plain.Syntactic.GoToEntry(state, nonTerm), synt.GoToEntry(state, nonTerm))
			}
		}
	}

	_, _, err = Compile(gram, CompressionLevel(compressor.LevelMax+1))
	assert.Error(t, err)
}

func TestCompile_LexicalSpecName(t *testing.T) {
	tests := []struct {
		grammarName string
		lexSpecName string
	}{
		{
			grammarName: "cc",
			lexSpecName: "cc",
		},
		{
			grammarName: "my_grammar2",
			lexSpecName: "my_grammar2",
		},
		{
			grammarName: "my-grammar",
			lexSpecName: "grammar",
		},
		{
			grammarName: "CC",
			lexSpecName: "grammar",
		},
	}
	for _, tt := range tests {
		t.Run(tt.grammarName, func(t *testing.T) {
			ast, err := spec.ParseYAML(strings.NewReader(`
name: ` + tt.grammarName + `
rules:
  S: [C C]
  C: [c C, d]
`))
			require.NoError(t, err)
			b := GrammarBuilder{
				AST: ast,
			}
			gram, err := b.Build()
			require.NoError(t, err)

			cg, _, err := Compile(gram)
			require.NoError(t, err)
			assert.Equal(t, tt.grammarName, cg.Name)
			require.NotNil(t, cg.Lexical.Maleeni)
			assert.Equal(t, tt.lexSpecName, cg.Lexical.Maleeni.Name)
		})
	}
}
