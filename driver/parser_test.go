package driver

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/lrkit/lrkit/compressor"
	"github.com/lrkit/lrkit/grammar"
)

// An empty production in the first state conflicts with the shift of `a` under LR(0).
var nullableClasses = []grammar.Class{
	grammar.ClassSLR1,
	grammar.ClassCLR1,
	grammar.ClassLALR1,
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		caption string
		specSrc string
		src     string
		classes []grammar.Class
		tree    *ExportedNode
	}{
		{
			caption: "the parser builds a tree whose root has the augmented start symbol",
			specSrc: srcCC,
			src:     "c d d",
			tree: nt("S'",
				nt("S",
					nt("C",
						tn("c"),
						nt("C",
							tn("d"),
						),
					),
					nt("C",
						tn("d"),
					),
				),
			),
		},
		{
			caption: "a reduction by an empty production makes a node with no children",
			specSrc: srcNullable,
			src:     "c",
			classes: nullableClasses,
			tree: nt("S'",
				nt("S",
					nt("A"),
					nt("B"),
					tn("c"),
				),
			),
		},
		{
			caption: "the parser can reduce an empty production between terminals",
			specSrc: srcNullable,
			src:     "a c",
			classes: nullableClasses,
			tree: nt("S'",
				nt("S",
					nt("A",
						tn("a"),
					),
					nt("B"),
					tn("c"),
				),
			),
		},
	}
	for _, tt := range tests {
		classes := tt.classes
		if classes == nil {
			classes = grammar.Classes
		}
		for _, class := range classes {
			t.Run(fmt.Sprintf("%v (%v)", tt.caption, class), func(t *testing.T) {
				cg := compileTestGrammar(t, tt.specSrc, class)
				p := newTestParser(t, NewGrammar(cg), tt.src)
				err := p.Parse()
				require.NoError(t, err)
				require.NotNil(t, p.Tree())
				assert.Equal(t, tt.tree, p.Tree().Export())
			})
		}
	}
}

func TestParser_Parse_LeavesReproduceInput(t *testing.T) {
	srcs := []string{
		"d d",
		"c d d",
		"c c c d c d",
		"d c c c c d",
	}
	g := NewGrammar(compileTestGrammar(t, srcCC, grammar.ClassLALR1))
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			p := newTestParser(t, g, src)
			require.NoError(t, p.Parse())

			tree := p.Tree()
			var texts []string
			for _, leaf := range tree.Leaves() {
				assert.True(t, tree.IsTerminal(leaf))
				assert.Equal(t, tree.Kind(leaf), tree.Text(leaf))
				texts = append(texts, tree.Text(leaf))
			}
			assert.Equal(t, strings.Fields(src), texts)
		})
	}
}

func TestParser_Parse_SyntaxError(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		terminal string
		text     string
		col      int
		expected []string
	}{
		{
			caption:  "the input ends before the second C is complete",
			src:      "d c",
			terminal: "$",
			col:      3,
			expected: []string{"c", "d"},
		},
		{
			caption:  "a terminal follows a complete sentence",
			src:      "d d c",
			terminal: "c",
			text:     "c",
			col:      3,
			expected: []string{"$"},
		},
		{
			caption:  "an unknown name is an invalid token",
			src:      "c x d",
			terminal: "",
			text:     "x",
			col:      2,
			expected: []string{"c", "d"},
		},
		{
			caption:  "the end marker cannot appear in the input",
			src:      "c $",
			terminal: "",
			text:     "$",
			col:      2,
			expected: []string{"c", "d"},
		},
	}
	for _, tt := range tests {
		for _, class := range grammar.Classes {
			t.Run(fmt.Sprintf("%v (%v)", tt.caption, class), func(t *testing.T) {
				g := NewGrammar(compileTestGrammar(t, srcCC, class))
				p := newTestParser(t, g, tt.src)
				err := p.Parse()
				require.Error(t, err)

				var pErr *ParseError
				require.True(t, errors.As(err, &pErr))
				assert.Equal(t, tt.terminal, pErr.Terminal)
				assert.Equal(t, tt.text, pErr.Text)
				assert.Equal(t, 1, pErr.Row)
				assert.Equal(t, tt.col, pErr.Col)
				assert.Equal(t, tt.expected, pErr.ExpectedTerminals)
				assert.NotZero(t, pErr.State)
				assert.Nil(t, p.Tree())

				// The table is intact, so the same grammar still accepts a valid input.
				p = newTestParser(t, g, "c d d")
				require.NoError(t, p.Parse())
				assert.NotNil(t, p.Tree())
			})
		}
	}
}

func TestParser_Parse_ErrorStateIsSameAcrossRuns(t *testing.T) {
	g := NewGrammar(compileTestGrammar(t, srcCC, grammar.ClassLALR1))

	var states []int
	for i := 0; i < 3; i++ {
		err := newTestParser(t, g, "d d c").Parse()
		var pErr *ParseError
		require.True(t, errors.As(err, &pErr))
		states = append(states, pErr.State)
	}
	assert.Equal(t, states[0], states[1])
	assert.Equal(t, states[0], states[2])
}

func TestParser_Parse_RawText(t *testing.T) {
	cg := compileTestGrammar(t, srcExpr, grammar.ClassLALR1)
	g := NewGrammar(cg)

	toks, err := NewTokenStream(cg, strings.NewReader("a + b * (c)"))
	require.NoError(t, err)
	p, err := NewParser(toks, g)
	require.NoError(t, err)
	require.NoError(t, p.Parse())

	tree := p.Tree()
	var texts []string
	for _, leaf := range tree.Leaves() {
		texts = append(texts, tree.Text(leaf))
	}
	assert.Equal(t, []string{"a", "+", "b", "*", "(", "c", ")"}, texts)

	leaves := tree.Leaves()
	assert.Equal(t, "id", tree.Kind(leaves[2]))
	row, col := tree.Position(leaves[2])
	assert.Equal(t, 0, row)
	assert.Equal(t, 4, col)

	toks, err = NewTokenStream(cg, strings.NewReader("a # b"))
	require.NoError(t, err)
	p, err = NewParser(toks, g)
	require.NoError(t, err)
	err = p.Parse()
	var pErr *ParseError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "", pErr.Terminal)
	assert.Equal(t, "#", pErr.Text)
	assert.Equal(t, 3, pErr.Col)
}

func TestParser_Steps(t *testing.T) {
	g := NewGrammar(compileTestGrammar(t, srcCC, grammar.ClassLALR1))
	p := newTestParser(t, g, "c d d", RecordSteps())
	require.NoError(t, p.Parse())

	steps := p.Steps()
	var actions []string
	for _, s := range steps {
		actions = append(actions, strings.SplitN(s.Action, " ", 2)[0])
	}
	assert.Equal(t, []string{
		"shift",
		"shift",
		"reduce",
		"reduce",
		"shift",
		"reduce",
		"reduce",
		"accept",
	}, actions)

	assert.Equal(t, []int{g.InitialState()}, steps[0].Stack)
	assert.Equal(t, []string{"c", "d", "d", "$"}, steps[0].Input)
	assert.Equal(t, "reduce 4 (C → d)", steps[2].Action)
	assert.Equal(t, "reduce 3 (C → c C)", steps[3].Action)
	assert.Equal(t, []string{"$"}, steps[len(steps)-1].Input)
	assert.Len(t, steps[len(steps)-1].Stack, 2)

	// The trace lists terminal names, not the matched text.
	cg := compileTestGrammar(t, srcExpr, grammar.ClassLALR1)
	toks, err := NewTokenStream(cg, strings.NewReader("a + b"))
	require.NoError(t, err)
	p, err = NewParser(toks, NewGrammar(cg), RecordSteps())
	require.NoError(t, err)
	require.NoError(t, p.Parse())
	assert.Equal(t, []string{"id", "+", "id", "$"}, p.Steps()[0].Input)

	// A parser records nothing unless asked to.
	p = newTestParser(t, g, "c d d")
	require.NoError(t, p.Parse())
	assert.Empty(t, p.Steps())

	p = newTestParser(t, g, "d c", RecordSteps())
	require.Error(t, p.Parse())
	steps = p.Steps()
	assert.Equal(t, "error", steps[len(steps)-1].Action)
}

type testSemAct struct {
	gram   Grammar
	actLog []string
}

func (a *testSemAct) Shift(tok VToken) {
	a.actLog = append(a.actLog, fmt.Sprintf("shift/%v", a.gram.Terminal(tok.TerminalID())))
}

func (a *testSemAct) Reduce(prodNum int) {
	a.actLog = append(a.actLog, fmt.Sprintf("reduce/%v", a.gram.NonTerminal(a.gram.LHS(prodNum))))
}

func (a *testSemAct) Accept() {
	a.actLog = append(a.actLog, "accept")
}

func TestParser_SemanticAction(t *testing.T) {
	g := NewGrammar(compileTestGrammar(t, srcNullable, grammar.ClassCLR1))
	semAct := &testSemAct{
		gram: g,
	}
	p := newTestParser(t, g, "b c", SemanticAction(semAct))
	require.NoError(t, p.Parse())
	assert.Nil(t, p.Tree())
	assert.Equal(t, []string{
		"reduce/A",
		"shift/b",
		"reduce/B",
		"shift/c",
		"reduce/S",
		"accept",
	}, semAct.actLog)
}

func TestParser_Parse_Concurrently(t *testing.T) {
	g := NewGrammar(compileTestGrammar(t, srcCC, grammar.ClassLALR1))
	srcs := []string{"d d", "c d d", "c c d c d", "d c", "c c c c d d"}

	results := make([]error, 64)
	var eg errgroup.Group
	for i := range results {
		i := i
		eg.Go(func() error {
			p, err := NewParser(NewSymbolTokenStream(g, SplitTokens(srcs[i%len(srcs)])), g)
			if err != nil {
				return err
			}
			results[i] = p.Parse()
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	for i, err := range results {
		if srcs[i%len(srcs)] == "d c" {
			var pErr *ParseError
			assert.True(t, errors.As(err, &pErr))
			continue
		}
		assert.NoError(t, err)
	}
}

type brokenGrammar struct {
	Grammar
}

func (g *brokenGrammar) GoTo(state int, lhs int) int {
	return 0
}

func TestParser_Parse_MissingGoTo(t *testing.T) {
	g := &brokenGrammar{
		Grammar: NewGrammar(compileTestGrammar(t, srcCC, grammar.ClassLALR1)),
	}
	p := newTestParser(t, g, "d d")
	err := p.Parse()
	require.Error(t, err)

	var tErr *InternalTableError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, "C", tErr.NonTerminal)
	assert.Equal(t, "C → d", tErr.Production)

	var pErr *ParseError
	assert.False(t, errors.As(err, &pErr))
}

func TestParser_Parse_CompressedTables(t *testing.T) {
	for lv := compressor.LevelNone; lv <= compressor.LevelMax; lv++ {
		t.Run(fmt.Sprintf("level %v", lv), func(t *testing.T) {
			cg := compileTestGrammar(t, srcExpr, grammar.ClassLALR1, grammar.CompressionLevel(lv))
			g := NewGrammar(cg)

			toks, err := NewTokenStream(cg, strings.NewReader("(a + b) * c"))
			require.NoError(t, err)
			p, err := NewParser(toks, g)
			require.NoError(t, err)
			require.NoError(t, p.Parse())
			assert.Len(t, p.Tree().Leaves(), 7)

			p = newTestParser(t, g, "id + + id")
			err = p.Parse()
			var pErr *ParseError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, "+", pErr.Terminal)
			assert.Equal(t, []string{"(", "id"}, pErr.ExpectedTerminals)
		})
	}
}
