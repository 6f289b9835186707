package tester

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrkit/lrkit/grammar"
	"github.com/lrkit/lrkit/spec"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

const grammarSrc = `
%name expr

E : E '+' T | T ;
T : T '*' F | F ;
F : '(' E ')' | id ;
id : "[a-z]+" ;
`

func compileTestGrammar(t *testing.T) *gspec.CompiledGrammar {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(grammarSrc))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	require.NoError(t, err)
	cg, _, err := grammar.Compile(gram)
	require.NoError(t, err)
	return cg
}

func TestTester_Run(t *testing.T) {
	tests := []struct {
		caption string
		testSrc string
		passed  []bool
	}{
		{
			caption: "a tree matches",
			testSrc: `
description: a sum
input: id + id
tree:
  name: E'
  children:
    - name: E
      children:
        - {name: E, children: [{name: T, children: [{name: F, children: [id]}]}]}
        - +
        - {name: T, children: [{name: F, children: [id]}]}
`,
			passed: []bool{true},
		},
		{
			caption: "raw text is tokenized with the patterns",
			testSrc: `
input: (a)
lex: true
tree:
  name: E'
  children:
    - name: E
      children:
        - name: T
          children:
            - name: F
              children: ["(", {name: _, children: [{name: T, children: [{name: F, children: [a]}]}]}, ")"]
`,
			passed: []bool{true},
		},
		{
			caption: "a tree mismatches",
			testSrc: `
input: id * id
tree:
  name: E'
  children:
    - name: E
      children: [{name: T, children: [{name: F, children: [id]}]}]
`,
			passed: []bool{false},
		},
		{
			caption: "documents in one file are separate cases",
			testSrc: `
input: id +
reject: true
---
input: id
reject: true
---
input: id id
reject: true
`,
			passed: []bool{true, false, true},
		},
	}
	cg := compileTestGrammar(t)
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "test.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.testSrc), 0600))

			cases := ListTestCases(dir)
			require.Len(t, cases, len(tt.passed))
			for _, c := range cases {
				require.NoError(t, c.Error)
			}

			tester := &Tester{
				Grammar:     cg,
				Cases:       cases,
				Parallelism: 2,
			}
			rs := tester.Run()
			require.Len(t, rs, len(tt.passed))
			for i, r := range rs {
				assert.Equal(t, tt.passed[i], r.Passed(), r.String())
			}
		})
	}
}

func TestTester_Run_ReportsDiffPaths(t *testing.T) {
	cases, err := ParseTestCases(strings.NewReader(`
input: id * id
tree:
  name: E'
  children:
    - name: E
      children:
        - name: T
          children:
            - {name: T, children: [{name: F, children: [id]}]}
            - +
            - {name: F, children: [id]}
`))
	require.NoError(t, err)

	tester := &Tester{
		Grammar: compileTestGrammar(t),
		Cases: []*TestCaseWithMetadata{
			{
				TestCase: cases[0],
				FilePath: "mul.yaml",
			},
		},
	}
	rs := tester.Run()
	require.Len(t, rs, 1)
	require.Len(t, rs[0].Diffs, 1)
	diff := rs[0].Diffs[0]
	assert.Equal(t, "E'.[0]E.[0]T.[1]+", diff.ExpectedPath)
	assert.Equal(t, "E'.[0]E.[0]T.[1]*", diff.ActualPath)
	assert.Contains(t, rs[0].String(), "Failed mul.yaml")
}

func TestParseTestCases_Invalid(t *testing.T) {
	srcs := []string{
		`input: id`,
		`
input: id
reject: true
tree: E
`,
		`input: [`,
	}
	for _, src := range srcs {
		_, err := ParseTestCases(strings.NewReader(src))
		assert.Error(t, err)
	}
}

func TestListTestCases_UnreadableFile(t *testing.T) {
	cases := ListTestCases(filepath.Join(t.TempDir(), "none.yaml"))
	require.Len(t, cases, 1)
	assert.Error(t, cases[0].Error)

	tester := &Tester{
		Grammar: compileTestGrammar(t),
		Cases:   cases,
	}
	rs := tester.Run()
	assert.False(t, rs[0].Passed())
}
