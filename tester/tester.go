// Package tester runs regression cases against a compiled grammar. A case gives an input and
// either the tree the parser must build or the fact that the input must be rejected.
package tester

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/lrkit/lrkit/driver"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

// Tree is an expected parse tree. In YAML, a node is a mapping with `name` and `children`,
// and a plain scalar is a leaf. The name `_` matches any name.
type Tree struct {
	Name     string  `yaml:"name"`
	Children []*Tree `yaml:"children"`
}

func (t *Tree) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		t.Name = n.Value
		return nil
	}
	type plain Tree
	return n.Decode((*plain)(t))
}

const wildcard = "_"

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

// DiffTree compares an expected tree with an exported parse tree. It stops descending at the
// first mismatch of each branch.
func DiffTree(expected *Tree, actual *driver.ExportedNode) []*TreeDiff {
	return diffTree(expected, actual, expected.Name, actual.Name)
}

func diffTree(expected *Tree, actual *driver.ExportedNode, expPath, actPath string) []*TreeDiff {
	if expected.Name != wildcard && expected.Name != actual.Name {
		return []*TreeDiff{
			{
				ExpectedPath: expPath,
				ActualPath:   actPath,
				Message:      fmt.Sprintf("unexpected name: expected '%v' but got '%v'", expected.Name, actual.Name),
			},
		}
	}
	if len(expected.Children) != len(actual.Children) {
		return []*TreeDiff{
			{
				ExpectedPath: expPath,
				ActualPath:   actPath,
				Message:      fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children)),
			},
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		act := actual.Children[i]
		ds := diffTree(exp, act, fmt.Sprintf("%v.[%v]%v", expPath, i, exp.Name), fmt.Sprintf("%v.[%v]%v", actPath, i, act.Name))
		diffs = append(diffs, ds...)
	}
	return diffs
}

type TestCase struct {
	Description string `yaml:"description"`
	Input       string `yaml:"input"`

	// Lex tokenizes Input with the terminal patterns. Otherwise Input is a list of terminal
	// names separated by white space.
	Lex bool `yaml:"lex"`

	Tree   *Tree `yaml:"tree"`
	Reject bool  `yaml:"reject"`
}

// ParseTestCases reads a YAML stream. Each document is one case.
func ParseTestCases(r io.Reader) ([]*TestCase, error) {
	var cases []*TestCase
	dec := yaml.NewDecoder(r)
	for {
		c := &TestCase{}
		err := dec.Decode(c)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perrors.Wrap(err, "invalid test case")
		}
		if c.Tree == nil && !c.Reject {
			return nil, fmt.Errorf("test case %q has neither a tree nor `reject: true`", c.Description)
		}
		if c.Tree != nil && c.Reject {
			return nil, fmt.Errorf("test case %q cannot have a tree and `reject: true` at the same time", c.Description)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

type TestCaseWithMetadata struct {
	TestCase *TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test file or every .yaml/.yml file under a directory. A file that
// cannot be read becomes a single case carrying the error.
func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		cs, err := parseTestFile(testPath)
		if err != nil {
			return []*TestCaseWithMetadata{
				{
					FilePath: testPath,
					Error:    err,
				},
			}
		}
		var cases []*TestCaseWithMetadata
		for _, c := range cs {
			cases = append(cases, &TestCaseWithMetadata{
				TestCase: c,
				FilePath: testPath,
			})
		}
		return cases
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		if !e.IsDir() {
			switch strings.ToLower(filepath.Ext(e.Name())) {
			case ".yaml", ".yml":
			default:
				continue
			}
		}
		cases = append(cases, ListTestCases(filepath.Join(testPath, e.Name()))...)
	}
	return cases
}

func parseTestFile(path string) ([]*TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTestCases(f)
}

type TestResult struct {
	TestCasePath string
	Description  string
	Error        error
	Diffs        []*TreeDiff
}

func (r *TestResult) Passed() bool {
	return r.Error == nil
}

func (r *TestResult) String() string {
	name := r.TestCasePath
	if r.Description != "" {
		name = fmt.Sprintf("%v (%v)", r.TestCasePath, r.Description)
	}
	if r.Error == nil {
		return fmt.Sprintf("Passed %v", name)
	}

	const indent1 = "    "
	const indent2 = indent1 + indent1

	msgLines := strings.Split(r.Error.Error(), "\n")
	msg := fmt.Sprintf("Failed %v:\n%v%v", name, indent1, strings.Join(msgLines, "\n"+indent1))
	if len(r.Diffs) == 0 {
		return msg
	}
	var diffLines []string
	for _, diff := range r.Diffs {
		diffLines = append(diffLines, diff.Message)
		diffLines = append(diffLines, fmt.Sprintf("%vexpected path: %v", indent1, diff.ExpectedPath))
		diffLines = append(diffLines, fmt.Sprintf("%vactual path:   %v", indent1, diff.ActualPath))
	}
	return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
}

type Tester struct {
	Grammar *gspec.CompiledGrammar
	Cases   []*TestCaseWithMetadata

	// Parallelism limits the cases running at once. 0 means no limit.
	Parallelism int
}

// Run runs every case. Results come in the order of Cases.
func (t *Tester) Run() []*TestResult {
	gram := driver.NewGrammar(t.Grammar)
	rs := make([]*TestResult, len(t.Cases))
	var eg errgroup.Group
	if t.Parallelism > 0 {
		eg.SetLimit(t.Parallelism)
	}
	for i, c := range t.Cases {
		i, c := i, c
		eg.Go(func() error {
			rs[i] = runTest(t.Grammar, gram, c)
			return nil
		})
	}
	// runTest reports failures in its result, so Wait never returns an error.
	_ = eg.Wait()
	return rs
}

func runTest(cg *gspec.CompiledGrammar, gram driver.Grammar, c *TestCaseWithMetadata) *TestResult {
	r := &TestResult{
		TestCasePath: c.FilePath,
	}
	if c.Error != nil {
		r.Error = c.Error
		return r
	}
	tc := c.TestCase
	r.Description = tc.Description

	var toks driver.TokenStream
	if tc.Lex {
		var err error
		toks, err = driver.NewTokenStream(cg, strings.NewReader(tc.Input))
		if err != nil {
			r.Error = err
			return r
		}
	} else {
		toks = driver.NewSymbolTokenStream(gram, driver.SplitTokens(tc.Input))
	}
	p, err := driver.NewParser(toks, gram)
	if err != nil {
		r.Error = err
		return r
	}

	err = p.Parse()
	if tc.Reject {
		var pErr *driver.ParseError
		if !errors.As(err, &pErr) {
			if err == nil {
				err = fmt.Errorf("the input was accepted")
			}
			r.Error = perrors.Wrap(err, "expected a syntax error")
		}
		return r
	}
	if err != nil {
		r.Error = err
		return r
	}

	diffs := DiffTree(tc.Tree, p.Tree().Export())
	if len(diffs) > 0 {
		r.Error = fmt.Errorf("output mismatch")
		r.Diffs = diffs
	}
	return r
}
