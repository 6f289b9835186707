package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lrkit/lrkit/tester"
)

var testFlags = struct {
	parallelism *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Run the test cases of a grammar",
		Example: `  lrkit test expr.lr testdata`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.parallelism = cmd.Flags().IntP("parallel", "p", 4, "maximum number of test cases running at once (0: no limit)")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cg, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}

	cs := tester.ListTestCases(args[1])
	errOccurred := false
	for _, c := range cs {
		if c.Error != nil {
			fmt.Fprintf(os.Stderr, "%v\n%v\n", errorColor.Sprintf("cannot read a test case: %v", c.FilePath), c.Error)
			errOccurred = true
		}
	}
	if errOccurred {
		return errors.New("cannot run the tests")
	}

	t := &tester.Tester{
		Grammar:     cg,
		Cases:       cs,
		Parallelism: *testFlags.parallelism,
	}
	failed := 0
	for _, r := range t.Run() {
		if r.Passed() {
			fmt.Fprintln(os.Stdout, r)
			continue
		}
		fmt.Fprintln(os.Stdout, warningColor.Sprint(r))
		failed++
	}
	if failed > 0 {
		return fmt.Errorf("%v of %v tests failed", failed, len(cs))
	}
	return nil
}
