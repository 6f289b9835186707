package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lrkit/lrkit/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:     "compare <grammar file path>",
		Short:   "Build every class of table and compare their sizes and conflicts",
		Example: `  lrkit compare expr.lr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompare,
	}
	rootCmd.AddCommand(cmd)
}

type comparison struct {
	class     grammar.Class
	states    int
	conflicts int
}

func runCompare(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	results := make([]*comparison, len(grammar.Classes))
	var eg errgroup.Group
	for i, class := range grammar.Classes {
		i, class := i, class
		eg.Go(func() error {
			_, report, err := compileGrammar(gram, class)
			// A report survives conflicts, and conflicts are what this command counts.
			if report == nil {
				return err
			}
			results[i] = &comparison{
				class:     class,
				states:    len(report.States),
				conflicts: report.ConflictCount(),
			}
			return nil
		})
	}
	err = eg.Wait()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Class", "States", "Conflicts", "Result"})
	for _, r := range results {
		result := "ok"
		if r.conflicts > 0 {
			result = warningColor.Sprintf("%v conflicts", r.conflicts)
		}
		t.AppendRow(table.Row{r.class, r.states, r.conflicts, result})
	}
	t.Render()
	fmt.Fprintln(os.Stdout)
	return nil
}
