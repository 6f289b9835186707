package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lrkit/lrkit/grammar"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar file path>",
		Short:   "Print the productions and the FIRST/FOLLOW sets of a grammar",
		Example: `  lrkit describe expr.lr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	return writeDescription(os.Stdout, gram)
}

func writeDescription(w io.Writer, gram *grammar.Grammar) error {
	fmt.Fprintln(w, headingColor.Sprintf("# %v", gram.Name()))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "start: %v (augmented: %v)\n", gram.StartSymbol(), gram.AugmentedStartSymbol())
	fmt.Fprintf(w, "terminals: %v\n", strings.Join(gram.Terminals(), " "))
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingColor.Sprint("## Productions"))
	fmt.Fprintln(w)
	for i, p := range gram.Productions() {
		fmt.Fprintf(w, "%4v %v\n", i+1, p)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, headingColor.Sprint("## FIRST/FOLLOW"))
	fmt.Fprintln(w)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Non-terminal", "FIRST", "FOLLOW"})
	for _, nonTerm := range gram.NonTerminals() {
		first, err := gram.First(nonTerm)
		if err != nil {
			return err
		}
		follow, err := gram.Follow(nonTerm)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{nonTerm, strings.Join(first, " "), strings.Join(follow, " ")})
	}
	t.Render()
	return nil
}
