package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	jsoniter "github.com/json-iterator/go"
	perrors "github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lrkit/lrkit/driver"
)

var parseFlags = struct {
	source *string
	lex    *bool
	trace  *bool
	json   *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse a token sequence",
		Long: `parse reads whitespace-separated terminal names and prints the parse tree.
With --lex, it tokenizes raw text with the terminal patterns of the grammar instead.
The grammar is either a source file or a compiled grammar (.json).`,
		Example: `  echo "c d d" | lrkit parse cc.lr --trace
  echo "a + b * c" | lrkit parse expr.lr --lex --json`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.lex = cmd.Flags().Bool("lex", false, "tokenize raw text with the terminal patterns")
	parseFlags.trace = cmd.Flags().Bool("trace", false, "print every step of the parser (default from the configuration)")
	parseFlags.json = cmd.Flags().Bool("json", false, "print the tree as nested {name, children} objects")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cg, err := readCompiledGrammar(args[0])
	if err != nil {
		return err
	}
	g := driver.NewGrammar(cg)

	var src io.Reader = os.Stdin
	if *parseFlags.source != "" {
		f, err := os.Open(*parseFlags.source)
		if err != nil {
			return perrors.Wrapf(err, "cannot open the source file %v", *parseFlags.source)
		}
		defer f.Close()
		src = f
	}

	var toks driver.TokenStream
	if *parseFlags.lex {
		toks, err = driver.NewTokenStream(cg, src)
		if err != nil {
			return err
		}
	} else {
		b, err := io.ReadAll(src)
		if err != nil {
			return perrors.Wrap(err, "cannot read the source")
		}
		toks = driver.NewSymbolTokenStream(g, driver.SplitTokens(string(b)))
	}

	trace := cfg.Trace
	if cmd.Flags().Changed("trace") {
		trace = *parseFlags.trace
	}
	var opts []driver.ParserOption
	if trace {
		opts = append(opts, driver.RecordSteps())
	}
	p, err := driver.NewParser(toks, g, opts...)
	if err != nil {
		return err
	}

	parseErr := p.Parse()
	if trace {
		printSteps(os.Stdout, p.Steps())
	}
	if parseErr != nil {
		var pErr *driver.ParseError
		if errors.As(parseErr, &pErr) {
			return fmt.Errorf("syntax error: %w", pErr)
		}
		return parseErr
	}

	if *parseFlags.json {
		b, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(p.Tree().Export(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(b))
		return nil
	}
	driver.PrintTree(os.Stdout, p.Tree())
	return nil
}

func printSteps(w io.Writer, steps []*driver.Step) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Step", "Stack", "Input", "Action"})
	for i, s := range steps {
		stack := make([]string, len(s.Stack))
		for j, state := range s.Stack {
			stack[j] = fmt.Sprint(state)
		}
		t.AppendRow(table.Row{i + 1, strings.Join(stack, " "), strings.Join(s.Input, " "), s.Action})
	}
	t.Render()
}
