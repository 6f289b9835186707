package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	gspec "github.com/lrkit/lrkit/spec/grammar"
)

var showFlags = struct {
	closure *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path or report file path>",
		Short:   "Print the ACTION/GOTO table and the item sets",
		Example: `  lrkit show cc.lr --class clr1
  lrkit show cc-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.closure = cmd.Flags().Bool("closure", false, "print closures instead of kernels")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if strings.ToLower(filepath.Ext(args[0])) == ".json" {
		report, err := readReport(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, headingColor.Sprintf("# %v (%v)", report.Name, report.Class))
		fmt.Fprintln(os.Stdout)
		writeStates(os.Stdout, report, *showFlags.closure)
		return nil
	}

	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	cg, report, compErr := compileGrammar(gram, cfg.class())
	if report == nil {
		return compErr
	}

	fmt.Fprintln(os.Stdout, headingColor.Sprintf("# %v (%v)", report.Name, report.Class))
	if cg != nil {
		fmt.Fprintln(os.Stdout)
		writeParsingTable(os.Stdout, cg.Syntactic)
	}
	fmt.Fprintln(os.Stdout)
	writeStates(os.Stdout, report, *showFlags.closure)

	if compErr != nil {
		return fmt.Errorf("%v conflicts", report.ConflictCount())
	}
	return nil
}

// writeParsingTable prints one row per state. Terminal columns come in declaration order
// followed by the end marker, and non-terminal columns follow them.
func writeParsingTable(w io.Writer, synt *gspec.SyntacticSpec) {
	var terms []int
	for term := 0; term < synt.TerminalCount; term++ {
		if term == 0 || term == synt.EOFSymbol {
			continue
		}
		terms = append(terms, term)
	}
	terms = append(terms, synt.EOFSymbol)

	startLHS := synt.LHSSymbols[synt.StartProduction]
	var nonTerms []int
	for nonTerm := 1; nonTerm < synt.NonTerminalCount; nonTerm++ {
		if nonTerm == startLHS {
			continue
		}
		nonTerms = append(nonTerms, nonTerm)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := table.Row{"State"}
	for _, term := range terms {
		header = append(header, synt.Terminals[term])
	}
	for _, nonTerm := range nonTerms {
		header = append(header, synt.NonTerminals[nonTerm])
	}
	t.AppendHeader(header)

	for state := 0; state < synt.StateCount; state++ {
		row := table.Row{state}
		for _, term := range terms {
			act := synt.ActionEntry(state, term)
			switch {
			case act < 0:
				row = append(row, fmt.Sprintf("s%v", act*-1))
			case act == synt.StartProduction:
				row = append(row, "acc")
			case act > 0:
				row = append(row, fmt.Sprintf("r%v", act))
			default:
				row = append(row, "")
			}
		}
		for _, nonTerm := range nonTerms {
			next := synt.GoToEntry(state, nonTerm)
			if next == 0 {
				row = append(row, "")
				continue
			}
			row = append(row, next)
		}
		t.AppendRow(row)
	}
	t.Render()
}

type reportNames struct {
	terms    map[int]string
	nonTerms map[int]string
	prods    map[int]*gspec.Production
}

func newReportNames(report *gspec.Report) *reportNames {
	n := &reportNames{
		terms:    map[int]string{},
		nonTerms: map[int]string{},
		prods:    map[int]*gspec.Production{},
	}
	for _, t := range report.Terminals {
		n.terms[t.Number] = t.Name
	}
	for _, nt := range report.NonTerminals {
		n.nonTerms[nt.Number] = nt.Name
	}
	for _, p := range report.Productions {
		n.prods[p.Number] = p
	}
	return n
}

func (n *reportNames) symbol(sym int) string {
	if sym < 0 {
		return n.nonTerms[sym*-1]
	}
	return n.terms[sym]
}

func (n *reportNames) terminals(syms []int) string {
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i] = n.terms[sym]
	}
	return strings.Join(names, " ")
}

func (n *reportNames) production(num int) string {
	p := n.prods[num]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", n.nonTerms[p.LHS])
	if len(p.RHS) == 0 {
		fmt.Fprintf(&b, " ε")
	}
	for _, sym := range p.RHS {
		fmt.Fprintf(&b, " %v", n.symbol(sym))
	}
	return b.String()
}

func (n *reportNames) item(item *gspec.Item) string {
	p := n.prods[item.Production]
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", n.nonTerms[p.LHS])
	for i, sym := range p.RHS {
		if i == item.Dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", n.symbol(sym))
	}
	if item.Dot == len(p.RHS) {
		fmt.Fprintf(&b, " ・")
	}
	if len(item.LookAhead) > 0 {
		fmt.Fprintf(&b, ", %v", n.terminals(item.LookAhead))
	}
	return b.String()
}

func writeStates(w io.Writer, report *gspec.Report, closure bool) {
	names := newReportNames(report)
	for _, s := range report.States {
		fmt.Fprintln(w, headingColor.Sprintf("## State %v", s.Number))
		fmt.Fprintln(w)

		items := s.Kernel
		if closure {
			items = s.Closure
		}
		for _, item := range items {
			fmt.Fprintf(w, "    %v\n", names.item(item))
		}
		fmt.Fprintln(w)

		for _, tr := range s.Shift {
			fmt.Fprintf(w, "    shift  %4v on %v\n", tr.State, names.terms[tr.Symbol])
		}
		for _, r := range s.Reduce {
			fmt.Fprintf(w, "    reduce %4v on %v (%v)\n", r.Production, names.terminals(r.LookAhead), names.production(r.Production))
		}
		for _, tr := range s.GoTo {
			fmt.Fprintf(w, "    goto   %4v on %v\n", tr.State, names.nonTerms[tr.Symbol])
		}
		if s.Accept {
			fmt.Fprintf(w, "    accept on %v\n", names.terms[eofNumber(report)])
		}
		for _, c := range s.Conflicts {
			fmt.Fprintln(w, warningColor.Sprintf("    %v conflict on %v: %v vs %v", c.Kind, names.terms[c.Symbol], c.Existing, c.Incoming))
		}
		fmt.Fprintln(w)
	}
}

func eofNumber(report *gspec.Report) int {
	for _, t := range report.Terminals {
		if t.Name == "$" {
			return t.Number
		}
	}
	return 1
}
