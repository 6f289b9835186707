package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/lrkit/lrkit/compressor"
	"github.com/lrkit/lrkit/grammar"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

var compileFlags = struct {
	output           *string
	report           *string
	compressionLevel *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <grammar file path>",
		Short:   "Compile a grammar into a parsing table",
		Example: `  lrkit compile grammar.lr -o grammar.json --class slr1`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.report = cmd.Flags().StringP("report", "r", "", "report file path (default <grammar-name>-report.json next to the output)")
	compileFlags.compressionLevel = cmd.Flags().Int("compression-level", compressor.LevelMax, "compression level of the ACTION/GOTO tables (0: none, 1: unique rows, 2: row displacement)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	gram, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	cg, report, err := compileGrammar(gram, cfg.class(), grammar.CompressionLevel(*compileFlags.compressionLevel))
	if err != nil {
		if report != nil {
			for _, e := range multierr.Errors(err) {
				fmt.Fprintln(os.Stderr, warningColor.Sprint(e))
			}
			return fmt.Errorf("%v conflicts", report.ConflictCount())
		}
		return err
	}

	err = writeFile(*compileFlags.output, func(w io.Writer) error {
		return gspec.WriteCompiledGrammar(w, cg)
	})
	if err != nil {
		return err
	}

	reportPath := *compileFlags.report
	if reportPath == "" {
		reportPath = defaultReportPath(cg.Name, *compileFlags.output)
	}
	return writeFile(reportPath, func(w io.Writer) error {
		return gspec.WriteReport(w, report)
	})
}

// defaultReportPath puts the report next to the compiled grammar, or in the working directory
// when the grammar goes to stdout.
func defaultReportPath(gramName string, output string) string {
	name := gramName + "-report.json"
	if output == "" {
		return name
	}
	dir, _ := filepath.Split(output)
	return filepath.Join(dir, name)
}
