package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/pkg/errors"

	verr "github.com/lrkit/lrkit/error"
	"github.com/lrkit/lrkit/grammar"
	"github.com/lrkit/lrkit/spec"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

// readGrammar reads a grammar source. Files ending in .yaml or .yml are read as a mapping,
// and anything else as the grammar DSL.
func readGrammar(path string) (gram *grammar.Grammar, retErr error) {
	defer func() {
		if retErr != nil {
			attachFilePath(retErr, path)
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrapf(err, "cannot open the grammar file %v", path)
	}
	defer f.Close()

	var ast *spec.RootNode
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		ast, err = spec.ParseYAML(f)
	default:
		ast, err = spec.Parse(f)
	}
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

// attachFilePath lets positional errors quote the offending line of the source file.
func attachFilePath(err error, path string) {
	var specErrs verr.SpecErrors
	if errors.As(err, &specErrs) {
		for _, e := range specErrs {
			e.FilePath = path
			e.SourceName = path
		}
		return
	}
	var specErr *verr.SpecError
	if errors.As(err, &specErr) {
		specErr.FilePath = path
		specErr.SourceName = path
	}
}

func compileGrammar(gram *grammar.Grammar, class grammar.Class, opts ...grammar.CompileOption) (*gspec.CompiledGrammar, *gspec.Report, error) {
	opts = append([]grammar.CompileOption{
		grammar.SpecifyClass(class),
		grammar.EnableReporting(),
		grammar.Logger(logger),
	}, opts...)
	return grammar.Compile(gram, opts...)
}

// readCompiledGrammar accepts either a compiled grammar (.json) or a grammar source, which it
// compiles with the configured class.
func readCompiledGrammar(path string) (*gspec.CompiledGrammar, error) {
	if strings.ToLower(filepath.Ext(path)) != ".json" {
		gram, err := readGrammar(path)
		if err != nil {
			return nil, err
		}
		cg, _, err := compileGrammar(gram, cfg.class())
		return cg, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrapf(err, "cannot open the compiled grammar %v", path)
	}
	defer f.Close()
	return gspec.ReadCompiledGrammar(f)
}

// readReport reads a report saved by the compile command.
func readReport(path string) (*gspec.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perrors.Wrapf(err, "cannot open the report %v", path)
	}
	defer f.Close()
	return gspec.ReadReport(f)
}

func writeFile(path string, write func(w io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return perrors.Wrapf(err, "cannot open the output file %v", path)
	}
	defer f.Close()
	return write(f)
}
