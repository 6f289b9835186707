package grammar

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mlspec "github.com/nihei9/maleeni/spec"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lrkit/lrkit/compressor"
	verr "github.com/lrkit/lrkit/error"
	"github.com/lrkit/lrkit/grammar/symbol"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

type compileConfig struct {
	class              Class
	isReportingEnabled bool
	compressionLevel   int
	logger             *zap.Logger
}

type CompileOption func(config *compileConfig)

// SpecifyClass selects the table construction algorithm. The default is LALR(1).
func SpecifyClass(class Class) CompileOption {
	return func(config *compileConfig) {
		config.class = class
	}
}

func EnableReporting() CompileOption {
	return func(config *compileConfig) {
		config.isReportingEnabled = true
	}
}

// CompressionLevel compresses the ACTION and GOTO tables. See the compressor package for
// the levels. The default is compressor.LevelNone.
func CompressionLevel(lv int) CompileOption {
	return func(config *compileConfig) {
		config.compressionLevel = lv
	}
}

func Logger(logger *zap.Logger) CompileOption {
	return func(config *compileConfig) {
		config.logger = logger
	}
}

// Compile builds the parsing table of gram and the lexical specification of its
// terminals. When the table has conflicts, Compile returns no grammar and an error
// combining every *ConflictError; the report, if enabled, is returned anyway.
func Compile(gram *Grammar, opts ...CompileOption) (*gspec.CompiledGrammar, *gspec.Report, error) {
	config := &compileConfig{
		class:  ClassLALR1,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(config)
	}
	logger := config.logger.With(
		zap.String("grammar", gram.name),
		zap.String("class", config.class.String()))

	lexical, err := genLexicalSpec(gram)
	if err != nil {
		return nil, nil, err
	}

	b, tab, err := buildParsingTable(gram, config.class, logger)
	if err != nil {
		return nil, nil, err
	}

	var report *gspec.Report
	if config.isReportingEnabled {
		report, err = b.genReport(tab, gram)
		if err != nil {
			return nil, nil, err
		}
	}

	if len(b.conflicts) > 0 {
		errs := make([]error, len(b.conflicts))
		for i, c := range b.conflicts {
			errs[i] = c
		}
		logger.Warn("the grammar has conflicts", zap.Int("conflicts", len(b.conflicts)))
		return nil, report, multierr.Combine(errs...)
	}

	terms, err := gram.symbolTable.TerminalTexts()
	if err != nil {
		return nil, nil, err
	}
	nonTerms, err := gram.symbolTable.NonTerminalTexts()
	if err != nil {
		return nil, nil, err
	}

	action := make([]int, len(tab.actionTable))
	for i, e := range tab.actionTable {
		action[i] = int(e)
	}
	goTo := make([]int, len(tab.goToTable))
	for i, e := range tab.goToTable {
		goTo[i] = int(e)
	}

	prodCount := gram.productionSet.count()
	lhsSyms := make([]int, prodCount)
	altSymCounts := make([]int, prodCount)
	prodTexts := make([]string, prodCount)
	for _, p := range gram.productionSet.getAllProductions() {
		lhsSyms[p.num] = p.lhs.Num().Int()
		altSymCounts[p.num] = p.rhsLen
		prodTexts[p.num] = formatProduction(gram.symbolTable, p)
	}

	synt := &gspec.SyntacticSpec{
		Class:                   config.class.String(),
		CompressionLevel:        config.compressionLevel,
		Action:                  action,
		GoTo:                    goTo,
		StateCount:              tab.stateCount,
		InitialState:            tab.InitialState.Int(),
		StartProduction:         productionNumStart.Int(),
		LHSSymbols:              lhsSyms,
		AlternativeSymbolCounts: altSymCounts,
		Productions:             prodTexts,
		Terminals:               terms,
		TerminalCount:           tab.terminalCount,
		NonTerminals:            nonTerms,
		NonTerminalCount:        tab.nonTerminalCount,
		EOFSymbol:               symbol.SymbolEOF.Num().Int(),
	}
	if config.compressionLevel != compressor.LevelNone {
		err := compressTables(synt, config.compressionLevel)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("tables compressed",
			zap.Int("level", config.compressionLevel),
			zap.Int("action_entries", len(synt.CompressedAction.Entries)),
			zap.Int("goto_entries", len(synt.CompressedGoTo.Entries)))
	}

	logger.Info("parsing table generated",
		zap.Int("states", tab.stateCount),
		zap.Int("terminals", len(terms)-1),
		zap.Int("non_terminals", len(nonTerms)-1),
		zap.Int("productions", prodCount-1))

	return &gspec.CompiledGrammar{
		Name:      gram.name,
		Lexical:   lexical,
		Syntactic: synt,
	}, report, nil
}

// compressTables replaces the flat tables of synt with compressed ones. Both tables are
// mostly zero, which is the error entry of ACTION and the missing entry of GOTO.
func compressTables(synt *gspec.SyntacticSpec, lv int) error {
	action, err := compressor.Compress(synt.Action, synt.TerminalCount, lv, 0)
	if err != nil {
		return errors.Wrap(err, "failed to compress the ACTION table")
	}
	goTo, err := compressor.Compress(synt.GoTo, synt.NonTerminalCount, lv, 0)
	if err != nil {
		return errors.Wrap(err, "failed to compress the GOTO table")
	}
	synt.CompressedAction = action
	synt.CompressedGoTo = goTo
	synt.Action = nil
	synt.GoTo = nil
	return nil
}

// buildParsingTable runs the automaton construction selected by class and fills a table.
// Conflicts are left in the returned builder.
func buildParsingTable(gram *Grammar, class Class, logger *zap.Logger) (*lrTableBuilder, *ParsingTable, error) {
	alphabet := gram.symbolTable.Alphabet()

	var automaton *lrAutomaton
	var err error
	switch class {
	case ClassLR0, ClassSLR1:
		automaton, err = genLR0Automaton(gram.productionSet, gram.augmentedStartSymbol, alphabet, logger)
	case ClassCLR1:
		automaton, err = genLR1Automaton(gram.productionSet, gram.first, gram.augmentedStartSymbol, alphabet, logger)
	case ClassLALR1:
		var lr1 *lrAutomaton
		lr1, err = genLR1Automaton(gram.productionSet, gram.first, gram.augmentedStartSymbol, alphabet, logger)
		if err == nil {
			automaton, err = genLALR1Automaton(lr1, logger)
		}
	default:
		return nil, nil, fmt.Errorf("unknown class: %v", class)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to generate an automaton; class: %v", class)
	}

	b := &lrTableBuilder{
		class:        class,
		automaton:    automaton,
		prods:        gram.productionSet,
		follow:       gram.follow,
		termCount:    gram.symbolTable.TerminalCount(),
		nonTermCount: gram.symbolTable.NonTerminalCount(),
		symTab:       gram.symbolTable,
		logger:       logger,
	}
	tab, err := b.build()
	if err != nil {
		return nil, nil, err
	}
	return b, tab, nil
}

const skipKindName = mlspec.LexKindName("white_space")

func terminalKindName(sym symbol.Symbol) mlspec.LexKindName {
	return mlspec.LexKindName(fmt.Sprintf("t_%v", sym.Num()))
}

// maleeni accepts only snake_case names for a lexical specification.
var lexSpecNameRE = regexp.MustCompile(`^[a-z](_?[0-9a-z]+)*$`)

const defaultLexSpecName = "grammar"

// lexSpecName returns the grammar name when maleeni accepts it as a specification name.
func lexSpecName(name string) string {
	if lexSpecNameRE.MatchString(name) {
		return name
	}
	return defaultLexSpecName
}

// genLexicalSpec compiles a maleeni lexer recognizing every terminal. Terminals without a
// pattern match their own name literally and are listed first, so they win over patterns
// matching the same text. White space between tokens is skipped.
func genLexicalSpec(gram *Grammar) (*gspec.LexicalSpec, error) {
	var literalEntries []*mlspec.LexEntry
	var patternEntries []*mlspec.LexEntry
	kind2Sym := map[mlspec.LexKindName]symbol.Symbol{}
	for _, sym := range gram.symbolTable.TerminalSymbols() {
		if sym.IsEOF() {
			continue
		}
		kind := terminalKindName(sym)
		kind2Sym[kind] = sym
		if pat, ok := gram.patterns[sym]; ok {
			patternEntries = append(patternEntries, &mlspec.LexEntry{
				Kind:    kind,
				Pattern: mlspec.LexPattern(pat),
			})
			continue
		}
		text, _ := gram.symbolTable.ToText(sym)
		literalEntries = append(literalEntries, &mlspec.LexEntry{
			Kind:    kind,
			Pattern: mlspec.LexPattern(mlspec.EscapePattern(text)),
		})
	}
	entries := append(literalEntries, patternEntries...)
	entries = append(entries, &mlspec.LexEntry{
		Kind:    skipKindName,
		Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`,
	})

	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    lexSpecName(gram.name),
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) == 0 {
			return nil, errors.Wrap(err, "failed to compile a lexical specification")
		}
		var errs verr.SpecErrors
		for _, cErr := range cErrs {
			var b strings.Builder
			if sym, ok := kind2Sym[cErr.Kind]; ok {
				text, _ := gram.symbolTable.ToText(sym)
				fmt.Fprintf(&b, "%v: ", text)
			}
			writeCompileError(&b, cErr)
			errs = append(errs, &verr.SpecError{
				Cause:  semErrInvalidPattern,
				Detail: b.String(),
			})
		}
		return nil, errs
	}

	termCount := gram.symbolTable.TerminalCount()
	kind2Term := make([]int, len(clspec.KindNames))
	term2Kind := make([]int, termCount)
	skip := make([]int, len(clspec.KindNames))
	for i, k := range clspec.KindNames {
		if k == mlspec.LexKindNameNil {
			continue
		}
		if k == skipKindName {
			skip[i] = 1
			continue
		}
		sym, ok := kind2Sym[k]
		if !ok {
			return nil, fmt.Errorf("a lexical kind has no terminal: %v", k)
		}
		kind2Term[i] = sym.Num().Int()
		term2Kind[sym.Num()] = i
	}

	return &gspec.LexicalSpec{
		Maleeni:        clspec,
		KindToTerminal: kind2Term,
		TerminalToKind: term2Kind,
		Skip:           skip,
	}, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
