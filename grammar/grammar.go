package grammar

import (
	"fmt"
	"strings"

	verr "github.com/lrkit/lrkit/error"
	"github.com/lrkit/lrkit/grammar/symbol"
	"github.com/lrkit/lrkit/spec"
)

// Grammar is an augmented context-free grammar. It is immutable once built and may be
// shared by any number of table builds.
type Grammar struct {
	name                 string
	symbolTable          *symbol.SymbolTableReader
	productionSet        *productionSet
	startSymbol          symbol.Symbol
	augmentedStartSymbol symbol.Symbol

	// patterns maps terminals defined with a regular expression to the expression.
	// Other terminals match their own name literally.
	patterns map[symbol.Symbol]string

	first  *firstSet
	follow *followSet
}

type buildConfig struct {
	start string
}

type BuildOption func(config *buildConfig)

// StartSymbol overrides the start symbol named by the grammar source.
func StartSymbol(name string) BuildOption {
	return func(config *buildConfig) {
		config.start = name
	}
}

type GrammarBuilder struct {
	AST *spec.RootNode

	errs verr.SpecErrors
}

// Build validates the AST, augments it with a fresh start symbol, and computes FIRST and
// FOLLOW. Every problem found is reported at once as verr.SpecErrors whose causes are
// *GrammarError.
func (b *GrammarBuilder) Build(opts ...BuildOption) (*Grammar, error) {
	config := &buildConfig{}
	for _, opt := range opts {
		opt(config)
	}

	if b.AST == nil || len(b.AST.Productions) == 0 {
		return nil, verr.SpecErrors{
			&verr.SpecError{
				Cause: semErrNoProduction,
			},
		}
	}

	nonTerms, lhs2Node := b.collectNonTerminals()
	patterns := b.collectPatterns(lhs2Node)
	if len(nonTerms) == 0 {
		return nil, b.errs
	}
	startName, ok := b.selectStart(config, lhs2Node)
	if !ok {
		// Keep checking the rest of the grammar so that every error is reported at once.
		startName = nonTerms[0]
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	augStartSym, err := w.RegisterStartSymbol(genAugmentedStartName(startName, lhs2Node, patterns))
	if err != nil {
		return nil, err
	}
	for _, name := range nonTerms {
		if _, err := w.RegisterNonTerminalSymbol(name); err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrTooManySymbols,
				Detail: err.Error(),
				Row:    lhs2Node[name].Pos.Row,
				Col:    lhs2Node[name].Pos.Col,
			})
			return nil, b.errs
		}
	}

	r := symTab.Reader()
	startSym, _ := r.ToSymbol(startName)

	prods := newProductionSet()
	{
		p, err := newProduction(augStartSym, []symbol.Symbol{startSym})
		if err != nil {
			return nil, err
		}
		prods.append(p)
	}

	usedTerms := map[string]struct{}{}
	for _, prod := range b.AST.Productions {
		lhsSym, ok := r.ToSymbol(prod.LHS)
		if !ok {
			// A reserved LHS has already been reported.
			continue
		}
		for _, alt := range prod.RHS {
			rhs, ok := b.resolveAlternative(w, alt, lhs2Node, usedTerms)
			if !ok {
				continue
			}
			p, err := newProduction(lhsSym, rhs)
			if err != nil {
				return nil, err
			}
			if !prods.append(p) {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrDuplicateProduction,
					Detail: formatProduction(r, p),
					Row:    alt.Pos.Row,
					Col:    alt.Pos.Col,
				})
			}
		}
	}

	sym2Pat := map[symbol.Symbol]string{}
	for _, lexProd := range b.AST.LexProductions {
		if _, used := usedTerms[lexProd.LHS]; !used {
			if _, isNonTerm := lhs2Node[lexProd.LHS]; isNonTerm {
				continue
			}
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrUnusedTerminal,
				Detail: lexProd.LHS,
				Row:    lexProd.Pos.Row,
				Col:    lexProd.Pos.Col,
			})
			continue
		}
		sym, _ := r.ToSymbol(lexProd.LHS)
		sym2Pat[sym] = patterns[lexProd.LHS]
	}

	if len(b.errs) > 0 {
		b.errs.Sort()
		return nil, b.errs
	}
	first, err := genFirstSet(prods)
	if err != nil {
		return nil, err
	}
	follow, err := genFollowSet(prods, first)
	if err != nil {
		return nil, err
	}

	return &Grammar{
		name:                 b.grammarName(),
		symbolTable:          r,
		productionSet:        prods,
		startSymbol:          startSym,
		augmentedStartSymbol: augStartSym,
		patterns:             sym2Pat,
		first:                first,
		follow:               follow,
	}, nil
}

func (b *GrammarBuilder) grammarName() string {
	if b.AST.Name != "" {
		return b.AST.Name
	}
	return "grammar"
}

// collectNonTerminals returns the LHS names in declaration order. A name may head more
// than one production node; their alternatives are concatenated.
func (b *GrammarBuilder) collectNonTerminals() ([]string, map[string]*spec.ProductionNode) {
	var names []string
	lhs2Node := map[string]*spec.ProductionNode{}
	for _, prod := range b.AST.Productions {
		if symbol.IsReservedName(prod.LHS) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		if _, ok := lhs2Node[prod.LHS]; ok {
			continue
		}
		lhs2Node[prod.LHS] = prod
		names = append(names, prod.LHS)
	}
	return names, lhs2Node
}

func (b *GrammarBuilder) collectPatterns(lhs2Node map[string]*spec.ProductionNode) map[string]string {
	patterns := map[string]string{}
	for _, prod := range b.AST.LexProductions {
		if symbol.IsReservedName(prod.LHS) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		if _, ok := lhs2Node[prod.LHS]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateName,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		if _, ok := patterns[prod.LHS]; ok {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrDuplicateTerminal,
				Detail: prod.LHS,
				Row:    prod.Pos.Row,
				Col:    prod.Pos.Col,
			})
			continue
		}
		patterns[prod.LHS] = prod.Pattern()
	}
	return patterns
}

func (b *GrammarBuilder) selectStart(config *buildConfig, lhs2Node map[string]*spec.ProductionNode) (string, bool) {
	name := b.AST.Productions[0].LHS
	pos := b.AST.Productions[0].Pos
	if b.AST.Start != nil {
		name = b.AST.Start.Parameter
		pos = b.AST.Start.Pos
	}
	if config.start != "" {
		name = config.start
		pos = spec.Position{}
	}
	if _, ok := lhs2Node[name]; !ok {
		b.errs = append(b.errs, &verr.SpecError{
			Cause:  semErrUndefinedStart,
			Detail: name,
			Row:    pos.Row,
			Col:    pos.Col,
		})
		return name, false
	}
	return name, true
}

// resolveAlternative maps the elements of alt to symbols, registering terminals in the
// order they first appear.
func (b *GrammarBuilder) resolveAlternative(w *symbol.SymbolTableWriter, alt *spec.AlternativeNode, lhs2Node map[string]*spec.ProductionNode, usedTerms map[string]struct{}) ([]symbol.Symbol, bool) {
	rhs := make([]symbol.Symbol, 0, len(alt.Elements))
	ok := true
	for _, elem := range alt.Elements {
		if symbol.IsReservedName(elem.ID) {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrReservedName,
				Detail: elem.ID,
				Row:    elem.Pos.Row,
				Col:    elem.Pos.Col,
			})
			ok = false
			continue
		}
		if _, isNonTerm := lhs2Node[elem.ID]; isNonTerm {
			if elem.Literal {
				b.errs = append(b.errs, &verr.SpecError{
					Cause:  semErrLiteralNonTerminal,
					Detail: elem.ID,
					Row:    elem.Pos.Row,
					Col:    elem.Pos.Col,
				})
				ok = false
				continue
			}
			sym, _ := w.Reader().ToSymbol(elem.ID)
			rhs = append(rhs, sym)
			continue
		}

		sym, err := w.RegisterTerminalSymbol(elem.ID)
		if err != nil {
			b.errs = append(b.errs, &verr.SpecError{
				Cause:  semErrTooManySymbols,
				Detail: err.Error(),
				Row:    elem.Pos.Row,
				Col:    elem.Pos.Col,
			})
			ok = false
			continue
		}
		usedTerms[elem.ID] = struct{}{}
		rhs = append(rhs, sym)
	}
	return rhs, ok
}

// genAugmentedStartName appends primes to the start symbol name until it collides with
// no other name.
func genAugmentedStartName(start string, lhs2Node map[string]*spec.ProductionNode, patterns map[string]string) string {
	name := start + "'"
	for {
		_, isNonTerm := lhs2Node[name]
		_, isTerm := patterns[name]
		if !isNonTerm && !isTerm {
			return name
		}
		name += "'"
	}
}

func (g *Grammar) Name() string {
	return g.name
}

// StartSymbol returns the name of the start symbol before augmentation.
func (g *Grammar) StartSymbol() string {
	text, _ := g.symbolTable.ToText(g.startSymbol)
	return text
}

// AugmentedStartSymbol returns the name of the fresh start symbol S'.
func (g *Grammar) AugmentedStartSymbol() string {
	text, _ := g.symbolTable.ToText(g.augmentedStartSymbol)
	return text
}

// Terminals returns terminal names in declaration order. The end marker comes last.
func (g *Grammar) Terminals() []string {
	return g.symbolTexts(g.symbolTable.TerminalSymbols())
}

// NonTerminals returns non-terminal names in declaration order. The augmented start
// symbol comes last.
func (g *Grammar) NonTerminals() []string {
	return g.symbolTexts(g.symbolTable.NonTerminalSymbols())
}

// Productions returns every production, including the augmented one, formatted as
// `A → α` and ordered by production number.
func (g *Grammar) Productions() []string {
	var prods []string
	for _, p := range g.productionSet.getAllProductions() {
		prods = append(prods, formatProduction(g.symbolTable, p))
	}
	return prods
}

// First returns FIRST of a symbol. ε is included when the symbol is nullable.
func (g *Grammar) First(name string) ([]string, error) {
	sym, ok := g.symbolTable.ToSymbol(name)
	if !ok {
		return nil, fmt.Errorf("undefined symbol: %v", name)
	}
	if sym.IsTerminal() {
		return []string{name}, nil
	}
	e := g.first.findBySymbol(sym)
	if e == nil {
		return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", name)
	}
	texts := g.symbolTexts(e.symbols.symbols())
	if e.nullable {
		texts = append(texts, symbol.NameEpsilon)
	}
	return texts, nil
}

// Follow returns FOLLOW of a non-terminal.
func (g *Grammar) Follow(name string) ([]string, error) {
	sym, ok := g.symbolTable.ToSymbol(name)
	if !ok {
		return nil, fmt.Errorf("undefined symbol: %v", name)
	}
	if !sym.IsNonTerminal() {
		return nil, fmt.Errorf("FOLLOW is defined only for non-terminals: %v", name)
	}
	e, err := g.follow.find(sym)
	if err != nil {
		return nil, err
	}
	return g.symbolTexts(e.symbols.symbols()), nil
}

func (g *Grammar) symbolTexts(syms []symbol.Symbol) []string {
	texts := make([]string, 0, len(syms))
	for _, sym := range syms {
		text, _ := g.symbolTable.ToText(sym)
		texts = append(texts, text)
	}
	return texts
}

func formatProduction(symTab *symbol.SymbolTableReader, p *production) string {
	var b strings.Builder
	lhs, _ := symTab.ToText(p.lhs)
	fmt.Fprintf(&b, "%v →", lhs)
	if p.isEmpty() {
		fmt.Fprintf(&b, " %v", symbol.NameEpsilon)
		return b.String()
	}
	for _, sym := range p.rhs {
		text, _ := symTab.ToText(sym)
		fmt.Fprintf(&b, " %v", text)
	}
	return b.String()
}
