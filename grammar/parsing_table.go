package grammar

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/lrkit/lrkit/grammar/symbol"
	gspec "github.com/lrkit/lrkit/spec/grammar"
)

// Class selects how reductions are placed in the ACTION table.
type Class string

const (
	ClassLR0   = Class(gspec.ClassLR0)
	ClassSLR1  = Class(gspec.ClassSLR1)
	ClassCLR1  = Class(gspec.ClassCLR1)
	ClassLALR1 = Class(gspec.ClassLALR1)
)

var Classes = []Class{
	ClassLR0,
	ClassSLR1,
	ClassCLR1,
	ClassLALR1,
}

func (c Class) String() string {
	return string(c)
}

// ParseClass accepts a class name. Case, parentheses, and the "lr"/"clr" spellings of
// canonical LR(1) are ignored, so "LR(1)", "clr1", and "LALR(1)" all parse.
func ParseClass(s string) (Class, error) {
	n := strings.ToLower(s)
	n = strings.NewReplacer("(", "", ")", "", "-", "", "_", "").Replace(n)
	switch n {
	case "lr0":
		return ClassLR0, nil
	case "slr", "slr1":
		return ClassSLR1, nil
	case "lr1", "clr", "clr1":
		return ClassCLR1, nil
	case "lalr", "lalr1":
		return ClassLALR1, nil
	}
	return "", fmt.Errorf("unknown class: %v (lr0, slr1, clr1, or lalr1)", s)
}

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

type actionEntry int

const actionEntryEmpty = actionEntry(0)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	if productionNum(e) == productionNumStart {
		return ActionTypeAccept, stateNumInitial, productionNumStart
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e)
}

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) describe() (stateNum, bool) {
	if e == goToEntryEmpty {
		return stateNumInitial, false
	}
	return stateNum(e), true
}

// Action is a decoded ACTION cell.
type Action struct {
	Type       ActionType
	State      int
	Production int
	Rule       string
}

func (a Action) String() string {
	switch a.Type {
	case ActionTypeShift:
		return fmt.Sprintf("shift %v", a.State)
	case ActionTypeReduce:
		return fmt.Sprintf("reduce %v (%v)", a.Production, a.Rule)
	case ActionTypeAccept:
		return "accept"
	}
	return "error"
}

type ConflictKind string

const (
	ConflictKindShiftReduce  = ConflictKind("shift/reduce")
	ConflictKindReduceReduce = ConflictKind("reduce/reduce")
)

// ConflictError reports a second, different action written to an ACTION cell. Existing is
// the action that was there first.
type ConflictError struct {
	Class    Class
	Kind     ConflictKind
	State    int
	Terminal string
	Existing Action
	Incoming Action
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %v conflict in state %v on %v: %v vs %v", e.Class, e.Kind, e.State, e.Terminal, e.Existing, e.Incoming)
}

type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int

	InitialState stateNum
	Class        Class
}

func (t *ParsingTable) getAction(state stateNum, sym symbol.SymbolNum) (ActionType, stateNum, productionNum) {
	pos := state.Int()*t.terminalCount + sym.Int()
	return t.actionTable[pos].describe()
}

func (t *ParsingTable) getGoTo(state stateNum, sym symbol.SymbolNum) (stateNum, bool) {
	pos := state.Int()*t.nonTerminalCount + sym.Int()
	return t.goToTable[pos].describe()
}

func (t *ParsingTable) readAction(row int, col int) actionEntry {
	return t.actionTable[row*t.terminalCount+col]
}

func (t *ParsingTable) writeAction(row int, col int, act actionEntry) {
	t.actionTable[row*t.terminalCount+col] = act
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol.Symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Num().Int()
	t.goToTable[pos] = newGoToEntry(nextState)
}

type lrTableBuilder struct {
	class        Class
	automaton    *lrAutomaton
	prods        *productionSet
	follow       *followSet
	termCount    int
	nonTermCount int
	symTab       *symbol.SymbolTableReader
	logger       *zap.Logger

	conflicts []*ConflictError
}

// build fills the table even when conflicts occur so that a report can show them. The
// action already in a cell is kept; callers must check b.conflicts before using the table.
func (b *lrTableBuilder) build() (*ParsingTable, error) {
	ptab := &ParsingTable{
		actionTable:      make([]actionEntry, len(b.automaton.states)*b.termCount),
		goToTable:        make([]goToEntry, len(b.automaton.states)*b.nonTermCount),
		stateCount:       len(b.automaton.states),
		terminalCount:    b.termCount,
		nonTerminalCount: b.nonTermCount,
		InitialState:     b.automaton.initialState().num,
		Class:            b.class,
	}

	alphabet := b.symTab.Alphabet()
	for _, state := range b.automaton.states {
		for _, sym := range alphabet {
			nextState, ok := state.next[sym]
			if !ok {
				continue
			}
			if sym.IsTerminal() {
				b.writeShiftAction(ptab, state.num, sym, nextState)
			} else {
				ptab.writeGoTo(state.num, sym, nextState)
			}
		}

		for _, item := range state.reducibleItems() {
			syms, err := b.reduceTerminals(item)
			if err != nil {
				return nil, err
			}
			for _, sym := range syms {
				b.writeReduceAction(ptab, state.num, sym, item.prod.num)
			}
		}
	}

	return ptab, nil
}

// reduceTerminals returns the terminals on which a completed item is reduced. The
// augmented production is reduced, that is accepted, only on the end marker.
func (b *lrTableBuilder) reduceTerminals(item *lrItem) ([]symbol.Symbol, error) {
	if item.prod.lhs.IsStart() {
		return []symbol.Symbol{symbol.SymbolEOF}, nil
	}

	switch b.class {
	case ClassLR0:
		return b.symTab.TerminalSymbols(), nil
	case ClassSLR1:
		flw, err := b.follow.find(item.prod.lhs)
		if err != nil {
			return nil, err
		}
		return flw.symbols.symbols(), nil
	case ClassCLR1, ClassLALR1:
		if !item.hasLookAhead() {
			return nil, fmt.Errorf("an item has no look-ahead symbol; class: %v", b.class)
		}
		return []symbol.Symbol{item.lookAhead}, nil
	}
	return nil, fmt.Errorf("unknown class: %v", b.class)
}

func (b *lrTableBuilder) writeShiftAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, nextState stateNum) {
	act := tab.readAction(state.Int(), sym.Num().Int())
	incoming := newShiftActionEntry(nextState)
	if !act.isEmpty() {
		if act == incoming {
			return
		}
		b.recordConflict(state, sym, act, incoming)
		return
	}
	tab.writeAction(state.Int(), sym.Num().Int(), incoming)
}

func (b *lrTableBuilder) writeReduceAction(tab *ParsingTable, state stateNum, sym symbol.Symbol, prod productionNum) {
	act := tab.readAction(state.Int(), sym.Num().Int())
	incoming := newReduceActionEntry(prod)
	if !act.isEmpty() {
		if act == incoming {
			return
		}
		b.recordConflict(state, sym, act, incoming)
		return
	}
	tab.writeAction(state.Int(), sym.Num().Int(), incoming)
}

func (b *lrTableBuilder) recordConflict(state stateNum, sym symbol.Symbol, existing, incoming actionEntry) {
	kind := ConflictKindReduceReduce
	if existTy, _, _ := existing.describe(); existTy == ActionTypeShift {
		kind = ConflictKindShiftReduce
	}
	if inTy, _, _ := incoming.describe(); inTy == ActionTypeShift {
		kind = ConflictKindShiftReduce
	}
	term, _ := b.symTab.ToText(sym)
	c := &ConflictError{
		Class:    b.class,
		Kind:     kind,
		State:    state.Int(),
		Terminal: term,
		Existing: b.toAction(existing),
		Incoming: b.toAction(incoming),
	}
	b.conflicts = append(b.conflicts, c)
	b.logger.Warn("conflict",
		zap.String("class", b.class.String()),
		zap.String("kind", string(kind)),
		zap.Int("state", c.State),
		zap.String("terminal", term))
}

func (b *lrTableBuilder) toAction(e actionEntry) Action {
	ty, state, prodNum := e.describe()
	act := Action{
		Type:       ty,
		State:      state.Int(),
		Production: prodNum.Int(),
	}
	if prod, ok := b.prods.findByNum(prodNum); ok {
		act.Rule = formatProduction(b.symTab, prod)
	}
	return act
}
