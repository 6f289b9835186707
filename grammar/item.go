package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"

	"github.com/lrkit/lrkit/grammar/symbol"
)

type lrItemID [32]byte

func (id lrItemID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// lrItem is an LR(0) item when lookAhead is nil and an LR(1) item otherwise.
type lrItem struct {
	id   lrItemID
	prod *production

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol symbol.Symbol

	lookAhead symbol.Symbol

	// When initial is true, the item looks like S' →・S.
	initial bool

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// When kernel is true, the item is a kernel item.
	kernel bool
}

func newLR0Item(prod *production, dot int) (*lrItem, error) {
	return newLRItem(prod, dot, symbol.SymbolNil)
}

func newLR1Item(prod *production, dot int, lookAhead symbol.Symbol) (*lrItem, error) {
	if !lookAhead.IsTerminal() {
		return nil, fmt.Errorf("a look-ahead symbol must be a terminal: %v", lookAhead)
	}
	return newLRItem(prod, dot, lookAhead)
}

func newLRItem(prod *production, dot int, lookAhead symbol.Symbol) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.rhsLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.rhsLen)
	}

	var id lrItemID
	{
		b := []byte{}
		b = append(b, prod.id[:]...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(dot))
		b = append(b, bDot...)
		b = append(b, lookAhead.Byte()...)
		id = sha256.Sum256(b)
	}

	dottedSymbol := symbol.SymbolNil
	if dot < prod.rhsLen {
		dottedSymbol = prod.rhs[dot]
	}

	initial := prod.lhs.IsStart() && dot == 0

	return &lrItem{
		id:           id,
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		lookAhead:    lookAhead,
		initial:      initial,
		reducible:    dot == prod.rhsLen,
		kernel:       initial || dot > 0,
	}, nil
}

func (item *lrItem) hasLookAhead() bool {
	return !item.lookAhead.IsNil()
}

// advance returns the item whose dot has moved over the dotted symbol.
func (item *lrItem) advance() (*lrItem, error) {
	return newLRItem(item.prod, item.dot+1, item.lookAhead)
}

// lessItem orders items by production number, then dot position, then look-ahead.
func lessItem(a, b *lrItem) bool {
	if a.prod.num != b.prod.num {
		return a.prod.num < b.prod.num
	}
	if a.dot != b.dot {
		return a.dot < b.dot
	}
	return a.lookAhead < b.lookAhead
}

// sortItems sorts items and removes duplicates.
func sortItems(items []*lrItem) []*lrItem {
	m := map[lrItemID]*lrItem{}
	for _, item := range items {
		m[item.id] = item
	}
	sorted := make([]*lrItem, 0, len(m))
	for _, item := range m {
		sorted = append(sorted, item)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return lessItem(sorted[i], sorted[j])
	})
	return sorted
}

type kernelID [32]byte

func (id kernelID) String() string {
	return fmt.Sprintf("%x", binary.LittleEndian.Uint32(id[:]))
}

// kernel identifies a state. Two kernels with the same id are the same state. coreID
// ignores look-aheads, so LR(1) kernels that share it are merged into one LALR(1) state.
type kernel struct {
	id     kernelID
	coreID kernelID
	items  []*lrItem
}

func newKernel(items []*lrItem) (*kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel need at least one item")
	}
	for _, item := range items {
		if !item.kernel {
			return nil, fmt.Errorf("not a kernel item: %v", item.id)
		}
	}

	sortedItems := sortItems(items)

	var id kernelID
	{
		b := []byte{}
		for _, item := range sortedItems {
			b = append(b, item.id[:]...)
		}
		id = sha256.Sum256(b)
	}

	return &kernel{
		id:     id,
		coreID: genCoreID(sortedItems),
		items:  sortedItems,
	}, nil
}

func genCoreID(sortedItems []*lrItem) kernelID {
	b := []byte{}
	var prev *lrItem
	for _, item := range sortedItems {
		if prev != nil && prev.prod.num == item.prod.num && prev.dot == item.dot {
			continue
		}
		prev = item
		b = append(b, item.prod.id[:]...)
		bDot := make([]byte, 8)
		binary.LittleEndian.PutUint64(bDot, uint64(item.dot))
		b = append(b, bDot...)
	}
	return sha256.Sum256(b)
}

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

type lrState struct {
	*kernel
	num stateNum

	// closure is the sorted closure of the kernel.
	closure []*lrItem

	next map[symbol.Symbol]stateNum
}

// reducibleItems returns the completed items of the state in closure order.
func (s *lrState) reducibleItems() []*lrItem {
	var items []*lrItem
	for _, item := range s.closure {
		if item.reducible {
			items = append(items, item)
		}
	}
	return items
}

// lrAutomaton is the canonical collection of one item kind. states is indexed by state
// number and the initial state is always number 0.
type lrAutomaton struct {
	lookAhead bool
	states    []*lrState
}

func (a *lrAutomaton) initialState() *lrState {
	return a.states[stateNumInitial]
}
