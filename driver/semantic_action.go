package driver

// SemanticActionSet is a set of semantic actions a parser calls.
type SemanticActionSet interface {
	// Shift runs when the parser shifts a symbol onto the state stack. `tok` is a token corresponding
	// to the symbol.
	Shift(tok VToken)

	// Reduce runs when the parser reduces an RHS of a production to its LHS. `prodNum` is a number of
	// the production.
	Reduce(prodNum int)

	// Accept runs when the parser accepts an input.
	Accept()
}

var _ SemanticActionSet = &TreeActionSet{}

// TreeActionSet builds a parse tree. Its node stack runs parallel to the parser's state stack.
type TreeActionSet struct {
	gram  Grammar
	tree  *Tree
	stack []NodeID
}

func NewTreeActionSet(gram Grammar) *TreeActionSet {
	return &TreeActionSet{
		gram: gram,
		tree: newTree(),
	}
}

func (a *TreeActionSet) Shift(tok VToken) {
	row, col := tok.Position()
	id := a.tree.addLeaf(a.gram.Terminal(tok.TerminalID()), string(tok.Lexeme()), row, col)
	a.stack = append(a.stack, id)
}

func (a *TreeActionSet) Reduce(prodNum int) {
	// When an alternative is empty, `n` will be 0, and the new node has no children.
	n := a.gram.AlternativeSymbolCount(prodNum)
	handle := a.stack[len(a.stack)-n:]
	id := a.tree.addNode(a.gram.NonTerminal(a.gram.LHS(prodNum)), handle)
	a.stack = a.stack[:len(a.stack)-n]
	a.stack = append(a.stack, id)
}

// Accept wraps the remaining node in a root labeled with the augmented start symbol.
func (a *TreeActionSet) Accept() {
	start := a.gram.StartProduction()
	n := a.gram.AlternativeSymbolCount(start)
	handle := a.stack[len(a.stack)-n:]
	a.tree.root = a.tree.addNode(a.gram.NonTerminal(a.gram.LHS(start)), handle)
	a.stack = a.stack[:len(a.stack)-n]
}

// Tree returns the parse tree once the input is accepted, and nil otherwise.
func (a *TreeActionSet) Tree() *Tree {
	if a.tree.root == NodeIDNil {
		return nil
	}
	return a.tree
}
