package spec

// RootNode is the AST shared by every grammar source format.
type RootNode struct {
	Name  string
	Start *DirectiveNode

	// Productions lists the syntactic productions in declaration order.
	Productions []*ProductionNode

	// LexProductions lists terminal definitions, i.e. productions whose only
	// alternative consists of a single pattern.
	LexProductions []*ProductionNode
}

type DirectiveNode struct {
	Name      string
	Parameter string
	Pos       Position
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

func (n *ProductionNode) isLexical() bool {
	if len(n.RHS) != 1 {
		return false
	}
	elems := n.RHS[0].Elements
	return len(elems) == 1 && elems[0].Pattern != ""
}

// Pattern returns the regular expression of a terminal definition.
func (n *ProductionNode) Pattern() string {
	if !n.isLexical() {
		return ""
	}
	return n.RHS[0].Elements[0].Pattern
}

type AlternativeNode struct {
	// Elements is empty when the alternative derives ε.
	Elements []*ElementNode
	Pos      Position
}

type ElementNode struct {
	ID string

	// Literal is true when the element was written as a quoted string. Such an
	// element always denotes a terminal.
	Literal bool

	Pattern string
	Pos     Position
}

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}
