package driver

import (
	"fmt"
	"io"
	"strconv"
)

// NodeID addresses a node in the arena of a Tree.
type NodeID int

const NodeIDNil = NodeID(-1)

type node struct {
	kind     string
	text     string
	row      int
	col      int
	terminal bool
	children []NodeID
}

// Tree is a parse tree stored in an arena. Nodes refer to their children by ID, and a tree
// never changes once the parser has accepted its input.
type Tree struct {
	nodes []*node
	root  NodeID
}

func newTree() *Tree {
	return &Tree{
		root: NodeIDNil,
	}
}

func (t *Tree) addLeaf(kind string, text string, row, col int) NodeID {
	t.nodes = append(t.nodes, &node{
		kind:     kind,
		text:     text,
		row:      row,
		col:      col,
		terminal: true,
	})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) addNode(kind string, children []NodeID) NodeID {
	cs := make([]NodeID, len(children))
	copy(cs, children)
	t.nodes = append(t.nodes, &node{
		kind:     kind,
		children: cs,
	})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) Root() NodeID {
	return t.root
}

// Kind returns the terminal or non-terminal name of a node.
func (t *Tree) Kind(id NodeID) string {
	return t.nodes[id].kind
}

// Text returns the matched text of a leaf. It is empty for internal nodes.
func (t *Tree) Text(id NodeID) string {
	return t.nodes[id].text
}

// Position returns the 0-based row and column of a leaf.
func (t *Tree) Position(id NodeID) (int, int) {
	return t.nodes[id].row, t.nodes[id].col
}

func (t *Tree) IsTerminal(id NodeID) bool {
	return t.nodes[id].terminal
}

func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Leaves returns the terminal nodes under the root from left to right.
func (t *Tree) Leaves() []NodeID {
	if t.root == NodeIDNil {
		return nil
	}
	var leaves []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if t.nodes[id].terminal {
			leaves = append(leaves, id)
			return
		}
		for _, c := range t.nodes[id].children {
			walk(c)
		}
	}
	walk(t.root)
	return leaves
}

// ExportedNode is the nested form of a tree. Leaves are named by their text.
type ExportedNode struct {
	Name     string          `json:"name"`
	Children []*ExportedNode `json:"children"`
}

func (t *Tree) Export() *ExportedNode {
	if t.root == NodeIDNil {
		return nil
	}
	return t.export(t.root)
}

func (t *Tree) export(id NodeID) *ExportedNode {
	n := t.nodes[id]
	if n.terminal {
		return &ExportedNode{
			Name:     n.text,
			Children: []*ExportedNode{},
		}
	}
	children := make([]*ExportedNode, len(n.children))
	for i, c := range n.children {
		children[i] = t.export(c)
	}
	return &ExportedNode{
		Name:     n.kind,
		Children: children,
	}
}

// PrintTree prints a tree as an outline.
func PrintTree(w io.Writer, tree *Tree) {
	if tree == nil || tree.root == NodeIDNil {
		return
	}
	printTree(w, tree, tree.root, "", "")
}

func printTree(w io.Writer, tree *Tree, id NodeID, ruledLine string, childRuledLinePrefix string) {
	n := tree.nodes[id]
	if n.terminal {
		fmt.Fprintf(w, "%v%v %v\n", ruledLine, n.kind, strconv.Quote(n.text))
		return
	}
	fmt.Fprintf(w, "%v%v\n", ruledLine, n.kind)

	num := len(n.children)
	for i, child := range n.children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, tree, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
