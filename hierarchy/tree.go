package hierarchy

import (
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/index"
)

// Node is one label of a tree together with the labels nested below it.
// Leaves have no children.
type Node struct {
	Label    index.Label
	Children []Node
}

// Leaf returns a node without children.
func Leaf(label index.Label) Node {
	return Node{Label: label}
}

// Branch returns a node with children.
func Branch(label index.Label, children ...Node) Node {
	return Node{Label: label, Children: children}
}

// Leaves returns one leaf per label.
func Leaves(labels ...index.Label) []Node {
	out := make([]Node, len(labels))
	for i, l := range labels {
		out[i] = Leaf(l)
	}
	return out
}

// FromTree builds a hierarchy from a forest of nodes. Every path from a root
// to a leaf becomes one row, in depth-first order. All paths must have the
// same length of at least two.
func FromTree(roots []Node, optFns ...Option) (*Hierarchy, error) {
	var (
		tuples []Tuple
		walk   func(prefix Tuple, nodes []Node)
	)
	walk = func(prefix Tuple, nodes []Node) {
		for _, n := range nodes {
			path := append(append(Tuple(nil), prefix...), n.Label)
			if len(n.Children) == 0 {
				tuples = append(tuples, path)
				continue
			}
			walk(path, n.Children)
		}
	}
	walk(nil, roots)
	if len(tuples) == 0 {
		return nil, core.NewStructuralError("from tree", "tree has no leaves")
	}
	depth := len(tuples[0])
	for _, t := range tuples {
		if len(t) != depth {
			return nil, core.NewStructuralError("from tree", "leaves at depth %d and %d", depth, len(t))
		}
	}
	return FromLabels(tuples, optFns...)
}

// group is a node of the prefix tree over indexer codes. Children keep the
// order in which their prefix first appears.
type group struct {
	code     int
	rows     int
	children []*group
	byCode   map[int]*group
}

func (g *group) child(code int) *group {
	if c, ok := g.byCode[code]; ok {
		return c
	}
	c := &group{code: code, byCode: map[int]*group{}}
	g.byCode[code] = c
	g.children = append(g.children, c)
	return c
}

func (h *Hierarchy) groups() *group {
	root := &group{byCode: map[int]*group{}}
	for row := 0; row < h.n; row++ {
		g := root
		g.rows++
		for _, idx := range h.indexers {
			g = g.child(idx[row])
			g.rows++
		}
	}
	return root
}

// ToTree converts the index into nested nodes. Rows sharing a prefix are
// grouped under the first occurrence of that prefix.
func (h *Hierarchy) ToTree() []Node {
	var convert func(g *group, depth int) []Node
	convert = func(g *group, depth int) []Node {
		out := make([]Node, len(g.children))
		for i, c := range g.children {
			out[i] = Node{Label: h.levels[depth].Label(c.code)}
			if depth+1 < len(h.levels) {
				out[i].Children = convert(c, depth+1)
			}
		}
		return out
	}
	return convert(h.groups(), 0)
}

// LabelWidth is a label and the number of rows it spans.
type LabelWidth struct {
	Label index.Label
	Width int
}

// LabelWidthsAtDepth returns, in tree order, every label at depth together
// with the number of rows nested below it. Exactly one depth is accepted.
func (h *Hierarchy) LabelWidthsAtDepth(depths ...int) ([]LabelWidth, error) {
	if len(depths) != 1 {
		return nil, core.NotImplemented("label widths", "exactly one depth is supported")
	}
	depth := depths[0]
	if err := h.checkDepths("label widths", depths); err != nil {
		return nil, err
	}
	var (
		out   []LabelWidth
		visit func(g *group, d int)
	)
	visit = func(g *group, d int) {
		for _, c := range g.children {
			if d == depth {
				out = append(out, LabelWidth{Label: h.levels[d].Label(c.code), Width: c.rows})
				continue
			}
			visit(c, d+1)
		}
	}
	visit(h.groups(), 0)
	return out, nil
}
