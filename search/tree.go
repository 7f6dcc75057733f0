package search

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/boardgame/board"
	"github.com/gorgonia/boardgame/heuristic"
	"github.com/pkg/errors"
)

// Node is a node of an explicit search tree, built by Tree for inspection of small searches.
type Node[M comparable, V heuristic.Value] struct {
	ID      int
	Move    M // the move leading to this node; meaningless at the root
	HasMove bool
	Player  board.Player // to move
	Value   V            // backed-up value for Player
	Best    bool         // the move the parent would choose
	Board   string

	Children []*Node[M, V]
}

// Tree builds the complete search tree of b to the given depth. The values it backs up are the
// ones Minimax computes.
func Tree[B board.Board[B, M], M comparable, V heuristic.Value](h heuristic.Heuristic[B, M, V], b B, depth uint32) (*Node[M, V], error) {
	var id int
	var build func(b B, value V, length, depth uint32) (*Node[M, V], error)
	build = func(b B, value V, length, depth uint32) (*Node[M, V], error) {
		n := &Node[M, V]{
			ID:     id,
			Player: b.NextPlayer(),
			Value:  value,
			Board:  b.String(),
		}
		id++
		if depth == 0 || b.IsDone() {
			return n, nil
		}
		bestIdx := -1
		for i, mv := range b.AvailableMoves() {
			child, err := b.Play(mv)
			if err != nil {
				return nil, errors.WithMessagef(err, "available move %v could not be played", mv)
			}
			kid, err := build(child, h.ValueUpdate(b, value, length, mv, child), length+1, depth-1)
			if err != nil {
				return nil, err
			}
			kid.Move, kid.HasMove = mv, true
			n.Children = append(n.Children, kid)

			if i == 0 {
				n.Value, bestIdx = -kid.Value, 0
				continue
			}
			var improved bool
			if n.Value, improved = h.Merge(n.Value, -kid.Value); improved {
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			n.Children[bestIdx].Best = true
		}
		return n, nil
	}
	return build(b, h.Value(b, 0), 0, depth)
}

// Walk calls fn on every node in depth-first preorder.
func (n *Node[M, V]) Walk(fn func(*Node[M, V])) {
	fn(n)
	for _, kid := range n.Children {
		kid.Walk(fn)
	}
}

// State renders the board for an HTML-like DOT label.
func (n *Node[M, V]) State() string {
	return strings.ReplaceAll(strings.TrimRight(n.Board, "\n"), "\n", "<BR />")
}

// ToDot renders the tree in the DOT language. Edges to the chosen children are drawn in red.
func (n *Node[M, V]) ToDot() string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	if err := g.SetDir(true); err != nil {
		panic(err)
	}

	var buf bytes.Buffer
	n.Walk(func(n *Node[M, V]) {
		buf.Reset()
		if err := tmpl.Execute(&buf, n); err != nil {
			panic(err)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		g.AddNode("G", fmt.Sprintf("%d", n.ID), attrs)
		for _, kid := range n.Children {
			var edge map[string]string
			if kid.Best {
				edge = map[string]string{"color": "red"}
			}
			g.AddEdge(fmt.Sprintf("%d", n.ID), fmt.Sprintf("%d", kid.ID), true, edge)
		}
	})
	return g.String()
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Move</TD><TD>{{if .HasMove}}{{.Move}}{{else}}-{{end}}</TD></TR>
<TR><TD>Player</TD><TD>{{.Player}}</TD></TR>
<TR><TD>Value</TD><TD>{{.Value}}</TD></TR>
<TR><TD>State</TD><TD>{{.State}}</TD></TR>
</TABLE>
>`

var tmpl = template.Must(template.New("node").Parse(tmplRaw))
