// Package testutil provides workspace builders shared by the test suites.
package testutil

import (
	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
)

// NewNode creates a node with the given position and a default size
func NewNode(id, nodeType string, x, y float64) *graph.Node {
	return &graph.Node{
		ID:       id,
		Type:     nodeType,
		Position: geometry.Point{X: x, Y: y},
		Size:     geometry.Size{Width: 120, Height: 80},
	}
}

// AddConnection attaches a connection of the given type to a node. The
// offset places the anchor relative to the node position.
func AddConnection(node *graph.Node, id string, connType graph.ConnectionType, dx, dy float64) *graph.Connection {
	conn := &graph.Connection{
		ID:     id,
		Type:   connType,
		Node:   node,
		Offset: geometry.Point{X: dx, Y: dy},
	}
	node.Connections = append(node.Connections, conn)
	return conn
}

// TwoNodeWorkspace builds the canonical snap scenario: node "a" at
// (100, 100) with a next connection on its bottom edge, node "b" at
// (100, 200) with a previous connection on its top edge anchored at
// (100, 190). Moving "a" toward "b" brings the anchors within snap range.
func TwoNodeWorkspace() (*graph.Workspace, *graph.Node, *graph.Node) {
	a := NewNode("a", "step", 100, 100)
	AddConnection(a, "a-next", graph.ConnectionNext, 0, 40)

	b := NewNode("b", "step", 100, 200)
	AddConnection(b, "b-prev", graph.ConnectionPrevious, 0, -10)

	ws := graph.NewWorkspace()
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)
	return ws, a, b
}

// ChainWorkspace builds three nodes where "a" and "b" are already linked
// and "c" sits apart with open connections. Used for origin-restore and
// replacement scenarios.
func ChainWorkspace() (*graph.Workspace, *graph.Node, *graph.Node, *graph.Node) {
	a := NewNode("a", "step", 100, 100)
	aNext := AddConnection(a, "a-next", graph.ConnectionNext, 0, 40)

	b := NewNode("b", "step", 100, 200)
	bPrev := AddConnection(b, "b-prev", graph.ConnectionPrevious, 0, -10)
	AddConnection(b, "b-next", graph.ConnectionNext, 0, 40)

	c := NewNode("c", "step", 400, 400)
	AddConnection(c, "c-prev", graph.ConnectionPrevious, 0, -10)

	ws := graph.NewWorkspace()
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)
	_ = ws.AddNode(c)
	_ = ws.Connect(aNext, bPrev)
	return ws, a, b, c
}
