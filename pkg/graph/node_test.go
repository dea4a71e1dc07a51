package graph

import (
	"testing"

	"github.com/dshills/gomove/pkg/geometry"
)

func TestConnectionType_Compatible(t *testing.T) {
	tests := []struct {
		a, b ConnectionType
		want bool
	}{
		{ConnectionPrevious, ConnectionNext, true},
		{ConnectionNext, ConnectionPrevious, true},
		{ConnectionInput, ConnectionOutput, true},
		{ConnectionOutput, ConnectionInput, true},
		{ConnectionPrevious, ConnectionPrevious, false},
		{ConnectionNext, ConnectionNext, false},
		{ConnectionPrevious, ConnectionInput, false},
		{ConnectionOutput, ConnectionNext, false},
		{ConnectionInput, ConnectionInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.a.String()+"_"+tt.b.String(), func(t *testing.T) {
			if got := tt.a.Compatible(tt.b); got != tt.want {
				t.Errorf("Compatible(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestParseConnectionType(t *testing.T) {
	for _, ct := range []ConnectionType{ConnectionPrevious, ConnectionNext, ConnectionInput, ConnectionOutput} {
		parsed, err := ParseConnectionType(ct.String())
		if err != nil {
			t.Fatalf("ParseConnectionType(%q) failed: %v", ct.String(), err)
		}
		if parsed != ct {
			t.Errorf("ParseConnectionType(%q) = %v, want %v", ct.String(), parsed, ct)
		}
	}

	if _, err := ParseConnectionType("sideways"); err == nil {
		t.Error("ParseConnectionType accepted an unknown type")
	}
}

func TestConnection_Anchor(t *testing.T) {
	node := &Node{
		ID:       "a",
		Position: geometry.Point{X: 100, Y: 200},
	}
	conn := &Connection{
		ID:     "a-next",
		Type:   ConnectionNext,
		Node:   node,
		Offset: geometry.Point{X: 10, Y: 40},
	}
	node.Connections = []*Connection{conn}

	if got := conn.Anchor(); got != (geometry.Point{X: 110, Y: 240}) {
		t.Errorf("Anchor() = %v", got)
	}

	// Anchor follows the node during a move
	node.Position = geometry.Point{X: 0, Y: 0}
	if got := conn.Anchor(); got != (geometry.Point{X: 10, Y: 40}) {
		t.Errorf("Anchor() after move = %v", got)
	}

	if got := conn.AnchorAt(geometry.Point{X: 50, Y: 50}); got != (geometry.Point{X: 60, Y: 90}) {
		t.Errorf("AnchorAt() = %v", got)
	}
}

func TestNode_OpenConnections(t *testing.T) {
	node := &Node{ID: "a"}
	c1 := &Connection{ID: "c1", Type: ConnectionPrevious, Node: node}
	c2 := &Connection{ID: "c2", Type: ConnectionNext, Node: node}
	c3 := &Connection{ID: "c3", Type: ConnectionOutput, Node: node}
	node.Connections = []*Connection{c1, c2, c3}

	peer := &Connection{ID: "peer", Type: ConnectionPrevious, Node: &Node{ID: "b"}}
	c2.Target = peer
	peer.Target = c2

	open := node.OpenConnections()
	if len(open) != 2 {
		t.Fatalf("expected 2 open connections, got %d", len(open))
	}
	if open[0] != c1 || open[1] != c3 {
		t.Error("OpenConnections() did not preserve declaration order")
	}
}

func TestNode_ConnectionIndex(t *testing.T) {
	node := &Node{ID: "a"}
	c1 := &Connection{ID: "c1", Type: ConnectionPrevious, Node: node}
	c2 := &Connection{ID: "c2", Type: ConnectionNext, Node: node}
	node.Connections = []*Connection{c1, c2}

	if got := node.ConnectionIndex(c2); got != 1 {
		t.Errorf("ConnectionIndex(c2) = %d, want 1", got)
	}
	foreign := &Connection{ID: "x", Node: &Node{ID: "b"}}
	if got := node.ConnectionIndex(foreign); got != -1 {
		t.Errorf("ConnectionIndex(foreign) = %d, want -1", got)
	}
}

func TestNode_Validate(t *testing.T) {
	other := &Node{ID: "b"}

	tests := []struct {
		name    string
		build   func() *Node
		wantErr bool
	}{
		{
			name: "valid node",
			build: func() *Node {
				n := &Node{ID: "a"}
				n.Connections = []*Connection{{ID: "c1", Node: n}}
				return n
			},
		},
		{
			name:    "empty node ID",
			build:   func() *Node { return &Node{} },
			wantErr: true,
		},
		{
			name: "empty connection ID",
			build: func() *Node {
				n := &Node{ID: "a"}
				n.Connections = []*Connection{{Node: n}}
				return n
			},
			wantErr: true,
		},
		{
			name: "connection owned by another node",
			build: func() *Node {
				n := &Node{ID: "a"}
				n.Connections = []*Connection{{ID: "c1", Node: other}}
				return n
			},
			wantErr: true,
		},
		{
			name: "duplicate connection IDs",
			build: func() *Node {
				n := &Node{ID: "a"}
				n.Connections = []*Connection{{ID: "c1", Node: n}, {ID: "c1", Node: n}}
				return n
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
