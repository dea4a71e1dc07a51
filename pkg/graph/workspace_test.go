package graph

import (
	"errors"
	"testing"

	"github.com/dshills/gomove/pkg/geometry"
)

func makeNode(id string, connType ConnectionType) (*Node, *Connection) {
	node := &Node{ID: id, Position: geometry.Point{X: 0, Y: 0}}
	conn := &Connection{ID: id + "-conn", Type: connType, Node: node}
	node.Connections = []*Connection{conn}
	return node, conn
}

func TestWorkspace_AddNode(t *testing.T) {
	ws := NewWorkspace()
	node, _ := makeNode("a", ConnectionNext)

	if err := ws.AddNode(node); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := ws.AddNode(node); err == nil {
		t.Error("AddNode accepted a duplicate ID")
	}
	if err := ws.AddNode(nil); err == nil {
		t.Error("AddNode accepted nil")
	}
}

func TestWorkspace_Connect(t *testing.T) {
	ws := NewWorkspace()
	a, aNext := makeNode("a", ConnectionNext)
	b, bPrev := makeNode("b", ConnectionPrevious)
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)

	if err := ws.Connect(aNext, bPrev); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if aNext.Target != bPrev || bPrev.Target != aNext {
		t.Error("Connect did not link both ends")
	}
}

func TestWorkspace_Connect_Incompatible(t *testing.T) {
	ws := NewWorkspace()
	a, aNext := makeNode("a", ConnectionNext)
	b, bOut := makeNode("b", ConnectionOutput)
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)

	if err := ws.Connect(aNext, bOut); err == nil {
		t.Error("Connect accepted incompatible types")
	}
}

func TestWorkspace_Connect_OccupiedNeighbourRejected(t *testing.T) {
	ws := NewWorkspace()
	a, aNext := makeNode("a", ConnectionNext)
	b, bPrev := makeNode("b", ConnectionPrevious)
	c, cNext := makeNode("c", ConnectionNext)
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)
	_ = ws.AddNode(c)

	if err := ws.Connect(aNext, bPrev); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	// bPrev is occupied and not replaceable; the existing link must survive
	if err := ws.Connect(cNext, bPrev); err == nil {
		t.Error("Connect displaced an occupied, non-replaceable connection")
	}
	if bPrev.Target != aNext {
		t.Error("existing link was severed by a rejected connect")
	}
}

func TestWorkspace_Connect_ReplaceableNeighbour(t *testing.T) {
	ws := NewWorkspace()
	a, aNext := makeNode("a", ConnectionNext)
	b, bPrev := makeNode("b", ConnectionPrevious)
	c, cNext := makeNode("c", ConnectionNext)
	bPrev.Replaceable = true
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)
	_ = ws.AddNode(c)

	_ = ws.Connect(aNext, bPrev)
	if err := ws.Connect(cNext, bPrev); err != nil {
		t.Fatalf("Connect to replaceable neighbour failed: %v", err)
	}
	if bPrev.Target != cNext {
		t.Error("replaceable neighbour not relinked to the new peer")
	}
	if aNext.Occupied() {
		t.Error("displaced peer still thinks it is connected")
	}
}

func TestWorkspace_DisconnectAll(t *testing.T) {
	ws := NewWorkspace()
	a, aNext := makeNode("a", ConnectionNext)
	b, bPrev := makeNode("b", ConnectionPrevious)
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)
	_ = ws.Connect(aNext, bPrev)

	ws.DisconnectAll(a)

	if aNext.Occupied() || bPrev.Occupied() {
		t.Error("DisconnectAll left a dangling link end")
	}

	// Idempotent on an already disconnected node
	ws.DisconnectAll(a)
}

func TestWorkspace_RemoveNode(t *testing.T) {
	ws := NewWorkspace()
	a, aNext := makeNode("a", ConnectionNext)
	b, bPrev := makeNode("b", ConnectionPrevious)
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)
	_ = ws.Connect(aNext, bPrev)

	if err := ws.RemoveNode("a"); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	if _, ok := ws.Node("a"); ok {
		t.Error("removed node still resolvable")
	}
	if bPrev.Occupied() {
		t.Error("removed node's link not severed")
	}
	if err := ws.RemoveNode("a"); err == nil {
		t.Error("RemoveNode accepted a missing node")
	}
}

func TestWorkspace_OtherConnections_Deterministic(t *testing.T) {
	ws := NewWorkspace()
	// Insert out of order; iteration must still be by node ID
	c, _ := makeNode("c", ConnectionPrevious)
	a, _ := makeNode("a", ConnectionPrevious)
	b, _ := makeNode("b", ConnectionPrevious)
	_ = ws.AddNode(c)
	_ = ws.AddNode(a)
	_ = ws.AddNode(b)

	conns := ws.OtherConnections(b)
	if len(conns) != 2 {
		t.Fatalf("expected 2 connections, got %d", len(conns))
	}
	if conns[0].Node.ID != "a" || conns[1].Node.ID != "c" {
		t.Errorf("OtherConnections order = %s, %s; want a, c", conns[0].Node.ID, conns[1].Node.ID)
	}
}

func TestWorkspace_Capabilities(t *testing.T) {
	ws := NewWorkspace()
	caps := ws.Capabilities()

	if err := caps.Validate(); err != nil {
		t.Fatalf("workspace capabilities invalid: %v", err)
	}
	if caps.DeleteNode == nil {
		t.Error("workspace should provide the optional DeleteNode capability")
	}
}

func TestCapabilities_Validate_Missing(t *testing.T) {
	ws := NewWorkspace()
	caps := ws.Capabilities()
	caps.Connect = nil

	err := caps.Validate()
	if err == nil {
		t.Fatal("Validate accepted a missing required capability")
	}
	var missing *MissingCapabilityError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingCapabilityError, got %T", err)
	}
	if missing.Capability != "Connect" {
		t.Errorf("Capability = %q, want Connect", missing.Capability)
	}
}
