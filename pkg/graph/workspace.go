package graph

import (
	"fmt"
	"sort"

	"github.com/dshills/gomove/pkg/geometry"
)

// Workspace is an in-memory host implementation of the engine's capability
// contract. It backs the demo, the replay command and the test suite;
// embedding hosts with their own graph model supply Capabilities directly.
type Workspace struct {
	// nodes maps node IDs to nodes
	nodes map[string]*Node
	// viewport is the current pan/zoom state
	viewport geometry.Viewport
	// policy decides movability; nil means every node is movable
	policy *MovePolicy
}

// NewWorkspace creates an empty workspace with an identity viewport
func NewWorkspace() *Workspace {
	return &Workspace{
		nodes:    make(map[string]*Node),
		viewport: geometry.Viewport{Zoom: 1.0},
	}
}

// AddNode adds a node to the workspace.
// Returns error if a node with the same ID already exists.
func (w *Workspace) AddNode(node *Node) error {
	if node == nil {
		return fmt.Errorf("cannot add nil node")
	}
	if err := node.Validate(); err != nil {
		return err
	}
	if _, exists := w.nodes[node.ID]; exists {
		return fmt.Errorf("node already exists: %s", node.ID)
	}
	w.nodes[node.ID] = node
	return nil
}

// RemoveNode removes a node and severs all its connections.
// Returns error if the node doesn't exist.
func (w *Workspace) RemoveNode(nodeID string) error {
	node, exists := w.nodes[nodeID]
	if !exists {
		return fmt.Errorf("node not found: %s", nodeID)
	}
	w.DisconnectAll(node)
	delete(w.nodes, nodeID)
	return nil
}

// Node returns the node with the given ID
func (w *Workspace) Node(id string) (*Node, bool) {
	node, ok := w.nodes[id]
	return node, ok
}

// Nodes returns all nodes ordered by ID for deterministic iteration
func (w *Workspace) Nodes() []*Node {
	nodes := make([]*Node, 0, len(w.nodes))
	for _, node := range w.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// MoveNodeTo repositions a node on the canvas
func (w *Workspace) MoveNodeTo(node *Node, pos geometry.Point) {
	node.Position = pos
}

// Connect links two connections. Both must be type-compatible; an occupied
// neighbour is only accepted when marked replaceable, in which case its
// previous peer is released first.
func (w *Workspace) Connect(local, neighbour *Connection) error {
	if local == nil || neighbour == nil {
		return fmt.Errorf("cannot connect nil connection")
	}
	if !local.Type.Compatible(neighbour.Type) {
		return fmt.Errorf("incompatible connection types: %s and %s", local.Type, neighbour.Type)
	}
	if local.Occupied() {
		return fmt.Errorf("connection %s is occupied", local.ID)
	}
	if neighbour.Occupied() {
		if !neighbour.Replaceable {
			return fmt.Errorf("connection %s is occupied", neighbour.ID)
		}
		w.disconnect(neighbour)
	}
	local.Target = neighbour
	neighbour.Target = local
	return nil
}

// DisconnectAll severs every connection on a node
func (w *Workspace) DisconnectAll(node *Node) {
	for _, conn := range node.Connections {
		if conn.Occupied() {
			w.disconnect(conn)
		}
	}
}

// disconnect severs one link from both ends
func (w *Workspace) disconnect(conn *Connection) {
	if conn.Target != nil {
		conn.Target.Target = nil
		conn.Target = nil
	}
}

// OtherConnections returns every connection in the workspace not owned by
// the excluded node, ordered by node ID then connection index so candidate
// ranking is reproducible
func (w *Workspace) OtherConnections(exclude *Node) []*Connection {
	conns := make([]*Connection, 0)
	for _, node := range w.Nodes() {
		if exclude != nil && node.ID == exclude.ID {
			continue
		}
		conns = append(conns, node.Connections...)
	}
	return conns
}

// Viewport returns the current viewport
func (w *Workspace) Viewport() geometry.Viewport {
	return w.viewport
}

// SetViewport updates the pan/zoom state
func (w *Workspace) SetViewport(v geometry.Viewport) {
	w.viewport = v
}

// SetPolicy installs a movability policy evaluated by Movable
func (w *Workspace) SetPolicy(policy *MovePolicy) {
	w.policy = policy
}

// Movable reports whether the policy allows moving the node.
// Without a policy every node is movable.
func (w *Workspace) Movable(node *Node) (bool, error) {
	if w.policy == nil {
		return true, nil
	}
	return w.policy.Movable(node)
}

// Capabilities returns the workspace wired as a host capability contract
func (w *Workspace) Capabilities() Capabilities {
	return Capabilities{
		GetNode:               w.Node,
		ConnectionsCompatible: func(a, b ConnectionType) bool { return a.Compatible(b) },
		MoveNodeTo:            w.MoveNodeTo,
		Connect:               w.Connect,
		DisconnectAll:         w.DisconnectAll,
		Viewport:              w.Viewport,
		OtherConnections:      w.OtherConnections,
		DeleteNode:            func(node *Node) { _ = w.RemoveNode(node.ID) },
	}
}
