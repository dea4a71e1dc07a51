package graph

import (
	"errors"
	"fmt"

	"github.com/dshills/gomove/pkg/geometry"
)

// ConnectionType identifies the kind of socket a connection exposes
type ConnectionType int

const (
	// ConnectionPrevious links upward to a preceding node's next connection
	ConnectionPrevious ConnectionType = iota
	// ConnectionNext links downward to a following node's previous connection
	ConnectionNext
	// ConnectionInput receives a value from an output connection
	ConnectionInput
	// ConnectionOutput supplies a value to an input connection
	ConnectionOutput
)

// String returns the lowercase name of the connection type
func (t ConnectionType) String() string {
	switch t {
	case ConnectionPrevious:
		return "previous"
	case ConnectionNext:
		return "next"
	case ConnectionInput:
		return "input"
	case ConnectionOutput:
		return "output"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseConnectionType converts a type name to a ConnectionType
func ParseConnectionType(s string) (ConnectionType, error) {
	switch s {
	case "previous":
		return ConnectionPrevious, nil
	case "next":
		return ConnectionNext, nil
	case "input":
		return ConnectionInput, nil
	case "output":
		return ConnectionOutput, nil
	default:
		return 0, fmt.Errorf("unknown connection type: %s", s)
	}
}

// Compatible reports the default pairing rule: previous pairs with next,
// input pairs with output. Hosts may override through their capability.
func (t ConnectionType) Compatible(other ConnectionType) bool {
	switch t {
	case ConnectionPrevious:
		return other == ConnectionNext
	case ConnectionNext:
		return other == ConnectionPrevious
	case ConnectionInput:
		return other == ConnectionOutput
	case ConnectionOutput:
		return other == ConnectionInput
	default:
		return false
	}
}

// Connection is a typed socket on a node that may link to a compatible
// socket on another node. The anchor point is expressed as an offset from
// the owning node's position so it follows the node while it moves.
type Connection struct {
	ID   string
	Type ConnectionType
	// Node is the owning node
	Node *Node
	// Offset is the anchor position relative to the owning node
	Offset geometry.Point
	// Target is the connected peer connection, nil when open
	Target *Connection
	// Replaceable marks an occupied connection the host allows to be
	// disconnected in favour of a new peer
	Replaceable bool
}

// Anchor returns the connection's anchor point with the node at its
// current position
func (c *Connection) Anchor() geometry.Point {
	return c.Node.Position.Add(c.Offset)
}

// AnchorAt returns the connection's anchor point as if the owning node
// were positioned at the given canvas point
func (c *Connection) AnchorAt(nodePos geometry.Point) geometry.Point {
	return nodePos.Add(c.Offset)
}

// Occupied reports whether the connection currently has a peer
func (c *Connection) Occupied() bool {
	return c.Target != nil
}

// Validate checks the connection for structural problems
func (c *Connection) Validate() error {
	if c.ID == "" {
		return errors.New("connection: empty connection ID")
	}
	if c.Node == nil {
		return fmt.Errorf("connection %s: no owning node", c.ID)
	}
	return nil
}

// Node is a movable graphical element with a canvas position, a bounding
// box and an ordered list of typed connections. Nodes are owned by the
// host; the engine only reads and repositions them during a session.
type Node struct {
	ID        string
	Type      string
	Position  geometry.Point
	Size      geometry.Size
	Collapsed bool
	// Connections is ordered; the index is part of the deterministic
	// candidate ranking
	Connections []*Connection
}

// Bounds returns the node's bounding box at its current position
func (n *Node) Bounds() geometry.BoundingBox {
	return geometry.BoundingBox{TopLeft: n.Position, Size: n.Size}
}

// OpenConnections returns the node's connections that have no peer,
// preserving declaration order
func (n *Node) OpenConnections() []*Connection {
	open := make([]*Connection, 0, len(n.Connections))
	for _, conn := range n.Connections {
		if !conn.Occupied() {
			open = append(open, conn)
		}
	}
	return open
}

// ConnectionIndex returns the position of conn in the node's ordered
// connection list, or -1 if the connection does not belong to this node
func (n *Node) ConnectionIndex(conn *Connection) int {
	for i, c := range n.Connections {
		if c == conn {
			return i
		}
	}
	return -1
}

// Validate checks the node and its connections for structural problems
func (n *Node) Validate() error {
	if n.ID == "" {
		return errors.New("node: empty node ID")
	}
	seen := make(map[string]bool, len(n.Connections))
	for _, conn := range n.Connections {
		if err := conn.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, err)
		}
		if conn.Node != n {
			return fmt.Errorf("node %s: connection %s owned by another node", n.ID, conn.ID)
		}
		if seen[conn.ID] {
			return fmt.Errorf("node %s: duplicate connection ID %s", n.ID, conn.ID)
		}
		seen[conn.ID] = true
	}
	return nil
}
