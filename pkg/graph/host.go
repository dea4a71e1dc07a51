package graph

import (
	"fmt"

	"github.com/dshills/gomove/pkg/geometry"
)

// Capabilities is the narrow contract the move engine consumes from its
// host. The engine never reaches past this contract into host internals;
// every required primitive is checked at construction time and a missing
// one fails fast with MissingCapabilityError.
//
// All callbacks run synchronously on the host's event loop.
type Capabilities struct {
	// GetNode resolves a node by ID
	GetNode func(id string) (*Node, bool)
	// ConnectionsCompatible reports whether two connection types may pair
	ConnectionsCompatible func(a, b ConnectionType) bool
	// MoveNodeTo immediately and visibly repositions a node
	MoveNodeTo func(node *Node, pos geometry.Point)
	// Connect links two open or replaceable connections
	Connect func(local, neighbour *Connection) error
	// DisconnectAll severs every connection on a node
	DisconnectAll func(node *Node)
	// Viewport returns the current pan and zoom state
	Viewport func() geometry.Viewport
	// OtherConnections returns all workspace connections not owned by the
	// excluded node
	OtherConnections func(exclude *Node) []*Connection

	// DeleteNode removes a node from the workspace. Optional; when nil,
	// deletion targets are disabled.
	DeleteNode func(node *Node)
}

// MissingCapabilityError indicates a required host primitive was absent
// at construction time
type MissingCapabilityError struct {
	Capability string
}

// Error implements the error interface
func (e *MissingCapabilityError) Error() string {
	return fmt.Sprintf("missing host capability: %s", e.Capability)
}

// Validate checks that every required primitive is present.
// Returns the first MissingCapabilityError found, or nil.
func (c Capabilities) Validate() error {
	required := []struct {
		name    string
		present bool
	}{
		{"GetNode", c.GetNode != nil},
		{"ConnectionsCompatible", c.ConnectionsCompatible != nil},
		{"MoveNodeTo", c.MoveNodeTo != nil},
		{"Connect", c.Connect != nil},
		{"DisconnectAll", c.DisconnectAll != nil},
		{"Viewport", c.Viewport != nil},
		{"OtherConnections", c.OtherConnections != nil},
	}
	for _, req := range required {
		if !req.present {
			return &MissingCapabilityError{Capability: req.name}
		}
	}
	return nil
}
