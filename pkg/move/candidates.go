package move

import (
	"math"
	"sort"

	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
)

// Candidate is a compatible, reachable connection pair considered for
// snapping. Computed fresh each update; never persisted beyond the current
// session tick.
type Candidate struct {
	// Local is the moving node's connection
	Local *graph.Connection
	// Neighbour is the workspace connection it would snap to
	Neighbour *graph.Connection
	// Distance is the anchor distance in canvas units
	Distance float64
}

// Same reports whether two candidates describe the same connection pair
func (c *Candidate) Same(other *Candidate) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Local == other.Local && c.Neighbour == other.Neighbour
}

// key uniquely identifies the connection pair for overlay diffing
func (c *Candidate) key() string {
	return c.Local.ID + "\x00" + c.Neighbour.ID
}

// Finder discovers and ranks compatible nearby connections for a moving
// node. Ranking is fully deterministic so tests are reproducible.
type Finder struct {
	// compatible is the host's pairing predicate
	compatible func(a, b graph.ConnectionType) bool
	// snapDistance is the maximum candidate distance in canvas units
	snapDistance float64
}

// NewFinder creates a finder with the host's compatibility predicate and
// the configured snap distance
func NewFinder(compatible func(a, b graph.ConnectionType) bool, snapDistance float64) *Finder {
	return &Finder{
		compatible: compatible,
		snapDistance: snapDistance,
	}
}

// SnapDistance returns the configured snap threshold
func (f *Finder) SnapDistance() float64 {
	return f.snapDistance
}

// Best returns the lowest-ranked candidate for the node positioned at the
// given canvas point, or nil when nothing is within the snap distance.
//
// Ties on distance are broken by preferring previous/next over
// input/output pairs, then the lowest neighbour node ID, then the lowest
// neighbour connection index.
func (f *Finder) Best(node *graph.Node, position geometry.Point, others []*graph.Connection) *Candidate {
	candidates := f.collect(node, position, others)
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return f.rankLess(candidates[i], candidates[j])
	})
	return candidates[0]
}

// Ordered returns every candidate within the snap distance sorted by the
// angle from the node's position to the neighbour anchor, then by
// distance. Keyboard modality cycles this list with wraparound; it is
// recomputed when the node's unconstrained position changes, not on every
// cycle step.
func (f *Finder) Ordered(node *graph.Node, position geometry.Point, others []*graph.Connection) []*Candidate {
	candidates := f.collect(node, position, others)

	sort.SliceStable(candidates, func(i, j int) bool {
		ai := normalizeAngle(position.AngleTo(candidates[i].Neighbour.Anchor()))
		aj := normalizeAngle(position.AngleTo(candidates[j].Neighbour.Anchor()))
		if ai != aj {
			return ai < aj
		}
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return f.rankLess(candidates[i], candidates[j])
	})
	return candidates
}

// collect builds all (local, neighbour) pairs that are compatible,
// available and within the snap distance, with the node treated as if it
// were at the candidate position
func (f *Finder) collect(node *graph.Node, position geometry.Point, others []*graph.Connection) []*Candidate {
	locals := node.OpenConnections()
	candidates := make([]*Candidate, 0, len(locals))

	for _, local := range locals {
		localAnchor := local.AnchorAt(position)
		for _, neighbour := range others {
			if neighbour.Node == node {
				continue
			}
			if !f.compatible(local.Type, neighbour.Type) {
				continue
			}
			if neighbour.Occupied() && !neighbour.Replaceable {
				continue
			}
			distance := localAnchor.DistanceTo(neighbour.Anchor())
			if distance > f.snapDistance {
				continue
			}
			candidates = append(candidates, &Candidate{
				Local:     local,
				Neighbour: neighbour,
				Distance:  distance,
			})
		}
	}
	return candidates
}

// rankLess is the deterministic candidate ordering: distance, connection
// type priority, neighbour node ID, neighbour connection index
func (f *Finder) rankLess(a, b *Candidate) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	pa, pb := typePriority(a.Local.Type), typePriority(b.Local.Type)
	if pa != pb {
		return pa < pb
	}
	if a.Neighbour.Node.ID != b.Neighbour.Node.ID {
		return a.Neighbour.Node.ID < b.Neighbour.Node.ID
	}
	ia := a.Neighbour.Node.ConnectionIndex(a.Neighbour)
	ib := b.Neighbour.Node.ConnectionIndex(b.Neighbour)
	return ia < ib
}

// typePriority orders stack-style connections ahead of value connections
func typePriority(t graph.ConnectionType) int {
	switch t {
	case graph.ConnectionPrevious:
		return 0
	case graph.ConnectionNext:
		return 1
	case graph.ConnectionInput:
		return 2
	case graph.ConnectionOutput:
		return 3
	default:
		return 4
	}
}

// normalizeAngle maps an Atan2 result into [0, 2*Pi) so angular ordering
// starts at the positive X axis
func normalizeAngle(angle float64) float64 {
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}
