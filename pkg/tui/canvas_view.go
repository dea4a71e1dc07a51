package tui

import (
	"fmt"
	"sort"

	"github.com/dshills/goterm"

	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
	"github.com/dshills/gomove/pkg/move"
)

// ScreenInterface defines the methods required from a goterm.Screen
type ScreenInterface interface {
	Size() (width, height int)
	Clear()
	Show() error
	SetCell(x, y int, cell goterm.Cell)
	DrawText(x, y int, text string, fg, bg goterm.Color, style goterm.Style)
}

// cellScale maps canvas units to terminal cells. Canvas coordinates are
// much finer than a character grid; one cell covers this many units.
const (
	cellScaleX = 10.0
	cellScaleY = 10.0
)

// CanvasView renders a workspace and the live snap highlights for the
// demo. It is the demo's marker backend: the engine's overlay calls
// ShowMarker/HideMarker and the view draws exactly the visible set.
type CanvasView struct {
	workspace *graph.Workspace
	// markers maps candidate pair keys to highlight positions
	markers map[string]geometry.Point
	// selectedID is the node the demo cursor is on
	selectedID string
	// activeID is the node of the running move session, if any
	activeID string
	// status is the one-line message under the canvas
	status string
}

// NewCanvasView creates a view over the workspace
func NewCanvasView(workspace *graph.Workspace) *CanvasView {
	return &CanvasView{
		workspace: workspace,
		markers:   make(map[string]geometry.Point),
	}
}

// ShowMarker draws a highlight for a candidate pair
func (v *CanvasView) ShowMarker(c *move.Candidate) {
	v.markers[c.Local.ID+"\x00"+c.Neighbour.ID] = c.Neighbour.Anchor()
}

// HideMarker removes the highlight for a candidate pair
func (v *CanvasView) HideMarker(c *move.Candidate) {
	delete(v.markers, c.Local.ID+"\x00"+c.Neighbour.ID)
}

// MarkerCount returns the number of visible highlights
func (v *CanvasView) MarkerCount() int {
	return len(v.markers)
}

// SetSelected moves the demo cursor to the given node
func (v *CanvasView) SetSelected(nodeID string) {
	v.selectedID = nodeID
}

// Selected returns the node under the demo cursor
func (v *CanvasView) Selected() string {
	return v.selectedID
}

// SetActive marks the node whose move session is running, empty for none
func (v *CanvasView) SetActive(nodeID string) {
	v.activeID = nodeID
}

// SetStatus sets the message line under the canvas
func (v *CanvasView) SetStatus(status string) {
	v.status = status
}

// Render draws the workspace, highlights and status line to the screen
func (v *CanvasView) Render(screen ScreenInterface) error {
	width, height := screen.Size()
	viewport := v.workspace.Viewport()

	for _, node := range v.workspace.Nodes() {
		v.renderNode(screen, node, viewport, width, height)
	}

	for _, anchor := range v.markers {
		x, y := v.toCell(anchor, viewport)
		if x < 0 || x >= width || y < 0 || y >= height-1 {
			continue
		}
		screen.SetCell(x, y, goterm.NewCell('◆', goterm.ColorRGB(255, 215, 0), goterm.ColorDefault(), goterm.StyleBold))
	}

	if v.status != "" && height > 0 {
		screen.DrawText(0, height-1, v.status, goterm.ColorDefault(), goterm.ColorDefault(), goterm.StyleDim)
	}

	return nil
}

// renderNode draws one node as a labelled box
func (v *CanvasView) renderNode(screen ScreenInterface, node *graph.Node, viewport geometry.Viewport, width, height int) {
	x, y := v.toCell(node.Position, viewport)

	style := goterm.StyleNone
	fg := goterm.ColorDefault()
	switch node.ID {
	case v.activeID:
		style = goterm.StyleBold
		fg = goterm.ColorRGB(80, 250, 123)
	case v.selectedID:
		style = goterm.StyleReverse
	}

	boxW := int(node.Size.Width/cellScaleX) + 2
	if boxW < len(node.ID)+2 {
		boxW = len(node.ID) + 2
	}

	if y >= 0 && y < height-1 {
		screen.DrawText(x, y, "┌"+pad("─", boxW-2)+"┐", fg, goterm.ColorDefault(), style)
	}
	if y+1 >= 0 && y+1 < height-1 {
		label := node.ID
		if len(label) > boxW-2 {
			label = label[:boxW-2]
		}
		screen.DrawText(x, y+1, "│"+centre(label, boxW-2)+"│", fg, goterm.ColorDefault(), style)
	}
	if y+2 >= 0 && y+2 < height-1 {
		screen.DrawText(x, y+2, "└"+pad("─", boxW-2)+"┘", fg, goterm.ColorDefault(), style)
	}
}

// toCell converts a canvas point to a terminal cell through the viewport
func (v *CanvasView) toCell(p geometry.Point, viewport geometry.Viewport) (int, int) {
	zoom := viewport.Zoom
	if zoom == 0 {
		zoom = 1
	}
	x := (p.X - viewport.PanX) * zoom / cellScaleX
	y := (p.Y - viewport.PanY) * zoom / cellScaleY
	return int(x), int(y)
}

// NodeIDs returns the workspace node IDs in stable order for cursor cycling
func (v *CanvasView) NodeIDs() []string {
	nodes := v.workspace.Nodes()
	ids := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ids = append(ids, node.ID)
	}
	sort.Strings(ids)
	return ids
}

// pad repeats a rune string n times
func pad(s string, n int) string {
	if n <= 0 {
		return ""
	}
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

// centre centres text within width
func centre(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	return fmt.Sprintf("%*s%-*s", left+len(s), s, width-left-len(s), "")
}
