package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/dshills/gomove/pkg/geometry"
)

// workspaceSchema validates workspace fixture files before they are
// unmarshalled. Rejecting malformed fixtures here keeps the loader's error
// messages actionable instead of failing deep inside graph construction.
const workspaceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "viewport": {
      "type": "object",
      "properties": {
        "pan_x": {"type": "number"},
        "pan_y": {"type": "number"},
        "zoom": {"type": "number"}
      }
    },
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "x", "y"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "x": {"type": "number"},
          "y": {"type": "number"},
          "width": {"type": "number"},
          "height": {"type": "number"},
          "collapsed": {"type": "boolean"},
          "connections": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "type"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "type": {"enum": ["previous", "next", "input", "output"]},
                "dx": {"type": "number"},
                "dy": {"type": "number"},
                "replaceable": {"type": "boolean"}
              }
            }
          }
        }
      }
    },
    "links": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// fixture mirrors the workspace fixture file format
type fixture struct {
	Viewport *fixtureViewport `json:"viewport,omitempty"`
	Nodes    []fixtureNode    `json:"nodes"`
	Links    []fixtureLink    `json:"links,omitempty"`
}

type fixtureViewport struct {
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
	Zoom float64 `json:"zoom"`
}

type fixtureNode struct {
	ID          string              `json:"id"`
	Type        string              `json:"type,omitempty"`
	X           float64             `json:"x"`
	Y           float64             `json:"y"`
	Width       float64             `json:"width,omitempty"`
	Height      float64             `json:"height,omitempty"`
	Collapsed   bool                `json:"collapsed,omitempty"`
	Connections []fixtureConnection `json:"connections,omitempty"`
}

type fixtureConnection struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	DX          float64 `json:"dx,omitempty"`
	DY          float64 `json:"dy,omitempty"`
	Replaceable bool    `json:"replaceable,omitempty"`
}

type fixtureLink struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LoadWorkspaceFile reads, validates and builds a workspace from a fixture
// file on disk
func LoadWorkspaceFile(path string) (*Workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace fixture: %w", err)
	}
	ws, err := LoadWorkspace(data)
	if err != nil {
		return nil, fmt.Errorf("workspace fixture %s: %w", path, err)
	}
	return ws, nil
}

// LoadWorkspace validates fixture JSON against the workspace schema and
// builds the described workspace
func LoadWorkspace(data []byte) (*Workspace, error) {
	schemaLoader := gojsonschema.NewStringLoader(workspaceSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return nil, fmt.Errorf("invalid workspace fixture: %s", strings.Join(msgs, "; "))
	}

	var fix fixture
	if err := json.Unmarshal(data, &fix); err != nil {
		return nil, fmt.Errorf("failed to parse workspace fixture: %w", err)
	}

	return buildWorkspace(&fix)
}

// buildWorkspace constructs nodes, connections and links from a parsed
// fixture
func buildWorkspace(fix *fixture) (*Workspace, error) {
	ws := NewWorkspace()

	if fix.Viewport != nil {
		ws.SetViewport(geometry.Viewport{
			PanX: fix.Viewport.PanX,
			PanY: fix.Viewport.PanY,
			Zoom: fix.Viewport.Zoom,
		})
	}

	connsByID := make(map[string]*Connection)
	for _, fn := range fix.Nodes {
		node := &Node{
			ID:        fn.ID,
			Type:      fn.Type,
			Position:  geometry.Point{X: fn.X, Y: fn.Y},
			Size:      geometry.Size{Width: fn.Width, Height: fn.Height},
			Collapsed: fn.Collapsed,
		}
		for _, fc := range fn.Connections {
			connType, err := ParseConnectionType(fc.Type)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", fn.ID, err)
			}
			if _, dup := connsByID[fc.ID]; dup {
				return nil, fmt.Errorf("duplicate connection ID: %s", fc.ID)
			}
			conn := &Connection{
				ID:          fc.ID,
				Type:        connType,
				Node:        node,
				Offset:      geometry.Point{X: fc.DX, Y: fc.DY},
				Replaceable: fc.Replaceable,
			}
			node.Connections = append(node.Connections, conn)
			connsByID[fc.ID] = conn
		}
		if err := ws.AddNode(node); err != nil {
			return nil, err
		}
	}

	for _, link := range fix.Links {
		from, ok := connsByID[link.From]
		if !ok {
			return nil, fmt.Errorf("link references unknown connection: %s", link.From)
		}
		to, ok := connsByID[link.To]
		if !ok {
			return nil, fmt.Errorf("link references unknown connection: %s", link.To)
		}
		if err := ws.Connect(from, to); err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", link.From, link.To, err)
		}
	}

	return ws, nil
}
