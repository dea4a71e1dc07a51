package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/dshills/gomove/pkg/geometry"
	"github.com/dshills/gomove/pkg/graph"
	"github.com/dshills/gomove/pkg/move"
	"github.com/dshills/gomove/pkg/storage"
)

// NewReplayCommand creates the replay command
func NewReplayCommand() *cobra.Command {
	var record bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "replay <workspace-file> <trace-file>",
		Short: "Replay a recorded input trace against a workspace",
		Long: `Replay a recorded input trace against a workspace fixture and print
the resulting workspace state.

The trace is a JSON file with an "events" array. Each event has a "type":
  start    {"type": "start", "node": "a", "x": 100, "y": 100, "modality": "pointer"}
  pointer  {"type": "pointer", "action": "move", "x": 120, "y": 130, "at_ms": 32}
  key      {"type": "key", "key": "right", "modified": false}
  commit   {"type": "commit"}
  cancel   {"type": "cancel"}

Examples:
  gomove replay workspace.json trace.json
  gomove replay workspace.json trace.json --record --verbose`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			workspace, err := graph.LoadWorkspaceFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to load workspace: %w", err)
			}

			if len(cfg.MovableRules) > 0 {
				policy, err := graph.NewMovePolicy(cfg.MovableRules)
				if err != nil {
					return fmt.Errorf("failed to compile move policy: %w", err)
				}
				workspace.SetPolicy(policy)
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read trace: %w", err)
			}
			if !gjson.ValidBytes(data) {
				return fmt.Errorf("trace %s is not valid JSON", args[1])
			}
			events := gjson.GetBytes(data, "events")
			if !events.IsArray() {
				return fmt.Errorf("trace %s has no events array", args[1])
			}

			controller, err := move.NewController(workspace.Capabilities(), cfg, nil)
			if err != nil {
				return err
			}
			defer controller.Dispose()
			controller.SetMovablePredicate(workspace.Movable)

			var hooks move.Events
			if verbose {
				hooks = traceHooks(cmd)
			}
			if record {
				path := cfg.HistoryPath
				var repo *storage.SQLiteHistoryRepository
				if path != "" {
					repo, err = storage.NewSQLiteHistoryRepositoryWithPath(path)
				} else {
					repo, err = storage.NewSQLiteHistoryRepository()
				}
				if err != nil {
					return fmt.Errorf("failed to open history database: %w", err)
				}
				defer func() { _ = repo.Close() }()
				hooks = storage.NewRecorder(repo).Events(hooks)
			}
			controller.SetEvents(hooks)

			base := time.Now()
			for i, ev := range events.Array() {
				if err := replayEvent(controller, workspace, ev, base); err != nil {
					return fmt.Errorf("event %d: %w", i, err)
				}
			}

			// A trace may end mid-session; resolve it the way focus loss does
			if controller.State().Active() {
				controller.CancelSession()
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "trace ended mid-session, cancelled")
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "final workspace:")
			for _, node := range workspace.Nodes() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s at (%.1f, %.1f)\n", node.ID, node.Position.X, node.Position.Y)
				for _, conn := range node.Connections {
					if conn.Occupied() {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "    %s -> %s:%s\n", conn.Type, conn.Target.Node.ID, conn.Target.Type)
					}
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&record, "record", false, "Record session outcomes to the history database")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print session events as they fire")

	return cmd
}

// replayEvent applies one trace event to the controller
func replayEvent(controller *move.Controller, workspace *graph.Workspace, ev gjson.Result, base time.Time) error {
	at := base.Add(time.Duration(ev.Get("at_ms").Int()) * time.Millisecond)
	pos := geometry.Point{X: ev.Get("x").Float(), Y: ev.Get("y").Float()}

	switch ev.Get("type").String() {
	case "start":
		node, ok := workspace.Node(ev.Get("node").String())
		if !ok {
			return fmt.Errorf("unknown node %q", ev.Get("node").String())
		}
		modality, err := parseModality(ev.Get("modality").String())
		if err != nil {
			return err
		}
		return controller.StartSession(node, pos, modality)

	case "pointer":
		pev := move.PointerEvent{Position: pos, Time: at}
		switch ev.Get("action").String() {
		case "down":
			pev.Action = move.PointerDown
		case "move":
			pev.Action = move.PointerMove
		case "up":
			pev.Action = move.PointerUp
		default:
			return fmt.Errorf("unknown pointer action %q", ev.Get("action").String())
		}
		controller.HandlePointer(pev)
		return nil

	case "key":
		kev := move.KeyEvent{Modified: ev.Get("modified").Bool(), Time: at}
		switch ev.Get("key").String() {
		case "up":
			kev.Key = move.KeyUp
		case "down":
			kev.Key = move.KeyDown
		case "left":
			kev.Key = move.KeyLeft
		case "right":
			kev.Key = move.KeyRight
		case "enter":
			kev.Key = move.KeyEnter
		case "escape":
			kev.Key = move.KeyEscape
		default:
			return fmt.Errorf("unknown key %q", ev.Get("key").String())
		}
		controller.HandleKey(kev)
		return nil

	case "commit":
		controller.CommitSession()
		return nil

	case "cancel":
		controller.CancelSession()
		return nil

	default:
		return fmt.Errorf("unknown event type %q", ev.Get("type").String())
	}
}

// parseModality maps a trace modality name to the engine modality
func parseModality(s string) (move.Modality, error) {
	switch s {
	case "", "pointer":
		return move.ModalityPointer, nil
	case "touch":
		return move.ModalityTouch, nil
	case "keyboard":
		return move.ModalityKeyboard, nil
	default:
		return 0, fmt.Errorf("unknown modality %q", s)
	}
}

// traceHooks prints session events to the command output
func traceHooks(cmd *cobra.Command) move.Events {
	out := cmd.OutOrStdout()
	return move.Events{
		SessionStarted: func(s *move.Session) {
			_, _ = fmt.Fprintf(out, "session started: node=%s modality=%s\n", s.Node.ID, s.Modality)
		},
		CandidateChanged: func(c *move.Candidate) {
			if c == nil {
				_, _ = fmt.Fprintln(out, "candidate cleared")
				return
			}
			_, _ = fmt.Fprintf(out, "candidate: %s:%s -> %s:%s (%.1f)\n",
				c.Local.Node.ID, c.Local.Type, c.Neighbour.Node.ID, c.Neighbour.Type, c.Distance)
		},
		SessionCommitted: func(s *move.Session, conn *graph.Connection) {
			if conn != nil {
				_, _ = fmt.Fprintf(out, "committed: node=%s connected=%s:%s\n", s.Node.ID, conn.Node.ID, conn.Type)
				return
			}
			_, _ = fmt.Fprintf(out, "committed: node=%s disconnected drop\n", s.Node.ID)
		},
		SessionCancelled: func(s *move.Session) {
			_, _ = fmt.Fprintf(out, "cancelled: node=%s restored to (%.1f, %.1f)\n",
				s.Node.ID, s.OriginPosition.X, s.OriginPosition.Y)
		},
	}
}
