package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/gomove/pkg/graph"
	"github.com/dshills/gomove/pkg/tui"
)

// NewDemoCommand creates the demo command
func NewDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo <workspace-file>",
		Short: "Run the interactive terminal demo",
		Long: `Run an interactive terminal demo over a workspace fixture.

Keys:
  Tab           select the next node
  Enter         start a move session / connect to the highlighted target
  Arrow keys    cycle through connection targets
  Shift+arrows  step the node without connecting
  Escape        cancel the session and restore the node
  q, Ctrl+C     quit

Examples:
  gomove demo workspace.json
  gomove demo workspace.json --debug`,
		Args: cobra.ExactArgs(1),
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

			app, err := tui.NewApp(workspace, cfg)
			if err != nil {
				return fmt.Errorf("failed to start demo: %w", err)
			}
			defer func() { _ = app.Close() }()

			return app.Run()
		},
	}

	return cmd
}
