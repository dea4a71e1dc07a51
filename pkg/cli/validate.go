package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/gomove/pkg/graph"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate <workspace-file>",
		Short: "Validate a workspace fixture",
		Long: `Validate a workspace fixture file for correctness.

This checks:
- JSON structure against the workspace schema
- Node and connection identifiers are unique
- Links reference existing connections
- Linked connection types are compatible

Examples:
  gomove validate workspace.json
  gomove validate workspace.json --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			workspace, err := graph.LoadWorkspaceFile(path)
			if err != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStderr(), "✗ Workspace validation failed")
				if verbose {
					_, _ = fmt.Fprintf(cmd.OutOrStderr(), "  Error: %v\n", err)
				}
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Workspace schema valid")

			nodes := workspace.Nodes()
			connections := 0
			links := 0
			for _, node := range nodes {
				connections += len(node.Connections)
				for _, conn := range node.Connections {
					if conn.Occupied() {
						links++
					}
				}
			}
			// Each link is counted from both ends
			links /= 2

			if verbose {
				for _, node := range nodes {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  node %s (%s) at (%.0f, %.0f), %d connections\n",
						node.ID, node.Type, node.Position.X, node.Position.Y, len(node.Connections))
				}
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Workspace '%s' is valid\n", path)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d nodes, %d connections, %d links\n", len(nodes), connections, links)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed workspace information")

	return cmd
}
