package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/gomove/pkg/storage"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var limit int
	var nodeID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded move sessions",
		Long: `List move sessions recorded to the history database, most recent
first.

Examples:
  gomove history
  gomove history --limit 50
  gomove history --node node-a`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			var repo *storage.SQLiteHistoryRepository
			if cfg.HistoryPath != "" {
				repo, err = storage.NewSQLiteHistoryRepositoryWithPath(cfg.HistoryPath)
			} else {
				repo, err = storage.NewSQLiteHistoryRepository()
			}
			if err != nil {
				return fmt.Errorf("failed to open history database: %w", err)
			}
			defer func() { _ = repo.Close() }()

			var records []*storage.SessionRecord
			if nodeID != "" {
				records, err = repo.ListByNode(nodeID, limit)
			} else {
				records, err = repo.List(limit)
			}
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "STARTED\tNODE\tMODALITY\tOUTCOME\tFINAL\tDURATION")
			for _, rec := range records {
				final := fmt.Sprintf("(%.0f, %.0f)", rec.FinalX, rec.FinalY)
				if rec.ConnectionID != "" {
					final += " -> " + rec.ConnectionID
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					rec.StartedAt.Format("2006-01-02 15:04:05"),
					rec.NodeID, rec.Modality, rec.Outcome, final,
					rec.Duration().Round(time.Millisecond))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of sessions to show")
	cmd.Flags().StringVar(&nodeID, "node", "", "Only show sessions for this node")

	return cmd
}
