package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brainac-app/brainac/pkg/client"
)

// filterProgress keeps entries whose subject name contains the query,
// case-insensitively.
func filterProgress(progress []client.SubjectProgress, query string) []client.SubjectProgress {
	query = strings.ToLower(query)
	var out []client.SubjectProgress
	for _, p := range progress {
		if strings.Contains(strings.ToLower(p.SubjectName), query) {
			out = append(out, p)
		}
	}
	return out
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress [subject]",
		Short: "Show your completion progress, optionally for one subject",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSubscription(cmd); err != nil {
				return err
			}

			progress, err := apiClient.GetProgress(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load progress: %w", err)
			}

			if len(args) == 1 {
				progress = filterProgress(progress, args[0])
				if len(progress) == 0 {
					return fmt.Errorf("no subject matching %q", args[0])
				}
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(progress)
			}

			if len(progress) == 0 {
				fmt.Println("No progress recorded yet")
				return nil
			}

			table := NewTable("SUBJECT", "PROGRESS", "CHAPTERS")
			for _, p := range progress {
				table.AddRow(
					p.SubjectName,
					formatPercent(p.Percent),
					fmt.Sprintf("%d/%d", p.CompletedCount, p.TotalCount),
				)
			}
			table.Render()
			return nil
		},
	}
}
