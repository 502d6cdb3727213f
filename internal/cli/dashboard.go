package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your learning dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSubscription(cmd); err != nil {
				return err
			}

			summary, err := apiClient.Dashboard(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dashboard: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			sess := sessions.Current()
			fmt.Printf("Welcome back, %s!\n\n", sess.FirstName)
			fmt.Printf("  Streak:      %d days\n", summary.StreakDays)
			fmt.Printf("  Points:      %d\n", summary.Points)
			fmt.Printf("  Rank:        #%d\n", summary.Rank)
			fmt.Printf("  Study time:  %d min this week\n", summary.StudyMinutes)

			if len(summary.Subjects) > 0 {
				fmt.Println()
				table := NewTable("SUBJECT", "PROGRESS", "CHAPTERS")
				for _, s := range summary.Subjects {
					table.AddRow(
						s.SubjectName,
						formatPercent(s.Percent),
						fmt.Sprintf("%d/%d", s.CompletedCount, s.TotalCount),
					)
				}
				table.Render()
			}

			announcements, err := apiClient.ListAnnouncements(cmd.Context())
			if err == nil && len(announcements) > 0 {
				fmt.Println("\nAnnouncements:")
				for _, a := range announcements {
					fmt.Printf("  %s  %s\n", a.CreatedAt.Format("Jan 02"), a.Title)
				}
			}
			return nil
		},
	}
}
