package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List subjects for your class",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSubscription(cmd); err != nil {
				return err
			}

			subjects, err := apiClient.ListSubjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list subjects: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(subjects)
			}

			if len(subjects) == 0 {
				fmt.Println("No subjects available for your class yet")
				return nil
			}

			table := NewTable("SUBJECT", "CLASS", "CHAPTERS", "PROGRESS")
			for _, s := range subjects {
				table.AddRow(
					s.Name,
					strconv.Itoa(s.Class),
					strconv.Itoa(s.ChapterCount),
					formatPercent(s.Progress),
				)
			}
			table.Render()
			return nil
		},
	}
}
