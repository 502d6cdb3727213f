package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/brainac-app/brainac/pkg/client"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back-office commands (admin accounts only)",
	}

	cmd.AddCommand(newAdminStudentsCmd())
	cmd.AddCommand(newAdminStudentCmd())

	return cmd
}

func newAdminStudentsCmd() *cobra.Command {
	var class int
	var status, search string

	cmd := &cobra.Command{
		Use:   "students",
		Short: "List registered students",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSubscription(cmd); err != nil {
				return err
			}

			opts := &client.StudentListOptions{}
			if class > 0 {
				opts.Class = &class
			}
			if status != "" {
				opts.SubscriptionStatus = &status
			}
			opts.Search = search

			students, err := apiClient.Admin().ListStudents(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list students: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(students)
			}

			table := NewTable("EMAIL", "NAME", "CLASS", "SUBSCRIPTION")
			for _, s := range students {
				table.AddRow(
					s.Email,
					s.DisplayName,
					strconv.Itoa(s.Class),
					formatSubscription(s.SubscriptionStatus),
				)
			}
			table.Render()
			fmt.Printf("\n%d students\n", len(students))
			return nil
		},
	}

	cmd.Flags().IntVar(&class, "class", 0, "filter by class")
	cmd.Flags().StringVar(&status, "subscription", "", "filter by subscription status")
	cmd.Flags().StringVar(&search, "search", "", "search by name or email")

	return cmd
}

func newAdminStudentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "student <uid>",
		Short: "Show a student's account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSubscription(cmd); err != nil {
				return err
			}

			student, err := apiClient.Admin().GetStudent(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch student: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(student)
			}

			fmt.Printf("UID:          %s\n", student.UID)
			fmt.Printf("Email:        %s\n", student.Email)
			fmt.Printf("Name:         %s\n", student.DisplayName)
			fmt.Printf("Class:        %d\n", student.Class)
			fmt.Printf("Subscription: %s\n", formatSubscription(student.SubscriptionStatus))
			if student.TrialEndDate != nil {
				fmt.Printf("Trial ends:   %s\n", student.TrialEndDate.Format("2006-01-02"))
			}
			if student.CreatedAt != nil {
				fmt.Printf("Joined:       %s\n", student.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}
