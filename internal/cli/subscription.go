package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Subscription commands",
	}

	cmd.AddCommand(newSubscriptionStatusCmd())
	cmd.AddCommand(newSubscriptionPlansCmd())

	return cmd
}

func newSubscriptionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show your subscription status",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuthenticated(); err != nil {
				return err
			}

			status, err := apiClient.GetSubscriptionStatus(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch subscription status: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(status)
			}

			fmt.Printf("Status:   %s\n", formatSubscription(status.Status))
			if status.TrialEndDate != nil {
				fmt.Printf("Trial:    ends %s\n", status.TrialEndDate.Format("2006-01-02"))
			}
			if status.SubscriptionEndDate != nil {
				fmt.Printf("Renews:   %s\n", status.SubscriptionEndDate.Format("2006-01-02"))
			}
			if status.IsExpired && status.NeedsSubscription {
				fmt.Println("\nYour trial has ended. Run 'brainac subscription plans' to see options.")
			}
			return nil
		},
	}
}

func newSubscriptionPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available subscription plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := apiClient.ListPlans(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(plans)
			}

			table := NewTable("PLAN", "PRICE", "INTERVAL", "")
			for _, p := range plans {
				marker := ""
				if p.IsCurrent {
					marker = "current"
				} else if p.IsPopular {
					marker = "popular"
				}
				table.AddRow(
					p.Name,
					fmt.Sprintf("%.0f %s", p.Price, p.Currency),
					p.Interval,
					marker,
				)
			}
			table.Render()
			return nil
		},
	}
}
