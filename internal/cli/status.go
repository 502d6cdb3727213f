package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check API connectivity and session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := apiClient.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("API unreachable: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(map[string]interface{}{
					"api":           health,
					"authenticated": sessions.IsAuthenticated(),
				})
			}

			fmt.Printf("API:      %s", health.Status)
			if health.Version != "" {
				fmt.Printf(" (v%s)", health.Version)
			}
			fmt.Println()

			if sess := sessions.Current(); sess != nil {
				fmt.Printf("Session:  %s (%s)\n", sess.Email, formatSubscription(sess.SubscriptionStatus))
			} else {
				fmt.Println("Session:  not logged in")
			}
			return nil
		},
	}
}
