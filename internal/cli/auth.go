package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthWhoamiCmd())
	cmd.AddCommand(newAuthRefreshCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput("Email: ")
			}
			if password == "" {
				password = promptPassword("Password: ")
			}

			if !sessions.Login(cmd.Context(), email, password) {
				return fmt.Errorf("login failed")
			}

			sess := sessions.Current()
			fmt.Printf("Logged in as %s\n", sess.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var email, password, firstName, lastName string
	var grade int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new student account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput("Email: ")
			}
			if firstName == "" {
				firstName = promptInput("First name: ")
			}
			if lastName == "" {
				lastName = promptInput("Last name: ")
			}
			if grade == 0 {
				fmt.Sscanf(promptInput("Class (grade level): "), "%d", &grade)
			}
			if password == "" {
				password = promptPassword("Password: ")
				confirm := promptPassword("Confirm password: ")
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}

			if !sessions.Signup(cmd.Context(), firstName, lastName, email, password, grade) {
				return fmt.Errorf("registration failed")
			}

			fmt.Printf("Account created. Logged in as %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().IntVar(&grade, "class", 0, "class (grade level)")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions.Logout()
			fmt.Println("Logged out successfully")
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuthenticated(); err != nil {
				return err
			}
			sess := sessions.Current()

			format := getOutputFormat()
			if format != "table" {
				return printOutput(sess)
			}

			fmt.Printf("Email:        %s\n", sess.Email)
			fmt.Printf("Name:         %s\n", sess.FullName())
			fmt.Printf("Class:        %d\n", sess.Grade)
			fmt.Printf("Subscription: %s\n", sess.SubscriptionStatus)
			if sess.TrialEndsAt != nil {
				fmt.Printf("Trial ends:   %s\n", sess.TrialEndsAt.Format("2006-01-02"))
			}
			if sess.SubscriptionEndsAt != nil {
				fmt.Printf("Renews:       %s\n", sess.SubscriptionEndsAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch the profile and update the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sessions.RefreshProfile(cmd.Context()) {
				return fmt.Errorf("profile refresh failed")
			}
			sess := sessions.Current()
			fmt.Printf("Profile refreshed for %s\n", sess.Email)
			return nil
		},
	}
}

func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}
