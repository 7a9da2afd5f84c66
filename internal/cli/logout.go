package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLogoutCmd creates and returns a new logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newSession(false)
			if err != nil {
				return err
			}
			mgr.Logout(cmd.Context())

			if jsonOutput {
				printJSON(map[string]string{
					"status":  "success",
					"message": "Logged out",
				})
			} else {
				okLabel.Println("✓ Logged out")
			}
			return nil
		},
	}
}

// newWhoamiCmd creates and returns a new whoami command
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account behind the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			user, env := svc.Auth.Me(cmd.Context())
			if !env.Success {
				return envelopeError(env)
			}

			if jsonOutput {
				printJSON(user)
				return nil
			}
			fmt.Printf("Name:  %s\n", user.Name)
			fmt.Printf("Email: %s\n", user.Email)
			fmt.Printf("Role:  %s\n", user.Role)
			if user.Status != "" {
				fmt.Printf("Status: %s\n", user.Status)
			}
			return nil
		},
	}
}
