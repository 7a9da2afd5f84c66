package cli

import (
	"github.com/spf13/cobra"
)

// newRegisterCmd creates and returns a new register command
func newRegisterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new Pulseboard account",
		Long: `Create a new Pulseboard account. Registration does not sign you in;
run "pulseboard login" afterwards.

Example:
  pulseboard register --name "Ada Byron" --email ada@example.com`,
		RunE: runRegister,
	}

	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	return cmd
}

func runRegister(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	var err error
	if name == "" {
		if name, err = promptLine("Name: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = promptLine("Email: "); err != nil {
			return err
		}
	}
	confirm := password
	if password == "" {
		if password, err = promptLine("Password: "); err != nil {
			return err
		}
		if confirm, err = promptLine("Confirm password: "); err != nil {
			return err
		}
	}

	mgr, _, err := newSession(true)
	if err != nil {
		return err
	}
	if err := mgr.Register(cmd.Context(), name, email, password, confirm); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]string{
			"status":  "success",
			"message": "Account created",
		})
	} else {
		okLabel.Println("✓ Account created")
	}
	return nil
}
