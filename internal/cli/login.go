package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the Pulseboard server",
		Long: `Sign in to the Pulseboard server and store the session token in your
configuration file.

Example:
  pulseboard login --email admin@pulseboard.io --password admin123
  pulseboard login --email admin@pulseboard.io  # prompts for the password`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	var err error
	if email == "" {
		if email, err = promptLine("Email: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	mgr, _, err := newSession(true)
	if err != nil {
		return err
	}
	if err := mgr.Login(cmd.Context(), email, password); err != nil {
		return err
	}

	user := mgr.CurrentUser()
	if jsonOutput {
		kv := map[string]any{
			"status": "success",
			"user":   user,
		}
		printJSON(kv)
	} else {
		okLabel.Println("✓ Login successful")
		if user != nil {
			fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
		}
	}
	return nil
}

// promptLine reads a single line from stdin after printing a prompt.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
