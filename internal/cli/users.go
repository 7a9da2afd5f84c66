package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/api"
)

// newUsersCmd creates the users command tree.
func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage Pulseboard users",
	}
	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersGetCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersUpdateCmd())
	cmd.AddCommand(newUsersDeleteCmd())
	cmd.AddCommand(newUsersExportCmd())
	cmd.AddCommand(newUsersOrdersCmd())
	return cmd
}

func newUsersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			opts := api.UserListOptions{}
			opts.Search, _ = cmd.Flags().GetString("search")
			opts.Role, _ = cmd.Flags().GetString("role")
			opts.Status, _ = cmd.Flags().GetString("status")
			opts.Page, _ = cmd.Flags().GetInt("page")
			opts.Limit, _ = cmd.Flags().GetInt("limit")

			page, env := svc.Users.List(cmd.Context(), opts)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(page)
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
			for _, u := range page.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, u.Status)
			}
			w.Flush()
			fmt.Printf("Page %d of %d (%d users)\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	cmd.Flags().String("search", "", "Filter by name or email substring")
	cmd.Flags().String("role", "", "Filter by role")
	cmd.Flags().String("status", "", "Filter by status")
	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("limit", 0, "Page size")
	return cmd
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <user-id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			user, env := svc.Users.Get(cmd.Context(), args[0])
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(user)
				return nil
			}
			fmt.Printf("ID:      %s\n", user.ID)
			fmt.Printf("Name:    %s\n", user.Name)
			fmt.Printf("Email:   %s\n", user.Email)
			fmt.Printf("Role:    %s\n", user.Role)
			fmt.Printf("Status:  %s\n", user.Status)
			fmt.Printf("Created: %s\n", user.CreatedAt)
			return nil
		},
	}
}

func newUsersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			req := api.UserCreate{}
			req.Name, _ = cmd.Flags().GetString("name")
			req.Email, _ = cmd.Flags().GetString("email")
			req.Password, _ = cmd.Flags().GetString("password")
			req.Role, _ = cmd.Flags().GetString("role")

			user, env := svc.Users.Create(cmd.Context(), req)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(user)
				return nil
			}
			okLabel.Printf("✓ User %s created\n", user.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password")
	cmd.Flags().String("role", "user", "Role: admin, manager, or user")
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user's fields",
		Long: `Update a user. Only the flags you pass are changed; everything else
is left as is.

Example:
  pulseboard users update 0198f3a2-... --status suspended`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			req := api.UserUpdate{}
			if cmd.Flags().Changed("name") {
				v, _ := cmd.Flags().GetString("name")
				req.Name = &v
			}
			if cmd.Flags().Changed("email") {
				v, _ := cmd.Flags().GetString("email")
				req.Email = &v
			}
			if cmd.Flags().Changed("role") {
				v, _ := cmd.Flags().GetString("role")
				req.Role = &v
			}
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				req.Status = &v
			}

			user, env := svc.Users.Update(cmd.Context(), args[0], req)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(user)
				return nil
			}
			okLabel.Printf("✓ User %s updated\n", user.ID)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("role", "", "Role: admin, manager, or user")
	cmd.Flags().String("status", "", "Status: active, inactive, or suspended")
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			env := svc.Users.Delete(cmd.Context(), args[0])
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(map[string]string{"status": "success"})
				return nil
			}
			okLabel.Println("✓ User deleted")
			return nil
		},
	}
}

func newUsersExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export users as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			result, env := svc.Users.Export(cmd.Context(), format)
			if !env.Success {
				return envelopeError(env)
			}
			return writeExport(cmd, result)
		},
	}
	cmd.Flags().String("format", "csv", "Export format")
	cmd.Flags().String("output", "", "Write to a file instead of stdout")
	return cmd
}

func newUsersOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders <user-id>",
		Short: "List a user's orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			opts := api.PageOptions{}
			opts.Page, _ = cmd.Flags().GetInt("page")
			opts.Limit, _ = cmd.Flags().GetInt("limit")

			page, env := svc.Orders.ListByUser(cmd.Context(), args[0], opts)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(page)
				return nil
			}
			printOrderTable(page)
			return nil
		},
	}
	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("limit", 0, "Page size")
	return cmd
}

// writeExport sends an export payload to --output or stdout.
func writeExport(cmd *cobra.Command, result api.ExportResult) error {
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Print(result.Content)
		return nil
	}
	if err := os.WriteFile(output, []byte(result.Content), 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if !jsonOutput {
		okLabel.Printf("✓ Export written to %s\n", output)
	}
	return nil
}
