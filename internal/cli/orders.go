package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/api"
)

// newOrdersCmd creates the orders command tree.
func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Manage Pulseboard orders",
	}
	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersGetCmd())
	cmd.AddCommand(newOrdersCreateCmd())
	cmd.AddCommand(newOrdersUpdateCmd())
	cmd.AddCommand(newOrdersDeleteCmd())
	cmd.AddCommand(newOrdersExportCmd())
	return cmd
}

// printOrderTable renders a page of orders for the terminal.
func printOrderTable(page api.Paginated[api.Order]) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCUSTOMER\tTOTAL\tSTATUS\tPAYMENT\tCREATED")
	for _, o := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			o.ID, o.CustomerName, o.Total, o.Status, o.PaymentStatus, o.CreatedAt)
	}
	w.Flush()
	fmt.Printf("Page %d of %d (%d orders)\n", page.Page, page.TotalPages, page.Total)
}

func newOrdersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			// --user narrows to one user's orders via the dedicated
			// endpoint.
			if user, _ := cmd.Flags().GetString("user"); user != "" {
				opts := api.PageOptions{}
				opts.Page, _ = cmd.Flags().GetInt("page")
				opts.Limit, _ = cmd.Flags().GetInt("limit")
				page, env := svc.Orders.ListByUser(cmd.Context(), user, opts)
				if !env.Success {
					return envelopeError(env)
				}
				if jsonOutput {
					printJSON(page)
					return nil
				}
				printOrderTable(page)
				return nil
			}

			opts := api.OrderListOptions{}
			opts.Search, _ = cmd.Flags().GetString("search")
			opts.Status, _ = cmd.Flags().GetString("status")
			opts.From, _ = cmd.Flags().GetString("from")
			opts.To, _ = cmd.Flags().GetString("to")
			opts.Page, _ = cmd.Flags().GetInt("page")
			opts.Limit, _ = cmd.Flags().GetInt("limit")

			page, env := svc.Orders.List(cmd.Context(), opts)
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
	cmd.Flags().String("search", "", "Filter by customer name or email substring")
	cmd.Flags().String("user", "", "Only orders placed by this user ID")
	cmd.Flags().String("status", "", "Filter by order status")
	cmd.Flags().String("from", "", "Only orders created at or after this RFC3339 time")
	cmd.Flags().String("to", "", "Only orders created at or before this RFC3339 time")
	cmd.Flags().Int("page", 0, "Page number")
	cmd.Flags().Int("limit", 0, "Page size")
	return cmd
}

func newOrdersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show a single order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			order, env := svc.Orders.Get(cmd.Context(), args[0])
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(order)
				return nil
			}
			fmt.Printf("ID:       %s\n", order.ID)
			fmt.Printf("Customer: %s <%s>\n", order.CustomerName, order.CustomerEmail)
			fmt.Printf("Status:   %s (payment %s)\n", order.Status, order.PaymentStatus)
			fmt.Printf("Total:    %.2f\n", order.Total)
			fmt.Printf("Created:  %s\n", order.CreatedAt)
			fmt.Println("Items:")
			for _, item := range order.Items {
				fmt.Printf("  %dx %s @ %.2f\n", item.Quantity, item.ProductName, item.Price)
			}
			return nil
		},
	}
}

func newOrdersCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create -f <order.json>",
		Short: "Create an order from a JSON file",
		Long: `Create an order described by a JSON file with userId, customerName,
customerEmail, and items. Pass "-" to read from stdin.

Example:
  pulseboard orders create -f order.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				return fmt.Errorf("no input file provided. Use -f")
			}
			var raw []byte
			var err error
			if file == "-" {
				raw, err = readAllStdin()
			} else {
				raw, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("failed to read order file: %w", err)
			}
			var req api.OrderCreate
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("failed to parse order file: %w", err)
			}

			svc, err := newAPI()
			if err != nil {
				return err
			}
			order, env := svc.Orders.Create(cmd.Context(), req)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(order)
				return nil
			}
			okLabel.Printf("✓ Order %s created, total %.2f\n", order.ID, order.Total)
			return nil
		},
	}
	cmd.Flags().StringP("file", "f", "", "Path to the order JSON file, or - for stdin")
	return cmd
}

func newOrdersUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <order-id>",
		Short: "Update an order's statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			req := api.OrderUpdate{}
			if cmd.Flags().Changed("status") {
				v, _ := cmd.Flags().GetString("status")
				req.Status = &v
			}
			if cmd.Flags().Changed("payment-status") {
				v, _ := cmd.Flags().GetString("payment-status")
				req.PaymentStatus = &v
			}

			order, env := svc.Orders.Update(cmd.Context(), args[0], req)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(order)
				return nil
			}
			okLabel.Printf("✓ Order %s updated\n", order.ID)
			return nil
		},
	}
	cmd.Flags().String("status", "", "Order status: pending, processing, completed, or cancelled")
	cmd.Flags().String("payment-status", "", "Payment status: pending, paid, or failed")
	return cmd
}

func newOrdersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <order-id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			env := svc.Orders.Delete(cmd.Context(), args[0])
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(map[string]string{"status": "success"})
				return nil
			}
			okLabel.Println("✓ Order deleted")
			return nil
		},
	}
}

func newOrdersExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export orders as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			opts := api.ExportOptions{}
			opts.Format, _ = cmd.Flags().GetString("format")
			opts.Status, _ = cmd.Flags().GetString("status")
			opts.From, _ = cmd.Flags().GetString("from")
			opts.To, _ = cmd.Flags().GetString("to")

			result, env := svc.Orders.Export(cmd.Context(), opts)
			if !env.Success {
				return envelopeError(env)
			}
			return writeExport(cmd, result)
		},
	}
	cmd.Flags().String("format", "csv", "Export format")
	cmd.Flags().String("status", "", "Only orders with this status")
	cmd.Flags().String("from", "", "Only orders created at or after this RFC3339 time")
	cmd.Flags().String("to", "", "Only orders created at or before this RFC3339 time")
	cmd.Flags().String("output", "", "Write to a file instead of stdout")
	return cmd
}

// readAllStdin reads stdin to EOF.
func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}
