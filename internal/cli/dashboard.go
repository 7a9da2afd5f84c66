package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"

	"github.com/pulseboard/pulseboard/pkg/api"
)

// placeholderStats is shown when the dashboard request fails, so the
// command still renders a complete layout.
func placeholderStats() api.DashboardStats {
	return api.DashboardStats{}
}

// newDashboardCmd creates the dashboard command.
func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the landing dashboard metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			stats, env := svc.Analytics.Dashboard(cmd.Context())
			degraded := false
			if !env.Success {
				if env.SessionExpired {
					return envelopeError(env)
				}
				// Fall back to zeroed metrics rather than failing the
				// whole view.
				errorLabel.Fprintf(os.Stderr, "Warning: %s\n", env.ErrorMessage())
				stats = placeholderStats()
				degraded = true
			}

			if jsonOutput {
				printJSON(map[string]any{
					"degraded": degraded,
					"stats":    stats,
				})
				return nil
			}

			fmt.Printf("Users:    %d\n", stats.TotalUsers)
			fmt.Printf("Orders:   %d\n", stats.TotalOrders)
			fmt.Printf("Revenue:  %.2f\n", stats.TotalRevenue)
			fmt.Printf("Avg order: %.2f\n", stats.AverageOrderValue)

			if len(stats.RecentOrders) > 0 {
				fmt.Println("\nRecent orders:")
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCUSTOMER\tTOTAL\tSTATUS")
				for _, o := range stats.RecentOrders {
					fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", o.ID, o.CustomerName, o.Total, o.Status)
				}
				w.Flush()
			}
			if len(stats.TopProducts) > 0 {
				fmt.Println("\nTop products:")
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tCATEGORY\tSOLD")
				for _, p := range stats.TopProducts {
					fmt.Fprintf(w, "%s\t%s\t%d\n", p.Name, p.Category, p.SoldCount)
				}
				w.Flush()
			}
			if len(stats.RevenueTrend) > 0 {
				fmt.Println("\nRevenue trend:")
				for _, tick := range stats.RevenueTrend {
					fmt.Printf("  %s  %.2f\n", tick.Date, tick.Revenue)
				}
			}
			return nil
		},
	}
}

// userStatsView is the rendered shape of the user analytics payload.
type userStatsView struct {
	Total    int            `mapstructure:"total"`
	ByStatus map[string]int `mapstructure:"byStatus"`
	NewUsers int            `mapstructure:"newUsers"`
}

// orderStatsView is the rendered shape of the order analytics payload.
type orderStatsView struct {
	Total             int            `mapstructure:"total"`
	ByStatus          map[string]int `mapstructure:"byStatus"`
	Revenue           float64        `mapstructure:"revenue"`
	AverageOrderValue float64        `mapstructure:"averageOrderValue"`
}

// newAnalyticsCmd creates the analytics command tree.
func newAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Inspect Pulseboard analytics",
	}
	cmd.AddCommand(newAnalyticsUsersCmd())
	cmd.AddCommand(newAnalyticsOrdersCmd())
	cmd.AddCommand(newAnalyticsRevenueCmd())
	return cmd
}

func statsOptions(cmd *cobra.Command) api.StatsOptions {
	opts := api.StatsOptions{}
	opts.From, _ = cmd.Flags().GetString("from")
	opts.To, _ = cmd.Flags().GetString("to")
	return opts
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "Range start, RFC3339")
	cmd.Flags().String("to", "", "Range end, RFC3339")
}

func newAnalyticsUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Show user statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			raw, env := svc.Analytics.UserStats(cmd.Context(), statsOptions(cmd))
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(raw)
				return nil
			}
			var view userStatsView
			if err := mapstructure.Decode(raw, &view); err != nil {
				return fmt.Errorf("failed to decode user stats: %w", err)
			}
			fmt.Printf("Total users: %d\n", view.Total)
			fmt.Printf("New in range: %d\n", view.NewUsers)
			for status, count := range view.ByStatus {
				fmt.Printf("  %s: %d\n", status, count)
			}
			return nil
		},
	}
	addRangeFlags(cmd)
	return cmd
}

func newAnalyticsOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show order statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			raw, env := svc.Analytics.OrderStats(cmd.Context(), statsOptions(cmd))
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(raw)
				return nil
			}
			var view orderStatsView
			if err := mapstructure.Decode(raw, &view); err != nil {
				return fmt.Errorf("failed to decode order stats: %w", err)
			}
			fmt.Printf("Total orders: %d\n", view.Total)
			fmt.Printf("Revenue: %.2f\n", view.Revenue)
			fmt.Printf("Average order value: %.2f\n", view.AverageOrderValue)
			for status, count := range view.ByStatus {
				fmt.Printf("  %s: %d\n", status, count)
			}
			return nil
		},
	}
	addRangeFlags(cmd)
	return cmd
}

func newAnalyticsRevenueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Show revenue statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newAPI()
			if err != nil {
				return err
			}
			groupBy, _ := cmd.Flags().GetString("group-by")
			raw, env := svc.Analytics.RevenueStats(cmd.Context(), statsOptions(cmd), groupBy)
			if !env.Success {
				return envelopeError(env)
			}
			if jsonOutput {
				printJSON(raw)
				return nil
			}
			var view struct {
				Total  float64           `mapstructure:"total"`
				Series []api.RevenueTick `mapstructure:"series"`
			}
			if err := mapstructure.Decode(raw, &view); err != nil {
				return fmt.Errorf("failed to decode revenue stats: %w", err)
			}
			fmt.Printf("Total revenue: %.2f\n", view.Total)
			for _, tick := range view.Series {
				fmt.Printf("  %s  %.2f\n", tick.Date, tick.Revenue)
			}
			return nil
		},
	}
	addRangeFlags(cmd)
	cmd.Flags().String("group-by", "day", "Group revenue by day, week, or month")
	return cmd
}
