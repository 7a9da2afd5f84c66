package api

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
)

// AnalyticsService covers the reporting endpoints.
type AnalyticsService struct {
	client httpclient.Doer
}

// StatsOptions bound a stats query to a date range.
type StatsOptions struct {
	From string
	To   string
}

func (o StatsOptions) queryParams() map[string]string {
	return map[string]string{
		"from": o.From,
		"to":   o.To,
	}
}

// Dashboard retrieves the landing dashboard metrics.
func (s *AnalyticsService) Dashboard(ctx context.Context) (DashboardStats, *httpclient.Envelope) {
	return decode[DashboardStats](s.client.Get(ctx, "/analytics/dashboard", nil))
}

// UserStats retrieves user statistics for a date range.
func (s *AnalyticsService) UserStats(ctx context.Context, opts StatsOptions) (map[string]any, *httpclient.Envelope) {
	return decode[map[string]any](s.client.Get(ctx, "/analytics/users", opts.queryParams()))
}

// OrderStats retrieves order statistics for a date range.
func (s *AnalyticsService) OrderStats(ctx context.Context, opts StatsOptions) (map[string]any, *httpclient.Envelope) {
	return decode[map[string]any](s.client.Get(ctx, "/analytics/orders", opts.queryParams()))
}

// RevenueStats retrieves revenue statistics, optionally grouped by day,
// week, or month.
func (s *AnalyticsService) RevenueStats(ctx context.Context, opts StatsOptions, groupBy string) (map[string]any, *httpclient.Envelope) {
	q := opts.queryParams()
	q["groupBy"] = groupBy
	return decode[map[string]any](s.client.Get(ctx, "/analytics/revenue", q))
}
