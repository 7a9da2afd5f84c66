package mockapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/pulseboard/pulseboard/internal/common/httpx"
	"github.com/pulseboard/pulseboard/pkg/api"
)

const (
	maxRecentOrders = 5
	maxTopProducts  = 5
)

// bucketKey reduces an RFC3339 timestamp to a grouping key. Unparseable
// timestamps fall into the empty bucket and are dropped by callers.
func bucketKey(stamp, groupBy string) string {
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return ""
	}
	switch groupBy {
	case "week":
		year, week := t.ISOWeek()
		return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, (week-1)*7).Format("2006-01-02")
	case "month":
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

func inRange(stamp, from, to string) bool {
	if from != "" && stamp < from {
		return false
	}
	if to != "" && stamp > to {
		return false
	}
	return true
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Server) dashboardHandler(r *http.Request) (*httpx.Response, error) {
	users := s.store.AllUsers()
	orders := s.store.FilterOrders(OrderFilter{})

	var revenue float64
	for _, o := range orders {
		if o.Status != api.OrderStatusCancelled {
			revenue += o.Total
		}
	}
	avg := 0.0
	if len(orders) > 0 {
		avg = revenue / float64(len(orders))
	}

	recent := orders
	if len(recent) > maxRecentOrders {
		recent = recent[:maxRecentOrders]
	}

	stats := api.DashboardStats{
		TotalUsers:        len(users),
		TotalOrders:       len(orders),
		TotalRevenue:      revenue,
		AverageOrderValue: avg,
		RecentOrders:      recent,
		TopProducts:       s.topProducts(orders),
		UserGrowth:        userGrowth(users),
		RevenueTrend:      revenueTrend(orders),
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: stats}, nil
}

// topProducts ranks products by units sold across all orders.
func (s *Server) topProducts(orders []api.Order) []api.TopProduct {
	sold := map[string]int{}
	for _, o := range orders {
		if o.Status == api.OrderStatusCancelled {
			continue
		}
		for _, item := range o.Items {
			sold[item.ProductID] += item.Quantity
		}
	}

	var top []api.TopProduct
	for id, count := range sold {
		product, err := s.store.GetProduct(id)
		if err != nil {
			continue
		}
		top = append(top, api.TopProduct{Product: product, SoldCount: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].SoldCount != top[j].SoldCount {
			return top[i].SoldCount > top[j].SoldCount
		}
		return top[i].ID < top[j].ID
	})
	if len(top) > maxTopProducts {
		top = top[:maxTopProducts]
	}
	return top
}

func userGrowth(users []api.User) []api.UserGrowthTick {
	counts := map[string]float64{}
	for _, u := range users {
		if key := bucketKey(u.CreatedAt, "day"); key != "" {
			counts[key]++
		}
	}
	var ticks []api.UserGrowthTick
	for _, key := range sortedKeys(counts) {
		ticks = append(ticks, api.UserGrowthTick{Date: key, Count: int(counts[key])})
	}
	return ticks
}

func revenueTrend(orders []api.Order) []api.RevenueTick {
	return revenueSeries(orders, "day")
}

func revenueSeries(orders []api.Order, groupBy string) []api.RevenueTick {
	buckets := map[string]float64{}
	for _, o := range orders {
		if o.Status == api.OrderStatusCancelled {
			continue
		}
		if key := bucketKey(o.CreatedAt, groupBy); key != "" {
			buckets[key] += o.Total
		}
	}
	var ticks []api.RevenueTick
	for _, key := range sortedKeys(buckets) {
		ticks = append(ticks, api.RevenueTick{Date: key, Revenue: buckets[key]})
	}
	return ticks
}

func (s *Server) userStatsHandler(r *http.Request) (*httpx.Response, error) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")

	byStatus := map[string]int{}
	total, newInRange := 0, 0
	for _, u := range s.store.AllUsers() {
		total++
		byStatus[u.Status]++
		if inRange(u.CreatedAt, from, to) {
			newInRange++
		}
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: map[string]any{
			"total":    total,
			"byStatus": byStatus,
			"newUsers": newInRange,
		},
	}, nil
}

func (s *Server) orderStatsHandler(r *http.Request) (*httpx.Response, error) {
	q := r.URL.Query()
	orders := s.store.FilterOrders(OrderFilter{From: q.Get("from"), To: q.Get("to")})

	byStatus := map[string]int{}
	var revenue float64
	for _, o := range orders {
		byStatus[o.Status]++
		if o.Status != api.OrderStatusCancelled {
			revenue += o.Total
		}
	}
	avg := 0.0
	if len(orders) > 0 {
		avg = revenue / float64(len(orders))
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: map[string]any{
			"total":             len(orders),
			"byStatus":          byStatus,
			"revenue":           revenue,
			"averageOrderValue": avg,
		},
	}, nil
}

func (s *Server) revenueStatsHandler(r *http.Request) (*httpx.Response, error) {
	q := r.URL.Query()
	groupBy := q.Get("groupBy")
	switch groupBy {
	case "", "day", "week", "month":
	default:
		return nil, httpx.ErrInvalidRequest("groupBy must be day, week or month")
	}

	orders := s.store.FilterOrders(OrderFilter{From: q.Get("from"), To: q.Get("to")})
	series := revenueSeries(orders, groupBy)

	var total float64
	for _, tick := range series {
		total += tick.Revenue
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: map[string]any{
			"total":  total,
			"series": series,
		},
	}, nil
}
