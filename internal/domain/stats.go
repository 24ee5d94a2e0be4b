package domain

// DashboardStats is the admin overview aggregate. It owns no state: it is
// recomputed from the source order list whenever that list changes.
type DashboardStats struct {
	TotalOrders     int     `json:"total_orders"`
	CompletedOrders int     `json:"completed_orders"`
	PendingOrders   int     `json:"pending_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// ComputeDashboardStats derives counts per status and the revenue sum over
// completed orders.
func ComputeDashboardStats(orders []Order) DashboardStats {
	stats := DashboardStats{TotalOrders: len(orders)}
	for _, o := range orders {
		switch o.Status {
		case OrderStatusCompleted:
			stats.CompletedOrders++
			stats.TotalRevenue += o.Amount
		case OrderStatusPending:
			stats.PendingOrders++
		case OrderStatusCancelled:
			stats.CancelledOrders++
		}
	}
	return stats
}
