package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

func (s *Server) AdminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.admin.AllOrders(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

type updateStatusDTO struct {
	Status domain.OrderStatus `json:"status"`
}

func (s *Server) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}
	switch req.Status {
	case domain.OrderStatusPending, domain.OrderStatusCompleted, domain.OrderStatusCancelled:
	default:
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	if err := s.adminOrders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// AdminStats recomputes the dashboard aggregate from the full order list on
// every call. The aggregate owns no state of its own.
func (s *Server) AdminStats(w http.ResponseWriter, r *http.Request) {
	orders, err := s.admin.AllOrders(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, domain.ComputeDashboardStats(orders))
}

func (s *Server) AdminDashboardSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.admin.DashboardSummary(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) AdminDashboardComprehensive(w http.ResponseWriter, r *http.Request) {
	raw, err := s.admin.DashboardComprehensive(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) AdminRecentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.admin.RecentOrders(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) AdminRevenueAnalytics(w http.ResponseWriter, r *http.Request) {
	points, err := s.admin.RevenueAnalytics(r.Context())
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, points)
}
