package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

const defaultOrdersPageSize = 10

// MyOrders pages through the shopper's order history, looked up by the email
// stored with the session.
func (s *Server) MyOrders(w http.ResponseWriter, r *http.Request) {
	sid := session.SIDFromContext(r.Context())
	email, err := s.store.Email(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not load session")
		return
	}
	if email == "" {
		respondError(w, http.StatusBadRequest, "missing_email", "session has no email")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultOrdersPageSize
	}

	orders, err := s.orders.MyOrders(r.Context(), email, page, limit)
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
