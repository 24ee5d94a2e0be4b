package server

import (
	"encoding/json"
	"net/http"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

// cartViewDTO is the cart plus its derived totals.
type cartViewDTO struct {
	Items    []domain.CartItem `json:"items"`
	Subtotal float64           `json:"subtotal"`
	Total    float64           `json:"total"`
}

func cartView(cart domain.Cart) cartViewDTO {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartViewDTO{Items: items, Subtotal: cart.Subtotal(), Total: cart.Total()}
}

func itemKeyFromQuery(r *http.Request) domain.ItemKey {
	q := r.URL.Query()
	return domain.ItemKey{
		ProductID: q.Get("id"),
		Size:      q.Get("size"),
		Color:     q.Get("color"),
	}
}

func (s *Server) GetCart(w http.ResponseWriter, r *http.Request) {
	sid := session.SIDFromContext(r.Context())
	cart, err := s.store.Cart(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not load cart")
		return
	}
	respondJSON(w, http.StatusOK, cartView(cart))
}

func (s *Server) AddItem(w http.ResponseWriter, r *http.Request) {
	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if item.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id is required")
		return
	}

	sid := session.SIDFromContext(r.Context())
	cart, err := s.store.Cart(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not load cart")
		return
	}

	cart.Add(item)

	if err := s.store.SetCart(r.Context(), sid, cart); err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusCreated, cartView(cart))
}

type updateQuantityDTO struct {
	ProductID string `json:"id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

func (s *Server) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sid := session.SIDFromContext(r.Context())
	cart, err := s.store.Cart(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not load cart")
		return
	}

	key := domain.ItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}
	if !cart.UpdateQuantity(key, req.Quantity) {
		respondError(w, http.StatusNotFound, "not_found", "no such cart item")
		return
	}

	if err := s.store.SetCart(r.Context(), sid, cart); err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusOK, cartView(cart))
}

func (s *Server) RemoveItem(w http.ResponseWriter, r *http.Request) {
	key := itemKeyFromQuery(r)
	if key.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id query parameter is required")
		return
	}

	sid := session.SIDFromContext(r.Context())
	cart, err := s.store.Cart(r.Context(), sid)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not load cart")
		return
	}

	if !cart.Remove(key) {
		respondError(w, http.StatusNotFound, "not_found", "no such cart item")
		return
	}

	if err := s.store.SetCart(r.Context(), sid, cart); err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not save cart")
		return
	}
	respondJSON(w, http.StatusOK, cartView(cart))
}

func (s *Server) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid := session.SIDFromContext(r.Context())
	if err := s.store.ClearCart(r.Context(), sid); err != nil {
		respondError(w, http.StatusInternalServerError, "session_error", "could not clear cart")
		return
	}
	respondJSON(w, http.StatusOK, cartView(domain.Cart{}))
}
