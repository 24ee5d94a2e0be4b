package server

import (
	"encoding/json"
	"net/http"

	"github.com/NV18Codes/khaddar-storefront/internal/checkout"
	"github.com/NV18Codes/khaddar-storefront/internal/domain"
	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

// SubmitCheckout runs the two-step create-order-then-pay flow for the
// session's cart.
func (s *Server) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	var shipping domain.ShippingDetails
	if err := json.NewDecoder(r.Body).Decode(&shipping); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sid := session.SIDFromContext(r.Context())
	flow := s.flows.Flow(sid)

	// A succeeded flow whose session has since refilled the cart is a new
	// purchase, not a duplicate success callback.
	if flow.State() == checkout.StateSucceeded {
		cart, err := s.store.Cart(r.Context(), sid)
		if err == nil && !cart.IsEmpty() {
			s.flows.Forget(sid)
			flow = s.flows.Flow(sid)
		}
	}

	result, err := flow.Submit(r.Context(), shipping)
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) CheckoutState(w http.ResponseWriter, r *http.Request) {
	sid := session.SIDFromContext(r.Context())
	respondJSON(w, http.StatusOK, map[string]checkout.State{
		"state": s.flows.Flow(sid).State(),
	})
}
