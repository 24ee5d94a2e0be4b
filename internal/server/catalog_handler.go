package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Products(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := s.catalog.Products(r.Context(), q.Get("gender"), q.Get("category"))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) ProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.ProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Categories always answers 200: a catalog outage degrades to the fallback
// list inside the client.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.catalog.Categories(r.Context(), r.URL.Query().Get("gender")))
}
