package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestProducts_FilterQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "women", q.Get("gender"))
		assert.Equal(t, "kurtas", q.Get("category"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":"p1","slug":"indigo-kurta","price":"₹1,499"}]}`))
	})
	catalog := NewCatalogClient(client, zaptest.NewLogger(t))

	products, err := catalog.Products(context.Background(), "women", "kurtas")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "indigo-kurta", products[0].Slug)
	assert.Equal(t, 1499.0, float64(products[0].Price))
}

func TestProductBySlug_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/missing", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"product not found"}`))
	})
	catalog := NewCatalogClient(client, zaptest.NewLogger(t))

	_, err := catalog.ProductBySlug(context.Background(), "missing")
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.EqualError(t, err, "product not found")
}

func TestCategories_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories":[{"name":"Kurtas","slug":"kurtas"}]}`))
	})
	catalog := NewCatalogClient(client, zaptest.NewLogger(t))

	cats := catalog.Categories(context.Background(), "women")
	require.Len(t, cats, 1)
	assert.Equal(t, "kurtas", cats[0].Slug)
}

func TestCategories_FallsBackOnFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	catalog := NewCatalogClient(client, zaptest.NewLogger(t))

	cats := catalog.Categories(context.Background(), "")
	assert.Equal(t, fallbackCategories, cats)
}

func TestCategories_FallsBackOnEmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"categories":[]}`))
	})
	catalog := NewCatalogClient(client, zaptest.NewLogger(t))

	cats := catalog.Categories(context.Background(), "")
	assert.Equal(t, fallbackCategories, cats)
}

func TestCategories_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})
	catalog := NewCatalogClient(client, zaptest.NewLogger(t))

	for range 5 {
		cats := catalog.Categories(context.Background(), "men")
		assert.Equal(t, fallbackCategories, cats)
	}

	// the breaker trips after three consecutive failures, so the catalog API
	// stops seeing traffic
	assert.Equal(t, 3, calls)
}
