package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/NV18Codes/khaddar-storefront/internal/api"
	"github.com/NV18Codes/khaddar-storefront/internal/auth"
	"github.com/NV18Codes/khaddar-storefront/internal/checkout"
	"github.com/NV18Codes/khaddar-storefront/internal/domain"
	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

// stubOrders satisfies checkout.OrdersAPI for handler tests that never
// reach the orders API.
type stubOrders struct {
	createResult api.CreateOrderResult
	createErr    error
	payErr       error
	createCalls  int
	payCalls     int
}

func (o *stubOrders) Create(_ context.Context, _ domain.OrderDraft) (api.CreateOrderResult, error) {
	o.createCalls++
	if o.createErr != nil {
		return api.CreateOrderResult{}, o.createErr
	}
	return o.createResult, nil
}

func (o *stubOrders) Pay(_ context.Context, _ string) error {
	o.payCalls++
	return o.payErr
}

type testEnv struct {
	server  *Server
	store   *session.MemoryStore
	states  *auth.Registry
	orders  *stubOrders
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := session.NewMemoryStore(0)
	t.Cleanup(store.Stop)

	states := auth.NewRegistry()
	t.Cleanup(states.Stop)

	orders := &stubOrders{createResult: api.CreateOrderResult{OrderID: "ord-1", Amount: 4000}}
	log := zaptest.NewLogger(t)
	flows := checkout.NewRegistry(orders, store, log)
	t.Cleanup(flows.Stop)

	srv := New(Deps{
		Store:  store,
		States: states,
		Flows:  flows,
		Log:    log,
	})
	return &testEnv{
		server:  srv,
		store:   store,
		states:  states,
		orders:  orders,
		handler: srv.Routes(),
	}
}

func (e *testEnv) request(t *testing.T, method, path, sid, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if sid != "" {
		req.Header.Set(SessionHeader, sid)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestSessionMiddlewareMintsID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/health", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(SessionHeader))

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, rec.Header().Get(SessionHeader), cookie.Value)
}

func TestSessionMiddlewareKeepsProvidedID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/health", "tab-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tab-1", rec.Header().Get(SessionHeader))
}

func TestRequireAuthRedirectsWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/checkout/state", "tab-1", "")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuthPassesWithToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.SetAuth(ctx, "tab-1", domain.Session{AuthToken: "tok"}))

	rec := env.request(t, http.MethodGet, "/api/checkout/state", "tab-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, auth.StatusAuthenticated, env.states.Machine("tab-1").Status())
}

func TestRequireAuthRedirectsAfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.SetAuth(ctx, "tab-1", domain.Session{AuthToken: "tok"}))
	env.states.Machine("tab-1").Login()

	env.states.Expire("tab-1")

	rec := env.request(t, http.MethodGet, "/api/checkout/state", "tab-1", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAdminRedirectsWithoutAdminToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(t, http.MethodGet, "/api/admin/stats", "tab-1", "")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestRequireAdminRejectsShopperToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.SetAuth(ctx, "tab-1", domain.Session{AuthToken: "shopper-tok"}))
	env.states.Machine("tab-1").Login()

	rec := env.request(t, http.MethodGet, "/api/admin/stats", "tab-1", "")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestGuardsTrackSessionsIndependently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.store.SetAuth(ctx, "tab-1", domain.Session{AuthToken: "tok"}))

	rec := env.request(t, http.MethodGet, "/api/checkout/state", "tab-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/checkout/state", "tab-2", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
}
