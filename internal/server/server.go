// Package server is the storefront's HTTP surface: session-backed cart and
// checkout endpoints, auth endpoints that mint sessions, catalog and order
// passthroughs, and the guarded admin views.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/NV18Codes/khaddar-storefront/internal/api"
	"github.com/NV18Codes/khaddar-storefront/internal/auth"
	"github.com/NV18Codes/khaddar-storefront/internal/checkout"
	"github.com/NV18Codes/khaddar-storefront/internal/session"
)

type Server struct {
	store  session.Store
	states *auth.Registry
	flows  *checkout.Registry

	auth        *api.AuthClient
	catalog     *api.CatalogClient
	orders      *api.OrdersClient
	adminOrders *api.OrdersClient
	admin       *api.AdminClient

	timeout time.Duration
	log     *zap.Logger
}

type Deps struct {
	Store  session.Store
	States *auth.Registry
	Flows  *checkout.Registry

	Auth        *api.AuthClient
	Catalog     *api.CatalogClient
	Orders      *api.OrdersClient
	AdminOrders *api.OrdersClient
	Admin       *api.AdminClient

	RequestTimeout time.Duration
	Log            *zap.Logger
}

func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = 30 * time.Second
	}
	encodeLog = deps.Log
	return &Server{
		store:       deps.Store,
		states:      deps.States,
		flows:       deps.Flows,
		auth:        deps.Auth,
		catalog:     deps.Catalog,
		orders:      deps.Orders,
		adminOrders: deps.AdminOrders,
		admin:       deps.Admin,
		timeout:     deps.RequestTimeout,
		log:         deps.Log,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(middleware.Compress(5))
	r.Use(Session)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/send-otp", s.SendOTP)
			r.Post("/verify-otp", s.VerifyOTP)
			r.Post("/login", s.Login)
			r.Post("/signup", s.Signup)
			r.Post("/forgot-password", s.ForgotPassword)
			r.Post("/reset-password", s.ResetPassword)
			r.Post("/logout", s.Logout)
			r.With(RequireAuth(s.store, s.states)).Get("/profile", s.Profile)
		})

		r.Get("/products", s.Products)
		r.Get("/products/{slug}", s.ProductBySlug)
		r.Get("/categories", s.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.GetCart)
			r.Post("/items", s.AddItem)
			r.Put("/items", s.UpdateQuantity)
			r.Delete("/items", s.RemoveItem)
			r.Delete("/", s.ClearCart)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.store, s.states))
			r.Post("/checkout", s.SubmitCheckout)
			r.Get("/checkout/state", s.CheckoutState)
			r.Get("/orders", s.MyOrders)
			r.Get("/orders/{id}", s.GetOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.AdminLogin)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin(s.store, s.states))
				r.Get("/orders", s.AdminOrders)
				r.Put("/orders/{id}/status", s.AdminUpdateOrderStatus)
				r.Get("/stats", s.AdminStats)
				r.Get("/dashboard/summary", s.AdminDashboardSummary)
				r.Get("/dashboard/comprehensive", s.AdminDashboardComprehensive)
				r.Get("/dashboard/recent-orders", s.AdminRecentOrders)
				r.Get("/dashboard/revenue-analytics", s.AdminRevenueAnalytics)
			})
		})
	})

	return r
}
