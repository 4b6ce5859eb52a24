// Package web serves the Aviorie pages: landing, auth, approval wait and the
// four role dashboards.
package web

import (
	"net/http"

	"aviorie-web/internal/auth"
	"aviorie-web/internal/guard"
	"aviorie-web/internal/logger"
	"aviorie-web/internal/metrics"
	"aviorie-web/internal/middleware"
	"aviorie-web/internal/role"
	"aviorie-web/internal/session"

	"github.com/gorilla/mux"
)

// NewRouter wires every route. Probes bypass the visitor cookie; every page
// runs behind request ids, the visitor/session loader, access logging and
// the rate limiter.
func NewRouter(h *Handler, visitors *auth.Visitors, sessions session.Store, limiter *middleware.Limiter, m *metrics.Metrics) *mux.Router {
	r := mux.NewRouter()
	r.Use(m.Middleware)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	pages := r.PathPrefix("/").Subrouter()
	pages.Use(
		logger.RequestIDMiddleware,
		middleware.VisitorMiddleware(visitors, sessions),
		middleware.LoggingMiddleware,
		limiter.Middleware,
	)

	pages.HandleFunc("/", h.Landing).Methods(http.MethodGet)
	pages.HandleFunc("/auth", h.AuthPage).Methods(http.MethodGet)
	pages.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	pages.HandleFunc("/auth/signup", h.Signup).Methods(http.MethodPost)
	pages.HandleFunc("/auth/signup/cancel", h.CancelSignup).Methods(http.MethodPost)
	pages.HandleFunc("/auth/verify-otp", h.VerifyOTP).Methods(http.MethodPost)
	pages.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	pages.HandleFunc("/waiting-approval", h.WaitingApproval).Methods(http.MethodGet)
	pages.HandleFunc("/waiting-approval", h.Logout).Methods(http.MethodPost)

	customer := pages.PathPrefix("/customer").Subrouter()
	customer.Use(guard.Require(role.KindCustomer))
	customer.HandleFunc("", h.Dashboard).Methods(http.MethodGet)
	customer.HandleFunc("/orders", h.PlaceOrder).Methods(http.MethodPost)

	partner := pages.PathPrefix("/delivery-partner").Subrouter()
	partner.Use(guard.Require(role.KindDeliveryPartner))
	partner.HandleFunc("", h.Dashboard).Methods(http.MethodGet)
	partner.HandleFunc("/orders/{id}/status", h.UpdateOrderStatus).Methods(http.MethodPost)

	manager := pages.PathPrefix("/manager").Subrouter()
	manager.Use(guard.Require(role.KindManager))
	manager.HandleFunc("", h.Dashboard).Methods(http.MethodGet)

	admin := pages.PathPrefix("/admin").Subrouter()
	admin.Use(guard.Require(role.KindAdmin))
	admin.HandleFunc("", h.Dashboard).Methods(http.MethodGet)
	admin.HandleFunc("/products", h.CreateProduct).Methods(http.MethodPost)

	return r
}
