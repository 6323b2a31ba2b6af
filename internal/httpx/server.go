package httpx

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"ordersync-be/internal/logger"
	"ordersync-be/internal/middleware"
)

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", h.health)
	r.Post("/checkout", h.placeOrder)
	r.Get("/products", h.listProducts)
	r.Get("/dashboard/stats", h.dashboardStats)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/local", h.listLocalOrders)
	r.Post("/sync", h.triggerSync)

	return r
}
