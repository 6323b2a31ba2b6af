package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"ordersync-be/internal/checkout"
	"ordersync-be/internal/metrics"
	"ordersync-be/internal/order"
	"ordersync-be/internal/product"
	"ordersync-be/internal/queue"
)

// Syncer is the slice of the sync engine the HTTP surface needs: the
// manual connectivity signal and the health counters.
type Syncer interface {
	Trigger()
	Metrics() metrics.SyncSnapshot
}

type Handler struct {
	Checkout checkout.Service
	Products product.Service
	Orders   order.Service
	Sync     Syncer
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type placeOrderReq struct {
	Items []queue.OrderItem `json:"items"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	o, err := h.Checkout.PlaceOrder(r.Context(), req.Items)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, o)
	case errors.Is(err, checkout.ErrEmptyOrder),
		errors.Is(err, checkout.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrInvalidProduct):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		// Local durability failure: the one case where checkout fails.
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "order could not be saved"})
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "product listing unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Products.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "stats unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.History(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "order history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) listLocalOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.Local(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "local order listing failed"})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// triggerSync is the connectivity-restored signal for deployments where
// an external detector calls back over HTTP.
func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	h.Sync.Trigger()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sync scheduled"})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"sync":   h.Sync.Metrics(),
	})
}
