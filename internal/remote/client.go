package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"ordersync-be/internal/logger"
	"ordersync-be/internal/product"
	"ordersync-be/internal/queue"
)

// Client wraps the remote order/product REST endpoints. Every call is
// single-attempt; retry policy belongs to the callers.
type Client interface {
	CreateOrder(ctx context.Context, o queue.Order) (string, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	UpdateProductStock(ctx context.Context, id string, stock int) error
	ListProducts(ctx context.Context) ([]product.Product, error)
	ListOrders(ctx context.Context) ([]Order, error)
}

type httpClient struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) Client {
	if baseURL == "" {
		logger.L().Warn("remote API base URL is empty")
	}
	return &httpClient{
		baseURL: baseURL,
		hc: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ----------------- CreateOrder -----------------

type createOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (c *httpClient) CreateOrder(ctx context.Context, o queue.Order) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("order_id", o.ID),
		zap.Float64("total", o.Total),
		zap.Int("item_count", len(o.Items)),
	)

	items := make([]createOrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, createOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	body := map[string]interface{}{
		"items":     items,
		"total":     o.Total,
		"createdAt": o.CreatedAt.UTC().Format(time.RFC3339),
	}

	respBody, status, err := c.do(ctx, "create order", http.MethodPost, "/orders", body)
	if err != nil {
		log.Warn("order delivery failed", zap.Error(err))
		return "", err
	}
	if status < 200 || status > 299 {
		log.Warn("remote rejected order", zap.Int("status", status))
		return "", &ServerError{Op: "create order", Status: status, Body: string(respBody)}
	}

	// The remote id field is named inconsistently across deployments.
	var res struct {
		ID      product.ID `json:"id"`
		OrderID product.ID `json:"orderId"`
	}
	if err := json.Unmarshal(respBody, &res); err != nil {
		// Accepted but unparseable body still counts as delivered.
		log.Warn("could not decode create order response", zap.Error(err))
		return "", nil
	}

	remoteID := res.ID.String()
	if remoteID == "" {
		remoteID = res.OrderID.String()
	}

	log.Info("order delivered", zap.String("remote_id", remoteID))
	return remoteID, nil
}

// ----------------- GetProduct -----------------

func (c *httpClient) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	respBody, status, err := c.do(ctx, "get product", http.MethodGet, "/products/"+id, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if status < 200 || status > 299 {
		return nil, &ServerError{Op: "get product", Status: status, Body: string(respBody)}
	}

	var p product.Product
	if err := json.Unmarshal(respBody, &p); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	return &p, nil
}

// ----------------- UpdateProductStock -----------------

// UpdateProductStock writes an absolute stock value. The remote store
// only supports full-resource PUT, so the current resource is fetched
// raw and only the stock field is merged before writing back. This
// read-modify-write is not atomic against concurrent writers.
func (c *httpClient) UpdateProductStock(ctx context.Context, id string, stock int) error {
	log := logger.FromCtx(ctx).With(
		zap.String("product_id", id),
		zap.Int("stock", stock),
	)

	respBody, status, err := c.do(ctx, "update stock", http.MethodGet, "/products/"+id, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if status < 200 || status > 299 {
		return &ServerError{Op: "update stock", Status: status, Body: string(respBody)}
	}

	// Keep every field the server sent; overwrite stock only.
	var full map[string]interface{}
	if err := json.Unmarshal(respBody, &full); err != nil {
		return fmt.Errorf("decode product %s: %w", id, err)
	}
	full["stock"] = stock
	if n, err := strconv.Atoi(id); err == nil {
		full["id"] = n
	}

	respBody, status, err = c.do(ctx, "update stock", http.MethodPut, "/products/"+id, full)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &ServerError{Op: "update stock", Status: status, Body: string(respBody)}
	}

	log.Debug("product stock updated")
	return nil
}

// ----------------- ListProducts -----------------

func (c *httpClient) ListProducts(ctx context.Context) ([]product.Product, error) {
	respBody, status, err := c.do(ctx, "list products", http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &ServerError{Op: "list products", Status: status, Body: string(respBody)}
	}
	return decodeListing(respBody)
}

// decodeListing accepts either a bare array or an object wrapping one.
func decodeListing(body []byte) ([]product.Product, error) {
	var products []product.Product
	if err := json.Unmarshal(body, &products); err == nil {
		return products, nil
	}

	var wrapped struct {
		Products []product.Product `json:"products"`
		Data     []product.Product `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode product listing: %w", err)
	}
	if wrapped.Products != nil {
		return wrapped.Products, nil
	}
	return wrapped.Data, nil
}

// ----------------- ListOrders -----------------

func (c *httpClient) ListOrders(ctx context.Context) ([]Order, error) {
	respBody, status, err := c.do(ctx, "list orders", http.MethodGet, "/orders", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &ServerError{Op: "list orders", Status: status, Body: string(respBody)}
	}

	var orders []Order
	if err := json.Unmarshal(respBody, &orders); err != nil {
		return nil, fmt.Errorf("decode order listing: %w", err)
	}
	return orders, nil
}

// ----------------- shared request path -----------------

func (c *httpClient) do(ctx context.Context, op, method, path string, body interface{}) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("remote %s: marshal body: %w", op, err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("remote %s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &NetworkError{Op: op, Err: err}
	}
	return respBody, resp.StatusCode, nil
}
