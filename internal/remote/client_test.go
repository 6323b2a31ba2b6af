package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordersync-be/internal/product"
	"ordersync-be/internal/queue"
)

func sampleOrder() queue.Order {
	return queue.Order{
		ID: 1,
		Items: []queue.OrderItem{
			{ProductID: "P1", Quantity: 3, UnitPrice: 100},
		},
		Total:     300,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		var captured map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/orders", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id": 77}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL)
		remoteID, err := c.CreateOrder(ctx, sampleOrder())
		require.NoError(t, err)
		assert.Equal(t, "77", remoteID)

		// The wire payload carries productId and quantity only.
		items := captured["items"].([]interface{})
		item := items[0].(map[string]interface{})
		assert.Equal(t, "P1", item["productId"])
		assert.Equal(t, 3.0, item["quantity"])
		assert.NotContains(t, item, "unitPrice")
		assert.Equal(t, 300.0, captured["total"])
	})

	t.Run("OrderIDFieldFallback", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"orderId": "ord-9"}`))
		}))
		defer srv.Close()

		remoteID, err := NewClient(srv.URL).CreateOrder(ctx, sampleOrder())
		require.NoError(t, err)
		assert.Equal(t, "ord-9", remoteID)
	})

	t.Run("ServerError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).CreateOrder(ctx, sampleOrder())
		var serverErr *ServerError
		require.ErrorAs(t, err, &serverErr)
		assert.Equal(t, http.StatusInternalServerError, serverErr.Status)
	})

	t.Run("NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // unreachable

		_, err := NewClient(srv.URL).CreateOrder(ctx, sampleOrder())
		var netErr *NetworkError
		assert.ErrorAs(t, err, &netErr)
	})
}

func TestGetProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NumericID", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/products/42", r.URL.Path)
			w.Write([]byte(`{"id":42,"name":"Widget","price":100,"stock":10}`))
		}))
		defer srv.Close()

		p, err := NewClient(srv.URL).GetProduct(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, product.ID("42"), p.ID)
		assert.Equal(t, 10, p.Stock)
	})

	t.Run("NotFound", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).GetProduct(ctx, "42")
		assert.True(t, IsNotFound(err))
	})
}

func TestUpdateProductStock(t *testing.T) {
	ctx := context.Background()

	t.Run("ReadMergeWrite", func(t *testing.T) {
		var put map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				// Extra fields the client does not model must survive
				// the round trip.
				w.Write([]byte(`{"id":42,"name":"Widget","stock":10,"warehouse":"BKK"}`))
			case http.MethodPut:
				require.Equal(t, "/products/42", r.URL.Path)
				require.NoError(t, json.NewDecoder(r.Body).Decode(&put))
				w.WriteHeader(http.StatusOK)
			}
		}))
		defer srv.Close()

		require.NoError(t, NewClient(srv.URL).UpdateProductStock(ctx, "42", 7))

		assert.Equal(t, 7.0, put["stock"])
		assert.Equal(t, 42.0, put["id"])
		assert.Equal(t, "Widget", put["name"])
		assert.Equal(t, "BKK", put["warehouse"])
	})

	t.Run("NotFoundOnRead", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		err := NewClient(srv.URL).UpdateProductStock(ctx, "42", 7)
		assert.True(t, IsNotFound(err))
	})

	t.Run("ServerErrorOnWrite", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Write([]byte(`{"id":42,"stock":10}`))
				return
			}
			http.Error(w, "rejected", http.StatusBadRequest)
		}))
		defer srv.Close()

		err := NewClient(srv.URL).UpdateProductStock(ctx, "42", 7)
		var serverErr *ServerError
		assert.ErrorAs(t, err, &serverErr)
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		body string
	}{
		{"BareArray", `[{"id":1,"name":"A","stock":5}]`},
		{"WrappedProducts", `{"products":[{"id":1,"name":"A","stock":5}]}`},
		{"WrappedData", `{"data":[{"id":1,"name":"A","stock":5}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			products, err := NewClient(srv.URL).ListProducts(ctx)
			require.NoError(t, err)
			require.Len(t, products, 1)
			assert.Equal(t, product.ID("1"), products[0].ID)
		})
	}
}

func TestListOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders", r.URL.Path)
		w.Write([]byte(`[{"id":7,"items":[{"productId":"P1","quantity":2}],"total":200,"createdAt":"2026-01-02T03:04:05Z"}]`))
	}))
	defer srv.Close()

	orders, err := NewClient(srv.URL).ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, product.ID("7"), orders[0].ID)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
}
