package checkout

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ordersync-be/internal/logger"
	"ordersync-be/internal/product"
	"ordersync-be/internal/queue"
	"ordersync-be/internal/stock"
)

type Queue interface {
	Enqueue(ctx context.Context, o queue.Order) (int64, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, o queue.Order) error
}

type Reconciler interface {
	Apply(ctx context.Context, deductions map[string]int) int
}

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Service interface {
	PlaceOrder(ctx context.Context, items []queue.OrderItem) (*queue.Order, error)
}

// service composes the durable queue, the sync engine's single-order
// delivery path, the stock reconciler and the product cache into the
// "place order" action. Only the local enqueue can fail a checkout;
// every network step is best effort.
type service struct {
	queue    Queue
	syncer   Deliverer
	stock    Reconciler
	cache    *product.Cache
	products Refresher
}

func NewService(q Queue, d Deliverer, r Reconciler, cache *product.Cache, products Refresher) Service {
	return &service{
		queue:    q,
		syncer:   d,
		stock:    r,
		cache:    cache,
		products: products,
	}
}

func (s *service) PlaceOrder(ctx context.Context, items []queue.OrderItem) (*queue.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.Int("item_count", len(items)),
	)

	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	total := 0.0
	for _, it := range items {
		if it.ProductID == "" {
			return nil, ErrInvalidProduct
		}
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		total += float64(it.Quantity) * it.UnitPrice
	}

	order := queue.Order{
		Items:     items,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}

	// 1. Durable enqueue. The only step allowed to fail the checkout.
	id, err := s.queue.Enqueue(ctx, order)
	if err != nil {
		log.Error("failed to enqueue order", zap.Error(err))
		return nil, err
	}
	order.ID = id
	log = log.With(zap.Int64("order_id", id), zap.Float64("total", total))
	log.Info("order queued")

	deductions := stock.BuildDeductions(items)

	// 2. Immediate delivery attempt. Failure leaves the order queued
	// for the next sync scan.
	delivered := false
	if err := s.syncer.Deliver(ctx, order); err != nil {
		log.Warn("immediate delivery failed, order stays queued", zap.Error(err))
	} else {
		delivered = true
		order.Synced = true
	}

	// 3. Remote stock deduction, only after the order itself made it
	// over. Per-product failures are handled inside the reconciler.
	if delivered {
		s.stock.Apply(ctx, deductions)
	}

	// 4. Optimistic local deduction so the UI updates right away,
	// online or not.
	s.cache.ApplyDeductions(deductions)

	// 5. Authoritative refresh after a reconciliation attempt; replaces
	// the optimistic guess with what the remote side actually holds.
	if delivered {
		_ = s.products.Refresh(ctx)
	}

	return &order, nil
}
