package order

import (
	"context"

	"go.uber.org/zap"

	"ordersync-be/internal/logger"
	"ordersync-be/internal/queue"
	"ordersync-be/internal/remote"
)

type Gateway interface {
	ListOrders(ctx context.Context) ([]remote.Order, error)
}

type Queue interface {
	ListAll(ctx context.Context) ([]queue.Order, error)
}

// Service backs the order-history views: the remote listing of
// persisted orders, and the local audit trail including orders still
// waiting to sync.
type Service interface {
	History(ctx context.Context) ([]remote.Order, error)
	Local(ctx context.Context) ([]queue.Order, error)
}

type service struct {
	gw    Gateway
	queue Queue
}

func NewService(gw Gateway, q Queue) Service {
	return &service{gw: gw, queue: q}
}

func (s *service) History(ctx context.Context) ([]remote.Order, error) {
	orders, err := s.gw.ListOrders(ctx)
	if err != nil {
		logger.FromCtx(ctx).Warn("failed to fetch remote order history", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *service) Local(ctx context.Context) ([]queue.Order, error) {
	return s.queue.ListAll(ctx)
}
