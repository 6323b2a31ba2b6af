package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ordersync-be/internal/queue"
	"ordersync-be/internal/remote"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListOrders(ctx context.Context) ([]remote.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]remote.Order), args.Error(1)
}

type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) ListAll(ctx context.Context) ([]queue.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queue.Order), args.Error(1)
}

func TestService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("ListOrders", ctx).Return([]remote.Order{
			{ID: "7", Total: 200, CreatedAt: time.Now()},
		}, nil)

		svc := NewService(gw, new(MockQueue))
		orders, err := svc.History(ctx)

		require.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("RemoteFailure", func(t *testing.T) {
		gw := new(MockGateway)
		gw.On("ListOrders", ctx).Return(nil, errors.New("offline"))

		svc := NewService(gw, new(MockQueue))
		_, err := svc.History(ctx)
		assert.Error(t, err)
	})
}

func TestService_Local(t *testing.T) {
	ctx := context.Background()
	q := new(MockQueue)
	q.On("ListAll", ctx).Return([]queue.Order{
		{ID: 1, Total: 100, Synced: true},
		{ID: 2, Total: 50, Synced: false},
	}, nil)

	svc := NewService(new(MockGateway), q)
	orders, err := svc.Local(ctx)

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.False(t, orders[1].Synced)
}
