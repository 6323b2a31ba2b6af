package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Sync tracks delivery activity of the background sync engine. Exposed
// on the health endpoint for quick inspection.
type Sync struct {
	Scans     Counter
	Delivered Counter
	Failed    Counter
}

type SyncSnapshot struct {
	Scans     uint64 `json:"scans"`
	Delivered uint64 `json:"delivered"`
	Failed    uint64 `json:"failed"`
}

func (s *Sync) Snapshot() SyncSnapshot {
	return SyncSnapshot{
		Scans:     s.Scans.Load(),
		Delivered: s.Delivered.Load(),
		Failed:    s.Failed.Load(),
	}
}
