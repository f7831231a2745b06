// Package metrics keeps in-process request counters for the admin snapshot
// endpoint. Counters are plain atomics; nothing is exported to an external
// collector.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"
)

type Collector struct {
	served       atomic.Uint64
	clientErrors atomic.Uint64
	serverErrors atomic.Uint64
	throttled    atomic.Uint64
	busyMs       atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.served.Add(1)
	switch {
	case status == http.StatusTooManyRequests:
		c.throttled.Add(1)
		c.clientErrors.Add(1)
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	c.busyMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	served := c.served.Load()
	busy := c.busyMs.Load()
	avg := float64(0)
	if served > 0 {
		avg = float64(busy) / float64(served)
	}
	return map[string]any{
		"requestsServed": served,
		"clientErrors":   c.clientErrors.Load(),
		"serverErrors":   c.serverErrors.Load(),
		"throttled":      c.throttled.Load(),
		"avgDurationMs":  avg,
		"busyMs":         busy,
	}
}
