package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	aiCalls         uint64
	aiFallbacks     uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordAICall tracks calls to the AI service and how many were served
// by the local fallback instead.
func (c *Collector) RecordAICall(fallback bool) {
	atomic.AddUint64(&c.aiCalls, 1)
	if fallback {
		atomic.AddUint64(&c.aiFallbacks, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	aiCalls := atomic.LoadUint64(&c.aiCalls)
	aiFallbacks := atomic.LoadUint64(&c.aiFallbacks)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      errs,
		"rateLimitedTotal": limited,
		"aiCallsTotal":     aiCalls,
		"aiFallbacksTotal": aiFallbacks,
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
	}
}
