package monitoring

import (
	"time"
)

// Timer measures one exchange and records it on Stop
type Timer struct {
	start   time.Time
	metrics *Metrics
	backend string
}

func NewTimer(metrics *Metrics, backend string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		backend: backend,
	}
}

// Stop records the exchange with its status class and declared length
func (t *Timer) Stop(class string, length int64) time.Duration {
	duration := time.Since(t.start)
	t.metrics.RecordResponse(t.backend, class, duration, length)
	return duration
}

// Fail records an exchange that produced no response
func (t *Timer) Fail() time.Duration {
	duration := time.Since(t.start)
	t.metrics.RecordTransportError(t.backend)
	return duration
}
