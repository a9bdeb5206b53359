package condrv

import "sync/atomic"

// Metrics tracks operational statistics for a Server's dispatch loop:
// per-verb request counts, decode outcomes, and snapshot publication
// cadence.
type Metrics struct {
	RequestsTotal      atomic.Uint64
	RequestsFailed     atomic.Uint64
	RequestsByVerb     [9]atomic.Uint64 // indexed by ConsoleIo* verb code (0 unused)
	DecodeKeyEvents    atomic.Uint64
	DecodeIgnored      atomic.Uint64
	DecodeLiteral      atomic.Uint64
	SnapshotsPublished atomic.Uint64
	LastRevision       atomic.Uint64
}

// NewMetrics creates a zero-valued Metrics instance.
func NewMetrics() *Metrics { return &Metrics{} }

// MetricsObserver adapts a *Metrics into interfaces.Observer.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver wraps m as an interfaces.Observer.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

// ObserveRequest records one dispatched request.
func (o *MetricsObserver) ObserveRequest(verb uint32, durationNs uint64, success bool) {
	o.metrics.RequestsTotal.Add(1)
	if !success {
		o.metrics.RequestsFailed.Add(1)
	}
	if int(verb) >= 0 && int(verb) < len(o.metrics.RequestsByVerb) {
		o.metrics.RequestsByVerb[verb].Add(1)
	}
}

// ObserveDecode records one VT decode outcome.
func (o *MetricsObserver) ObserveDecode(outcome string) {
	switch outcome {
	case "key_event":
		o.metrics.DecodeKeyEvents.Add(1)
	case "ignored":
		o.metrics.DecodeIgnored.Add(1)
	case "literal":
		o.metrics.DecodeLiteral.Add(1)
	}
}

// ObserveSnapshotPublished records a snapshot publication.
func (o *MetricsObserver) ObserveSnapshotPublished(revision uint64) {
	o.metrics.SnapshotsPublished.Add(1)
	o.metrics.LastRevision.Store(revision)
}

// NoOpObserver discards every observation. A caller can pass it as
// ServerParams.Observer; NewServer never selects it on its own (with no
// Observer it uses a Metrics-backed observer).
type NoOpObserver struct{}

func (NoOpObserver) ObserveRequest(verb uint32, durationNs uint64, success bool) {}
func (NoOpObserver) ObserveDecode(outcome string)                               {}
func (NoOpObserver) ObserveSnapshotPublished(revision uint64)                   {}
