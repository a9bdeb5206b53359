package condrv

import "testing"

func TestMetricsObserverTracksRequests(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	o.ObserveRequest(1, 0, true)
	o.ObserveRequest(1, 0, false)

	if m.RequestsTotal.Load() != 2 {
		t.Fatalf("RequestsTotal = %d, want 2", m.RequestsTotal.Load())
	}
	if m.RequestsFailed.Load() != 1 {
		t.Fatalf("RequestsFailed = %d, want 1", m.RequestsFailed.Load())
	}
	if m.RequestsByVerb[1].Load() != 2 {
		t.Fatalf("RequestsByVerb[1] = %d, want 2", m.RequestsByVerb[1].Load())
	}
}

func TestMetricsObserverTracksDecodeOutcomes(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	o.ObserveDecode("key_event")
	o.ObserveDecode("ignored")
	o.ObserveDecode("literal")
	o.ObserveDecode("literal")

	if m.DecodeKeyEvents.Load() != 1 || m.DecodeIgnored.Load() != 1 || m.DecodeLiteral.Load() != 2 {
		t.Fatalf("decode counts = %d/%d/%d", m.DecodeKeyEvents.Load(), m.DecodeIgnored.Load(), m.DecodeLiteral.Load())
	}
}

func TestMetricsObserverTracksSnapshots(t *testing.T) {
	m := NewMetrics()
	o := NewMetricsObserver(m)

	o.ObserveSnapshotPublished(5)
	o.ObserveSnapshotPublished(6)

	if m.SnapshotsPublished.Load() != 2 {
		t.Fatalf("SnapshotsPublished = %d, want 2", m.SnapshotsPublished.Load())
	}
	if m.LastRevision.Load() != 6 {
		t.Fatalf("LastRevision = %d, want 6", m.LastRevision.Load())
	}
}

func TestNoOpObserverDoesNothing(t *testing.T) {
	var o NoOpObserver
	o.ObserveRequest(1, 0, true)
	o.ObserveDecode("key_event")
	o.ObserveSnapshotPublished(1)
}
