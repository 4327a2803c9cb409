// Package metrics defines the MetricsRecorder boundary and a noop default.
package metrics

import "time"

// MetricsRecorder receives operational metrics from the SDK. Components pass
// their name ("ledger", "codec", "beacon", "registry") plus the operation.
type MetricsRecorder interface {
	RecordOp(component, op string)
	RecordLatency(component, op string, d time.Duration)
	RecordError(component, op string)
	RecordPending(count int64)
}

// Noop discards all recordings.
type Noop struct{}

func (Noop) RecordOp(component, op string)                       {}
func (Noop) RecordLatency(component, op string, d time.Duration) {}
func (Noop) RecordError(component, op string)                    {}
func (Noop) RecordPending(count int64)                           {}
