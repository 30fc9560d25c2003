// Package metrics provides a small, backend-agnostic abstraction for
// recording operational metrics from the pipeline stages.
//
// The global backend defaults to a no-op implementation, so metric calls are
// always safe even when no real backend is configured. Concrete systems
// (Prometheus Pushgateway) live in subpackages, mirroring the storage
// factory pattern: the core never imports a metrics client directly.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveDuration records a duration-style value in seconds.
	ObserveDuration(name string, seconds float64, labels Labels)
	// Flush pushes buffered metrics if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)      {}
func (nopBackend) ObserveDuration(string, float64, Labels) {}
func (nopBackend) Flush() error                            { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing one.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error { return backend.Flush() }

// RecordStage records one execution of a pipeline stage: a success/failure
// counter plus its duration.
func RecordStage(stage string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"stage": stage, "status": status}
	backend.IncCounter("userseed_stage_total", 1, lbls)
	backend.ObserveDuration("userseed_stage_duration_seconds", d.Seconds(), lbls)
}

// RecordRows increments a record-level counter for one outcome kind, e.g.
// "generated", "email_invalid", "date_unparsed", "loaded".
func RecordRows(kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter("userseed_records_total", float64(delta), Labels{"kind": kind})
}
