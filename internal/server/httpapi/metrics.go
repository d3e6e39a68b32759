package httpapi

import (
	"sync/atomic"
	"time"
)

// Metrics collects in-memory server metrics using atomic counters.
type Metrics struct {
	startTime     time.Time
	requests      atomic.Int64
	serverErrors  atomic.Int64
	clientErrors  atomic.Int64
	pushRequests  atomic.Int64
	pushedRecords atomic.Int64
	pullRequests  atomic.Int64
	pulledRecords atomic.Int64
	partialPulls  atomic.Int64
	probeRequests atomic.Int64
}

// MetricsSnapshot is a point-in-time view of server metrics.
type MetricsSnapshot struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	Requests      int64   `json:"requests"`
	ServerErrors  int64   `json:"server_errors"`
	ClientErrors  int64   `json:"client_errors"`
	PushRequests  int64   `json:"push_requests"`
	PushedRecords int64   `json:"pushed_records"`
	PullRequests  int64   `json:"pull_requests"`
	PulledRecords int64   `json:"pulled_records"`
	PartialPulls  int64   `json:"partial_pulls"`
	ProbeRequests int64   `json:"probe_requests"`
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) RecordRequest()     { m.requests.Add(1) }
func (m *Metrics) RecordError()       { m.serverErrors.Add(1) }
func (m *Metrics) RecordClientError() { m.clientErrors.Add(1) }
func (m *Metrics) RecordProbe()       { m.probeRequests.Add(1) }

// RecordPush counts one successful push of n records.
func (m *Metrics) RecordPush(n int64) {
	m.pushRequests.Add(1)
	m.pushedRecords.Add(n)
}

// RecordPull counts one successful pull of n records; partial marks a pull
// with at least one failed entity type.
func (m *Metrics) RecordPull(n int64, partial bool) {
	m.pullRequests.Add(1)
	m.pulledRecords.Add(n)
	if partial {
		m.partialPulls.Add(1)
	}
}

// Snapshot returns a point-in-time copy of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		UptimeSeconds: time.Since(m.startTime).Seconds(),
		Requests:      m.requests.Load(),
		ServerErrors:  m.serverErrors.Load(),
		ClientErrors:  m.clientErrors.Load(),
		PushRequests:  m.pushRequests.Load(),
		PushedRecords: m.pushedRecords.Load(),
		PullRequests:  m.pullRequests.Load(),
		PulledRecords: m.pulledRecords.Load(),
		PartialPulls:  m.partialPulls.Load(),
		ProbeRequests: m.probeRequests.Load(),
	}
}
