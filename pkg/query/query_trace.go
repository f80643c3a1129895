package query

import (
	"sync"
)

type TraceEventKind string

const (
	TraceEventGenerated TraceEventKind = "generated"
	TraceEventMalformed TraceEventKind = "malformed"
	TraceEventRejected  TraceEventKind = "rejected"
	TraceEventExecuted  TraceEventKind = "executed"
	TraceEventAnswered  TraceEventKind = "answered"
)

// TraceEvent is an extensible event envelope for query tracing.
// Additive changes to this struct are backward compatible for implementers.
type TraceEvent struct {
	Kind TraceEventKind

	Query      string
	Reason     string
	Rows       int
	DurationMs int64
	Error      string
}

// Tracer is a sink for query tracing events.
//
// Implementers can forward events to logs, telemetry, or custom post-processing
// pipelines.
type Tracer interface {
	Record(event TraceEvent)
}

// MultiTracer fan-outs trace events to multiple tracers.
type MultiTracer []Tracer

func (m MultiTracer) Record(event TraceEvent) {
	for _, t := range m {
		if t == nil {
			continue
		}
		t.Record(event)
	}
}

func record(t Tracer, event TraceEvent) {
	if t == nil {
		return
	}
	t.Record(event)
}

// QueryTrace collects what happened during one Ask call.
//
// QueryTrace is safe for concurrent use.
type QueryTrace struct {
	mu     sync.Mutex
	events []TraceEvent
}

type QueryTraceSnapshot struct {
	Queries    []string `json:"queries"`
	Rejections []string `json:"rejections,omitempty"`
	Rows       int      `json:"rows"`
	DurationMs int64    `json:"duration_ms"`
	Executed   bool     `json:"executed"`
}

func NewQueryTrace() *QueryTrace {
	return &QueryTrace{}
}

func (t *QueryTrace) Record(event TraceEvent) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *QueryTrace) Snapshot() QueryTraceSnapshot {
	if t == nil {
		return QueryTraceSnapshot{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := QueryTraceSnapshot{Queries: make([]string, 0, 1)}
	for _, e := range t.events {
		s.DurationMs += e.DurationMs
		switch e.Kind {
		case TraceEventGenerated:
			s.Queries = append(s.Queries, e.Query)
		case TraceEventMalformed, TraceEventRejected:
			s.Rejections = append(s.Rejections, e.Reason)
		case TraceEventExecuted:
			s.Executed = true
			s.Rows += e.Rows
		}
	}
	return s
}
