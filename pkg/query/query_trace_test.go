package query

import "testing"

func TestQueryTraceSnapshot(t *testing.T) {
	trace := NewQueryTrace()
	var tracer Tracer = MultiTracer{nil, trace}

	tracer.Record(TraceEvent{Kind: TraceEventGenerated, Query: "MATCH (n) RETURN n", DurationMs: 10})
	tracer.Record(TraceEvent{Kind: TraceEventExecuted, Rows: 3, DurationMs: 5})
	tracer.Record(TraceEvent{Kind: TraceEventAnswered, DurationMs: 7})

	got := trace.Snapshot()
	if len(got.Queries) != 1 || got.Rows != 3 || !got.Executed || got.DurationMs != 22 {
		t.Fatalf("snapshot = %+v", got)
	}

	var nilTrace *QueryTrace
	nilTrace.Record(TraceEvent{Kind: TraceEventGenerated})
	if s := nilTrace.Snapshot(); s.Executed || len(s.Queries) != 0 {
		t.Fatalf("nil trace snapshot = %+v", s)
	}
}
