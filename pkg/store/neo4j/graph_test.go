package neo4j

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
)

type call struct {
	query  string
	params map[string]any
	write  bool
}

type fakeExecutor struct {
	calls   []call
	results []execResult
	err     error
}

func (f *fakeExecutor) execute(ctx context.Context, query string, params map[string]any, write bool) (execResult, error) {
	f.calls = append(f.calls, call{query: query, params: params, write: write})
	if f.err != nil {
		return execResult{}, f.err
	}
	if len(f.results) == 0 {
		return execResult{}, nil
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res, nil
}

func TestEnsureNode(t *testing.T) {
	exec := &fakeExecutor{results: []execResult{{NodesCreated: 1}, {}}}
	s := &GraphStorage{exec: exec}
	ctx := context.Background()

	created, err := s.EnsureNode(ctx, store.NodeTeam, "Los Primos")
	if err != nil || !created {
		t.Fatalf("first EnsureNode = %v, %v", created, err)
	}
	created, err = s.EnsureNode(ctx, store.NodePlayer, "Fernandez")
	if err != nil || created {
		t.Fatalf("second EnsureNode = %v, %v", created, err)
	}

	if got := exec.calls[0].query; got != "MERGE (n:Rival {nombre: $nombre})" {
		t.Fatalf("query = %q", got)
	}
	if got := exec.calls[1].query; !strings.Contains(got, ":JugadorRival") {
		t.Fatalf("query = %q", got)
	}
	if !exec.calls[0].write || exec.calls[0].params["nombre"] != "Los Primos" {
		t.Fatalf("call = %+v", exec.calls[0])
	}
	if _, err := s.EnsureNode(ctx, "Coach", "x"); !errors.Is(err, store.ErrUnknownLabel) {
		t.Fatalf("err = %v, want ErrUnknownLabel", err)
	}
}

func TestEnsureEdge(t *testing.T) {
	ctx := context.Background()
	row := []map[string]any{{"equipo": "Los Primos"}}

	tests := []struct {
		name        string
		result      execResult
		wantCreated bool
		wantErr     error
	}{
		{"created", execResult{RelsCreated: 1, Rows: row}, true, nil},
		{"existing", execResult{Rows: row}, false, nil},
		{"missing endpoint", execResult{}, false, store.ErrMissingNode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{results: []execResult{tt.result}}
			s := &GraphStorage{exec: exec}

			created, err := s.EnsureEdge(ctx, store.EdgeHasKeyPlayer, "Los Primos", "Fernandez")
			if !errors.Is(err, tt.wantErr) || created != tt.wantCreated {
				t.Fatalf("EnsureEdge = %v, %v; want %v, %v", created, err, tt.wantCreated, tt.wantErr)
			}
			q := exec.calls[0].query
			if !strings.Contains(q, "MERGE (f)-[:TIENE_JUGADOR_CLAVE]->(t)") {
				t.Fatalf("query = %q", q)
			}
		})
	}
}

func TestRunUsesReadRouting(t *testing.T) {
	exec := &fakeExecutor{results: []execResult{{Rows: []map[string]any{{"nombre": "Fernandez"}}}}}
	s := &GraphStorage{exec: exec}

	rows, err := s.Run(context.Background(), "MATCH (j:JugadorRival) RETURN j.nombre AS nombre", nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 1 || rows[0]["nombre"] != "Fernandez" {
		t.Fatalf("rows = %v", rows)
	}
	if exec.calls[0].write {
		t.Fatal("Run used write routing")
	}
}

func TestEnsureSchema(t *testing.T) {
	exec := &fakeExecutor{}
	s := &GraphStorage{exec: exec}
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(exec.calls) != 2 || !strings.Contains(exec.calls[0].query, "REQUIRE n.nombre IS UNIQUE") {
		t.Fatalf("calls = %+v", exec.calls)
	}

	failing := &GraphStorage{exec: &fakeExecutor{err: errors.New("unavailable")}}
	if err := failing.EnsureSchema(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
