package graph

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store/memory"
)

func newClient(t *testing.T, s store.GraphStore) *GraphClient {
	t.Helper()
	c, err := NewGraphClient(NewGraphClientParams{Store: s})
	if err != nil {
		t.Fatalf("NewGraphClient: %v", err)
	}
	return c
}

func TestNewGraphClientRequiresStore(t *testing.T) {
	if _, err := NewGraphClient(NewGraphClientParams{}); err == nil {
		t.Fatal("expected error for nil store")
	}
}

func TestUpsertScenarioA(t *testing.T) {
	s := memory.NewGraphStorage()
	c := newClient(t, s)

	summary, err := c.Upsert(context.Background(), "Los Primos", []string{"Fernandez"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if summary.Team != "Los Primos" || !slices.Equal(summary.Players, []string{"Fernandez"}) {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.NodesCreated != 2 || summary.EdgesCreated != 1 {
		t.Fatalf("created nodes=%d edges=%d, want 2 and 1", summary.NodesCreated, summary.EdgesCreated)
	}
	if got := s.Targets(store.EdgeHasKeyPlayer, "Los Primos"); !slices.Equal(got, []string{"Fernandez"}) {
		t.Fatalf("edges = %v", got)
	}
}

func TestUpsertIdempotent(t *testing.T) {
	s := memory.NewGraphStorage()
	c := newClient(t, s)
	ctx := context.Background()

	if _, err := c.Upsert(ctx, "Los Primos", []string{"Gomez", "Ramirez"}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	second, err := c.Upsert(ctx, "Los Primos", []string{"Gomez", "Ramirez"})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if second.NodesCreated != 0 || second.EdgesCreated != 0 {
		t.Fatalf("repeat created nodes=%d edges=%d", second.NodesCreated, second.EdgesCreated)
	}
	if got := len(s.Nodes(store.NodeTeam)); got != 1 {
		t.Fatalf("teams = %d, want 1", got)
	}
	if got := len(s.Nodes(store.NodePlayer)); got != 2 {
		t.Fatalf("players = %d, want 2", got)
	}
	if got := s.EdgeCount(); got != 2 {
		t.Fatalf("edges = %d, want 2", got)
	}
}

func TestUpsertAddsEdgesToExistingTeam(t *testing.T) {
	s := memory.NewGraphStorage()
	c := newClient(t, s)
	ctx := context.Background()

	_, _ = c.Upsert(ctx, "Los Primos", []string{"Gomez"})
	summary, err := c.Upsert(ctx, "Los Primos", []string{"Gomez", "Sosa"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if summary.NodesCreated != 1 || summary.EdgesCreated != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestUpsertPreconditions(t *testing.T) {
	c := newClient(t, memory.NewGraphStorage())
	ctx := context.Background()

	tests := []struct {
		name    string
		team    string
		players []string
	}{
		{"no team", "", []string{"Gomez"}},
		{"blank team", "  ", []string{"Gomez"}},
		{"no players", "Los Primos", nil},
		{"only empty players", "Los Primos", []string{""}},
		{"only blank players", "Los Primos", []string{" ", "\t\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Upsert(ctx, tt.team, tt.players); !errors.Is(err, ErrEmptyUpsert) {
				t.Fatalf("err = %v, want ErrEmptyUpsert", err)
			}
		})
	}
}

func TestUpsertTrimsPlayers(t *testing.T) {
	s := memory.NewGraphStorage()
	c := newClient(t, s)

	summary, err := c.Upsert(context.Background(), "Los Primos", []string{" Gomez ", "  ", "Gomez", "Sosa\n"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !slices.Equal(summary.Players, []string{"Gomez", "Sosa"}) {
		t.Fatalf("players = %v, want [Gomez Sosa]", summary.Players)
	}
	if got := s.Nodes(store.NodePlayer); !slices.Equal(got, []string{"Gomez", "Sosa"}) {
		t.Fatalf("player nodes = %v", got)
	}
}

func TestUpsertConcurrentSameTeam(t *testing.T) {
	s := memory.NewGraphStorage()
	c := newClient(t, s)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			players := []string{"Gomez", fmt.Sprintf("Jugador %d", i%4)}
			if _, err := c.Upsert(ctx, "Los Primos", players); err != nil {
				t.Errorf("Upsert: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(s.Nodes(store.NodeTeam)); got != 1 {
		t.Fatalf("teams = %d, want 1", got)
	}
	if got := len(s.Nodes(store.NodePlayer)); got != 5 {
		t.Fatalf("players = %d, want 5", got)
	}
	if got := s.EdgeCount(); got != 5 {
		t.Fatalf("edges = %d, want 5", got)
	}
}

type failingStore struct {
	store.GraphStore
	failOn string
}

func (f *failingStore) EnsureNode(ctx context.Context, label store.NodeLabel, key string) (bool, error) {
	if key == f.failOn {
		return false, errors.New("store unavailable")
	}
	return f.GraphStore.EnsureNode(ctx, label, key)
}

func TestUpsertMidBatchFailure(t *testing.T) {
	mem := memory.NewGraphStorage()
	c := newClient(t, &failingStore{GraphStore: mem, failOn: "Ramirez"})

	summary, err := c.Upsert(context.Background(), "Los Primos", []string{"Gomez", "Ramirez", "Sosa"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !slices.Equal(summary.Players, []string{"Gomez"}) {
		t.Fatalf("written players = %v, want [Gomez]", summary.Players)
	}
	if got := mem.Targets(store.EdgeHasKeyPlayer, "Los Primos"); !slices.Equal(got, []string{"Gomez"}) {
		t.Fatalf("persisted edges = %v, want [Gomez]", got)
	}
}
