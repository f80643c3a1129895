package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
)

type edgeKey struct {
	label store.EdgeLabel
	from  string
	to    string
}

// GraphStorage keeps the scouting graph in process memory. A single mutex
// makes each find-or-create atomic.
type GraphStorage struct {
	mu    sync.Mutex
	nodes map[store.NodeLabel]map[string]struct{}
	edges map[edgeKey]struct{}
}

func NewGraphStorage() *GraphStorage {
	return &GraphStorage{
		nodes: make(map[store.NodeLabel]map[string]struct{}),
		edges: make(map[edgeKey]struct{}),
	}
}

func (s *GraphStorage) EnsureNode(ctx context.Context, label store.NodeLabel, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !store.ValidNodeLabel(label) {
		return false, fmt.Errorf("%w: %q", store.ErrUnknownLabel, label)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byName, ok := s.nodes[label]
	if !ok {
		byName = make(map[string]struct{})
		s.nodes[label] = byName
	}
	if _, ok := byName[key]; ok {
		return false, nil
	}
	byName[key] = struct{}{}
	return true, nil
}

func (s *GraphStorage) EnsureEdge(ctx context.Context, label store.EdgeLabel, fromKey, toKey string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fromLabel, toLabel, err := store.EdgeEndpoints(label)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasNode(fromLabel, fromKey) || !s.hasNode(toLabel, toKey) {
		return false, store.ErrMissingNode
	}
	k := edgeKey{label: label, from: fromKey, to: toKey}
	if _, ok := s.edges[k]; ok {
		return false, nil
	}
	s.edges[k] = struct{}{}
	return true, nil
}

func (s *GraphStorage) hasNode(label store.NodeLabel, key string) bool {
	_, ok := s.nodes[label][key]
	return ok
}

// Nodes returns the sorted keys of all nodes with label.
func (s *GraphStorage) Nodes(label store.NodeLabel) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.nodes[label]))
	for k := range s.nodes[label] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Targets returns the sorted keys reachable from fromKey over label.
func (s *GraphStorage) Targets(label store.EdgeLabel, fromKey string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for k := range s.edges {
		if k.label == label && k.from == fromKey {
			out = append(out, k.to)
		}
	}
	sort.Strings(out)
	return out
}

// EdgeCount returns the number of stored edges.
func (s *GraphStorage) EdgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}
