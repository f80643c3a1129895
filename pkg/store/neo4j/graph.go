package neo4j

import (
	"context"
	"fmt"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
)

func physicalLabel(label store.NodeLabel) (string, error) {
	switch label {
	case store.NodeTeam:
		return labelRival, nil
	case store.NodePlayer:
		return labelJugadorRival, nil
	default:
		return "", fmt.Errorf("%w: %q", store.ErrUnknownLabel, label)
	}
}

func physicalRelation(label store.EdgeLabel) (string, error) {
	switch label {
	case store.EdgeHasKeyPlayer:
		return relJugadorClave, nil
	default:
		return "", fmt.Errorf("%w: %q", store.ErrUnknownLabel, label)
	}
}

// EnsureNode merges a node keyed by nombre.
func (s *GraphStorage) EnsureNode(ctx context.Context, label store.NodeLabel, key string) (bool, error) {
	pl, err := physicalLabel(label)
	if err != nil {
		return false, err
	}

	q := fmt.Sprintf("MERGE (n:%s {%s: $nombre})", pl, keyProperty)
	res, err := s.exec.execute(ctx, q, map[string]any{"nombre": key}, true)
	if err != nil {
		return false, fmt.Errorf("failed to merge %s %q: %w", pl, key, err)
	}

	created := res.NodesCreated > 0
	logger.Debug("[Graph][EnsureNode] Merged node", "label", pl, "name", key, "created", created)
	return created, nil
}

// EnsureEdge merges the relationship between two existing nodes. The MATCH
// clauses yield no row when an endpoint is missing.
func (s *GraphStorage) EnsureEdge(ctx context.Context, label store.EdgeLabel, fromKey, toKey string) (bool, error) {
	fromLabel, toLabel, err := store.EdgeEndpoints(label)
	if err != nil {
		return false, err
	}
	rel, err := physicalRelation(label)
	if err != nil {
		return false, err
	}
	fl, err := physicalLabel(fromLabel)
	if err != nil {
		return false, err
	}
	tl, err := physicalLabel(toLabel)
	if err != nil {
		return false, err
	}

	q := fmt.Sprintf(
		"MATCH (f:%s {%s: $from}) MATCH (t:%s {%s: $to}) MERGE (f)-[:%s]->(t) RETURN f.%s AS equipo",
		fl, keyProperty, tl, keyProperty, rel, keyProperty,
	)
	res, err := s.exec.execute(ctx, q, map[string]any{"from": fromKey, "to": toKey}, true)
	if err != nil {
		return false, fmt.Errorf("failed to merge %s %q -> %q: %w", rel, fromKey, toKey, err)
	}
	if len(res.Rows) == 0 {
		return false, fmt.Errorf("%w: %q -> %q", store.ErrMissingNode, fromKey, toKey)
	}

	created := res.RelsCreated > 0
	logger.Debug("[Graph][EnsureEdge] Merged relationship", "type", rel, "from", fromKey, "to", toKey, "created", created)
	return created, nil
}
