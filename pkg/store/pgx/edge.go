package pgx

import (
	"context"
	"fmt"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
)

const ensureEdgeSQL = `
INSERT INTO graph_edges (label, from_id, to_id)
SELECT $1, f.id, t.id
FROM graph_nodes f, graph_nodes t
WHERE f.label = $2 AND f.name = $3
  AND t.label = $4 AND t.name = $5
ON CONFLICT (label, from_id, to_id) DO NOTHING`

const edgeExistsSQL = `
SELECT EXISTS (
    SELECT 1
    FROM graph_edges e
    JOIN graph_nodes f ON f.id = e.from_id
    JOIN graph_nodes t ON t.id = e.to_id
    WHERE e.label = $1
      AND f.label = $2 AND f.name = $3
      AND t.label = $4 AND t.name = $5
)`

// EnsureEdge creates the edge between two existing nodes if it is absent.
// Both endpoints must have been ensured before, otherwise store.ErrMissingNode
// is returned.
func (s *GraphDBStorage) EnsureEdge(ctx context.Context, label store.EdgeLabel, fromKey, toKey string) (bool, error) {
	fromLabel, toLabel, err := store.EdgeEndpoints(label)
	if err != nil {
		return false, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	args := []any{
		string(label),
		string(fromLabel), util.SanitizePostgresText(fromKey),
		string(toLabel), util.SanitizePostgresText(toKey),
	}

	tag, err := s.conn.Exec(ctx, ensureEdgeSQL, args...)
	if err != nil {
		return false, fmt.Errorf("failed to ensure %s edge %q -> %q: %w", label, fromKey, toKey, err)
	}
	if tag.RowsAffected() > 0 {
		logger.Debug("[Graph][EnsureEdge] Created edge", "label", label, "from", fromKey, "to", toKey)
		return true, nil
	}

	// Nothing inserted: either the edge exists or an endpoint is missing.
	var exists bool
	if err := s.conn.QueryRow(ctx, edgeExistsSQL, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s edge %q -> %q: %w", label, fromKey, toKey, err)
	}
	if !exists {
		return false, fmt.Errorf("%w: %q -> %q", store.ErrMissingNode, fromKey, toKey)
	}
	return false, nil
}
