package pgx

import (
	"context"
	"fmt"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
)

const ensureNodeSQL = `
INSERT INTO graph_nodes (label, name)
VALUES ($1, $2)
ON CONFLICT (label, name) DO NOTHING`

// EnsureNode creates the node if no node with the same label and name exists.
func (s *GraphDBStorage) EnsureNode(ctx context.Context, label store.NodeLabel, key string) (bool, error) {
	if !store.ValidNodeLabel(label) {
		return false, fmt.Errorf("%w: %q", store.ErrUnknownLabel, label)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.conn.Exec(ctx, ensureNodeSQL, string(label), util.SanitizePostgresText(key))
	if err != nil {
		return false, fmt.Errorf("failed to ensure %s node %q: %w", label, key, err)
	}

	created := tag.RowsAffected() > 0
	logger.Debug("[Graph][EnsureNode] Ensured node", "label", label, "name", key, "created", created)
	return created, nil
}
