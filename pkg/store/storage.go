package store

import (
	"context"
	"errors"
	"fmt"
)

// NodeLabel is the logical vertex type of the scouting graph.
type NodeLabel string

const (
	NodeTeam   NodeLabel = "Team"
	NodePlayer NodeLabel = "Player"
)

// EdgeLabel is the logical relationship type of the scouting graph.
type EdgeLabel string

const (
	EdgeHasKeyPlayer EdgeLabel = "has-key-player"
)

// ErrMissingNode is returned by EnsureEdge when one of the endpoints does not
// exist yet.
var ErrMissingNode = errors.New("edge endpoint does not exist")

// ErrUnknownLabel is returned for labels outside the scouting schema.
var ErrUnknownLabel = errors.New("unknown graph label")

// GraphStore persists the scouting graph. Both primitives are atomic
// find-or-create operations keyed by name: repeating a call never duplicates
// a node or an edge, also when calls race. created reports whether this call
// wrote something new.
type GraphStore interface {
	EnsureNode(ctx context.Context, label NodeLabel, key string) (created bool, err error)
	EnsureEdge(ctx context.Context, label EdgeLabel, fromKey, toKey string) (created bool, err error)
}

// EdgeEndpoints returns the node labels an edge label connects.
func EdgeEndpoints(label EdgeLabel) (from NodeLabel, to NodeLabel, err error) {
	switch label {
	case EdgeHasKeyPlayer:
		return NodeTeam, NodePlayer, nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
}

// ValidNodeLabel reports whether label belongs to the scouting schema.
func ValidNodeLabel(label NodeLabel) bool {
	return label == NodeTeam || label == NodePlayer
}
