package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/store"
)

// ErrEmptyUpsert is returned when Upsert is called without a team or
// without players.
var ErrEmptyUpsert = errors.New("upsert needs a team and at least one player")

// GraphClient writes resolved scouting facts into a graph store.
//
// A GraphClient should be created using NewGraphClient. It holds no state
// of its own; concurrent Upserts are as safe as the store's find-or-create
// primitives.
type GraphClient struct {
	store store.GraphStore
}

// NewGraphClientParams defines the collaborators of a GraphClient.
type NewGraphClientParams struct {
	Store store.GraphStore
}

// NewGraphClient creates a GraphClient on the given store.
//
// Example:
//
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		Store: memory.NewGraphStorage(),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("graph store is nil")
	}
	return &GraphClient{store: params.Store}, nil
}

// Upsert ensures the team node, every player node and one has-key-player
// edge per player. Calling it again with the same arguments creates nothing.
//
// On a store failure the error is returned together with a summary of the
// players written so far; those writes are not rolled back.
func (g *GraphClient) Upsert(ctx context.Context, team string, players []string) (common.WriteSummary, error) {
	team = strings.TrimSpace(team)
	trimmed := make([]string, 0, len(players))
	for _, name := range players {
		if name = strings.TrimSpace(name); name != "" {
			trimmed = append(trimmed, name)
		}
	}
	players = store.DedupeStrings(trimmed)
	if team == "" || len(players) == 0 {
		return common.WriteSummary{}, ErrEmptyUpsert
	}

	summary := common.WriteSummary{
		Team:    team,
		Players: make([]string, 0, len(players)),
	}

	created, err := g.store.EnsureNode(ctx, store.NodeTeam, team)
	if err != nil {
		return summary, fmt.Errorf("failed to ensure team %q: %w", team, err)
	}
	if created {
		summary.NodesCreated++
	}

	for _, player := range players {
		created, err := g.store.EnsureNode(ctx, store.NodePlayer, player)
		if err != nil {
			return summary, fmt.Errorf("failed to ensure player %q: %w", player, err)
		}
		if created {
			summary.NodesCreated++
		}

		created, err = g.store.EnsureEdge(ctx, store.EdgeHasKeyPlayer, team, player)
		if err != nil {
			return summary, fmt.Errorf("failed to link %q to %q: %w", player, team, err)
		}
		if created {
			summary.EdgesCreated++
		}
		summary.Players = append(summary.Players, player)
	}

	logger.Info(
		"[Graph][Upsert] Graph updated",
		"team", team,
		"players", len(summary.Players),
		"nodes_created", summary.NodesCreated,
		"edges_created", summary.EdgesCreated,
	)
	return summary, nil
}
