package ingest

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ner"
)

// ErrNoRecognizer is returned by IngestText when the pipeline has no
// entity recognizer.
var ErrNoRecognizer = errors.New("no entity recognizer configured")

// Resolver turns a report and its spans into a team and players.
type Resolver interface {
	Resolve(text string, spans []common.LabeledSpan) common.ResolvedIdentity
}

// Mutator writes a team and its players into the graph.
type Mutator interface {
	Upsert(ctx context.Context, team string, players []string) (common.WriteSummary, error)
}

// Report is one scouting report with the spans already recognized in it.
type Report struct {
	Text  string               `json:"text"`
	Spans []common.LabeledSpan `json:"spans"`
}

// Pipeline composes resolution and graph writes.
type Pipeline struct {
	resolver   Resolver
	mutator    Mutator
	recognizer ner.Recognizer
	parallel   int
}

// NewPipelineParams configures NewPipeline.
type NewPipelineParams struct {
	Resolver Resolver
	Mutator  Mutator
	// Recognizer is optional and only needed for IngestText.
	Recognizer ner.Recognizer
	// Parallel bounds IngestBatch; values below 1 mean 4.
	Parallel int
}

// NewPipeline returns a pipeline over the given resolver and mutator.
func NewPipeline(params NewPipelineParams) (*Pipeline, error) {
	if params.Resolver == nil || params.Mutator == nil {
		return nil, fmt.Errorf("pipeline needs a resolver and a mutator")
	}
	parallel := params.Parallel
	if parallel < 1 {
		parallel = 4
	}
	return &Pipeline{
		resolver:   params.Resolver,
		mutator:    params.Mutator,
		recognizer: params.Recognizer,
		parallel:   parallel,
	}, nil
}

// Ingest resolves a report and, when both a team and players were found,
// writes them. The outcome follows the resolved identity only: neither a team
// nor players is StatusNoEntitiesDetected. Only store failures are returned
// as errors.
func (p *Pipeline) Ingest(ctx context.Context, text string, spans []common.LabeledSpan) (StatusReport, error) {
	identity := p.resolver.Resolve(text, spans)

	switch {
	case !identity.HasTeam() && !identity.HasPlayers():
		logger.Debug("[Ingest] No entities detected", "spans", len(spans))
		return StatusReport{Kind: StatusNoEntitiesDetected, Entities: spans}, nil
	case !identity.HasTeam():
		logger.Debug("[Ingest] No team detected", "players", len(identity.PlayerNames))
		return StatusReport{Kind: StatusNoTeamDetected, Entities: spans}, nil
	case !identity.HasPlayers():
		logger.Debug("[Ingest] No players detected", "team", identity.TeamName)
		return StatusReport{Kind: StatusNoPlayersDetected, Team: identity.TeamName, Entities: spans}, nil
	}

	summary, err := p.mutator.Upsert(ctx, identity.TeamName, identity.PlayerNames)
	if err != nil {
		logger.Error("[Ingest] Graph write failed", "team", identity.TeamName, "written", len(summary.Players), "err", err)
		return StatusReport{}, fmt.Errorf("failed to write report facts: %w", err)
	}

	return StatusReport{
		Kind:        StatusSuccess,
		Team:        identity.TeamName,
		Players:     identity.PlayerNames,
		Summary:     &summary,
		Suggestions: SuggestQuestions(spans),
		Entities:    spans,
	}, nil
}

// IngestText recognizes entities in text and ingests the result.
func (p *Pipeline) IngestText(ctx context.Context, text string) (StatusReport, error) {
	if p.recognizer == nil {
		return StatusReport{}, ErrNoRecognizer
	}
	spans, err := p.recognizer.Recognize(ctx, text)
	if err != nil {
		return StatusReport{}, fmt.Errorf("failed to recognize entities: %w", err)
	}
	return p.Ingest(ctx, text, spans)
}

// IngestBatch ingests reports concurrently. The i-th status belongs to the
// i-th report. The first failure cancels reports that have not started yet.
func (p *Pipeline) IngestBatch(ctx context.Context, reports []Report) ([]StatusReport, error) {
	out := make([]StatusReport, len(reports))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallel)
	for i, report := range reports {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			status, err := p.Ingest(gCtx, report.Text, report.Spans)
			if err != nil {
				return fmt.Errorf("report %d: %w", i, err)
			}
			out[i] = status
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	logger.Info("[Ingest] Batch ingested", "reports", len(reports))
	return out, nil
}
