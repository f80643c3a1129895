package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ai"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/cypher"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
)

// ErrNoRunner is returned when a validated query cannot be executed because
// the configured graph store does not speak Cypher.
var ErrNoRunner = errors.New("graph store cannot run Cypher queries")

// Answer is the outcome of a question. When the generated query was
// rejected, Verdict carries the reason, Rows is nil and Text repeats the reason.
type Answer struct {
	Question string           `json:"question"`
	Query    string           `json:"query"`
	Verdict  cypher.Verdict   `json:"verdict"`
	Rows     []map[string]any `json:"rows,omitempty"`
	Text     string           `json:"text"`
}

// Client answers coach questions over the graph: the language model writes
// a Cypher query, the query is guarded and validated, executed and the rows
// are turned into a Spanish answer.
type Client struct {
	ai        ai.GraphAIClient
	validator *cypher.Validator
	runner    cypher.Runner
	schema    string
	tracer    Tracer
}

type NewClientParams struct {
	AI        ai.GraphAIClient
	Validator *cypher.Validator
	// Runner may be nil; Ask then fails with ErrNoRunner after validation.
	Runner cypher.Runner
	// Schema defaults to ai.GraphSchema.
	Schema string
	Tracer Tracer
}

func NewClient(params NewClientParams) (*Client, error) {
	if params.AI == nil {
		return nil, fmt.Errorf("ai client is nil")
	}
	validator := params.Validator
	if validator == nil {
		validator = cypher.NewValidator(cypher.NewValidatorParams{})
	}
	schema := params.Schema
	if schema == "" {
		schema = ai.GraphSchema
	}

	c := &Client{
		ai:        params.AI,
		validator: validator,
		schema:    schema,
		tracer:    params.Tracer,
	}
	if params.Runner != nil {
		c.runner = cypher.NewGuardedRunner(params.Runner)
	}
	return c, nil
}

// Ask answers question. A malformed property map is returned as an error
// (see cypher.ErrMalformedPropertyMap); a wrong-dialect query is not an
// error but an Answer with an invalid verdict. Rejected queries never reach
// the graph store.
func (c *Client) Ask(ctx context.Context, question string) (*Answer, error) {
	return c.ask(ctx, question, c.tracer)
}

// AskTraced is Ask with an extra tracer for this call only.
func (c *Client) AskTraced(ctx context.Context, question string, tracer Tracer) (*Answer, error) {
	return c.ask(ctx, question, MultiTracer{c.tracer, tracer})
}

func (c *Client) ask(ctx context.Context, question string, tracer Tracer) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	start := time.Now()
	raw, err := c.ai.GenerateCompletion(
		ctx,
		fmt.Sprintf(ai.CypherPrompt, c.schema, question),
		ai.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query: %w", err)
	}
	q := cypher.ExtractQuery(raw)
	record(tracer, TraceEvent{Kind: TraceEventGenerated, Query: q, DurationMs: time.Since(start).Milliseconds()})
	logger.Debug("[Query][Ask] Generated query", "query", q)

	if err := cypher.GuardPropertyMaps(q); err != nil {
		record(tracer, TraceEvent{Kind: TraceEventMalformed, Query: q, Reason: err.Error()})
		logger.Warn("[Query][Ask] Malformed query rejected", "query", q)
		return nil, err
	}

	verdict := c.validator.Validate(q)
	answer := &Answer{Question: question, Query: q, Verdict: verdict}
	if !verdict.Valid {
		record(tracer, TraceEvent{Kind: TraceEventRejected, Query: q, Reason: verdict.Reason})
		logger.Warn("[Query][Ask] Query rejected", "query", q, "reason", verdict.Reason)
		answer.Text = verdict.Reason
		return answer, nil
	}

	if c.runner == nil {
		return nil, ErrNoRunner
	}

	start = time.Now()
	rows, err := c.runner.Run(ctx, q, nil)
	if err != nil {
		record(tracer, TraceEvent{Kind: TraceEventExecuted, Query: q, Error: err.Error()})
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	record(tracer, TraceEvent{Kind: TraceEventExecuted, Query: q, Rows: len(rows), DurationMs: time.Since(start).Milliseconds()})
	answer.Rows = rows

	contextJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query rows: %w", err)
	}

	start = time.Now()
	text, err := c.ai.GenerateCompletion(
		ctx,
		fmt.Sprintf(ai.AnswerPrompt, question, string(contextJSON)),
		ai.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}
	record(tracer, TraceEvent{Kind: TraceEventAnswered, DurationMs: time.Since(start).Milliseconds()})

	answer.Text = strings.TrimSpace(text)
	return answer, nil
}
