package ner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ai"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
)

// Recognizer finds labeled entity spans in a report.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]common.LabeledSpan, error)
}

type entityResponse struct {
	Entities []entityItem `json:"entities"`
}

type entityItem struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// AIRecognizer asks a language model for the entities of a report.
type AIRecognizer struct {
	client ai.GraphAIClient
	opts   []ai.GenerateOption
}

// NewAIRecognizer creates a recognizer. opts are passed to every request.
func NewAIRecognizer(client ai.GraphAIClient, opts ...ai.GenerateOption) *AIRecognizer {
	return &AIRecognizer{client: client, opts: opts}
}

// Recognize returns the spans ordered by their first appearance in text.
// Entities the model returns that do not occur in text are dropped, as are
// repeated text/label pairs.
func (r *AIRecognizer) Recognize(ctx context.Context, text string) ([]common.LabeledSpan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var resp entityResponse
	err := r.client.GenerateCompletionWithFormat(
		ctx,
		"scouting_entities",
		"Named entities found in a football scouting report",
		fmt.Sprintf(ai.EntityPrompt, text),
		&resp,
		r.opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}

	spans := toSpans(text, resp.Entities)
	logger.Debug("[NER] Entities recognized", "returned", len(resp.Entities), "kept", len(spans))
	return spans, nil
}

type positioned struct {
	span common.LabeledSpan
	pos  int
}

func toSpans(text string, items []entityItem) []common.LabeledSpan {
	seen := make(map[common.LabeledSpan]struct{}, len(items))
	found := make([]positioned, 0, len(items))
	for _, item := range items {
		t := strings.TrimSpace(item.Text)
		if t == "" {
			continue
		}
		pos := strings.Index(text, t)
		if pos < 0 {
			continue
		}
		span := common.LabeledSpan{Text: t, Label: common.ParseLabel(item.Label)}
		if _, ok := seen[span]; ok {
			continue
		}
		seen[span] = struct{}{}
		found = append(found, positioned{span: span, pos: pos})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].pos < found[j].pos
	})

	out := make([]common.LabeledSpan, len(found))
	for i, f := range found {
		out[i] = f.span
	}
	return out
}
