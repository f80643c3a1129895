package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ingest"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ner"
)

var ErrInvalidReportMsg = errors.New("invalid report message")

// QueueReportMsg asks the worker to ingest an archived report. Spans, when
// present, skip entity recognition.
type QueueReportMsg struct {
	ReportID      string               `json:"report_id"`
	ReportKey     string               `json:"report_key"`
	CorrelationID string               `json:"correlation_id,omitempty"`
	Spans         []common.LabeledSpan `json:"spans,omitempty"`
}

// ReportEvent is broadcast once a queued report has been ingested.
type ReportEvent struct {
	ReportID      string              `json:"report_id"`
	CorrelationID string              `json:"correlation_id,omitempty"`
	Status        ingest.StatusReport `json:"status"`
	Message       string              `json:"message"`
}

// ReportTopic is the event topic for a status kind, e.g. "report.success".
func ReportTopic(kind ingest.StatusKind) string {
	return "report." + string(kind)
}

type ReportSource interface {
	GetReport(ctx context.Context, key string) (string, error)
}

type Ingester interface {
	Ingest(ctx context.Context, text string, spans []common.LabeledSpan) (ingest.StatusReport, error)
}

type ReportProcessor struct {
	source     ReportSource
	recognizer ner.Recognizer
	ingester   Ingester
	maxTries   int
	retryDelay time.Duration
}

type NewReportProcessorParams struct {
	Source     ReportSource
	Recognizer ner.Recognizer
	Ingester   Ingester
	// MaxTries bounds entity recognition attempts; values below 1 mean 3.
	MaxTries   int
	RetryDelay time.Duration
}

func NewReportProcessor(params NewReportProcessorParams) (*ReportProcessor, error) {
	if params.Source == nil || params.Recognizer == nil || params.Ingester == nil {
		return nil, fmt.Errorf("report processor needs a source, a recognizer and an ingester")
	}
	maxTries := params.MaxTries
	if maxTries < 1 {
		maxTries = 3
	}
	return &ReportProcessor{
		source:     params.Source,
		recognizer: params.Recognizer,
		ingester:   params.Ingester,
		maxTries:   maxTries,
		retryDelay: params.RetryDelay,
	}, nil
}

// ProcessReportMessage loads the report a queue message points to, recognizes
// its entities and ingests it.
func (p *ReportProcessor) ProcessReportMessage(ctx context.Context, body []byte) (ReportEvent, error) {
	var msg QueueReportMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return ReportEvent{}, fmt.Errorf("%w: %v", ErrInvalidReportMsg, err)
	}
	if msg.ReportKey == "" {
		if msg.ReportID == "" {
			return ReportEvent{}, fmt.Errorf("%w: missing report key", ErrInvalidReportMsg)
		}
		msg.ReportKey = util.ReportObjectKey(msg.ReportID)
	}
	if msg.ReportID == "" {
		msg.ReportID = util.ReportIDFromKey(msg.ReportKey)
	}

	text, err := p.source.GetReport(ctx, msg.ReportKey)
	if err != nil {
		return ReportEvent{}, err
	}

	spans := msg.Spans
	if len(spans) == 0 {
		spans, err = util.RetryWithContext(ctx, p.maxTries, p.retryDelay, func(ctx context.Context) ([]common.LabeledSpan, error) {
			return p.recognizer.Recognize(ctx, text)
		})
		if err != nil {
			return ReportEvent{}, fmt.Errorf("failed to recognize entities in report %s: %w", msg.ReportID, err)
		}
	}

	status, err := p.ingester.Ingest(ctx, text, spans)
	if err != nil {
		return ReportEvent{}, err
	}

	logger.Info("[Queue][Report] Report ingested", "report_id", msg.ReportID, "status", status.Kind)
	return ReportEvent{
		ReportID:      msg.ReportID,
		CorrelationID: msg.CorrelationID,
		Status:        status,
		Message:       status.Message(),
	}, nil
}
