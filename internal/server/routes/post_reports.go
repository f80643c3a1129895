package routes

import (
	"encoding/json"
	"net/http"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/queue"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/server/middleware"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/server/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/common"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ingest"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"

	"github.com/labstack/echo/v4"
)

type spanBody struct {
	Text  string `json:"text" validate:"required"`
	Label string `json:"label" validate:"required"`
}

type reportBody struct {
	Text  string     `json:"text" validate:"max=20000"`
	Spans []spanBody `json:"spans" validate:"dive"`
}

func (b reportBody) labeledSpans() []common.LabeledSpan {
	spans := make([]common.LabeledSpan, 0, len(b.Spans))
	for _, s := range b.Spans {
		spans = append(spans, common.LabeledSpan{Text: s.Text, Label: common.ParseLabel(s.Label)})
	}
	return spans
}

type entitySummary struct {
	Text  string       `json:"text"`
	Label common.Label `json:"label"`
	Type  string       `json:"type"`
}

func summarizeEntities(spans []common.LabeledSpan) []entitySummary {
	if len(spans) == 0 {
		return nil
	}
	out := make([]entitySummary, 0, len(spans))
	for _, s := range spans {
		out = append(out, entitySummary{Text: s.Text, Label: s.Label, Type: s.Label.DisplayName()})
	}
	return out
}

type ingestResponse struct {
	Message  string               `json:"message"`
	Status   *ingest.StatusReport `json:"status,omitempty"`
	Entities []entitySummary      `json:"entities,omitempty"`
}

// IngestReportHandler resolves one report and writes its rival facts. Reports
// sent without spans go through entity recognition first.
func IngestReportHandler(c echo.Context) error {
	data := new(reportBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Message: "Invalid request body",
		})
	}

	ctx := c.Request().Context()
	pipeline := c.(*middleware.AppContext).App.Scout.Pipeline

	var status ingest.StatusReport
	var err error
	if len(data.Spans) == 0 && data.Text != "" {
		status, err = pipeline.IngestText(ctx, data.Text)
	} else {
		status, err = pipeline.Ingest(ctx, data.Text, data.labeledSpans())
	}
	if err != nil {
		logger.Error("[Server][Reports] Ingestion failed", "err", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Message: ingest.WriteFailureMessage(err),
		})
	}

	return c.JSON(util.HTTPStatusFromReport(status.Kind), ingestResponse{
		Message:  status.Message(),
		Status:   &status,
		Entities: summarizeEntities(status.Entities),
	})
}

// IngestBatchHandler ingests several reports with their spans in one call.
// Batch reports are not sent through entity recognition.
func IngestBatchHandler(c echo.Context) error {
	type batchBody struct {
		Reports []reportBody `json:"reports" validate:"required,min=1,max=100,dive"`
	}

	type batchResponse struct {
		Message  string                    `json:"message"`
		Statuses []ingest.StatusReport     `json:"statuses,omitempty"`
		Messages []string                  `json:"messages,omitempty"`
		Counts   map[ingest.StatusKind]int `json:"counts,omitempty"`
	}

	data := new(batchBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, batchResponse{
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, batchResponse{
			Message: "Invalid request body",
		})
	}

	reports := make([]ingest.Report, 0, len(data.Reports))
	for _, r := range data.Reports {
		reports = append(reports, ingest.Report{Text: r.Text, Spans: r.labeledSpans()})
	}

	pipeline := c.(*middleware.AppContext).App.Scout.Pipeline
	statuses, err := pipeline.IngestBatch(c.Request().Context(), reports)
	if err != nil {
		logger.Error("[Server][Reports] Batch ingestion failed", "err", err)
		return c.JSON(http.StatusInternalServerError, batchResponse{
			Message: ingest.WriteFailureMessage(err),
		})
	}

	messages := make([]string, 0, len(statuses))
	for _, s := range statuses {
		messages = append(messages, s.Message())
	}

	return c.JSON(http.StatusOK, batchResponse{
		Message:  "Batch ingested",
		Statuses: statuses,
		Messages: messages,
		Counts:   util.BatchStatusCounts(statuses),
	})
}

// QueueReportHandler archives a report and hands it to the worker.
func QueueReportHandler(c echo.Context) error {
	type queueBody struct {
		Text          string `json:"text" validate:"required,max=20000"`
		CorrelationID string `json:"correlation_id"`
	}

	type queueResponse struct {
		Message   string `json:"message"`
		ReportID  string `json:"report_id,omitempty"`
		ReportKey string `json:"report_key,omitempty"`
	}

	data := new(queueBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, queueResponse{
			Message: "Invalid request body",
		})
	}

	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, queueResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	if app.Reports == nil || app.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, queueResponse{
			Message: "Asynchronous ingestion is not configured",
		})
	}

	ctx := c.Request().Context()
	id, key, err := app.Reports.PutReport(ctx, data.Text)
	if err != nil {
		logger.Error("[Server][Reports] Failed to archive report", "err", err)
		return c.JSON(http.StatusInternalServerError, queueResponse{
			Message: "Internal server error",
		})
	}

	msg, err := json.Marshal(queue.QueueReportMsg{
		ReportID:      id,
		ReportKey:     key,
		CorrelationID: data.CorrelationID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, queueResponse{
			Message: "Internal server error",
		})
	}

	if err := queue.PublishFIFO(app.Queue, queue.ReportQueue, msg); err != nil {
		logger.Error("[Server][Reports] Failed to enqueue report", "report_id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, queueResponse{
			Message: "Internal server error",
		})
	}

	logger.Info("[Server][Reports] Report queued", "report_id", id)
	return c.JSON(http.StatusAccepted, queueResponse{
		Message:   "Report queued",
		ReportID:  id,
		ReportKey: key,
	})
}
