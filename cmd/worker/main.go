package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecisterna/DT-Virtual-Amateur/internal/queue"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/setup"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/storage"
	"github.com/ecisterna/DT-Virtual-Amateur/internal/util"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/ai"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger/console"

	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Format: util.GetEnv("LOG_FORMAT"),
		Prefix: "worker",
	})
	logger.Init(consoleLogger)

	app, backend, err := setup.NewAppFromEnv(ctx)
	if err != nil {
		logger.Fatal("Failed to set up application", "err", err)
	}
	defer backend.Close()

	s3Client, err := storage.NewS3Client(ctx)
	if err != nil {
		logger.Fatal("Failed to create S3 client", "err", err)
	}
	archive := storage.NewReportArchive(s3Client, util.GetEnvString("AWS_BUCKET", "scouting"))

	processor, err := queue.NewReportProcessor(queue.NewReportProcessorParams{
		Source:     archive,
		Recognizer: app.Recognizer,
		Ingester:   app.Pipeline,
		MaxTries:   util.GetEnvInt("AI_MAX_RETRIES", 3),
		RetryDelay: 2 * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create report processor", "err", err)
	}

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.ReportQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	// A single consumer channel with prefetch=1 handles one report at a time.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	if err := consumerCh.Qos(1, 0, false); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.ReportQueue,
		"report_queue_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.ReportQueue, "err", err)
	}

	maxRetries := util.GetEnvInt("QUEUE_MAX_RETRIES", queue.DefaultMaxRetries)
	logger.Info("Listening for messages", "queue", queue.ReportQueue)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.ReportQueue)
				return
			}
			handleMessage(ctx, processor, app.AI.GetMetrics, consumerCh, msg, maxRetries)
			app.AI.ResetMetrics()
		}
	}
}

func handleMessage(
	ctx context.Context,
	processor *queue.ReportProcessor,
	metrics func() ai.ModelMetrics,
	ch *amqp.Channel,
	msg amqp.Delivery,
	maxRetries int,
) {
	startTime := time.Now()
	logger.Info("Received message", "queue", queue.ReportQueue)

	event, err := processor.ProcessReportMessage(ctx, msg.Body)
	if err != nil {
		logger.Error("Error processing message", "queue", queue.ReportQueue, "err", err)
		retries := maxRetries
		if errors.Is(err, queue.ErrInvalidReportMsg) {
			// Undecodable messages go straight to the DLQ.
			retries = 0
		}
		queue.HandleProcessingError(ch, msg, queue.ReportQueue, retries)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Failed to ack message", "err", err)
	}

	if data, err := json.Marshal(event); err == nil {
		if err := queue.PublishTopic(ch, queue.ReportTopic(event.Status.Kind), data); err != nil {
			logger.Warn("Failed to publish report event", "report_id", event.ReportID, "err", err)
		}
	}

	m := metrics()
	logger.Info(
		"AI Metrics",
		"input_tokens", m.InputTokens,
		"output_tokens", m.OutputTokens,
		"total_tokens", m.TotalTokens,
		"duration", formatDuration(time.Duration(m.DurationMs)*time.Millisecond),
	)
	logger.Info(
		"Message processed successfully",
		"report_id", event.ReportID,
		"status", event.Status.Kind,
		"duration", formatDuration(time.Since(startTime)),
	)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
