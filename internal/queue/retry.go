package queue

import (
	"github.com/ecisterna/DT-Virtual-Amateur/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	retriesHeader     = "x-retries"
	DefaultMaxRetries = 10
)

// Retries reads the retry counter a message carries in its headers.
func Retries(headers amqp091.Table) int {
	val, ok := headers[retriesHeader]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

// HandleProcessingError parks a failed delivery in the retry queue of
// queueName, or in its dead letter queue once maxRetries is reached. The
// delivery is acked after a successful republish and nacked with requeue
// otherwise.
func HandleProcessingError(ch Publisher, msg amqp091.Delivery, queueName string, maxRetries int) {
	retries := Retries(msg.Headers)

	if retries >= maxRetries {
		dlqName := DeadLetterQueue(queueName)
		logger.Info("[Queue] Sending message to DLQ", "dlq", dlqName, "retries", retries)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp091.Publishing{
				ContentType:  msg.ContentType,
				Body:         msg.Body,
				Headers:      msg.Headers,
				DeliveryMode: amqp091.Persistent,
			},
		)
		if pubErr != nil {
			logger.Error("[Queue] Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			_ = msg.Nack(false, true)
			return
		}
		_ = msg.Ack(false)
		return
	}

	retryName := RetryQueue(queueName)
	headers := amqp091.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[retriesHeader] = int32(retries + 1)

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp091.Publishing{
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			Headers:      headers,
			DeliveryMode: amqp091.Persistent,
		},
	)
	if pubErr != nil {
		logger.Error("[Queue] Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
