package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/movielog/movielog/internal/logger"
	"github.com/movielog/movielog/internal/models"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// publishActivity publishes a review/watchlist activity event. A nil
// writer skips publishing; publish failures are logged and never fail the
// enclosing operation.
func publishActivity(ctx context.Context, writer KafkaWriter, operation string, userID, movieID int64) {
	if writer == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "operation", operation)
		return
	}

	event := models.ActivityEvent{
		EventID:   uuid.NewString(),
		Operation: operation,
		UserID:    userID,
		MovieID:   movieID,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal activity event", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish activity event", "event_id", event.EventID, "operation", operation, "error", err)
	} else {
		logger.Log.Infow("activity event published", "event_id", event.EventID, "operation", operation, "movie_id", movieID)
	}
}
