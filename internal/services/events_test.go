package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/movielog/movielog/internal/models"
)

func TestPublishActivity_NilWriterSkips(t *testing.T) {
	// must not panic
	publishActivity(context.Background(), nil, "review_created", 1, 10)
}

func TestPublishActivity_WritesEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockKafkaWriter(ctrl)
	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			assert.Len(t, msgs, 1)
			var event models.ActivityEvent
			assert.NoError(t, json.Unmarshal(msgs[0].Value, &event))
			assert.NotEmpty(t, event.EventID)
			assert.Equal(t, "review_created", event.Operation)
			assert.Equal(t, int64(1), event.UserID)
			assert.Equal(t, int64(10), event.MovieID)
			assert.NotZero(t, event.Timestamp)
			return nil
		})

	publishActivity(context.Background(), writer, "review_created", 1, 10)
}

func TestPublishActivity_WriterErrorIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockKafkaWriter(ctrl)
	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("kafka error"))

	publishActivity(context.Background(), writer, "watchlist_created", 2, 20)
}
