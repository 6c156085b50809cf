package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"repairshop/internal/model"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestNewKafkaSink_RequiresBrokersAndTopic(t *testing.T) {
	_, err := NewKafkaSink(Config{Topic: "notifications"})
	assert.Error(t, err)

	_, err = NewKafkaSink(Config{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)

	sink, err := NewKafkaSink(Config{Brokers: []string{"localhost:9092"}, Topic: "notifications"})
	require.NoError(t, err)
	assert.NotNil(t, sink.writer)
}

func TestKafkaSink_KeysByWorkOrder(t *testing.T) {
	w := &mockWriter{}
	sink := &KafkaSink{writer: w}

	orderID := uuid.New()
	n := model.Notification{
		ID:          uuid.New(),
		Audience:    model.AudienceAdmin,
		WorkOrderID: &orderID,
		Message:     "OT-1001 delivered",
		CreatedAt:   time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}

	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)

	require.NoError(t, sink.Send(context.Background(), n))
	require.Len(t, sent, 1)
	assert.Equal(t, orderID.String(), string(sent[0].Key))
	assert.Equal(t, "ADMIN", string(sent[0].Headers[0].Value))

	var decoded event
	require.NoError(t, json.Unmarshal(sent[0].Value, &decoded))
	assert.Equal(t, "notification.created", decoded.Type)
	assert.Equal(t, n.Message, decoded.Notification.Message)
}

func TestKafkaSink_WrapsWriteError(t *testing.T) {
	w := &mockWriter{}
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available"))
	sink := &KafkaSink{writer: w}

	n := model.Notification{ID: uuid.New(), Audience: model.AudienceAdmin, Message: "Low stock"}
	err := sink.Send(context.Background(), n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
	assert.Contains(t, err.Error(), n.ID.String())
}
