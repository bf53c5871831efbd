package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	kafka_adapter "storefront/internal/adapters/out/kafka"
	"storefront/internal/core/domain/model/kernel"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func nameEncoder(e kernel.Event) ([]byte, error) {
	return json.Marshal(map[string]string{"event": e.Name})
}

func TestNewPublisher_RequiresCollaborators(t *testing.T) {
	_, err := kafka_adapter.NewPublisher(nil, nameEncoder, nil)
	require.Error(t, err)

	_, err = kafka_adapter.NewPublisher(new(MockMessageWriter), nil, nil)
	require.Error(t, err)
}

func TestPublish_WritesOneMessagePerEventKeyedByOrder(t *testing.T) {
	writer := new(MockMessageWriter)
	orderID := kernel.NewUUID()
	created := kernel.NewEvent("order.created", nil)
	created.AggregateID = orderID
	item := kernel.NewEvent("line_item.created", nil)
	item.AggregateID = orderID

	var written []kafka.Message
	writer.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(1).([]kafka.Message) }).
		Return(nil).Once()

	publisher, err := kafka_adapter.NewPublisher(writer, nameEncoder, nil)
	require.NoError(t, err)
	publisher.Publish(context.Background(), created, item)

	require.Len(t, written, 2)
	assert.Equal(t, []byte(orderID.String()), written[0].Key)
	assert.Equal(t, written[0].Key, written[1].Key)
	assert.JSONEq(t, `{"event":"order.created"}`, string(written[0].Value))
	assert.Equal(t, kafka.Header{Key: "event", Value: []byte("line_item.created")}, written[1].Headers[0])
	writer.AssertExpectations(t)
}

func TestPublish_SkipsEventsThatFailToEncode(t *testing.T) {
	writer := new(MockMessageWriter)
	failing := func(e kernel.Event) ([]byte, error) {
		if e.Name == "order.updated" {
			return nil, errors.New("unsupported subject")
		}
		return nameEncoder(e)
	}
	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1
	})).Return(nil).Once()

	publisher, err := kafka_adapter.NewPublisher(writer, failing, nil)
	require.NoError(t, err)
	publisher.Publish(context.Background(), kernel.NewEvent("order.updated", nil), kernel.NewEvent("order.paid", nil))

	writer.AssertExpectations(t)
}

func TestPublish_IgnoresCanceledContext(t *testing.T) {
	writer := new(MockMessageWriter)
	writer.On("WriteMessages", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil).Once()

	publisher, err := kafka_adapter.NewPublisher(writer, nameEncoder, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	publisher.Publish(ctx, kernel.NewEvent("order.completed", nil))

	writer.AssertExpectations(t)
}

func TestPublish_WriterErrorIsLoggedNotRaised(t *testing.T) {
	writer := new(MockMessageWriter)
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	publisher, err := kafka_adapter.NewPublisher(writer, nameEncoder, nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		publisher.Publish(context.Background(), kernel.NewEvent("order.canceled", nil))
	})
	writer.AssertExpectations(t)
}
