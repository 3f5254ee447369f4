package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/serenify-companion/internal/models"
)

type fakeWriter struct {
	topic  string
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestPublisher() (*KafkaPublisher, map[string]*fakeWriter) {
	created := make(map[string]*fakeWriter)
	p := NewKafkaPublisher([]string{"localhost:9092"}, "activity.recorded")
	p.newWriter = func(topic string) messageWriter {
		w := &fakeWriter{topic: topic}
		created[topic] = w
		return w
	}
	return p, created
}

func TestKafkaPublisherWritesKeyedEvent(t *testing.T) {
	p, created := newTestPublisher()
	at := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	rec := models.ActivityRecord{ID: "act-1", UserID: "user-9", Type: models.ActivityMeditation, Name: "Body scan", Duration: 12, Date: at, CreatedAt: at}

	require.NoError(t, p.PublishActivity(context.Background(), NewActivityRecorded(rec)))
	require.NoError(t, p.PublishActivity(context.Background(), NewActivityRecorded(rec)))

	require.Len(t, created, 1, "writer should be reused per topic")
	w := created["activity.recorded"]
	require.Len(t, w.msgs, 2)
	assert.Equal(t, "user-9", string(w.msgs[0].Key))

	var got ActivityRecorded
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "act-1", got.ActivityID)
	assert.Equal(t, models.ActivityMeditation, got.Type)
	assert.Equal(t, 12.0, got.Duration)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	p, _ := newTestPublisher()
	boom := errors.New("broker down")
	p.newWriter = func(string) messageWriter { return &fakeWriter{err: boom} }

	err := p.PublishActivity(context.Background(), ActivityRecorded{ActivityID: "act-2", UserID: "u"})
	assert.ErrorIs(t, err, boom)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishActivity(context.Background(), ActivityRecorded{}))
	assert.NoError(t, p.Close())
}
