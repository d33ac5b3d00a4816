package relay

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeOutbox struct {
	rows    []Row
	deleted []string
}

func (o *fakeOutbox) Pending(_ context.Context, limit int) ([]Row, error) {
	if len(o.rows) > limit {
		return o.rows[:limit], nil
	}
	return o.rows, nil
}

func (o *fakeOutbox) Delete(_ context.Context, rowID string) error {
	o.deleted = append(o.deleted, rowID)
	remaining := make([]Row, 0, len(o.rows))
	for _, row := range o.rows {
		if row.ID != rowID {
			remaining = append(remaining, row)
		}
	}
	o.rows = remaining
	return nil
}

type fakeProducer struct {
	records []*kgo.Record
	failOn  string
}

func (p *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	var results kgo.ProduceResults
	for _, record := range rs {
		if p.failOn != "" && string(record.Key) == p.failOn {
			results = append(results, kgo.ProduceResult{Record: record, Err: errors.New("broker unavailable")})
			continue
		}
		p.records = append(p.records, record)
		results = append(results, kgo.ProduceResult{Record: record, Err: nil})
	}
	return results
}

func TestRelayPublishPending(t *testing.T) {
	outbox := &fakeOutbox{rows: []Row{
		{ID: "1", AggregateID: "claim-a", Payload: []byte(`{"Action":"claim_submitted"}`)},
		{ID: "2", AggregateID: "claim-a", Payload: []byte(`{"Action":"notice_recorded"}`)},
		{ID: "3", AggregateID: "claim-b", Payload: []byte(`{"Action":"claim_submitted"}`)},
	}}
	producer := &fakeProducer{}
	r := New(outbox, producer, slog.Default())

	require.NoError(t, r.PublishPending(context.Background()))

	require.Len(t, producer.records, 3)
	assert.Equal(t, Topic, producer.records[0].Topic)
	assert.Equal(t, "claim-a", string(producer.records[0].Key))
	assert.Equal(t, []string{"1", "2", "3"}, outbox.deleted)
	assert.Empty(t, outbox.rows)
}

func TestRelayStopsOnProduceFailure(t *testing.T) {
	outbox := &fakeOutbox{rows: []Row{
		{ID: "1", AggregateID: "claim-a", Payload: []byte(`{}`)},
		{ID: "2", AggregateID: "claim-b", Payload: []byte(`{}`)},
		{ID: "3", AggregateID: "claim-c", Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{failOn: "claim-b"}
	r := New(outbox, producer, slog.Default())

	err := r.PublishPending(context.Background())
	require.Error(t, err)

	// Row 1 published and deleted, rows 2 and 3 stay for the next poll.
	assert.Equal(t, []string{"1"}, outbox.deleted)
	require.Len(t, outbox.rows, 2)
	assert.Equal(t, "2", outbox.rows[0].ID)
}

func TestRelayBatchSize(t *testing.T) {
	outbox := &fakeOutbox{rows: []Row{
		{ID: "1", AggregateID: "a", Payload: []byte(`{}`)},
		{ID: "2", AggregateID: "b", Payload: []byte(`{}`)},
		{ID: "3", AggregateID: "c", Payload: []byte(`{}`)},
	}}
	producer := &fakeProducer{}
	r := New(outbox, producer, slog.Default(), WithBatchSize(2))

	require.NoError(t, r.PublishPending(context.Background()))
	assert.Len(t, producer.records, 2)
	require.Len(t, outbox.rows, 1)
	assert.Equal(t, "3", outbox.rows[0].ID)
}
