//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "idp-gateway/pkg/platform/audit"
	"idp-gateway/pkg/testutil/containers"
)

func TestKafkaStore_Append(t *testing.T) {
	redpanda := containers.NewRedpandaContainer(t)
	t.Cleanup(func() { redpanda.Cleanup(t) })

	const topic = "idp.audit.events"

	admin, err := kgo.NewClient(kgo.SeedBrokers(redpanda.Broker))
	require.NoError(t, err)
	t.Cleanup(admin.Close)
	_, err = kadm.NewClient(admin).CreateTopic(context.Background(), 1, 1, nil, topic)
	require.NoError(t, err)

	store, err := NewStore([]string{redpanda.Broker}, topic)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	event := audit.Event{
		Category:      audit.CategoryCompliance,
		Timestamp:     time.Now().UTC().Truncate(time.Millisecond),
		Action:        string(audit.EventCodeIssued),
		TransactionID: "txn-kafka-1",
		ClientID:      "client-1",
	}
	require.NoError(t, store.Append(context.Background(), event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "txn-kafka-1", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.Action, got.Action)
	assert.Equal(t, event.ClientID, got.ClientID)
	assert.Equal(t, audit.CategoryCompliance, got.Category)
}
