package subsync_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	subsync "github.com/valkey-io/valkey-glide-sub001"
	"github.com/valkey-io/valkey-glide-sub001/natsconn"
	testutil "github.com/valkey-io/valkey-glide-sub001/testing"
)

// TestClientOverNATS runs the full stack against an embedded NATS server:
// blocking subscribe, dual exact+pattern delivery, sharded namespace, and
// queue polling, all through the natsconn transport.
func TestClientOverNATS(t *testing.T) {
	_, nc := testutil.StartEmbeddedNATS(t)
	conn := natsconn.New(nc)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	cfg := subsync.TestConfig()
	cfg.ClusterMode = true

	client, err := subsync.NewClient(&cfg, conn)
	require.NoError(t, err)
	require.NoError(t, client.Start(t.Context()))
	t.Cleanup(func() {
		_ = client.Close(context.Background())
	})

	require.NoError(t, client.Subscribe(t.Context(), []string{"news.tech"}, 2*time.Second))
	require.NoError(t, client.PSubscribe(t.Context(), []string{"news.*"}, 2*time.Second))
	require.NoError(t, client.SSubscribe(t.Context(), []string{"orders"}, 2*time.Second))

	t.Run("dual delivery through the queue", func(t *testing.T) {
		_, err := conn.Publish(t.Context(), "news.tech", []byte("story"), false)
		require.NoError(t, err)

		seen := map[string]bool{}
		for i := 0; i < 2; i++ {
			msg, err := client.GetMessage(t.Context())
			require.NoError(t, err)
			require.Equal(t, "news.tech", msg.Channel)
			seen[msg.Pattern] = true
		}
		require.True(t, seen[""], "exact copy missing")
		require.True(t, seen["news.*"], "pattern copy missing")
	})

	t.Run("sharded delivery", func(t *testing.T) {
		_, err := conn.Publish(t.Context(), "orders", []byte("o"), true)
		require.NoError(t, err)

		msg, err := client.GetMessage(t.Context())
		require.NoError(t, err)
		require.Equal(t, "orders", msg.Channel)
		require.Equal(t, []byte("o"), msg.Payload)
	})

	t.Run("statistics reflect the session", func(t *testing.T) {
		stats := client.GetStatistics()
		require.NotZero(t, stats[subsync.StatLastSyncTimestampMs])
		require.Equal(t, uint64(3), stats[subsync.StatMessagesDelivered])
	})
}
