package natsconn

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	testutil "github.com/valkey-io/valkey-glide-sub001/testing"
	"github.com/valkey-io/valkey-glide-sub001/types"
)

type collector struct {
	mu   sync.Mutex
	msgs []*types.Message
}

func (c *collector) collect(msg *types.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.msgs)
}

func (c *collector) last() *types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.msgs) == 0 {
		return nil
	}

	return c.msgs[len(c.msgs)-1]
}

func newTestConn(t *testing.T) (*Conn, *collector) {
	t.Helper()

	_, nc := testutil.StartEmbeddedNATS(t)
	conn := New(nc, WithSubjectPrefix("t"))
	t.Cleanup(func() {
		_ = conn.Close()
	})

	col := &collector{}
	conn.OnMessage(col.collect)

	return conn, col
}

func TestConnExact(t *testing.T) {
	conn, col := newTestConn(t)

	results, err := conn.Subscribe(t.Context(), types.ModeExact, []string{"alpha"})
	require.NoError(t, err)
	require.Equal(t, types.ResultOK, results[0].Status)

	_, err = conn.Publish(t.Context(), "alpha", []byte("one"), false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return col.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	msg := col.last()
	require.Equal(t, "alpha", msg.Channel)
	require.Empty(t, msg.Pattern)
	require.Equal(t, []byte("one"), msg.Payload)

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		results, err := conn.Unsubscribe(t.Context(), types.ModeExact, []string{"alpha"})
		require.NoError(t, err)
		require.Equal(t, types.ResultOK, results[0].Status)

		_, err = conn.Publish(t.Context(), "alpha", []byte("two"), false)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		require.Equal(t, 1, col.count())
	})
}

func TestConnPattern(t *testing.T) {
	conn, col := newTestConn(t)

	results, err := conn.Subscribe(t.Context(), types.ModePattern, []string{"al*"})
	require.NoError(t, err)
	require.Equal(t, types.ResultOK, results[0].Status)

	_, err = conn.Publish(t.Context(), "alpine", []byte("m"), false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return col.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	msg := col.last()
	require.Equal(t, "alpine", msg.Channel)
	require.Equal(t, "al*", msg.Pattern)

	t.Run("non-matching traffic is filtered", func(t *testing.T) {
		_, err := conn.Publish(t.Context(), "beta", []byte("m"), false)
		require.NoError(t, err)

		time.Sleep(100 * time.Millisecond)
		require.Equal(t, 1, col.count())
	})
}

func TestConnDualDelivery(t *testing.T) {
	conn, col := newTestConn(t)

	_, err := conn.Subscribe(t.Context(), types.ModeExact, []string{"alpha"})
	require.NoError(t, err)
	_, err = conn.Subscribe(t.Context(), types.ModePattern, []string{"al*"})
	require.NoError(t, err)

	_, err = conn.Publish(t.Context(), "alpha", []byte("m"), false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return col.count() == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConnSharded(t *testing.T) {
	conn, col := newTestConn(t)
	require.True(t, conn.SupportsSharded())

	_, err := conn.Subscribe(t.Context(), types.ModeSharded, []string{"orders"})
	require.NoError(t, err)

	// Sharded and regular namespaces map to disjoint subjects
	_, err = conn.Publish(t.Context(), "orders", []byte("regular"), false)
	require.NoError(t, err)
	_, err = conn.Publish(t.Context(), "orders", []byte("sharded"), true)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return col.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, []byte("sharded"), col.last().Payload)
}

func TestConnSubscribeIdempotent(t *testing.T) {
	conn, col := newTestConn(t)

	for i := 0; i < 2; i++ {
		results, err := conn.Subscribe(t.Context(), types.ModeExact, []string{"alpha"})
		require.NoError(t, err)
		require.Equal(t, types.ResultOK, results[0].Status)
	}

	_, err := conn.Publish(t.Context(), "alpha", []byte("m"), false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return col.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, col.count())
}

func TestConnClose(t *testing.T) {
	conn, col := newTestConn(t)

	_, err := conn.Subscribe(t.Context(), types.ModeExact, []string{"alpha"})
	require.NoError(t, err)
	_, err = conn.Subscribe(t.Context(), types.ModePattern, []string{"al*"})
	require.NoError(t, err)

	require.NoError(t, conn.Close())

	_, err = conn.Publish(t.Context(), "alpha", []byte("m"), false)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, col.count())
}
