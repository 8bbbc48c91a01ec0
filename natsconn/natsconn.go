package natsconn

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/valkey-io/valkey-glide-sub001/internal/glob"
	"github.com/valkey-io/valkey-glide-sub001/types"
)

// DefaultSubjectPrefix is the subject namespace used when no prefix option
// is given.
const DefaultSubjectPrefix = "pubsub"

// Conn is a types.Conn implementation backed by a NATS connection.
//
// The NATS connection is borrowed, not owned: Close tears down the
// subscriptions created by this adapter but leaves the connection open.
type Conn struct {
	nc     *nats.Conn
	prefix string

	mu         sync.Mutex
	exact      map[string]*nats.Subscription
	sharded    map[string]*nats.Subscription
	patterns   map[string]struct{}
	patternSub *nats.Subscription
	msgFn      types.MessageFunc
}

// Compile-time assertion that Conn implements types.Conn.
var _ types.Conn = (*Conn)(nil)

// Option configures a Conn.
type Option func(*Conn)

// WithSubjectPrefix sets the subject namespace all channels are mapped under.
func WithSubjectPrefix(prefix string) Option {
	return func(c *Conn) {
		c.prefix = prefix
	}
}

// New wraps a NATS connection as a types.Conn transport.
//
// Parameters:
//   - nc: Established NATS connection (not owned by the adapter)
//   - opts: Optional configuration
//
// Returns:
//   - *Conn: Transport adapter ready to be passed to NewClient
func New(nc *nats.Conn, opts ...Option) *Conn {
	c := &Conn{
		nc:       nc,
		prefix:   DefaultSubjectPrefix,
		exact:    make(map[string]*nats.Subscription),
		sharded:  make(map[string]*nats.Subscription),
		patterns: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Subscribe implements types.Conn.
//
// Exact and sharded channels get dedicated NATS subscriptions; pattern
// channels register for client-side matching against a shared wildcard
// subscription, created lazily on the first pattern.
func (c *Conn) Subscribe(ctx context.Context, mode types.ChannelMode, channels []string) ([]types.SubscribeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]types.SubscribeResult, 0, len(channels))
	for _, ch := range channels {
		results = append(results, c.subscribeLocked(mode, ch))
	}

	return results, nil
}

func (c *Conn) subscribeLocked(mode types.ChannelMode, channel string) types.SubscribeResult {
	switch mode {
	case types.ModeExact:
		if _, ok := c.exact[channel]; ok {
			return types.SubscribeResult{Channel: channel, Status: types.ResultOK}
		}
		sub, err := c.nc.Subscribe(c.channelSubject(channel), c.exactHandler(channel))
		if err != nil {
			return types.SubscribeResult{Channel: channel, Status: resultStatus(err), Err: err}
		}
		c.exact[channel] = sub

	case types.ModeSharded:
		if _, ok := c.sharded[channel]; ok {
			return types.SubscribeResult{Channel: channel, Status: types.ResultOK}
		}
		sub, err := c.nc.Subscribe(c.shardSubject(channel), c.exactHandler(channel))
		if err != nil {
			return types.SubscribeResult{Channel: channel, Status: resultStatus(err), Err: err}
		}
		c.sharded[channel] = sub

	case types.ModePattern:
		if c.patternSub == nil {
			sub, err := c.nc.Subscribe(c.prefix+".chan.>", c.wildcardHandler)
			if err != nil {
				return types.SubscribeResult{Channel: channel, Status: resultStatus(err), Err: err}
			}
			c.patternSub = sub
		}
		c.patterns[channel] = struct{}{}
	}

	return types.SubscribeResult{Channel: channel, Status: types.ResultOK}
}

// Unsubscribe implements types.Conn.
func (c *Conn) Unsubscribe(ctx context.Context, mode types.ChannelMode, channels []string) ([]types.SubscribeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]types.SubscribeResult, 0, len(channels))
	for _, ch := range channels {
		results = append(results, c.unsubscribeLocked(mode, ch))
	}

	return results, nil
}

func (c *Conn) unsubscribeLocked(mode types.ChannelMode, channel string) types.SubscribeResult {
	var err error

	switch mode {
	case types.ModeExact:
		if sub, ok := c.exact[channel]; ok {
			err = sub.Unsubscribe()
			delete(c.exact, channel)
		}

	case types.ModeSharded:
		if sub, ok := c.sharded[channel]; ok {
			err = sub.Unsubscribe()
			delete(c.sharded, channel)
		}

	case types.ModePattern:
		delete(c.patterns, channel)
		if len(c.patterns) == 0 && c.patternSub != nil {
			err = c.patternSub.Unsubscribe()
			c.patternSub = nil
		}
	}

	if err != nil {
		return types.SubscribeResult{Channel: channel, Status: types.ResultError, Err: err}
	}

	return types.SubscribeResult{Channel: channel, Status: types.ResultOK}
}

// Publish implements types.Conn.
//
// NATS does not report fan-out, so the receiver count is always 0.
func (c *Conn) Publish(ctx context.Context, channel string, payload []byte, sharded bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	subject := c.channelSubject(channel)
	if sharded {
		subject = c.shardSubject(channel)
	}

	return 0, c.nc.Publish(subject, payload)
}

// SupportsSharded implements types.Conn. The shard namespace is plain
// subject routing, so it is always available.
func (c *Conn) SupportsSharded() bool {
	return true
}

// OnMessage implements types.Conn.
func (c *Conn) OnMessage(fn types.MessageFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.msgFn = fn
}

// OnReconnect implements types.Conn, forwarding the NATS reconnect event.
func (c *Conn) OnReconnect(fn types.ReconnectFunc) {
	c.nc.SetReconnectHandler(func(_ *nats.Conn) {
		fn()
	})
}

// Close tears down every subscription created by this adapter. The
// underlying NATS connection stays open.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for ch, sub := range c.exact {
		if err := sub.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.exact, ch)
	}
	for ch, sub := range c.sharded {
		if err := sub.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.sharded, ch)
	}
	clear(c.patterns)
	if c.patternSub != nil {
		if err := c.patternSub.Unsubscribe(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.patternSub = nil
	}

	return firstErr
}

func (c *Conn) channelSubject(channel string) string {
	return c.prefix + ".chan." + channel
}

func (c *Conn) shardSubject(channel string) string {
	slot := types.SlotForChannel(channel)

	return c.prefix + ".shard." + strconv.Itoa(int(slot)) + "." + channel
}

// exactHandler delivers messages for a dedicated exact or sharded
// subscription.
func (c *Conn) exactHandler(channel string) nats.MsgHandler {
	return func(m *nats.Msg) {
		c.mu.Lock()
		fn := c.msgFn
		c.mu.Unlock()

		if fn != nil {
			fn(&types.Message{Channel: channel, Payload: m.Data})
		}
	}
}

// wildcardHandler fans a channel message out to every matching pattern
// subscription. Non-matching traffic on the wildcard is discarded.
func (c *Conn) wildcardHandler(m *nats.Msg) {
	channel, ok := strings.CutPrefix(m.Subject, c.prefix+".chan.")
	if !ok {
		return
	}

	c.mu.Lock()
	fn := c.msgFn
	matched := make([]string, 0, len(c.patterns))
	for pattern := range c.patterns {
		if glob.Match(pattern, channel) {
			matched = append(matched, pattern)
		}
	}
	c.mu.Unlock()

	if fn == nil {
		return
	}
	for _, pattern := range matched {
		fn(&types.Message{Channel: channel, Payload: m.Data, Pattern: pattern})
	}
}

// resultStatus maps a NATS subscribe error to a result status. Permission
// violations surface as denied so the reconciler treats them as a
// server-side restriction rather than a transient fault.
func resultStatus(err error) types.ResultStatus {
	if err == nil {
		return types.ResultOK
	}
	if strings.Contains(strings.ToLower(err.Error()), "permissions violation") {
		return types.ResultDenied
	}

	return types.ResultError
}
