package subsync

import (
	"context"
	"sync"

	"github.com/valkey-io/valkey-glide-sub001/internal/state"
	"github.com/valkey-io/valkey-glide-sub001/types"
)

// messageDelivery is the tagged variant behind the two delivery models.
// Exactly one implementation is selected at client construction; the models
// are never mixed on one client.
type messageDelivery interface {
	// deliver routes one inbound message; called from the protocol layer's
	// delivery goroutine.
	deliver(msg *types.Message)

	// get blocks until a message is available, the client closes, or ctx is done.
	get(ctx context.Context) (*types.Message, error)

	// tryGet dequeues if a message is available, else returns nil without blocking.
	tryGet() (*types.Message, error)

	// close releases anyone blocked in get.
	close()
}

// queueDelivery buffers inbound messages on a bounded FIFO queue polled via
// get/tryGet. When the queue is full, new messages are dropped and counted.
type queueDelivery struct {
	queue   chan *types.Message
	done    chan struct{}
	once    sync.Once
	stats   *state.Stats
	metrics types.MetricsCollector
	logger  types.Logger
}

func newQueueDelivery(size int, stats *state.Stats, metrics types.MetricsCollector, logger types.Logger) *queueDelivery {
	return &queueDelivery{
		queue:   make(chan *types.Message, size),
		done:    make(chan struct{}),
		stats:   stats,
		metrics: metrics,
		logger:  logger,
	}
}

func (d *queueDelivery) deliver(msg *types.Message) {
	select {
	case <-d.done:
		d.stats.RecordDropped()
		d.metrics.RecordMessageDropped("closed")

		return
	default:
	}

	select {
	case d.queue <- msg:
		d.metrics.SetQueueDepth(len(d.queue))
	default:
		d.stats.RecordDropped()
		d.metrics.RecordMessageDropped("queue_full")
		d.logger.Warn("message queue full, dropping message", "channel", msg.Channel)
	}
}

func (d *queueDelivery) get(ctx context.Context) (*types.Message, error) {
	// Drain buffered messages before reporting closure
	select {
	case msg := <-d.queue:
		d.recordDelivered()

		return msg, nil
	default:
	}

	select {
	case msg := <-d.queue:
		d.recordDelivered()

		return msg, nil
	case <-d.done:
		return nil, types.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (d *queueDelivery) tryGet() (*types.Message, error) {
	select {
	case msg := <-d.queue:
		d.recordDelivered()

		return msg, nil
	default:
		return nil, nil
	}
}

func (d *queueDelivery) recordDelivered() {
	d.stats.RecordDelivered()
	d.metrics.RecordMessageDelivered("queue")
	d.metrics.SetQueueDepth(len(d.queue))
}

func (d *queueDelivery) close() {
	d.once.Do(func() {
		close(d.done)
	})
}

// callbackDelivery invokes a user handler for every inbound message,
// synchronously with respect to the delivery goroutine.
type callbackDelivery struct {
	handler MessageHandler
	context any
	stats   *state.Stats
	metrics types.MetricsCollector
}

func newCallbackDelivery(handler MessageHandler, handlerCtx any, stats *state.Stats, metrics types.MetricsCollector) *callbackDelivery {
	return &callbackDelivery{
		handler: handler,
		context: handlerCtx,
		stats:   stats,
		metrics: metrics,
	}
}

func (d *callbackDelivery) deliver(msg *types.Message) {
	d.handler(msg, d.context)
	d.stats.RecordDelivered()
	d.metrics.RecordMessageDelivered("callback")
}

func (d *callbackDelivery) get(_ context.Context) (*types.Message, error) {
	return nil, types.ErrCallbackConfigured
}

func (d *callbackDelivery) tryGet() (*types.Message, error) {
	return nil, types.ErrCallbackConfigured
}

func (d *callbackDelivery) close() {}
