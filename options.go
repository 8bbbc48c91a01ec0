package subsync

import "github.com/valkey-io/valkey-glide-sub001/types"

// MessageHandler receives inbound messages in callback delivery mode.
//
// The handler is invoked synchronously with respect to the delivery
// goroutine, not the caller; slow handlers delay subsequent deliveries.
type MessageHandler func(msg *types.Message, context any)

// Option configures a Client with optional dependencies.
type Option func(*clientOptions)

// clientOptions holds optional Client configuration.
type clientOptions struct {
	logger          types.Logger
	metrics         types.MetricsCollector
	hooks           *types.Hooks
	callback        MessageHandler
	callbackContext any
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for NewClient
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	client, err := subsync.NewClient(&cfg, conn, subsync.WithLogger(logger))
func WithLogger(logger types.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewClient
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "myapp")
//	client, err := subsync.NewClient(&cfg, conn, subsync.WithMetrics(collector))
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *clientOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets subscription lifecycle hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for NewClient
//
// Example:
//
//	hooks := &subsync.Hooks{
//	    OnSyncLost: func(ctx context.Context, pending map[subsync.ChannelMode][]string) error {
//	        alerting.Notify(pending)
//	        return nil
//	    },
//	}
//	client, err := subsync.NewClient(&cfg, conn, subsync.WithHooks(hooks))
func WithHooks(hooks *types.Hooks) Option {
	return func(o *clientOptions) {
		o.hooks = hooks
	}
}

// WithMessageCallback switches the client to callback delivery mode.
//
// Every inbound message is delivered by invoking handler(msg, context) from
// the delivery goroutine. In this mode GetMessage and TryGetMessage return
// ErrCallbackConfigured; the two delivery models are never mixed on one
// client.
//
// Parameters:
//   - handler: User-supplied message handler (must be non-nil)
//   - context: Opaque value passed through to every handler invocation
//
// Returns:
//   - Option: Functional option for NewClient
func WithMessageCallback(handler MessageHandler, context any) Option {
	return func(o *clientOptions) {
		o.callback = handler
		o.callbackContext = context
	}
}
