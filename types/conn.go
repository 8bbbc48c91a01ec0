package types

import "context"

// ResultStatus classifies the per-channel outcome of a subscribe or
// unsubscribe request.
type ResultStatus int

const (
	// ResultOK indicates the server applied the request for this channel.
	ResultOK ResultStatus = iota

	// ResultDenied indicates the server rejected the request for this channel
	// due to permissions (e.g., ACL). Denials are expected to be transient
	// and are retried by the reconciler.
	ResultDenied

	// ResultError indicates the request failed for this channel for a reason
	// other than permissions.
	ResultError
)

// String returns the string representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case ResultOK:
		return "OK"
	case ResultDenied:
		return "Denied"
	case ResultError:
		return "Error"
	default:
		return "Unknown"
	}
}

// SubscribeResult is the per-channel outcome of one subscribe or unsubscribe
// request. Err is set only when Status is ResultError.
type SubscribeResult struct {
	Channel string
	Status  ResultStatus
	Err     error
}

// MessageFunc receives inbound pub/sub messages from the connection.
type MessageFunc func(msg *Message)

// ReconnectFunc is invoked after the underlying connection is re-established.
type ReconnectFunc func()

// Conn is the protocol-layer boundary the reconciliation engine drives.
//
// Implementations translate mode/channel operations into wire frames for a
// concrete transport. Each subscribe/unsubscribe request reports a per-channel
// result so partial failure (some channels denied, others applied) is
// representable; a non-nil error return means the whole batch could not be
// attempted.
//
// Implementations must be safe for concurrent use. OnMessage and OnReconnect
// register at most one handler each and are called before any subscription
// traffic starts.
type Conn interface {
	// Subscribe asks the server to add the given channels in the given mode.
	Subscribe(ctx context.Context, mode ChannelMode, channels []string) ([]SubscribeResult, error)

	// Unsubscribe asks the server to remove the given channels in the given mode.
	Unsubscribe(ctx context.Context, mode ChannelMode, channels []string) ([]SubscribeResult, error)

	// Publish sends a message to a channel and returns the number of
	// receivers it was delivered to, when the transport can report it
	// (0 otherwise).
	Publish(ctx context.Context, channel string, payload []byte, sharded bool) (int, error)

	// SupportsSharded reports whether the connected server supports the
	// sharded pub/sub namespace.
	SupportsSharded() bool

	// OnMessage registers the inbound message handler.
	OnMessage(fn MessageFunc)

	// OnReconnect registers the connection re-establishment handler.
	OnReconnect(fn ReconnectFunc)
}
