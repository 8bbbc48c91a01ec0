// Package subsync provides client-side pub/sub subscription reconciliation
// for key-value store clients.
//
// Callers declare the channels, patterns, and (in cluster mode) sharded
// channels they want messages from; a background reconciler makes the
// server-observed subscription state eventually match that declaration,
// across connection drops, permission failures, and concurrent mutation of
// the desired set.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import subsync "github.com/valkey-io/valkey-glide-sub001"
//
//	cfg := subsync.DefaultConfig()
//	client, err := subsync.NewClient(&cfg, conn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(context.Background())
//
//	// Blocking: returns once the server confirmed the subscription.
//	if err := client.Subscribe(ctx, []string{"news.sports"}, 5*time.Second); err != nil {
//	    log.Fatal(err)
//	}
//
//	msg, err := client.GetMessage(ctx)
//
// # Key Concepts
//
//   - Desired state: the subscription set callers have asked for; updated
//     immediately by every subscribe/unsubscribe call.
//   - Actual state: the subscription set last confirmed with the server;
//     updated only by the reconciler, eventually.
//   - Lazy calls (SubscribeLazy, ...) mutate desired state and return at
//     once. Blocking calls additionally wait, bounded by a timeout, until
//     the reconciler confirms the change.
//   - Reconciliation failures (e.g., ACL denials) are never raised to
//     callers; they surface through GetStatistics and through
//     GetSubscriptions showing desired != actual, and the reconciler keeps
//     retrying.
//
// # Message Delivery
//
// Exactly one delivery model is chosen at construction: poll mode
// (GetMessage / TryGetMessage against a bounded queue, the default) or
// callback mode (WithMessageCallback). Polling a callback-configured client
// returns ErrCallbackConfigured. A channel matched by both an exact and a
// pattern subscription delivers two messages for one publication; this
// duplication is intentional.
//
// # Transports
//
// The engine drives the types.Conn protocol boundary. The natsconn
// subpackage provides a NATS-backed implementation; the testing subpackage
// provides an in-memory one for tests.
package subsync
