package types

// Message is a single pub/sub message delivered to this client.
//
// A published channel matched by both an exact subscription and a pattern
// subscription yields two Messages for the one publication: one with Pattern
// empty and one with Pattern set to the matching pattern. This duplication is
// intentional.
type Message struct {
	// Channel is the channel the message was published to.
	Channel string

	// Payload is the message body.
	Payload []byte

	// Pattern is the matching pattern for pattern-matched deliveries.
	// Empty for exact and sharded deliveries.
	Pattern string
}
