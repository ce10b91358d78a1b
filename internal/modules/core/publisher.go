package core

// Publisher is the broadcast seam between command handlers and the transport.
// Publish is fire-and-forget - at-most-once, unordered across topics, and it
// must never block the caller waiting on a subscriber.
type Publisher interface {
	Publish(topic string, payload any)
}
