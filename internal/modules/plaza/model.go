package plaza

import "time"

const (
	// TopicChat carries plaza-wide chat lines.
	TopicChat = "chat"
	// TopicPositions carries avatar movement updates.
	TopicPositions = "positions"
)

// ChatMessage is a plaza-wide chat line. Delivery happens over the chat
// topic; the database copy is a best-effort mirror for history.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Username  string    `db:"username" json:"username"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Position is an avatar movement update, relayed as-is to every plaza client.
type Position struct {
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Direction string  `json:"direction,omitempty"`
	State     string  `json:"state,omitempty"`
	Timestamp int64   `json:"timestamp"`
}
