package presence

import "time"

const (
	// TopicPlayers carries join/leave/duplicate announcements for the plaza.
	TopicPlayers = "players"
	// TopicOnlineCount carries the online headcount after every change.
	TopicOnlineCount = "online-count"
)

// PlayerEvent is the payload broadcast on the players topic.
type PlayerEvent struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}

func newPlayerEvent(userID, username, action string) PlayerEvent {
	return PlayerEvent{
		UserID:    userID,
		Username:  username,
		Action:    action,
		Timestamp: time.Now().UnixMilli(),
	}
}
