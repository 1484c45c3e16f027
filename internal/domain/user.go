package domain

import "time"

// User is a chat user who started the bot at least once.
// There is at most one row per ChatUserID; users are never updated or deleted.
type User struct {
	ID           int64
	ChatUserID   int64
	RegisteredAt time.Time
}
