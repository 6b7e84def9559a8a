package store

import "time"

const (
	OriginUser      = "user"
	OriginAssistant = "assistant"
)

// Experiment is the per-conversation state record. It exists only after an
// operator has explicitly started an experiment for that conversation.
type Experiment struct {
	ConversationID string    `gorm:"primaryKey;size:64"`
	Role           string    `gorm:"size:100;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	PendingCount   int       `gorm:"not null;default:0"`
}

// Message is one transcript entry, append-only, ordered by arrival. SenderID
// holds the platform user id for human messages and the active role name for
// assistant replies.
type Message struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID string    `gorm:"index;size:64;not null"`
	SenderID       string    `gorm:"size:100;not null"`
	Text           string    `gorm:"type:text;not null"`
	Timestamp      time.Time `gorm:"index;not null"`
	Origin         string    `gorm:"size:20;not null"`
}
