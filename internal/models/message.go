package models

import "time"

// Sender tags who authored a message in a conversation.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of a conversation thread. Text is immutable once
// stored; Recommendations are attached for display only.
type Message struct {
	ID              int64            `json:"id"`
	ConversationID  int64            `json:"-"`
	Sender          Sender           `json:"sender"`
	Text            string           `json:"message"`
	Intent          Intent           `json:"intent,omitempty"`
	Entities        Entities         `json:"entities"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	CreatedAt       time.Time        `json:"timestamp"`
}
