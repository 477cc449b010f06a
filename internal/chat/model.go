package chat

import (
	"errors"
	"fmt"
	"time"
)

// Conversation is a persistent two-party thread. Unread counters are
// kept per participant, so both sides see their own count.
type Conversation struct {
	ID               string            `json:"id"`
	Participants     []string          `json:"participants"` // exactly two, distinct
	ParticipantNames map[string]string `json:"participant_names"`
	LastMessage      string            `json:"last_message"`
	LastMessageTime  time.Time         `json:"last_message_time"`

	// UnreadCount is the viewer-scoped projection filled in by reads;
	// the store keeps the full per-participant map internally.
	UnreadCount int `json:"unread_count"`
}

// Message is one immutable entry in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// ErrNotFound indicates the referenced conversation does not exist.
var ErrNotFound = errors.New("conversation not found")

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
