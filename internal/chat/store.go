package chat

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// conversation is the store-internal record; unread is keyed by
// participant id.
type conversation struct {
	id              string
	participants    [2]string
	names           map[string]string
	lastMessage     string
	lastMessageTime time.Time
	unread          map[string]int
	messages        []Message
}

// Store holds all conversations and their messages in memory.
type Store struct {
	mu     sync.RWMutex
	byID   map[string]*conversation
	byPair map[string]*conversation // key: sorted participant ids
	seq    uint64
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]*conversation),
		byPair: make(map[string]*conversation),
	}
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// CreateOrGet returns the conversation for the unordered pair
// {selfID, otherID}, creating it on first contact. The whole lookup-or-
// insert runs under the write lock, so concurrent callers for the same
// pair always converge on one conversation.
func (s *Store) CreateOrGet(selfID, selfName, otherID, otherName string) (Conversation, error) {
	if selfID == "" || otherID == "" {
		return Conversation{}, &ValidationError{Field: "participant", Msg: "ids must not be empty"}
	}
	if selfID == otherID {
		return Conversation{}, &ValidationError{Field: "participant", Msg: "cannot start a conversation with yourself"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(selfID, otherID)
	if conv, ok := s.byPair[key]; ok {
		return conv.view(selfID), nil
	}

	conv := &conversation{
		id:           uuid.New().String(),
		participants: [2]string{selfID, otherID},
		names:        map[string]string{selfID: selfName, otherID: otherName},
		unread:       make(map[string]int),
	}
	s.byID[conv.id] = conv
	s.byPair[key] = conv
	return conv.view(selfID), nil
}

// AppendMessage adds a message from senderID, updates the conversation
// preview and increments the receiver's unread counter.
func (s *Store) AppendMessage(conversationID, senderID, content string) (Message, error) {
	if content == "" {
		return Message{}, &ValidationError{Field: "content", Msg: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		return Message{}, ErrNotFound
	}
	receiverID, ok := conv.other(senderID)
	if !ok {
		return Message{}, &ValidationError{Field: "sender_id", Msg: "not a participant in this conversation"}
	}

	s.seq++
	msg := Message{
		ID:             fmt.Sprintf("m%012d", s.seq),
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}
	conv.messages = append(conv.messages, msg)
	conv.lastMessage = content
	conv.lastMessageTime = msg.Timestamp
	conv.unread[receiverID]++
	return msg, nil
}

// ListMessages returns the conversation's messages, timestamp ascending
// with ties in insertion order.
func (s *Store) ListMessages(conversationID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]Message(nil), conv.messages...), nil
}

// MarkRead resets the viewer's unread counter. Idempotent.
func (s *Store) MarkRead(conversationID, viewerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := conv.other(viewerID); !ok {
		return &ValidationError{Field: "viewer_id", Msg: "not a participant in this conversation"}
	}
	conv.unread[viewerID] = 0
	return nil
}

// Get returns the viewer's projection of one conversation.
func (s *Store) Get(conversationID, viewerID string) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.byID[conversationID]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	return conv.view(viewerID), nil
}

// ListForUser returns the viewer's conversations, most recent activity
// first.
func (s *Store) ListForUser(viewerID string) []Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Conversation
	for _, conv := range s.byID {
		if _, ok := conv.other(viewerID); ok {
			out = append(out, conv.view(viewerID))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out
}

// other resolves the counterpart of id, reporting whether id is a
// participant at all.
func (c *conversation) other(id string) (string, bool) {
	switch id {
	case c.participants[0]:
		return c.participants[1], true
	case c.participants[1]:
		return c.participants[0], true
	}
	return "", false
}

func (c *conversation) view(viewerID string) Conversation {
	names := make(map[string]string, len(c.names))
	for k, v := range c.names {
		names[k] = v
	}
	return Conversation{
		ID:               c.id,
		Participants:     []string{c.participants[0], c.participants[1]},
		ParticipantNames: names,
		LastMessage:      c.lastMessage,
		LastMessageTime:  c.lastMessageTime,
		UnreadCount:      c.unread[viewerID],
	}
}
