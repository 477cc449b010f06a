package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail = "email:welcome"
	TaskOrderSettled = "email:order_settled"
	TaskMessageNew   = "email:message_new"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Order settled payload, sent to the seller
type OrderSettledPayload struct {
	OrderID  string        `json:"order_id"`
	BuyerID  string        `json:"buyer_id"`
	SellerID string        `json:"seller_id"`
	Total    int64         `json:"total"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// New chat message payload, sent to the receiver
type MessageNewPayload struct {
	ChatID     string        `json:"chat_id"`
	SenderName string        `json:"sender_name"`
	ReceiverID string        `json:"receiver_id"`
	Preview    string        `json:"preview"`
	Envelope   EmailEnvelope `json:"envelope"`
	SentAt     time.Time     `json:"sent_at"`
}

// Notification is an in-app alert shown in the user's inbox.
type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Reference string     `json:"reference,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}
