package alerts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// enqueue submits a task if email delivery is enabled. All enqueues are
// best-effort: failures are reported but never abort the caller's
// request.
func enqueue(taskType string, payload any) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(asynq.NewTask(taskType, b), asynq.Queue("emails"))
	return err
}

// EnqueueWelcomeEmail schedules a welcome email to a new user.
func EnqueueWelcomeEmail(userID, email, name string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("Welcome to blaK Market, %s!", name),
		Body:    fmt.Sprintf("Hi %s, thanks for joining blaK Market. Your wallet is ready - browse the catalog and start trading.", name),
	}
	return enqueue(TaskWelcomeEmail, WelcomeEmailPayload{
		UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueOrderSettled notifies the seller that their listing sold.
func EnqueueOrderSettled(orderID, buyerID, sellerID string, total int64) error {
	email, ok := lookupEmail(sellerID)
	if !ok {
		return nil
	}
	env := EmailEnvelope{
		To:      email,
		Subject: "Your listing sold",
		Body:    fmt.Sprintf("Order %s settled for %d points. The buyer will contact you for delivery.", orderID, total),
	}
	return enqueue(TaskOrderSettled, OrderSettledPayload{
		OrderID: orderID, BuyerID: buyerID, SellerID: sellerID, Total: total,
		Envelope: env, SentAt: time.Now(),
	})
}

// EnqueueMessageNew notifies the receiver of a new chat message.
func EnqueueMessageNew(chatID, senderName, receiverID, preview string) error {
	email, ok := lookupEmail(receiverID)
	if !ok {
		return nil
	}
	env := EmailEnvelope{
		To:      email,
		Subject: fmt.Sprintf("New message from %s", senderName),
		Body:    preview,
	}
	return enqueue(TaskMessageNew, MessageNewPayload{
		ChatID: chatID, SenderName: senderName, ReceiverID: receiverID, Preview: preview,
		Envelope: env, SentAt: time.Now(),
	})
}

func lookupEmail(userID string) (string, bool) {
	if EmailLookup == nil {
		return "", false
	}
	return EmailLookup(userID)
}
