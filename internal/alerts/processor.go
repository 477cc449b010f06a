package alerts

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

var (
	client *asynq.Client
	server *asynq.Server
)

// EmailLookup resolves an account id to an email address. main wires it
// to the user store; when unset, email tasks are skipped.
var EmailLookup func(userID string) (string, bool)

// Init starts the Asynq server and initializes a shared client. With an
// empty redisAddr email delivery stays disabled and enqueues become
// no-ops; in-app notifications keep working either way.
func Init(redisAddr string) {
	if redisAddr == "" {
		log.Println("alerts: no REDIS_ADDR, email tasks disabled")
		return
	}

	opts := asynq.RedisClientOpt{Addr: redisAddr}
	client = asynq.NewClient(opts)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskWelcomeEmail, handleWelcomeEmail)
	mux.HandleFunc(TaskOrderSettled, handleOrderSettled)
	mux.HandleFunc(TaskMessageNew, handleMessageNew)

	server = asynq.NewServer(opts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"emails": 10,
		},
	})
	go func() {
		if err := server.Run(mux); err != nil {
			log.Printf("Asynq server stopped: %v", err)
		}
	}()

	log.Printf("Asynq initialized (addr=%s)", redisAddr)
}

// Close releases the client and stops the server.
func Close() {
	if client != nil {
		_ = client.Close()
	}
	if server != nil {
		server.Shutdown()
	}
}

func handleWelcomeEmail(_ context.Context, t *asynq.Task) error {
	var p WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Email, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] WelcomeEmail send failed: %v", err)
		return err
	}
	log.Printf("[notify] WelcomeEmail sent -> to=%s user=%s", p.Email, p.UserID)
	return nil
}

func handleOrderSettled(_ context.Context, t *asynq.Task) error {
	var p OrderSettledPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] OrderSettled send failed: %v", err)
		return err
	}
	log.Printf("[notify] OrderSettled sent -> order=%s to=%s", p.OrderID, p.Envelope.To)
	return nil
}

func handleMessageNew(_ context.Context, t *asynq.Task) error {
	var p MessageNewPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return err
	}
	if err := SendEmail(p.Envelope.To, p.Envelope.Subject, p.Envelope.Body); err != nil {
		log.Printf("[notify][ERROR] MessageNew send failed: %v", err)
		return err
	}
	log.Printf("[notify] MessageNew sent -> chat=%s to=%s", p.ChatID, p.Envelope.To)
	return nil
}
