package chat

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kiitlabs/blakmarket/internal/alerts"
)

// NameResolver looks up a user's display name.
type NameResolver interface {
	DisplayName(id string) (string, bool)
}

// Handler exposes conversations over HTTP.
type Handler struct {
	Store *Store
	Users NameResolver
}

// OpenChat - create or fetch the conversation with another user
func (h *Handler) OpenChat(c echo.Context) error {
	selfID, ok := c.Get("user_id").(string)
	if !ok || selfID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	selfName, _ := c.Get("name").(string)

	var req struct {
		OtherID string `json:"other_id"`
	}
	if err := c.Bind(&req); err != nil || req.OtherID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid other_id"})
	}

	otherName, ok := h.Users.DisplayName(req.OtherID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	conv, err := h.Store.CreateOrGet(selfID, selfName, req.OtherID, otherName)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to open chat"})
	}
	return c.JSON(http.StatusOK, conv)
}

// ListChats - the user's conversations, latest activity first
func (h *Handler) ListChats(c echo.Context) error {
	selfID, ok := c.Get("user_id").(string)
	if !ok || selfID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"chats": h.Store.ListForUser(selfID)})
}

// SendMessage - append a message to a conversation
func (h *Handler) SendMessage(c echo.Context) error {
	selfID, ok := c.Get("user_id").(string)
	if !ok || selfID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	convID := c.Param("id")
	if convID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing chat id"})
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	msg, err := h.Store.AppendMessage(convID, selfID, body.Content)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to send message"})
	}

	// In-app notification and email for the receiver (best-effort)
	senderName, _ := c.Get("name").(string)
	alerts.CreateNotification(msg.ReceiverID, "message:new", "New message", msg.Content, msg.ID)
	alerts.EnqueueMessageNew(msg.ConversationID, senderName, msg.ReceiverID, msg.Content)

	return c.JSON(http.StatusCreated, msg)
}

// ListChatMessages - full history of a conversation, oldest first
func (h *Handler) ListChatMessages(c echo.Context) error {
	selfID, ok := c.Get("user_id").(string)
	if !ok || selfID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	convID := c.Param("id")
	conv, err := h.Store.Get(convID, selfID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
	}
	if !isParticipant(conv, selfID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant in this chat"})
	}

	msgs, err := h.Store.ListMessages(convID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

// MarkChatRead - reset the viewer's unread counter
func (h *Handler) MarkChatRead(c echo.Context) error {
	selfID, ok := c.Get("user_id").(string)
	if !ok || selfID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	err := h.Store.MarkRead(c.Param("id"), selfID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
		}
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": ve.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to mark read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}

func isParticipant(conv Conversation, id string) bool {
	for _, p := range conv.Participants {
		if p == id {
			return true
		}
	}
	return false
}
