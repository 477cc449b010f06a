package alerts

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListNotifications returns current user's notifications, newest first
func ListNotifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notes.listFor(userID)})
}

// MarkNotificationRead marks a specific notification as read
func MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	nid := c.Param("id")
	if nid == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing notification id"})
	}

	if !notes.markRead(nid, userID) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found or already read"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ok"})
}
