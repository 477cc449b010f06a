package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the points wallet over HTTP.
type Handler struct {
	Directory Directory
}

// Balance returns the authenticated user's points balance
func (h *Handler) Balance(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	balance, err := h.Directory.GetBalance(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "wallet not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"balance": balance})
}

// GetUserTransactions returns the user's points history, newest first
func (h *Handler) GetUserTransactions(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	txs, err := h.Directory.Transactions(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch transactions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"transactions": txs})
}
