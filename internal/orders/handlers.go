package orders

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kiitlabs/blakmarket/internal/alerts"
	"github.com/kiitlabs/blakmarket/internal/catalog"
	"github.com/kiitlabs/blakmarket/internal/wallet"
)

// Handler exposes quoting and settlement over HTTP.
type Handler struct {
	Service *Service
}

// GetQuote - fee breakdown for a listing before purchase
func (h *Handler) GetQuote(c echo.Context) error {
	quote, err := h.Service.GetQuote(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case errors.Is(err, catalog.ErrUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "listing no longer available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to quote"})
	}
	return c.JSON(http.StatusOK, quote)
}

// CreateOrder - buyer confirms a purchase
func (h *Handler) CreateOrder(c echo.Context) error {
	buyerID, ok := c.Get("user_id").(string)
	if !ok || buyerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		ListingID     string `json:"listing_id"`
		PaymentMethod string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil || req.ListingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	order, err := h.Service.Settle(c.Request().Context(), req.ListingID, buyerID, req.PaymentMethod)
	if err != nil {
		var ve *ValidationError
		var ife *wallet.InsufficientFundsError
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		case errors.Is(err, catalog.ErrUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "listing no longer available"})
		case errors.Is(err, ErrSelfTransaction):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "you cannot buy your own listing"})
		case errors.As(err, &ife):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":     "insufficient points",
				"shortfall": ife.Shortfall,
			})
		case errors.As(err, &ve):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle order"})
	}

	// Notify the seller (best-effort)
	alerts.CreateNotification(order.SellerID, "order:settled", "Your listing sold",
		fmt.Sprintf("Order %s settled for %d (%s)", order.ID, order.Total, order.PaymentMethod), order.ID)
	alerts.EnqueueOrderSettled(order.ID, order.BuyerID, order.SellerID, order.Total)

	return c.JSON(http.StatusCreated, order)
}

// GetMyOrders - orders where the user is buyer or seller
func (h *Handler) GetMyOrders(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": h.Service.ListForUser(uid)})
}
