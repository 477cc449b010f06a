package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kiitlabs/blakmarket/internal/catalog"
)

// Handler exposes account profiles over HTTP.
type Handler struct {
	Store   *Store
	Catalog *catalog.Store
}

// GetPublicProfile - public view of a seller with their listing stats
func (h *Handler) GetPublicProfile(c echo.Context) error {
	id := c.Param("id")
	u, err := h.Store.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	listings := h.Catalog.ListBySeller(id)
	active, sold := 0, 0
	for _, l := range listings {
		if l.IsAvailable {
			active++
		} else {
			sold++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":              u.ID,
		"name":            u.Name,
		"rating":          u.Rating,
		"member_since":    u.CreatedAt,
		"active_listings": active,
		"sold_listings":   sold,
	})
}
