package catalog

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	Store *Store
}

// CreateListing - seller posts a new listing
func (h *Handler) CreateListing(c echo.Context) error {
	sellerID, ok := c.Get("user_id").(string)
	if !ok || sellerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sellerName, _ := c.Get("name").(string)

	var draft Draft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
	}

	listing, err := h.Store.Create(sellerID, sellerName, draft)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create listing"})
	}

	return c.JSON(http.StatusCreated, listing)
}

// BrowseListings - public discovery with optional q and category filters
func (h *Handler) BrowseListings(c echo.Context) error {
	q := c.QueryParam("q")
	category := c.QueryParam("category")

	var listings []Listing
	switch {
	case q != "":
		listings = h.Store.Search(q)
	case category != "":
		listings = h.Store.FilterByCategory(category)
	default:
		listings = h.Store.FilterByCategory("all")
	}

	return c.JSON(http.StatusOK, echo.Map{"listings": listings})
}

// GetListing - fetch one listing by id
func (h *Handler) GetListing(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing listing id"})
	}

	listing, err := h.Store.GetByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
	}
	return c.JSON(http.StatusOK, listing)
}

// GetMyListings - seller's own listings, active and sold
func (h *Handler) GetMyListings(c echo.Context) error {
	sellerID, ok := c.Get("user_id").(string)
	if !ok || sellerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": h.Store.ListBySeller(sellerID)})
}
