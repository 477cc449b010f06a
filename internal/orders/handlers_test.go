package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderErrorMapping(t *testing.T) {
	svc, cat, dir := newFixture(t)
	l := listingPriced(t, cat, "seller", 500)
	h := &Handler{Service: svc}
	e := echo.New()

	call := func(userID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", userID)
		require.NoError(t, h.CreateOrder(c))
		return rec
	}

	// unknown listing
	rec := call("buyer", `{"listing_id":"missing","payment_method":"cash"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// buying your own listing
	rec = call("seller", `{"listing_id":"`+l.ID+`","payment_method":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// points purchase short of the total surfaces the shortfall
	require.NoError(t, dir.Credit(context.Background(), "buyer", 100, "seed"))
	rec = call("buyer", `{"listing_id":"`+l.ID+`","payment_method":"points"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error     string `json:"error"`
		Shortfall int64  `json:"shortfall"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient points", resp.Error)
	assert.Equal(t, int64(425), resp.Shortfall)

	// funded buyer settles, second attempt conflicts
	require.NoError(t, dir.Credit(context.Background(), "buyer", 500, "seed"))
	rec = call("buyer", `{"listing_id":"`+l.ID+`","payment_method":"points"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call("other", `{"listing_id":"`+l.ID+`","payment_method":"cash"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetQuoteHandler(t *testing.T) {
	svc, cat, _ := newFixture(t)
	l := listingPriced(t, cat, "seller", 500)
	h := &Handler{Service: svc}
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(l.ID)
	require.NoError(t, h.GetQuote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var q Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, Quote{ItemPrice: 500, PlatformFee: 25, Total: 525}, q)
}
