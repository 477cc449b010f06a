package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mware "github.com/kiitlabs/blakmarket/internal/middleware"
	"github.com/kiitlabs/blakmarket/internal/user"
	"github.com/kiitlabs/blakmarket/internal/wallet"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*echo.Echo, *Handler) {
	t.Helper()
	h := &Handler{
		Users:         user.NewStore(),
		Directory:     wallet.NewMemory(),
		Secret:        testSecret,
		EmailDomain:   "kiit.ac.in",
		WelcomePoints: 500,
	}
	e := echo.New()
	e.POST("/auth/signup", h.Signup)
	e.POST("/auth/login", h.Login)
	g := e.Group("")
	g.Use(mware.JWT(testSecret))
	g.GET("/me", h.Me)
	return e, h
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignupLoginMe(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/signup",
		`{"name":"Priya","email":"priya@kiit.ac.in","password":"hunter22"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"priya@kiit.ac.in","password":"hunter22"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = doJSON(e, http.MethodGet, "/me", "", login.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Points int64  `json:"points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Priya", me.Name)
	assert.Equal(t, "priya@kiit.ac.in", me.Email)
	assert.Equal(t, int64(500), me.Points, "welcome grant seeds the wallet")
}

func TestSignupRejectsNonCampusEmail(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/signup",
		`{"name":"Mallory","email":"mallory@gmail.com","password":"hunter22"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	e, _ := newTestServer(t)

	body := `{"name":"Priya","email":"priya@kiit.ac.in","password":"hunter22"}`
	require.Equal(t, http.StatusCreated, doJSON(e, http.MethodPost, "/auth/signup", body, "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(e, http.MethodPost, "/auth/signup", body, "").Code)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/auth/signup",
		`{"name":"Priya","email":"priya@kiit.ac.in","password":"hunter22"}`, "")
	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"priya@kiit.ac.in","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
	e, _ := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, doJSON(e, http.MethodGet, "/me", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(e, http.MethodGet, "/me", "", "not-a-jwt").Code)
}
