package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/kiitlabs/blakmarket/internal/alerts"
	"github.com/kiitlabs/blakmarket/internal/user"
	"github.com/kiitlabs/blakmarket/internal/wallet"
)

// Handler implements signup, login and the authenticated profile view.
type Handler struct {
	Users     *user.Store
	Directory wallet.Directory
	Secret    string

	// EmailDomain restricts signups to a campus domain when non-empty.
	EmailDomain string

	// WelcomePoints seeds the points balance of every new account.
	WelcomePoints int64
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ===== Signup =====
func (h *Handler) Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of 6+ characters are required"})
	}
	if h.EmailDomain != "" && !strings.HasSuffix(strings.ToLower(req.Email), "@"+h.EmailDomain) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "please use your @" + h.EmailDomain + " email address"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	u, err := h.Users.Create(req.Name, req.Email, string(hashed))
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "signup failed"})
	}

	// Open the points wallet with the welcome grant
	if err := h.Directory.Credit(c.Request().Context(), u.ID, h.WelcomePoints, "signup:welcome"); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wallet creation failed"})
	}

	alerts.EnqueueWelcomeEmail(u.ID, u.Email, u.Name)

	signed, err := h.issueToken(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": signed, "user_id": u.ID})
}

// ===== Login =====
func (h *Handler) Login(c echo.Context) error {
	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	u, err := h.Users.GetByEmail(req.Email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	signed, err := h.issueToken(u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": signed})
}

// Me returns the currently authenticated user's profile with their
// points balance
func (h *Handler) Me(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	u, err := h.Users.GetByID(uid)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	points, err := h.Directory.GetBalance(c.Request().Context(), uid)
	if err != nil {
		points = 0
	}

	return c.JSON(http.StatusOK, echo.Map{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"rating": u.Rating,
		"points": points,
	})
}

func (h *Handler) issueToken(u user.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID,
		"name":    u.Name,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Secret))
}
