package handlers

import (
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/anonto42/threads-service/backend/pkg/config"
	"github.com/anonto42/threads-service/backend/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	uploader       storage.Uploader
	jwtSecret      string
	jwtExpires     time.Duration
	cookieLifetime time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, uploader storage.Uploader, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		uploader:       uploader,
		jwtSecret:      cfg.JWTSecret,
		jwtExpires:     cfg.JWTExpires,
		cookieLifetime: cfg.CookieLifetime,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo, authRequired echo.MiddlewareFunc) {
	e.POST("/registration", h.Register)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout, authRequired)
}

// Register handles user registration with email and password
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Check if user with this email already exists
	if _, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "This email already exists")
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		UserName: generateHandle(req.Name),
		Password: string(hashedPassword),
	}

	if req.Avatar != "" {
		publicID, url, err := h.uploader.Upload(c.Request().Context(), "avatars", req.Avatar)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		user.Avatar = &models.Image{PublicID: publicID, URL: url}
	}

	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if err == repositories.ErrDuplicateEmail {
			return echo.NewHTTPError(http.StatusBadRequest, "This email already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.sendToken(c, http.StatusCreated, user)
}

// Login handles user authentication with email and password
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Please enter email and password")
	}

	// Unknown email and wrong password produce the same message
	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email or password")
	}

	return h.sendToken(c, http.StatusOK, user)
}

// Logout clears the session cookie. The token itself is not blacklisted.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    "",
		Expires:  time.Now(),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully!",
	})
}

// sendToken issues the session token and delivers it both as a response field
// and as a cookie. The cookie lifetime is fixed and independent of the token's
// signed expiry.
func (h *AuthHandler) sendToken(c echo.Context, statusCode int, user *models.User) error {
	token, err := h.generateToken(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	c.SetCookie(&http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.cookieLifetime),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	return c.JSON(statusCode, echo.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// generateToken signs a session token carrying the user's id
func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	claims := &models.TokenClaims{
		ID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.jwtExpires)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// generateHandle derives a handle by stripping whitespace from the display
// name and appending a random suffix. Collisions are not checked.
func generateHandle(name string) string {
	return strings.Join(strings.Fields(name), "") + strconv.Itoa(rand.Intn(1000000))
}
