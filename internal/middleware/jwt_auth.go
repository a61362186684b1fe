package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

// ContextUserKey is where the resolved user record is attached.
const ContextUserKey = "user"

// JWTAuthMiddleware checks for a valid session token and attaches the full
// user record to the context. The lookup miss is tolerated: a valid token for
// a deleted user passes through with a nil user, calling code must cope.
func JWTAuthMiddleware(secret string, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := parseBearer(c, secret)
			if err != nil {
				return err
			}

			if user, err := userRepo.GetUserByID(c.Request().Context(), claims.ID); err == nil {
				c.Set(ContextUserKey, user)
			}
			return next(c)
		}
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is present but
// never rejects the request. Used by endpoints that only personalize output.
func OptionalAuthMiddleware(secret string, userRepo repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if claims, err := parseBearer(c, secret); err == nil {
				if user, lookupErr := userRepo.GetUserByID(c.Request().Context(), claims.ID); lookupErr == nil {
					c.Set(ContextUserKey, user)
				}
			}
			return next(c)
		}
	}
}

func parseBearer(c echo.Context, secret string) (*models.TokenClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" || authHeader == "Bearer undefined" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Please login to continue")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := &models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}
	return claims, nil
}

// UserFromContext returns the attached user record, or nil when no valid
// session resolved to an existing user.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(ContextUserKey).(*models.User)
	return user
}
