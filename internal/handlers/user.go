package handlers

import (
	"net/http"

	"github.com/anonto42/threads-service/backend/internal/middleware"
	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/anonto42/threads-service/backend/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	uploader       storage.Uploader
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, uploader storage.Uploader) *UserHandler {
	return &UserHandler{userRepository: userRepo, uploader: uploader}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(e *echo.Echo, optionalAuth echo.MiddlewareFunc) {
	e.GET("/me", h.Me, optionalAuth)
	e.GET("/users", h.GetAllUsers, optionalAuth)
	e.GET("/get-user/:id", h.GetUser)
	e.PUT("/update-avatar", h.UpdateAvatar)
	e.PUT("/update-profile", h.UpdateProfile)
}

// Me returns the caller's own record. With no valid session the user is null.
func (h *UserHandler) Me(c echo.Context) error {
	user := middleware.UserFromContext(c)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// GetAllUsers lists all users except the caller, newest first.
func (h *UserHandler) GetAllUsers(c echo.Context) error {
	excludeID := ""
	if user := middleware.UserFromContext(c); user != nil {
		excludeID = user.ID.Hex()
	}

	users, err := h.userRepository.GetUsersExcept(c.Request().Context(), excludeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "users": users})
}

// GetUser fetches one user by id
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": user})
}

// UpdateAvatar replaces the acting user's avatar image. The previous storage
// object is destroyed before the new one is uploaded.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	var req models.UpdateAvatarRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), req.User.ID.Hex())
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	if user.Avatar != nil && user.Avatar.PublicID != "" {
		if err := h.uploader.Destroy(c.Request().Context(), user.Avatar.PublicID); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
	}

	publicID, url, err := h.uploader.Upload(c.Request().Context(), "avatars", req.Avatar)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	user.Avatar = &models.Image{PublicID: publicID, URL: url}
	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// UpdateProfile updates the acting user's name, handle and bio.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), req.User.ID.Hex())
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	user.Name = req.Name
	user.UserName = req.UserName
	user.Bio = req.Bio

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "user": user})
}
