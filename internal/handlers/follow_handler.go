package handlers

import (
	"net/http"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles the follow/unfollow toggle
type FollowHandler struct {
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *FollowHandler {
	return &FollowHandler{
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(e *echo.Echo) {
	e.PUT("/add-user", h.FollowUnfollow)
}

// FollowUnfollow toggles the follow edge between the acting user and the
// target. Both branches are two independent single-document writes with no
// transaction; a failure in between leaves the graph asymmetric.
func (h *FollowHandler) FollowUnfollow(c echo.Context) error {
	var req models.FollowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	actor, err := h.userRepository.GetUserByID(ctx, req.User.ID.Hex())
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	actorID := actor.ID.Hex()

	if actor.IsFollowing(req.FollowUserID) {
		if err := h.userRepository.RemoveFollower(ctx, req.FollowUserID, actorID); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		if err := h.userRepository.RemoveFollowing(ctx, actorID, req.FollowUserID); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		if err := h.notificationRepository.Retract(ctx, models.NotificationFollow, actorID, req.FollowUserID, ""); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "User unfollowed successfully",
		})
	}

	if err := h.userRepository.AddFollower(ctx, req.FollowUserID, actorID); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.userRepository.AddFollowing(ctx, actorID, req.FollowUserID); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	notif := &models.Notification{
		Creator: actor.Snapshot(),
		Type:    models.NotificationFollow,
		Title:   "Followed you",
		UserID:  req.FollowUserID,
	}
	if err := h.notificationRepository.Emit(ctx, notif); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "User followed successfully",
	})
}
