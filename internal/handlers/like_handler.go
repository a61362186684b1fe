package handlers

import (
	"net/http"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// LikeHandler applies the like toggle at all three structural levels: the
// post itself, a depth-1 reply and a depth-2 reply.
type LikeHandler struct {
	postRepository         repositories.PostRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postRepo repositories.PostRepository, notifRepo repositories.NotificationRepository) *LikeHandler {
	return &LikeHandler{
		postRepository:         postRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(e *echo.Echo) {
	e.PUT("/update-likes", h.UpdateLikes)
	e.PUT("/update-replies-react", h.UpdateReplyLikes)
	e.PUT("/update-reply-react", h.UpdateNestedReplyLikes)
}

// UpdateLikes toggles the acting user's like on a post. Post-level likes use
// atomic array operators, unlike the reply levels which rewrite the document.
func (h *LikeHandler) UpdateLikes(c echo.Context) error {
	var req models.UpdateLikesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, req.PostID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actorID := req.User.ID.Hex()
	ownerID := post.User.ID.Hex()

	if models.HasLikeBy(post.Likes, actorID) {
		if err := h.postRepository.PullLike(ctx, req.PostID, actorID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := h.notificationRepository.Retract(ctx, models.NotificationLike, actorID, ownerID, ""); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Like removed successfully",
		})
	}

	like := models.Like{
		Name:       req.User.Name,
		UserName:   req.User.UserName,
		UserID:     actorID,
		UserAvatar: req.User.AvatarURL(),
		PostID:     req.PostID,
	}
	if err := h.postRepository.PushLike(ctx, req.PostID, like); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	title := post.Title
	if title == "" {
		title = "Liked your post"
	}
	notif := &models.Notification{
		Creator: req.User,
		Type:    models.NotificationLike,
		Title:   title,
		UserID:  ownerID,
		PostID:  req.PostID,
	}
	if err := h.notificationRepository.Emit(ctx, notif); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Like Added successfully",
	})
}

// UpdateReplyLikes toggles a like on a depth-1 reply.
func (h *LikeHandler) UpdateReplyLikes(c echo.Context) error {
	var req models.UpdateReplyLikesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return h.toggleReplyLike(c, req.User, req.PostID, req.ReplyTitle, req.ReplyID)
}

// UpdateNestedReplyLikes toggles a like on a depth-2 reply.
func (h *LikeHandler) UpdateNestedReplyLikes(c echo.Context) error {
	var req models.UpdateNestedReplyLikesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return h.toggleReplyLike(c, req.User, req.PostID, req.ReplyTitle, req.ReplyID, req.SingleReplyID)
}

// toggleReplyLike runs the like state machine on the reply addressed by the
// id path. The whole parent document is read, mutated and written back, so
// concurrent toggles on the same post can lose updates.
func (h *LikeHandler) toggleReplyLike(c echo.Context, user models.UserSnapshot, postID, replyTitle string, path ...string) error {
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reply := post.FindReply(path...)
	if reply == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
	}

	ownerID := post.User.ID.Hex()

	likes, added := models.ToggleLike(reply.Likes, user, "")
	reply.Likes = likes

	if !added {
		if err := h.notificationRepository.Retract(ctx, models.NotificationLike, user.ID.Hex(), ownerID, postID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}

		if err := h.postRepository.ReplacePost(ctx, post); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Like removed from reply successfully",
		})
	}

	title := replyTitle
	if title == "" {
		title = "Liked your Reply"
	}
	notif := &models.Notification{
		Creator: user,
		Type:    models.NotificationLike,
		Title:   title,
		UserID:  ownerID,
		PostID:  postID,
	}
	if err := h.notificationRepository.Emit(ctx, notif); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.postRepository.ReplacePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Like added to reply successfully",
	})
}
