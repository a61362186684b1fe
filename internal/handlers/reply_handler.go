package handlers

import (
	"net/http"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/anonto42/threads-service/backend/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ReplyHandler handles reply insertion at both nesting levels.
type ReplyHandler struct {
	postRepository repositories.PostRepository
	uploader       storage.Uploader
}

// NewReplyHandler creates a new ReplyHandler
func NewReplyHandler(postRepo repositories.PostRepository, uploader storage.Uploader) *ReplyHandler {
	return &ReplyHandler{
		postRepository: postRepo,
		uploader:       uploader,
	}
}

// RegisterReplyRoutes registers reply-related routes
func (h *ReplyHandler) RegisterReplyRoutes(e *echo.Echo) {
	e.PUT("/add-replies", h.AddReplies)
	e.PUT("/add-reply", h.AddReply)
}

// AddReplies appends a depth-1 reply to a post.
func (h *ReplyHandler) AddReplies(c echo.Context) error {
	var req models.AddRepliesRequest
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

	image, err := uploadImage(ctx, h.uploader, req.Image)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	post.Replies = append(post.Replies, models.NewReply(req.User, req.Title, image))

	if err := h.postRepository.ReplacePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}

// AddReply appends a depth-2 reply to an existing depth-1 reply. Nesting stops
// here: no endpoint writes a third level.
func (h *ReplyHandler) AddReply(c echo.Context) error {
	var req models.AddReplyRequest
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

	parent := post.FindReply(req.ReplyID)
	if parent == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Reply not found")
	}

	image, err := uploadImage(ctx, h.uploader, req.Image)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	parent.Reply = append(parent.Reply, models.NewReply(req.User, req.Title, image))

	if err := h.postRepository.ReplacePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}
