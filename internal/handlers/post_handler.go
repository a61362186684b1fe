package handlers

import (
	"context"
	"net/http"

	"github.com/anonto42/threads-service/backend/internal/models"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/anonto42/threads-service/backend/pkg/storage"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	uploader       storage.Uploader
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, uploader storage.Uploader) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		uploader:       uploader,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo) {
	e.POST("/create-post", h.CreatePost)
	e.GET("/posts", h.GetAllPosts)
	e.DELETE("/delete-post/:id", h.DeletePost)
}

// CreatePost creates a new post, seeded with the given reply set. All images
// are uploaded before the document is persisted.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()

	image, err := uploadImage(ctx, h.uploader, req.Image)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	replies := make([]models.Reply, 0, len(req.Replies))
	for _, seed := range req.Replies {
		replyImage, err := uploadImage(ctx, h.uploader, seed.Image)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		replies = append(replies, models.NewReply(seed.User, seed.Title, replyImage))
	}

	post := &models.Post{
		User:    req.User,
		Title:   req.Title,
		Image:   image,
		Likes:   []models.Like{},
		Replies: replies,
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "post": post})
}

// GetAllPosts lists all posts, newest first.
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "posts": posts})
}

// DeletePost deletes a post and its stored image, so no orphaned assets remain.
func (h *PostHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	postID := c.Param("id")

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post is not found with this id")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if post.Image != nil && post.Image.PublicID != "" {
		if err := h.uploader.Destroy(ctx, post.Image.PublicID); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

// uploadImage uploads an optional base64 image payload into the posts folder.
func uploadImage(ctx context.Context, uploader storage.Uploader, data string) (*models.Image, error) {
	if data == "" {
		return nil, nil
	}
	publicID, url, err := uploader.Upload(ctx, "posts", data)
	if err != nil {
		return nil, err
	}
	return &models.Image{PublicID: publicID, URL: url}, nil
}
