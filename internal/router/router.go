package router

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/anonto42/threads-service/backend/internal/handlers"
	"github.com/anonto42/threads-service/backend/internal/middleware"
	"github.com/anonto42/threads-service/backend/internal/repositories"
	"github.com/anonto42/threads-service/backend/pkg/config"
	"github.com/anonto42/threads-service/backend/pkg/ratelimit"
	"github.com/anonto42/threads-service/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"
)

const (
	rateLimitRequests = 100
	rateLimitWindow   = 15 * time.Minute
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, cfg *config.Config, redisClient *redis.Client) {
	e.HTTPErrorHandler = httpErrorHandler

	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.BodyLimit("50M"))
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	e.Use(eMiddleware.RateLimiterWithConfig(eMiddleware.RateLimiterConfig{
		Store: rateLimiterStore(redisClient),
	}))
	log.Println("Global middleware configured.")
}

// rateLimiterStore backs the limiter with Redis when available so the budget
// is shared across replicas, otherwise with echo's in-memory store.
func rateLimiterStore(redisClient *redis.Client) eMiddleware.RateLimiterStore {
	if redisClient != nil {
		return ratelimit.NewRedisStore(redisClient, rateLimitRequests, rateLimitWindow)
	}
	return eMiddleware.NewRateLimiterMemoryStoreWithConfig(eMiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rateLimitRequests / rateLimitWindow.Seconds()),
		Burst:     rateLimitRequests,
		ExpiresIn: rateLimitWindow,
	})
}

// httpErrorHandler normalizes every failure to {success:false, message} with
// the status code carried on the error.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}

	if jsonErr := c.JSON(code, echo.Map{"success": false, "message": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, mgClient *mongo.Client, uploader storage.Uploader) {
	db := mgClient.Database(cfg.MongoDatabase)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create user indexes: %v", err)
	}
	log.Println("MongoDB indexes ensured.")

	authRequired := middleware.JWTAuthMiddleware(cfg.JWTSecret, userRepo)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret, userRepo)

	// Health check and liveness probe - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/test", handlers.Test)

	// Auth routes
	authHandler := handlers.NewAuthHandler(userRepo, uploader, cfg)
	authHandler.RegisterAuthRoutes(e, authRequired)
	log.Println("Auth routes configured.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, uploader)
	userHandler.RegisterUserRoutes(e, optionalAuth)
	log.Println("User routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(e)
	log.Println("Follow routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, uploader)
	postHandler.RegisterPostRoutes(e)
	log.Println("Post routes configured.")

	// Reply routes
	replyHandler := handlers.NewReplyHandler(postRepo, uploader)
	replyHandler.RegisterReplyRoutes(e)
	log.Println("Reply routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(postRepo, notificationRepo)
	likeHandler.RegisterLikeRoutes(e)
	log.Println("Like routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(e)
	log.Println("Notification routes configured.")

	// Unknown routes surface as 404 before reaching business logic
	e.RouteNotFound("/*", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Route "+c.Request().URL.Path+" not found")
	})

	log.Println("All routes configured.")
}
