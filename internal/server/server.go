// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"qaforum/internal/blob"
	"qaforum/internal/config"
	"qaforum/internal/database"
	"qaforum/internal/middleware"
	"qaforum/internal/models"
	"qaforum/internal/repository"
	"qaforum/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "qaforum-api"
	tokenAudience = "qaforum-client"
	tokenTTL      = 24 * time.Hour
)

// Server holds all dependencies and provides the HTTP handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	channelRepo repository.ChannelRepository
	postRepo    repository.PostRepository
	replyRepo   repository.ReplyRepository
	blobStore   blob.Store

	channelService *service.ChannelService
	postService    *service.PostService
	replyService   *service.ReplyService
	userService    *service.UserService
}

// NewServer creates a server instance, establishing the database and blob
// store connections itself.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient, err := blob.NewClient(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("blob store connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	postRepo := repository.NewPostRepository(db)
	replyRepo := repository.NewReplyRepository(db)
	blobStore := blob.NewRedisStore(redisClient)

	assembler := service.NewReplyTreeAssembler(replyRepo, blobStore)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("qaforum-api"),
		userRepo:       userRepo,
		channelRepo:    channelRepo,
		postRepo:       postRepo,
		replyRepo:      replyRepo,
		blobStore:      blobStore,
		channelService: service.NewChannelService(channelRepo),
		postService:    service.NewPostService(postRepo, assembler, blobStore),
		replyService:   service.NewReplyService(replyRepo, postRepo, blobStore),
		userService:    service.NewUserService(userRepo),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, x-auth-token",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/", s.Welcome)

	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	channels := api.Group("/channels")
	channels.Get("/", s.GetChannels)
	channels.Get("/:id", s.GetChannel)
	channels.Post("/", s.AuthRequired(), s.CreateChannel)
	channels.Put("/:id", s.AuthRequired(), s.UpdateChannel)
	// The literal /all route must be registered before the generic /:id route.
	channels.Delete("/all", s.AuthRequired(), s.AdminRequired(), s.DeleteAllChannels)
	channels.Delete("/:id", s.AuthRequired(), s.DeleteChannel)

	posts := api.Group("/posts")
	posts.Get("/channel/:channelId", s.GetChannelPosts)
	posts.Get("/:id", s.GetPost)
	posts.Post("/", s.AuthRequired(), s.CreatePost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	replies := api.Group("/replies")
	replies.Post("/", s.AuthRequired(), s.CreateReply)
	replies.Delete("/:id", s.AuthRequired(), s.DeleteReply)

	users := api.Group("/users", s.AuthRequired())
	users.Get("/profile", s.GetProfile)
	users.Get("/", s.AdminRequired(), s.GetUsers)
	users.Delete("/:id", s.AdminRequired(), s.DeleteUser)
}

// Welcome handles GET /api/.
func (s *Server) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to Programming Q&A API"})
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests by pinging both stores.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	blobStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			blobStatus = "unhealthy"
		}
	} else {
		blobStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || blobStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database":   dbStatus,
			"blob_store": blobStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. The token is accepted
// from the x-auth-token header or a standard bearer-prefixed Authorization
// header; on success the decoded claims become the caller identity in Fiber
// locals (userID, username, role) for downstream authorization checks.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Get("x-auth-token")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && parts[0] == "Bearer" {
					tokenString = parts[1]
				}
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("No token, authorization denied"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Token is not valid"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Token is not valid"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Token is not valid"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Token is not valid"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Token is not valid"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("Token is not valid"))
		}

		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		if role == "" {
			role = models.RoleUser
		}

		c.Locals("userID", uint(userID))
		c.Locals("username", username)
		c.Locals("role", role)

		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin callers with 403.
// Must be placed after AuthRequired so the role claim is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != models.RoleAdmin {
			return models.RespondWithError(c,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Shutdown closes the server's store connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}
	return nil
}
