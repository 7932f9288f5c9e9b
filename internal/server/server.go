// Package server contains the HTTP route table and handlers for the blog.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/session"
	"inkwell/internal/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Manager
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := newRedisClient(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// The Prometheus middleware registers collectors in the default registry,
// which panics on duplicates, so it is created once per process.
var (
	promOnce       sync.Once
	promMiddleware *fiberprometheus.FiberPrometheus
)

func prometheusMiddleware() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMiddleware = fiberprometheus.New("inkwell")
	})
	return promMiddleware
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
// A nil Redis client falls back to the in-process session store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	var store session.Store
	if redisClient != nil {
		store = session.NewRedisStore(redisClient)
	} else {
		middleware.Logger.Warn("Redis unavailable, sessions held in process memory")
		store = session.NewMemoryStore()
	}

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prometheusMiddleware(),
		sessions:       session.NewManager(store, cfg.SessionSecret),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
	}
}

// newRedisClient connects to Redis, returning nil when unavailable.
func newRedisClient(addr string) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			middleware.Logger.Warn("invalid REDIS_URL", slog.String("url", addr), slog.String("error", err.Error()))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis connection failed", slog.String("error", err.Error()))
		return nil
	}
	middleware.Logger.Info("Redis connected successfully")
	return client
}

// NewApp builds the Fiber application with views, middleware, routes, and
// the fallthrough 404 page.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Inkwell",
		Views:        web.Engine(),
		ErrorHandler: s.handleError,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Any unmatched path renders the 404 page.
	app.Use(func(c *fiber.Ctx) error {
		return s.render(c, fiber.StatusNotFound, "404", fiber.Map{"Title": "Not found"})
	})

	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Session rehydration: resolve the cookie to the current user before
	// anything that logs or guards.
	app.Use(s.LoadCurrentUser())

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.Index)
	app.Get("/health", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	app.Get("/register", s.RegisterPage)
	app.Post("/register", s.Register)
	app.Get("/login", s.LoginPage)
	app.Post("/login", s.Login)

	app.Get("/about", s.About)
	app.Get("/contact", s.Contact)
	app.Get("/post/:id", s.ShowPost)

	// Protected routes
	app.Get("/userposts/:id", s.RequireAuth(), s.UserPosts)
	app.Get("/add", s.RequireAuth(), s.AddPage)
	app.Get("/addpost", s.RequireAuth(), s.AddPage)
	app.Post("/addpost", s.RequireAuth(), s.AddPost)
	app.Get("/post/:id/edit", s.RequireAuth(), s.EditPage)
	app.Post("/post/:id/edit", s.RequireAuth(), s.EditPost)
	app.Get("/post/:id/delete", s.RequireAuth(), s.DeletePost)
	app.Get("/logout", s.RequireAuth(), s.LogoutPage)
	app.Post("/logout", s.RequireAuth(), s.Logout)
}

// LoadCurrentUser rehydrates the session user on every request. A session
// whose user id no longer resolves is invalidated.
func (s *Server) LoadCurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, ok := s.sessions.UserID(c); ok {
			user, err := s.userRepo.GetByID(c.Context(), userID)
			switch {
			case err == nil:
				c.Locals("currentUser", user)
				c.Locals("userID", user.ID)
			case models.IsCode(err, "NOT_FOUND"):
				s.sessions.Invalidate(c)
			default:
				middleware.Logger.ErrorContext(c.UserContext(), "session user lookup failed",
					slog.String("error", err.Error()))
			}
		}
		return c.Next()
	}
}

// RequireAuth is the guard for protected routes: anonymous requests are
// redirected to the login page.
func (s *Server) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := s.currentUser(c); !ok {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// currentUser returns the session user loaded by LoadCurrentUser, if any.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals("currentUser").(*models.User)
	return user, ok
}

// render draws a view inside the shared layout with the common bindings
// every page expects (current user, pending flash messages).
func (s *Server) render(c *fiber.Ctx, status int, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	if user, ok := s.currentUser(c); ok {
		bind["CurrentUser"] = user
	}
	bind["Flashes"] = session.TakeFlashes(c)
	return c.Status(status).Render(name, bind, web.Layout)
}

// handleError maps application errors onto rendered error pages.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	page := "error"

	var appErr *models.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		switch appErr.Code {
		case "NOT_FOUND":
			status, page = fiber.StatusNotFound, "404"
		case "FORBIDDEN":
			status, page = fiber.StatusForbidden, "403"
		case "UNAUTHORIZED":
			return c.Redirect("/login", fiber.StatusFound)
		}
	case errors.As(err, &fiberErr):
		status = fiberErr.Code
		if status == fiber.StatusNotFound {
			page = "404"
		}
	}

	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.Int("status", status),
			slog.String("error", err.Error()))
	}

	return s.render(c, status, page, fiber.Map{})
}

// HealthCheck reports readiness of the database and session store.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	sessionStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			sessionStatus = "unhealthy"
		}
	} else {
		sessionStatus = "in-memory"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" || sessionStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"sessions": sessionStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and serves until the listener stops.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("Server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
