package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/walletd/walletd/internal/account"
	"github.com/walletd/walletd/internal/config"
	"github.com/walletd/walletd/internal/identity"
	"github.com/walletd/walletd/internal/middleware"
	"github.com/walletd/walletd/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	identityRepo := identity.NewPostgresRepository(d.DB)
	identitySvc := identity.NewService(identityRepo)
	identityHandler := identity.NewHandler(identitySvc)

	revocations := token.NewRedisRevocationList(d.Cache, d.Cfg.CacheTimeout)
	tokenSvc := token.NewService([]byte(d.Cfg.JWTSecret), d.Cfg.TokenTTL, revocations, d.Logger)
	authHandler := token.NewHandler(identitySvc, tokenSvc)

	accountStore := account.NewPostgresStore(d.DB)
	accountCache := account.NewCache(d.Cache, d.Cfg.CacheTTL, d.Cfg.CacheTimeout, d.Logger)
	accountSvc := account.NewService(accountStore, accountCache, d.Logger)
	accountHandler := account.NewHandler(accountSvc)

	// Public routes
	app.Post("/users", identityHandler.Register)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginPerMin)
	RegisterAuthRoutes(app, authHandler, rateLimiter)

	// Protected routes
	gate := middleware.BearerAuth(tokenSvc)
	RegisterAccountRoutes(app.Group("", gate), accountHandler)

	return nil
}
