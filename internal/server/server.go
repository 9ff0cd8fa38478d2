package server

import (
	"fmt"
	"net/http"
	"time"

	"descartables/internal/config"
	"descartables/internal/database"
	"descartables/internal/messaging"
	custommiddleware "descartables/internal/middleware"
	"descartables/internal/repository"
	"descartables/internal/service"
	"descartables/internal/session"
	"descartables/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// Dependencies are the stores the router is built on.
type Dependencies struct {
	Products repository.ProductRepository
	Accounts repository.AccountRepository
	DB       transport.DBHealth
	Redis    *redis.Client
	// Now stamps order messages; nil means time.Now.
	Now func() time.Time
}

// NewRouter wires services, handlers and middleware into a chi router.
func NewRouter(cfg *config.Config, logger *zap.Logger, deps Dependencies) (http.Handler, error) {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.IsDevelopment()))

	views, err := transport.NewViews()
	if err != nil {
		return nil, err
	}

	// Initialize sessions
	sessions := session.NewManager(session.NewRedisStore(deps.Redis, "session"), cfg.Session)

	// Initialize services
	authService := service.NewAuthService(deps.Accounts)
	catalogService := service.NewCatalogService(deps.Products)
	cartService := service.NewCartService(deps.Products, cfg.Order, deps.Now)

	// Initialize handlers
	pages := transport.NewPages(sessions, views, cfg.Order.Currency, logger)
	authHandler := transport.NewAuthHandler(authService, cartService, pages)
	catalogHandler := transport.NewCatalogHandler(catalogService, pages)
	cartHandler := transport.NewCartHandler(cartService, messaging.NewWhatsAppLinker(), cfg.Order.WhatsAppNumber, pages)
	healthHandler := transport.NewHealthHandler(deps.DB, deps.Redis)

	// Create guards
	authMiddleware := custommiddleware.RequireAuth(logger)
	adminMiddleware := custommiddleware.RequireAdmin(sessions, logger)
	userMiddleware := custommiddleware.RequireUser(sessions, logger)
	loginLimiter := custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.Login.RateLimit,
		Window:            cfg.Login.RateWindow,
		KeyPrefix:         "login_rate",
	}, logger)

	// Register routes
	healthHandler.RegisterRoutes(router)
	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.SessionMiddleware(sessions, logger))
		r.Use(custommiddleware.AccountMiddleware(deps.Accounts, sessions, logger))
		r.Use(custommiddleware.LoggingMiddleware(logger))

		authHandler.RegisterRoutes(r, authMiddleware, loginLimiter)
		catalogHandler.RegisterRoutes(r, authMiddleware, adminMiddleware)
		cartHandler.RegisterRoutes(r, userMiddleware)
	})

	return router, nil
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) (*Server, error) {
	router, err := NewRouter(cfg, logger, Dependencies{
		Products: repository.NewProductRepository(db.DB()),
		Accounts: repository.NewAccountRepository(db.DB()),
		DB:       db,
		Redis:    redisClient,
	})
	if err != nil {
		return nil, err
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server, nil
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
