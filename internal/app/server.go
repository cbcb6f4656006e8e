// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dealdesk-service/internal/config"
	"dealdesk-service/internal/db"
	adminHandler "dealdesk-service/internal/handlers/admin"
	dealHandler "dealdesk-service/internal/handlers/deal"
	menuHandler "dealdesk-service/internal/handlers/menu"
	merchantHandler "dealdesk-service/internal/handlers/merchant"
	"dealdesk-service/internal/middleware"
	"dealdesk-service/internal/pkg/jwt"
	"dealdesk-service/internal/pkg/session"
	"dealdesk-service/internal/repository/postgres"
	redisrepo "dealdesk-service/internal/repository/redis"
	dealUsecase "dealdesk-service/internal/service/deal"
	"dealdesk-service/internal/service/email"
	menuUsecase "dealdesk-service/internal/service/menu"
	merchantUsecase "dealdesk-service/internal/service/merchant"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	httpServer  *http.Server
	pool        *pgxpool.Pool
	redisClient redis.UniversalClient
	notifier    *email.MerchantNotifier
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine, logger: logger}
}

// Init connects the stores, wires the services and builds the HTTP server.
// It must return before Run or Shutdown is called.
func (s *Server) Init(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectPostgres(ctx, s.cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool
	s.logger.Info("connected to PostgreSQL")

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(ctx, s.cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.redisClient = redisClient
	s.logger.Info("connected to Redis", zap.Strings("addresses", s.cfg.Redis.Addresses))

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient)
	rateLimiter := session.NewRateLimiter(redisClient, s.cfg.LoginMaxAttempts, s.cfg.LoginWindow)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	merchantRepo := postgres.NewMerchantRepository(dbWrapper)
	menuRepo := postgres.NewMenuRepository(dbWrapper)
	dealRepo := postgres.NewDealRepository(dbWrapper)
	draftStore := redisrepo.NewDraftStore(redisClient, s.cfg.DraftTTL)

	// ----- Email -----
	var notifier merchantUsecase.Notifier
	if sender := email.NewSender(s.cfg.SMTP); sender.Enabled() {
		s.notifier = email.NewMerchantNotifier(sender, s.logger)
		notifier = s.notifier
	} else {
		s.logger.Warn("SMTP_HOST not set, merchant status emails are disabled")
	}

	// ----- Services (Usecases) -----
	merchantService := merchantUsecase.NewMerchantService(
		merchantRepo,
		jwtManager.Generator,
		jwtManager.Verifier,
		sessionManager,
		rateLimiter,
		notifier,
		s.logger,
	)
	menuService := menuUsecase.NewMenuService(menuRepo, s.logger)
	dealService := dealUsecase.NewDealService(draftStore, dealRepo, menuService, merchantService, s.logger)

	// ----- Initialize Admin -----
	adminCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := merchantService.EnsureAdminExists(adminCtx, s.cfg.AdminEmail, s.cfg.AdminPassword); err != nil {
		// Don't fail startup, just log the error
		s.logger.Error("failed to initialize admin", zap.Error(err))
	}
	cancel()

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(merchantService)

	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
	)

	// ----- Router -----
	SetupRouter(s.engine, &Handlers{
		MerchantHandler: merchantHandler.NewMerchantHandler(merchantService, s.logger),
		MenuHandler:     menuHandler.NewMenuHandler(menuService),
		DealHandler:     dealHandler.NewDealHandler(dealService, s.logger),
		AdminHandler:    adminHandler.NewAdminHandler(merchantService, dealService),
		AuthMiddleware:  authMiddleware,
	})

	s.httpServer = s.newHTTPServer()
	return nil
}

func (s *Server) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run serves HTTP until the server is shut down.
func (s *Server) Run() error {
	if s.httpServer == nil {
		return errors.New("server not initialized")
	}
	s.logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and closes the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.Wait(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pending email: %w", err))
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return errors.Join(errs...)
}
