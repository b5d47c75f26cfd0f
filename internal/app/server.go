// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-agent/internal/api"
	"storefront-agent/internal/config"
	"storefront-agent/internal/db"
	adminHandler "storefront-agent/internal/handlers/admin"
	cartHandler "storefront-agent/internal/handlers/cart"
	catalogHandler "storefront-agent/internal/handlers/catalog"
	checkoutHandler "storefront-agent/internal/handlers/checkout"
	noticesHandler "storefront-agent/internal/handlers/notices"
	sessionHandler "storefront-agent/internal/handlers/session"
	wsHandler "storefront-agent/internal/handlers/websocket"
	"storefront-agent/internal/middleware"
	"storefront-agent/internal/notify"
	"storefront-agent/internal/pkg/session"
	"storefront-agent/internal/repository/postgres"
	authsvc "storefront-agent/internal/service/auth"
	cartsvc "storefront-agent/internal/service/cart"
	catalogsvc "storefront-agent/internal/service/catalog"
	checkoutsvc "storefront-agent/internal/service/checkout"
	"storefront-agent/internal/websocket"
	wsHandlers "storefront-agent/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const purgeInterval = 10 * time.Minute

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger

	authManager *authsvc.Manager
	cartManager *cartsvc.Manager
	hub         *websocket.Hub

	cancel  context.CancelFunc
	closers []func()
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	return &Server{
		cfg:    cfg,
		engine: engine,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// tokenSource lets the API client ask the session manager for the bearer
// token; the manager itself needs the client, so it is attached afterwards.
type tokenSource struct {
	manager *authsvc.Manager
}

func (t *tokenSource) Token(ctx context.Context) string {
	if t.manager == nil {
		return ""
	}
	return t.manager.Token(ctx)
}

// Build wires every component. Nothing listens until Serve.
func (s *Server) Build(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// ----- Token storage -----
	store, err := s.openTokenStore(ctx, runCtx)
	if err != nil {
		return err
	}

	// ----- Notices & WebSocket Hub -----
	board := notify.NewBoard(s.cfg.NoticeBoardSize)
	hub := websocket.NewHub(board, s.logger)
	s.hub = hub
	notifier := notify.Fanout{board, hub, notify.NewLogNotifier(s.logger)}

	go hub.Run(runCtx)

	// ----- Remote API -----
	tokens := &tokenSource{}
	client, err := api.NewClient(api.Config{
		BaseURL: s.cfg.APIBaseURL,
		Timeout: s.cfg.APITimeout,
		Breaker: api.BreakerConfig{
			MaxFailures: s.cfg.BreakerMaxFailures,
			OpenTimeout: s.cfg.BreakerOpenTimeout,
		},
	}, tokens, s.logger)
	if err != nil {
		return fmt.Errorf("failed to build api client: %w", err)
	}

	// ----- Managers & Services -----
	authManager := authsvc.NewManager(client, store, hub, s.cfg.LoginPath, s.logger)
	tokens.manager = authManager
	s.authManager = authManager

	cartManager := cartsvc.NewManager(client, authManager, notifier, cartsvc.Config{
		UndoWindow:         s.cfg.CartUndoWindow,
		SerializeMutations: s.cfg.CartSerializeMutations,
	}, s.logger)
	s.cartManager = cartManager
	s.closers = append(s.closers, cartManager.Close)

	cartManager.Subscribe(hub.PublishCart)
	authManager.OnChange(func(st authsvc.State) {
		cartManager.SessionChanged(st.Authenticated)
	})
	authManager.OnChange(hub.PublishSession)

	checkoutService := checkoutsvc.NewService(client, cartManager, authManager, notifier, hub, s.logger)
	catalogService := catalogsvc.NewService(client, authManager, s.logger)

	hub.RegisterHandler(wsHandlers.NewCartHandler(cartManager, s.logger))
	hub.RegisterHandler(wsHandlers.NewNoticeHandler(board, notifier))

	// ----- Handlers -----
	cors := middleware.CORSConfig{AllowOrigins: s.cfg.CORSAllowOrigins, MaxAge: 600}
	handlers := &Handlers{
		SessionHandler:  sessionHandler.NewSessionHandler(authManager, s.logger),
		CartHandler:     cartHandler.NewCartHandler(cartManager),
		CheckoutHandler: checkoutHandler.NewCheckoutHandler(checkoutService, s.logger),
		CatalogHandler:  catalogHandler.NewCatalogHandler(catalogService),
		AdminHandler:    adminHandler.NewAdminHandler(catalogService, s.logger),
		NoticesHandler:  noticesHandler.NewNoticesHandler(board, notifier),
		WSHandler:       wsHandler.NewWebSocketHandler(hub, cors.OriginAllowed, s.logger),
		AuthMiddleware:  middleware.NewAuthMiddleware(authManager),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.CorrelationMiddleware(),
		middleware.LoggingMiddleware(s.logger),
		middleware.RecoveryMiddleware(s.logger),
		middleware.CORSMiddleware(cors),
	)
	SetupRouter(s.engine, handlers)

	// ----- Initial load -----
	// Restore publishes the session it settles on. A failed read publishes
	// nothing, so the cart is emptied here.
	if err := authManager.Restore(ctx); err != nil {
		s.logger.Warn("could not restore previous session", zap.Error(err))
		cartManager.SessionChanged(false)
	}

	return nil
}

func (s *Server) openTokenStore(ctx, runCtx context.Context) (session.Store, error) {
	switch s.cfg.TokenStore {
	case config.TokenStoreMemory:
		s.logger.Info("session token kept in memory only")
		return session.NewMemoryStore(), nil

	case config.TokenStoreRedis:
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Addresses: []string{s.cfg.RedisAddr},
			Password:  s.cfg.RedisPass,
			DB:        s.cfg.RedisDB,
			PoolSize:  4,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.logger.Info("session token stored in redis", zap.String("addr", s.cfg.RedisAddr))
		return session.NewRedisStore(client, s.cfg.TokenKeyPrefix), nil

	case config.TokenStorePostgres:
		if s.cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when TOKEN_STORE=postgres")
		}
		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		s.closers = append(s.closers, pool.Close)

		store := postgres.NewKVStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare token table: %w", err)
		}
		go s.purgeExpired(runCtx, store)
		s.logger.Info("session token stored in postgres")
		return store, nil
	}

	return nil, fmt.Errorf("unknown TOKEN_STORE %q", s.cfg.TokenStore)
}

// purgeExpired drops rows whose token has expired. Reads already ignore them.
func (s *Server) purgeExpired(ctx context.Context, store *postgres.KVStore) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				s.logger.Warn("failed to purge expired tokens", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Debug("purged expired tokens", zap.Int64("rows", n))
			}
		}
	}
}

// Serve blocks until the local surface stops.
func (s *Server) Serve() error {
	s.logger.Info("storefront agent listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, then releases managers and connections
// in reverse order of creation.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	if s.cancel != nil {
		s.cancel()
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	return err
}
