package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yatube/backend/config"
	"github.com/yatube/backend/internal/api"
	"github.com/yatube/backend/internal/cache"
	"github.com/yatube/backend/internal/database"
	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/router"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Options carries the optional collaborators built by the caller.
type Options struct {
	// Redis backs the page cache and rate limits when set.
	Redis *redis.Client
	// Media defaults to a local store under cfg.MediaRoot.
	Media   storage.Store
	Sentry  bool
	Tracing bool
	// Clock drives page cache expiry; time.Now when nil.
	Clock cache.Clock
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	pages  cache.Cache
}

// New wires services, caches and routes for cfg.
func New(cfg *config.Config, db *gorm.DB, opts Options) *Server {
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	var pages cache.Cache
	if cfg.CacheBackend == "redis" && opts.Redis != nil {
		pages = cache.NewRedisCache(opts.Redis, cache.DefaultKeyPrefix)
	} else {
		pages = cache.NewMemoryCache(clock)
	}

	media := opts.Media
	mediaRoot := ""
	if media == nil {
		local := storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
		media = local
		mediaRoot = local.Root()
	}

	deps := api.Dependencies{
		Auth:          service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL),
		Profiles:      service.NewProfileService(db),
		Groups:        service.NewGroupService(db),
		Posts:         service.NewPostService(db),
		Follows:       service.NewFollowService(db),
		Likes:         service.NewLikeService(db),
		Feeds:         service.NewFeedService(db, cfg.PostsPerPage),
		Images:        service.NewImageService(media),
		PageCache:     pages,
		IndexCacheTTL: cfg.IndexCacheTTL,
		PageSize:      cfg.PostsPerPage,
		TokenTTL:      cfg.TokenTTL,
		SecureCookies: cfg.Environment == config.Production,
		Ping:          func(ctx context.Context) error { return database.HealthCheck(ctx, db) },
	}
	if cfg.PostsPerHour > 0 {
		deps.PostLimiter = middleware.NewPostCreationLimiter(opts.Redis, cfg.PostsPerHour)
	}
	if cfg.CommentsPerHour > 0 {
		deps.CommentLimiter = middleware.NewCommentLimiter(opts.Redis, cfg.CommentsPerHour)
	}

	r := router.SetupRouter(router.Options{
		ServiceName: cfg.ServiceName,
		CORSOrigins: cfg.CORSOrigins,
		MediaURL:    cfg.MediaURL,
		MediaRoot:   mediaRoot,
		Sentry:      opts.Sentry,
		Tracing:     opts.Tracing,
	}, deps)

	return &Server{
		router: r,
		pages:  pages,
		http: &http.Server{
			Addr:              net.JoinHostPort(cfg.ServerHost, cfg.ServerPort),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the routed gin engine.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
