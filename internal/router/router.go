package router

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yatube/backend/internal/api"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/telemetry"
)

// Options controls the global middleware stack.
type Options struct {
	ServiceName string
	CORSOrigins []string

	// MediaURL and MediaRoot serve uploads from disk when MediaRoot is set.
	MediaURL  string
	MediaRoot string

	Sentry  bool
	Tracing bool
}

// SetupRouter configures the application routes
func SetupRouter(opts Options, deps api.Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestLogger())
	if opts.Tracing {
		router.Use(telemetry.Middleware(opts.ServiceName))
	}
	router.Use(middleware.Recovery())
	if opts.Sentry {
		router.Use(middleware.Sentry())
	}
	router.Use(middleware.CORS(opts.CORSOrigins))
	// Route-level page caching sits inside gzip and stores plain bodies.
	var gzipOpts []gzip.Option
	if opts.MediaURL != "" {
		gzipOpts = append(gzipOpts, gzip.WithExcludedPaths([]string{opts.MediaURL}))
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzipOpts...))
	router.Use(middleware.Authenticate(deps.Auth))

	router.NoRoute(middleware.NotFound())

	if opts.MediaRoot != "" && opts.MediaURL != "" {
		router.Static(opts.MediaURL, opts.MediaRoot)
	}

	api.RegisterRoutes(router, deps)
	return router
}
