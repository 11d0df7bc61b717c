package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/backend/internal/cache"
	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/service"
)

// Dependencies is everything the routes need.
type Dependencies struct {
	Auth     service.IAuthService
	Profiles service.IProfileService
	Groups   service.IGroupService
	Posts    service.IPostService
	Follows  service.IFollowService
	Likes    service.ILikeService
	Feeds    service.IFeedService
	Images   service.IImageService

	// PageCache backs the index page for IndexCacheTTL.
	PageCache     cache.Cache
	IndexCacheTTL time.Duration

	// Optional limiters for post and comment creation.
	PostLimiter    middleware.Limiter
	CommentLimiter middleware.Limiter

	PageSize      int
	TokenTTL      time.Duration
	SecureCookies bool

	// Ping reports whether the database is reachable.
	Ping func(ctx context.Context) error
}

// HealthCheck returns the health status of the API
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				logger.Error("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Yatube API is running",
		})
	}
}

func limit(l middleware.Limiter) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(l)
}

// RegisterRoutes registers all API routes. The router must already run
// middleware.Authenticate.
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	RegisterValidators()

	feeds := NewFeedHandler(deps.Feeds, deps.Follows)
	posts := NewPostHandler(deps.Posts, deps.Groups, deps.Images)
	follows := NewFollowHandler(deps.Follows, deps.Likes)
	auth := NewAuthHandler(deps.Auth, deps.TokenTTL, deps.SecureCookies)
	account := NewAccountHandler(deps.Profiles, deps.Follows, deps.Images, deps.PageSize)
	admin := NewAdminHandler(deps.PageCache, deps.Groups)

	login := middleware.LoginRequired(deps.Auth)
	owner := middleware.PostOwnerOnly(deps.Posts)

	router.GET("/health", HealthCheck(deps.Ping))

	// Public pages
	router.GET("/", middleware.CachePage(deps.PageCache, deps.IndexCacheTTL), feeds.Index)
	router.GET("/group/:slug/", feeds.Group)
	router.GET("/profile/:username/", feeds.Profile)
	router.GET("/posts/:post_id/", posts.Detail)

	// Posts
	router.GET("/create/", login, posts.CreateForm)
	router.POST("/create/", login, limit(deps.PostLimiter), posts.Create)
	router.GET("/posts/:post_id/edit/", login, owner, posts.EditForm)
	router.POST("/posts/:post_id/edit/", login, owner, posts.Edit)
	router.POST("/posts/:post_id/delete/", login, owner, posts.Delete)
	router.POST("/posts/:post_id/comment/", login, limit(deps.CommentLimiter), posts.Comment)

	// Subscriptions and likes
	router.GET("/follow/", login, feeds.Followed)
	router.GET("/profile/:username/follow/", login, follows.Follow)
	router.GET("/profile/:username/unfollow/", login, follows.Unfollow)
	router.GET("/like/:post_id/", login, follows.Like)
	router.GET("/dislike/:post_id/", login, follows.Dislike)

	// Session
	session := router.Group("/auth")
	{
		session.POST("/signup/", auth.Signup)
		session.GET("/login/", auth.LoginForm)
		session.POST("/login/", auth.Login)
		session.GET("/logout/", auth.Logout)
		session.POST("/logout/", auth.Logout)
	}

	// Account
	acc := router.Group("/account", login)
	{
		acc.GET("/", account.Account)
		acc.POST("/edit/", account.EditUser)
		acc.POST("/edit_profile/", account.EditProfile)
		acc.GET("/follows/", account.Follows)
		acc.GET("/followers/", account.Followers)
	}

	// Staff
	staff := router.Group("/admin", login, middleware.StaffOnly())
	{
		staff.POST("/cache/clear/", admin.ClearCache)
		staff.POST("/groups/", admin.CreateGroup)
	}
}
