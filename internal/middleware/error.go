package middleware

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/backend/internal/logger"
)

// ErrorResponse is the body of the 400, 403, 404 and 500 pages.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path"`
}

var errorTitles = map[int]string{
	http.StatusBadRequest:          "Bad request",
	http.StatusForbidden:           "Access denied",
	http.StatusNotFound:            "Page not found",
	http.StatusInternalServerError: "Internal server error",
}

// AbortWithErrorPage stops the chain and renders the error page for status.
func AbortWithErrorPage(c *gin.Context, status int, message string) {
	title, ok := errorTitles[status]
	if !ok {
		title = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:  status,
		Error:   title,
		Message: message,
		Path:    c.Request.URL.Path,
	})
}

// NotFound renders the 404 page for unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		AbortWithErrorPage(c, http.StatusNotFound, "")
	}
}

// Recovery turns panics into the 500 page. It must be registered before
// Sentry, which reports the panic and re-raises it.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				_ = c.Error(fmt.Errorf("panic: %v", rec))
				AbortWithErrorPage(c, http.StatusInternalServerError, "")
			}
		}()
		c.Next()
	}
}

// Sentry attaches a Sentry hub to each request. Use only after sentry.Init.
func Sentry() gin.HandlerFunc {
	return sentrygin.New(sentrygin.Options{Repanic: true})
}

// InitSentry configures the Sentry client. An empty DSN disables reporting.
func InitSentry(dsn, environment string) (bool, error) {
	if dsn == "" {
		return false, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return false, fmt.Errorf("failed to initialize sentry: %w", err)
	}
	return true, nil
}
