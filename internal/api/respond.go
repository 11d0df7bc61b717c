package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/validation"
)

// ValidationErrorResponse is the 400 page of a rejected form.
type ValidationErrorResponse struct {
	middleware.ErrorResponse
	Errors map[string]string `json:"errors"`
}

var registerOnce sync.Once

// RegisterValidators installs the custom form rules on gin's validator.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validation.Register(v)
		}
	})
}

// respondError renders err as the matching error page. Unexpected errors are
// logged and reported to Sentry.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		middleware.AbortWithErrorPage(c, http.StatusNotFound, "")
	case errors.Is(err, service.ErrForbidden):
		middleware.AbortWithErrorPage(c, http.StatusForbidden, "")
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{
			ErrorResponse: middleware.ErrorResponse{
				Status: http.StatusBadRequest,
				Error:  "Bad request",
				Path:   c.Request.URL.Path,
			},
			Errors: verr.Fields,
		})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		_ = c.Error(err)
		middleware.AbortWithErrorPage(c, http.StatusInternalServerError, "")
	}
}

// bind decodes the form or JSON body into req, rendering a 400 on failure.
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBind(req); err != nil {
		respondError(c, service.NewValidationError(err))
		return false
	}
	return true
}

// redirectBack returns the user to the page they came from.
func redirectBack(c *gin.Context) {
	target := c.GetHeader("Referer")
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

// safeNext keeps only local redirect targets. Browsers drop tabs and line
// breaks from URLs, so any control character is refused outright.
func safeNext(next string) string {
	if strings.IndexFunc(next, unicode.IsControl) >= 0 {
		return "/"
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return "/"
	}
	return next
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// postIDParam parses :post_id, rendering a 404 when it is not a number.
func postIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || id == 0 {
		middleware.AbortWithErrorPage(c, http.StatusNotFound, "")
		return 0, false
	}
	return uint(id), true
}

// uploadImage stores the optional file in field and returns its URL, or ""
// when nothing was uploaded.
func uploadImage(c *gin.Context, images service.IImageService, field, folder string) (string, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", service.FieldError(field, "The submitted data was not a file. Check the encoding type on the form.")
	}
	return uploadFile(c, images, field, folder, fh)
}

func uploadFile(c *gin.Context, images service.IImageService, field, folder string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return images.Upload(c.Request.Context(), field, folder, fh.Filename, f)
}
