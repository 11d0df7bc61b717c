package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/types"
)

const (
	// SessionCookie holds the session token for browser clients.
	SessionCookie = "sessionid"
	// LoginURL is where anonymous users are sent; the requested path is
	// passed in the "next" query parameter.
	LoginURL = "/auth/login/"

	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxIsStaff  = "is_staff"
)

// TokenValidator is an interface for validating session tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// Authenticate identifies the user from the Bearer header or the session
// cookie. Requests without a valid token continue anonymously.
func Authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token != "" {
			if claims, err := validator.ValidateToken(token); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxUsername, claims.Username)
				c.Set(ctxIsStaff, claims.IsStaff)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// UserLookup loads the account behind a session.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// LoginRequired redirects anonymous users to the login page. With a non-nil
// users, the session's account must still exist; its current username and
// staff flag replace the ones in the token.
func LoginRequired(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			redirectToLogin(c)
			return
		}
		if users != nil {
			user, err := users.GetUserByID(c.Request.Context(), id)
			switch {
			case errors.Is(err, service.ErrNotFound):
				c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
				redirectToLogin(c)
				return
			case err != nil:
				_ = c.Error(err)
				AbortWithErrorPage(c, http.StatusInternalServerError, "")
				return
			}
			c.Set(ctxUsername, user.Username)
			c.Set(ctxIsStaff, user.IsStaff)
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	c.Set(ctxUserID, uuid.Nil)
	c.Redirect(http.StatusFound, LoginRedirectURL(c.Request.URL.RequestURI()))
	c.Abort()
}

// StaffOnly rejects authenticated non-staff users with 403. It must follow
// LoginRequired.
func StaffOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsStaff) {
			AbortWithErrorPage(c, http.StatusForbidden, "")
			return
		}
		c.Next()
	}
}

// LoginRedirectURL builds the login URL returning to next afterwards.
func LoginRedirectURL(next string) string {
	return LoginURL + "?" + url.Values{"next": {next}}.Encode()
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// CurrentUsername returns the authenticated user's username.
func CurrentUsername(c *gin.Context) string {
	return c.GetString(ctxUsername)
}
