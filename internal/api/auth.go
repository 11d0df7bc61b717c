package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/types"
	"github.com/yatube/backend/internal/validation"
)

const invalidLoginMessage = "Please enter a correct username and password. Note that both fields may be case-sensitive."

// SessionResponse is returned instead of a redirect to clients asking for
// JSON.
type SessionResponse struct {
	Token    string `json:"token"`
	Redirect string `json:"redirect"`
}

type AuthHandler struct {
	auth          service.IAuthService
	tokenTTL      time.Duration
	secureCookies bool
}

func NewAuthHandler(auth service.IAuthService, tokenTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL, secureCookies: secureCookies}
}

// LoginForm tells the client where it will be sent after logging in.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"next": safeNext(c.Query("next"))})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req types.SignupRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("user registered", zap.String("username", user.Username))
	h.startSession(c, user, "/")
}

// Login checks the credentials and sends the user to ?next= or the index.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		respondError(c, service.FieldError(validation.NonFieldErrors, invalidLoginMessage))
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	next := c.Query("next")
	if next == "" {
		next = c.PostForm("next")
	}
	h.startSession(c, user, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User, next string) {
	token, err := h.auth.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.tokenTTL.Seconds()), "/", "", h.secureCookies, true)

	if strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON) {
		c.JSON(http.StatusOK, SessionResponse{Token: token, Redirect: next})
		return
	}
	c.Redirect(http.StatusFound, next)
}
