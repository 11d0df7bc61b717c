package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/service"
)

// FollowHandler toggles subscriptions and likes. Both actions send the user
// back where they came from.
type FollowHandler struct {
	follows service.IFollowService
	likes   service.ILikeService
}

func NewFollowHandler(follows service.IFollowService, likes service.ILikeService) *FollowHandler {
	return &FollowHandler{follows: follows, likes: likes}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	if err := h.follows.Follow(c.Request.Context(), userID, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	redirectBack(c)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	if err := h.follows.Unfollow(c.Request.Context(), userID, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	redirectBack(c)
}

func (h *FollowHandler) Like(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if err := h.likes.Like(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	redirectBack(c)
}

func (h *FollowHandler) Dislike(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if err := h.likes.Unlike(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	redirectBack(c)
}
