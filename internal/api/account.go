package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/pagination"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/types"
)

const accountURL = "/account/"

// AccountHandler serves the signed-in user's own pages.
type AccountHandler struct {
	profiles service.IProfileService
	follows  service.IFollowService
	images   service.IImageService
	pageSize int
}

func NewAccountHandler(profiles service.IProfileService, follows service.IFollowService, images service.IImageService, pageSize int) *AccountHandler {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &AccountHandler{profiles: profiles, follows: follows, images: images, pageSize: pageSize}
}

func (h *AccountHandler) Account(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	user, err := h.profiles.GetAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(user))
}

func (h *AccountHandler) EditUser(c *gin.Context) {
	var req types.UpdateUserRequest
	if !bind(c, &req) {
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if _, err := h.profiles.UpdateUser(c.Request.Context(), userID, &req); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, accountURL)
}

func (h *AccountHandler) EditProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	userID, _ := middleware.CurrentUserID(c)
	user, err := h.profiles.GetAccount(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	photo, err := uploadImage(c, h.images, "photo", service.AvatarsFolder)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := h.profiles.UpdateProfile(ctx, userID, &req, photo); err != nil {
		h.images.Discard(ctx, photo)
		respondError(c, err)
		return
	}
	if photo != "" && user.Profile != nil && user.Profile.Photo != photo {
		h.images.Discard(ctx, user.Profile.Photo)
	}
	c.Redirect(http.StatusFound, accountURL)
}

// Follows lists the authors the user follows.
func (h *AccountHandler) Follows(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	authors, err := h.follows.ListFollowing(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]AuthorView, 0, len(authors))
	for i := range authors {
		views = append(views, *newAuthorView(&authors[i]))
	}
	c.JSON(http.StatusOK, pagination.Paginate(views, h.pageSize, c.Query("page")))
}

// Followers lists the user's followers, marking those followed back.
func (h *AccountHandler) Followers(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	entries, err := h.follows.ListFollowers(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]FollowerView, 0, len(entries))
	for i := range entries {
		views = append(views, FollowerView{
			AuthorView:   *newAuthorView(&entries[i].User),
			FollowedBack: entries[i].FollowedBack,
		})
	}
	c.JSON(http.StatusOK, pagination.Paginate(views, h.pageSize, c.Query("page")))
}
