package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/service"
)

// FeedHandler serves the paginated post lists.
type FeedHandler struct {
	feeds   service.IFeedService
	follows service.IFollowService
}

func NewFeedHandler(feeds service.IFeedService, follows service.IFollowService) *FeedHandler {
	return &FeedHandler{feeds: feeds, follows: follows}
}

// Index is the global feed. Its response must not vary by viewer because it
// is served through the page cache.
func (h *FeedHandler) Index(c *gin.Context) {
	h.render(c, service.Global())
}

func (h *FeedHandler) Group(c *gin.Context) {
	h.render(c, service.ByGroup(c.Param("slug")))
}

// Followed lists posts of the authors the current user follows.
func (h *FeedHandler) Followed(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	h.render(c, service.FollowedBy(userID))
}

func (h *FeedHandler) render(c *gin.Context, scope service.Scope) {
	page, err := h.feeds.Feed(c.Request.Context(), scope, c.Query("page"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFeedResponse(page))
}

// Profile is the author page with their posts and whether the viewer follows
// them.
func (h *FeedHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	page, err := h.feeds.Feed(ctx, service.ByAuthor(c.Param("username")), c.Query("page"))
	if err != nil {
		respondError(c, err)
		return
	}

	viewer, _ := middleware.CurrentUserID(c)
	following, err := h.follows.IsFollowing(ctx, viewer, page.Author.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		FeedResponse: newFeedResponse(page),
		PostCount:    int64(page.Page.TotalItems),
		Following:    following,
	})
}
