package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yatube/backend/internal/service"
)

// OwnerChecker reports whether userID authored the post.
type OwnerChecker interface {
	IsOwner(ctx context.Context, postID uint, userID uuid.UUID) (bool, error)
}

// PostDetailURL is the canonical page of a post.
func PostDetailURL(id interface{}) string {
	return fmt.Sprintf("/posts/%v/", id)
}

// PostOwnerOnly lets only the author of the post named by the :post_id route
// parameter through. Everyone else, including requests for posts that do not
// exist, is redirected to the post page without side effects. It must follow
// LoginRequired.
func PostOwnerOnly(posts OwnerChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param("post_id")
		postID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			AbortWithErrorPage(c, http.StatusNotFound, "")
			return
		}

		userID, _ := CurrentUserID(c)
		owner, err := posts.IsOwner(c.Request.Context(), uint(postID), userID)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			_ = c.Error(err)
			AbortWithErrorPage(c, http.StatusInternalServerError, "")
			return
		}
		if !owner {
			c.Redirect(http.StatusFound, PostDetailURL(postID))
			c.Abort()
			return
		}
		c.Next()
	}
}
