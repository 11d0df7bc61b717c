package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yatube/backend/internal/middleware"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/types"
)

// PostFormResponse describes the create or edit form.
type PostFormResponse struct {
	IsEdit bool        `json:"is_edit"`
	Post   *PostView   `json:"post,omitempty"`
	Groups []GroupView `json:"groups"`
}

// PostHandler serves post pages, the post form and comments.
type PostHandler struct {
	posts  service.IPostService
	groups service.IGroupService
	images service.IImageService
}

func NewPostHandler(posts service.IPostService, groups service.IGroupService, images service.IImageService) *PostHandler {
	return &PostHandler{posts: posts, groups: groups, images: images}
}

func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	post, err := h.posts.GetPost(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := h.posts.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer, _ := middleware.CurrentUserID(c)
	c.JSON(http.StatusOK, PostDetailResponse{
		Post:            newPostView(post),
		Comments:        newCommentViews(post.Comments),
		AuthorPostCount: count,
		CanEdit:         service.CanMutate(post, viewer),
		Liked:           post.IsLikedBy(viewer),
	})
}

func (h *PostHandler) form(c *gin.Context) (*PostFormResponse, error) {
	groups, err := h.groups.ListGroups(c.Request.Context())
	if err != nil {
		return nil, err
	}
	views := make([]GroupView, 0, len(groups))
	for i := range groups {
		views = append(views, *newGroupView(&groups[i]))
	}
	return &PostFormResponse{Groups: views}, nil
}

// CreateForm returns what the create form needs.
func (h *PostHandler) CreateForm(c *gin.Context) {
	form, err := h.form(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *PostHandler) Create(c *gin.Context) {
	var req types.PostRequest
	if !bind(c, &req) {
		return
	}
	image, err := uploadImage(c, h.images, "image", service.PostImagesFolder)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	userID, _ := middleware.CurrentUserID(c)
	if _, err := h.posts.CreatePost(ctx, userID, &req, image); err != nil {
		h.images.Discard(ctx, image)
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(middleware.CurrentUsername(c)))
}

// EditForm returns the form prefilled with the post. Only reached by the
// author.
func (h *PostHandler) EditForm(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	post, err := h.posts.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	form, err := h.form(c)
	if err != nil {
		respondError(c, err)
		return
	}
	view := newPostView(post)
	form.IsEdit = true
	form.Post = &view
	c.JSON(http.StatusOK, form)
}

func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	var req types.PostRequest
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	current, err := h.posts.GetPost(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	image, err := uploadImage(c, h.images, "image", service.PostImagesFolder)
	if err != nil {
		respondError(c, err)
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	_, err = h.posts.UpdatePost(ctx, id, userID, &req, image)
	if err != nil {
		h.images.Discard(ctx, image)
		if !errors.Is(err, service.ErrForbidden) {
			respondError(c, err)
			return
		}
	} else if image != "" && current.Image != image {
		h.images.Discard(ctx, current.Image)
	}
	c.Redirect(http.StatusFound, middleware.PostDetailURL(id))
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	post, err := h.posts.GetPost(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	err = h.posts.DeletePost(ctx, id, userID)
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.Redirect(http.StatusFound, middleware.PostDetailURL(id))
	case err != nil:
		respondError(c, err)
	default:
		h.images.Discard(ctx, post.Image)
		c.Redirect(http.StatusFound, profileURL(middleware.CurrentUsername(c)))
	}
}

func (h *PostHandler) Comment(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	var req types.CommentRequest
	if !bind(c, &req) {
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if _, err := h.posts.AddComment(c.Request.Context(), id, userID, &req); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, middleware.PostDetailURL(id))
}
