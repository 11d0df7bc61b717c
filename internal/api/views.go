package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/pagination"
	"github.com/yatube/backend/internal/service"
)

// AuthorView is how a user appears on someone else's page. The email is
// masked.
type AuthorView struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email,omitempty"`
	Photo    string    `json:"photo,omitempty"`
}

type GroupView struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type CommentView struct {
	ID      uint        `json:"id"`
	Author  *AuthorView `json:"author"`
	Text    string      `json:"text"`
	Created time.Time   `json:"created"`
}

// PostView is a post card. It does not depend on who is looking, so pages
// made of it can be cached.
type PostView struct {
	ID           uint          `json:"id"`
	Text         string        `json:"text"`
	Created      time.Time     `json:"created"`
	Author       *AuthorView   `json:"author"`
	Group        *GroupView    `json:"group,omitempty"`
	Image        string        `json:"image,omitempty"`
	Likes        int           `json:"likes"`
	LikedBy      []string      `json:"liked_by"`
	CommentCount int           `json:"comment_count"`
	LastComments []CommentView `json:"last_comments"`
}

// PageView is the paginator state shown under a feed.
type PageView struct {
	Number             int  `json:"number"`
	NumPages           int  `json:"num_pages"`
	Count              int  `json:"count"`
	HasNext            bool `json:"has_next"`
	HasPrevious        bool `json:"has_previous"`
	NextPageNumber     int  `json:"next_page_number,omitempty"`
	PreviousPageNumber int  `json:"previous_page_number,omitempty"`
}

// FeedResponse is one page of any feed.
type FeedResponse struct {
	Group  *GroupView  `json:"group,omitempty"`
	Author *AuthorView `json:"author,omitempty"`
	Posts  []PostView  `json:"posts"`
	Page   PageView    `json:"page"`
}

// ProfileResponse is the author page: their feed plus follow state.
type ProfileResponse struct {
	FeedResponse
	PostCount int64 `json:"post_count"`
	Following bool  `json:"following"`
}

// PostDetailResponse is the single post page with every comment.
type PostDetailResponse struct {
	Post            PostView      `json:"post"`
	Comments        []CommentView `json:"comments"`
	AuthorPostCount int64         `json:"author_post_count"`
	CanEdit         bool          `json:"can_edit"`
	Liked           bool          `json:"liked"`
}

// AccountResponse is the signed-in user's own data, unmasked.
type AccountResponse struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	IsStaff   bool            `json:"is_staff"`
	Profile   *models.Profile `json:"profile,omitempty"`
}

type FollowerView struct {
	AuthorView
	FollowedBack bool `json:"followed_back"`
}

func newAuthorView(u *models.User) *AuthorView {
	if u == nil {
		return nil
	}
	v := &AuthorView{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName(),
		Email:    models.ProtectEmail(u.Email),
	}
	if u.Profile != nil {
		v.Photo = u.Profile.Photo
	}
	return v
}

func newGroupView(g *models.Group) *GroupView {
	if g == nil {
		return nil
	}
	return &GroupView{ID: g.ID, Title: g.Title, Slug: g.Slug, Description: g.Description}
}

func newCommentViews(comments []models.Comment) []CommentView {
	out := make([]CommentView, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		out = append(out, CommentView{
			ID:      c.ID,
			Author:  newAuthorView(c.Author),
			Text:    c.Text,
			Created: c.CreatedAt,
		})
	}
	return out
}

func newPostView(p *models.Post) PostView {
	likedBy := make([]string, 0, len(p.Likers))
	for _, u := range p.Likers {
		likedBy = append(likedBy, u.Username)
	}
	return PostView{
		ID:           p.ID,
		Text:         p.Text,
		Created:      p.CreatedAt,
		Author:       newAuthorView(p.Author),
		Group:        newGroupView(p.Group),
		Image:        p.Image,
		Likes:        p.Likes,
		LikedBy:      likedBy,
		CommentCount: len(p.Comments),
		LastComments: newCommentViews(p.LastComments()),
	}
}

func newPageView[T any](p pagination.Page[T]) PageView {
	return PageView{
		Number:             p.Number,
		NumPages:           p.TotalPages,
		Count:              p.TotalItems,
		HasNext:            p.HasNext,
		HasPrevious:        p.HasPrevious,
		NextPageNumber:     p.NextPageNumber,
		PreviousPageNumber: p.PreviousPageNumber,
	}
}

func newFeedResponse(fp *service.FeedPage) FeedResponse {
	posts := make([]PostView, 0, len(fp.Page.Items))
	for i := range fp.Page.Items {
		posts = append(posts, newPostView(&fp.Page.Items[i]))
	}
	return FeedResponse{
		Group:  newGroupView(fp.Group),
		Author: newAuthorView(fp.Author),
		Posts:  posts,
		Page:   newPageView(fp.Page),
	}
}

func newAccountResponse(u *models.User) AccountResponse {
	return AccountResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsStaff:   u.IsStaff,
		Profile:   u.Profile,
	}
}
