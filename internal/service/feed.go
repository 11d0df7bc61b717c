package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/pagination"
)

type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeGroup
	scopeAuthor
	scopeFollowed
)

// Scope selects which posts a feed shows.
type Scope struct {
	kind     scopeKind
	slug     string
	username string
	userID   uuid.UUID
}

// Global is every post.
func Global() Scope { return Scope{kind: scopeGlobal} }

// ByGroup is the posts of the group with slug.
func ByGroup(slug string) Scope { return Scope{kind: scopeGroup, slug: slug} }

// ByAuthor is the posts written by username.
func ByAuthor(username string) Scope { return Scope{kind: scopeAuthor, username: username} }

// FollowedBy is the posts of every author userID follows.
func FollowedBy(userID uuid.UUID) Scope { return Scope{kind: scopeFollowed, userID: userID} }

func (s Scope) String() string {
	switch s.kind {
	case scopeGroup:
		return "group:" + s.slug
	case scopeAuthor:
		return "author:" + s.username
	case scopeFollowed:
		return "followed-by:" + s.userID.String()
	default:
		return "global"
	}
}

// FeedPage is one page of a feed. Group or Author is set for those scopes.
type FeedPage struct {
	Scope  Scope
	Group  *models.Group
	Author *models.User
	Page   pagination.Page[models.Post]
}

// FeedService answers the read-only feed queries.
type FeedService struct {
	db       *gorm.DB
	pageSize int
}

var _ IFeedService = (*FeedService)(nil)

func NewFeedService(db *gorm.DB, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	return &FeedService{db: db, pageSize: pageSize}
}

// Feed returns the requested page of scope, newest first. Unknown group slugs
// and usernames yield ErrNotFound.
func (s *FeedService) Feed(ctx context.Context, scope Scope, page string) (*FeedPage, error) {
	db := s.db.WithContext(ctx)
	result := &FeedPage{Scope: scope}

	var filter func(*gorm.DB) *gorm.DB
	switch scope.kind {
	case scopeGlobal:
		filter = func(q *gorm.DB) *gorm.DB { return q }
	case scopeGroup:
		var group models.Group
		if err := db.Where("slug = ?", scope.slug).First(&group).Error; err != nil {
			return nil, notFound(err)
		}
		result.Group = &group
		filter = func(q *gorm.DB) *gorm.DB { return q.Where("posts.group_id = ?", group.ID) }
	case scopeAuthor:
		var author models.User
		if err := db.Preload("Profile").Where("username = ?", scope.username).First(&author).Error; err != nil {
			return nil, notFound(err)
		}
		result.Author = &author
		filter = func(q *gorm.DB) *gorm.DB { return q.Where("posts.author_id = ?", author.ID) }
	case scopeFollowed:
		filter = func(q *gorm.DB) *gorm.DB {
			return q.Joins("JOIN follows ON follows.author_id = posts.author_id").
				Where("follows.user_id = ?", scope.userID)
		}
	default:
		return nil, fmt.Errorf("unknown feed scope %d", scope.kind)
	}

	var total int64
	if err := db.Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count %s feed: %w", scope, err)
	}
	window := pagination.NewWindow(int(total), s.pageSize, page)

	var posts []models.Post
	if err := db.Model(&models.Post{}).
		Scopes(filter, withPostRelations).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(window.Offset()).
		Limit(window.Limit()).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s feed: %w", scope, err)
	}

	result.Page = pagination.NewPage(posts, window)
	return result, nil
}
