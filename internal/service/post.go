package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yatube/backend/internal/database"
	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/types"
)

type PostService struct {
	db *gorm.DB
}

var _ IPostService = (*PostService)(nil)

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// CanMutate reports whether userID may edit or delete post. Only the author may.
func CanMutate(post *models.Post, userID uuid.UUID) bool {
	return post != nil && userID != uuid.Nil && post.AuthorID == userID
}

// withPostRelations preloads everything a post card renders. Each relation is
// fetched with one IN query for the whole result set.
func withPostRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Author.Profile").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC, comments.id DESC")
		}).
		Preload("Comments.Author").
		Preload("Likers")
}

// lockPost loads the post row, taking a row lock where the dialect has one.
func lockPost(tx *gorm.DB, postID uint) (*models.Post, error) {
	q := tx
	if database.IsPostgres(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var post models.Post
	if err := q.First(&post, postID).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

func checkGroup(tx *gorm.DB, groupID *uint) error {
	if groupID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Group{}).Where("id = ?", *groupID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return FieldError("group", "Select a valid choice. That choice is not one of the available choices.")
	}
	return nil
}

// CreatePost publishes a post by authorID. image may be empty.
func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, req *types.PostRequest, image string) (*models.Post, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     strings.TrimSpace(req.Text),
		AuthorID: authorID,
		GroupID:  req.GroupID(),
		Image:    image,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkGroup(tx, post.GroupID); err != nil {
			return err
		}
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, wrap("failed to create post", err)
	}
	return post, nil
}

// GetPost returns the post with its author, group, likers and every comment
// newest first.
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Scopes(withPostRelations).First(&post, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &post, nil
}

// UpdatePost edits text and group, and replaces the image when image is set.
// It returns ErrForbidden unless userID is the author.
func (s *PostService) UpdatePost(ctx context.Context, id uint, userID uuid.UUID, req *types.PostRequest, image string) (*models.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, id)
		if err != nil {
			return err
		}
		if !CanMutate(post, userID) {
			return ErrForbidden
		}
		if err := validateRequest(req); err != nil {
			return err
		}
		if err := checkGroup(tx, req.GroupID()); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"text":     strings.TrimSpace(req.Text),
			"group_id": req.GroupID(),
		}
		if image != "" {
			updates["image"] = image
		}
		return tx.Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return nil, wrap("failed to update post", err)
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes the post together with its comments and likes.
func (s *PostService) DeletePost(ctx context.Context, id uint, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := lockPost(tx, id)
		if err != nil {
			return err
		}
		if !CanMutate(post, userID) {
			return ErrForbidden
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(post).Association("Likers").Clear(); err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	return wrap("failed to delete post", err)
}

// IsOwner reports whether userID authored the post.
func (s *PostService) IsOwner(ctx context.Context, postID uint, userID uuid.UUID) (bool, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Select("id", "author_id").First(&post, postID).Error; err != nil {
		return false, notFound(err)
	}
	return CanMutate(&post, userID), nil
}

func (s *PostService) AddComment(ctx context.Context, postID uint, authorID uuid.UUID, req *types.CommentRequest) (*models.Comment, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     strings.TrimSpace(req.Text),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, wrap("failed to add comment", err)
	}
	return comment, nil
}

// CountByAuthor returns how many posts authorID has published.
func (s *PostService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// wrap adds context to unexpected errors and passes the sentinel and
// validation errors through untouched.
func wrap(msg string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
