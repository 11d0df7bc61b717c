package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yatube/backend/internal/models"
)

const likesTable = "post_likes"

// LikeService is the only writer of Post.Likes and the post_likes set. Both
// change in the same transaction so the counter always equals the set size.
type LikeService struct {
	db *gorm.DB
}

var _ ILikeService = (*LikeService)(nil)

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db}
}

func hasLiked(tx *gorm.DB, postID uint, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Table(likesTable).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

// Like adds userID to the post's likers. Liking twice does nothing.
func (s *LikeService) Like(ctx context.Context, postID uint, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockPost(tx, postID); err != nil {
			return err
		}
		liked, err := hasLiked(tx, postID, userID)
		if err != nil || liked {
			return err
		}
		if err := tx.Table(likesTable).Create(map[string]interface{}{
			"post_id": postID,
			"user_id": userID,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error
	})
	return wrap("failed to like post", err)
}

// Unlike removes userID from the post's likers. Unliking a post you do not
// like does nothing.
func (s *LikeService) Unlike(ctx context.Context, postID uint, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockPost(tx, postID); err != nil {
			return err
		}
		res := tx.Exec("DELETE FROM "+likesTable+" WHERE post_id = ? AND user_id = ?", postID, userID)
		if res.Error != nil || res.RowsAffected == 0 {
			return res.Error
		}
		return tx.Model(&models.Post{}).Where("id = ? AND likes > 0", postID).
			UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error
	})
	return wrap("failed to unlike post", err)
}
