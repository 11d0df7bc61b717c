package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/models"
)

type FollowService struct {
	db *gorm.DB
}

var _ IFollowService = (*FollowService)(nil)

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// FollowerEntry is one row of a followers list.
type FollowerEntry struct {
	User models.User
	// FollowedBack is true when the listed follower is followed in return.
	FollowedBack bool
}

func findAuthor(tx *gorm.DB, username string) (*models.User, error) {
	var author models.User
	if err := tx.Where("username = ?", username).First(&author).Error; err != nil {
		return nil, notFound(err)
	}
	return &author, nil
}

// Follow makes userID follow the author. Following yourself or someone you
// already follow does nothing.
func (s *FollowService) Follow(ctx context.Context, userID uuid.UUID, authorUsername string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := findAuthor(tx, authorUsername)
		if err != nil {
			return err
		}
		if author.ID == userID {
			logger.Debug("ignoring self follow", zap.String("user", userID.String()))
			return nil
		}

		var count int64
		if err := tx.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", userID, author.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		// A concurrent follow may insert between the check and here.
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Follow{UserID: userID, AuthorID: author.ID}).Error
	})
}

// Unfollow removes the edge if present.
func (s *FollowService) Unfollow(ctx context.Context, userID uuid.UUID, authorUsername string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := findAuthor(tx, authorUsername)
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND author_id = ?", userID, author.ID).
			Delete(&models.Follow{}).Error
	})
}

func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowing returns the authors userID follows, most recent first.
func (s *FollowService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]models.User, error) {
	var follows []models.Follow
	if err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Author.Profile").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&follows).Error; err != nil {
		return nil, err
	}
	authors := make([]models.User, 0, len(follows))
	for _, f := range follows {
		if f.Author != nil {
			authors = append(authors, *f.Author)
		}
	}
	return authors, nil
}

// ListFollowers returns the users following userID, each flagged with
// whether userID follows them back.
func (s *FollowService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]FollowerEntry, error) {
	db := s.db.WithContext(ctx)

	var follows []models.Follow
	if err := db.
		Preload("User").
		Preload("User.Profile").
		Where("author_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&follows).Error; err != nil {
		return nil, err
	}

	var back []uuid.UUID
	if err := db.Model(&models.Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &back).Error; err != nil {
		return nil, err
	}
	followed := make(map[uuid.UUID]bool, len(back))
	for _, id := range back {
		followed[id] = true
	}

	entries := make([]FollowerEntry, 0, len(follows))
	for _, f := range follows {
		if f.User == nil {
			continue
		}
		entries = append(entries, FollowerEntry{User: *f.User, FollowedBack: followed[f.UserID]})
	}
	return entries, nil
}
