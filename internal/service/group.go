package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/types"
)

type GroupService struct {
	db *gorm.DB
}

var _ IGroupService = (*GroupService)(nil)

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

func (s *GroupService) CreateGroup(ctx context.Context, req *types.GroupRequest) (*models.Group, error) {
	req.Slug = strings.TrimSpace(req.Slug)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	group := &models.Group{
		Title:       strings.TrimSpace(req.Title),
		Slug:        req.Slug,
		Description: req.Description,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Group{}).Where("slug = ?", group.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return FieldError("slug", "Group with this slug already exists.")
		}
		return tx.Create(group).Error
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, FieldError("slug", "Group with this slug already exists.")
		}
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func (s *GroupService) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, notFound(err)
	}
	return &group, nil
}

// ListGroups returns every group ordered by title, for the post form's choices.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}
