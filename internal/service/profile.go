package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/types"
)

// ProfileService edits the account and profile of the acting user. Every
// method takes the acting user's id, so a user can only change their own data.
type ProfileService struct {
	db *gorm.DB
}

var _ IProfileService = (*ProfileService)(nil)

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (s *ProfileService) GetAccount(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	if user.Profile == nil {
		user.Profile = &models.Profile{UserID: user.ID}
	}
	return &user, nil
}

func (s *ProfileService) UpdateUser(ctx context.Context, userID uuid.UUID, req *types.UpdateUserRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"first_name": strings.TrimSpace(req.FirstName),
			"last_name":  strings.TrimSpace(req.LastName),
			"email":      strings.TrimSpace(req.Email),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetAccount(ctx, userID)
}

// UpdateProfile saves the profile form. A non-empty photo replaces the
// current avatar; an empty one keeps it.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest, photo string) (*models.Profile, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		d, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, FieldError("birth_date", "Enter a valid date.")
		}
		birthDate = &d
	}

	var profile models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Where(models.Profile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
			return err
		}

		profile.Bio = req.Bio
		profile.Location = req.Location
		profile.BirthDate = birthDate
		if photo != "" {
			profile.Photo = photo
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}
