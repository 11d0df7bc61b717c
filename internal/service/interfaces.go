package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.SignupRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// IProfileService defines the interface for account and profile editing
type IProfileService interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *types.UpdateUserRequest) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest, photo string) (*models.Profile, error)
}

// IGroupService defines the interface for group operations
type IGroupService interface {
	CreateGroup(ctx context.Context, req *types.GroupRequest) (*models.Group, error)
	GetGroup(ctx context.Context, slug string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
}

// IPostService defines the interface for post and comment operations
type IPostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, req *types.PostRequest, image string) (*models.Post, error)
	GetPost(ctx context.Context, id uint) (*models.Post, error)
	UpdatePost(ctx context.Context, id uint, userID uuid.UUID, req *types.PostRequest, image string) (*models.Post, error)
	DeletePost(ctx context.Context, id uint, userID uuid.UUID) error
	IsOwner(ctx context.Context, postID uint, userID uuid.UUID) (bool, error)
	AddComment(ctx context.Context, postID uint, authorID uuid.UUID, req *types.CommentRequest) (*models.Comment, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}

// IFollowService defines the interface for the follow graph
type IFollowService interface {
	Follow(ctx context.Context, userID uuid.UUID, authorUsername string) error
	Unfollow(ctx context.Context, userID uuid.UUID, authorUsername string) error
	IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]models.User, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]FollowerEntry, error)
}

// ILikeService defines the interface for likes
type ILikeService interface {
	Like(ctx context.Context, postID uint, userID uuid.UUID) error
	Unlike(ctx context.Context, postID uint, userID uuid.UUID) error
}

// IFeedService defines the interface for feed queries
type IFeedService interface {
	Feed(ctx context.Context, scope Scope, page string) (*FeedPage, error)
}

// IImageService defines the interface for media uploads
type IImageService interface {
	Upload(ctx context.Context, field, folder, filename string, r io.Reader) (string, error)
	Discard(ctx context.Context, url string)
}
