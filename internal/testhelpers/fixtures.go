package testhelpers

import (
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yatube/backend/internal/models"
)

// TestPassword is the password of every user created by CreateUser.
const TestPassword = "testpassword123"

var passwordHash = func() string {
	h, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}()

// CreateUser inserts a user with an empty profile.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: passwordHash,
		Profile:      &models.Profile{},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateGroup(t *testing.T, db *gorm.DB, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "Test group " + slug}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create group %s: %v", slug, err)
	}
	return group
}

// CreatePost inserts a post; group may be nil.
func CreatePost(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

// CreatePosts inserts n posts with strictly increasing creation times so
// newest-first ordering is deterministic.
func CreatePosts(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, n int) []*models.Post {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		post := &models.Post{
			Text:      "Post number " + strconv.Itoa(i+1),
			AuthorID:  author.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if group != nil {
			post.GroupID = &group.ID
		}
		if err := db.Create(post).Error; err != nil {
			t.Fatalf("failed to create post: %v", err)
		}
		posts = append(posts, post)
	}
	return posts
}

// Follow makes follower follow author.
func Follow(t *testing.T, db *gorm.DB, follower, author *models.User) {
	t.Helper()
	if err := db.Create(&models.Follow{UserID: follower.ID, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("failed to create follow: %v", err)
	}
}

