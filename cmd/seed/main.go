package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/yatube/backend/config"
	"github.com/yatube/backend/internal/database"
	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/models"
	"github.com/yatube/backend/internal/service"
	"github.com/yatube/backend/internal/types"
)

const seedPassword = "testpassword123"

var seedUsers = []types.SignupRequest{
	{FirstName: "Leo", LastName: "Tolstoy", Username: "leo", Email: "leo@example.com"},
	{FirstName: "Anna", LastName: "Akhmatova", Username: "anna", Email: "anna@example.com"},
	{FirstName: "Anton", LastName: "Chekhov", Username: "anton", Email: "anton@example.com"},
	{FirstName: "Marina", LastName: "Tsvetaeva", Username: "marina", Email: "marina@example.com"},
}

var seedGroups = []types.GroupRequest{
	{Title: "Cats", Slug: "cats", Description: "Everything about cats"},
	{Title: "Travel", Slug: "travel", Description: "Notes from the road"},
	{Title: "Books", Slug: "books", Description: "What we are reading"},
}

func main() {
	postsPerUser := flag.Int("posts", 15, "Posts to create for each demo user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, true); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.L().Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db); err != nil {
		logger.L().Fatal("failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	groups := service.NewGroupService(db)
	posts := service.NewPostService(db)
	follows := service.NewFollowService(db)
	likes := service.NewLikeService(db)

	var users []*models.User
	for _, req := range seedUsers {
		req := req
		req.Password = seedPassword
		user, err := auth.GetUserByUsername(ctx, req.Username)
		if err == nil {
			logger.Info("user already exists, skipping", zap.String("username", req.Username))
			users = append(users, user)
			continue
		}
		if !errors.Is(err, service.ErrNotFound) {
			logger.L().Fatal("failed to look up user", zap.Error(err))
		}
		user, err = auth.Register(ctx, &req)
		if err != nil {
			logger.L().Fatal("failed to create user", zap.String("username", req.Username), zap.Error(err))
		}
		logger.Info("created user", zap.String("username", user.Username))
		users = append(users, user)
	}

	var groupIDs []uint
	for _, req := range seedGroups {
		req := req
		group, err := groups.GetGroup(ctx, req.Slug)
		if errors.Is(err, service.ErrNotFound) {
			group, err = groups.CreateGroup(ctx, &req)
		}
		if err != nil {
			logger.L().Fatal("failed to create group", zap.String("slug", req.Slug), zap.Error(err))
		}
		groupIDs = append(groupIDs, group.ID)
	}

	var created []*models.Post
	for i, user := range users {
		for n := 0; n < *postsPerUser; n++ {
			req := &types.PostRequest{Text: fmt.Sprintf("Demo post %d by %s", n+1, user.Username)}
			if n%2 == 0 {
				gid := groupIDs[(i+n)%len(groupIDs)]
				req.Group = &gid
			}
			post, err := posts.CreatePost(ctx, user.ID, req, "")
			if err != nil {
				logger.L().Fatal("failed to create post", zap.Error(err))
			}
			created = append(created, post)
		}
	}

	// Everyone follows the next user and likes a few posts
	for i, user := range users {
		next := users[(i+1)%len(users)]
		if err := follows.Follow(ctx, user.ID, next.Username); err != nil {
			logger.L().Fatal("failed to follow", zap.Error(err))
		}
		for j := i; j < len(created); j += len(users) + 1 {
			if err := likes.Like(ctx, created[j].ID, user.ID); err != nil {
				logger.L().Fatal("failed to like", zap.Error(err))
			}
		}
	}

	logger.Info("demo data created",
		zap.Int("users", len(users)),
		zap.Int("groups", len(groupIDs)),
		zap.Int("posts", len(created)),
		zap.String("password", seedPassword),
	)
}
