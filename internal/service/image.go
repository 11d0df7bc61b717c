package service

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yatube/backend/internal/logger"
	"github.com/yatube/backend/internal/storage"
)

// Media folders.
const (
	PostImagesFolder = "posts"
	AvatarsFolder    = "avatars"
)

// ImageService validates, shrinks and stores uploaded pictures.
type ImageService struct {
	store storage.Store
}

var _ IImageService = (*ImageService)(nil)

func NewImageService(store storage.Store) *ImageService {
	return &ImageService{store: store}
}

// Upload stores the image under folder and returns its public URL. Rejected
// files yield a ValidationError on field.
func (s *ImageService) Upload(ctx context.Context, field, folder, filename string, r io.Reader) (string, error) {
	img, err := storage.ProcessImage(filename, r)
	if err != nil {
		if storage.IsImageError(err) {
			return "", FieldError(field, err.Error())
		}
		return "", err
	}

	key := path.Join(folder, uuid.NewString()+img.Extension)
	url, err := s.store.Save(ctx, key, img.ContentType, img.Data)
	if err != nil {
		logger.Error("failed to store image", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return url, nil
}

// Discard deletes an image previously returned by Upload. Empty or foreign
// URLs are ignored, and failures are only logged since the caller's change
// has already been decided.
func (s *ImageService) Discard(ctx context.Context, url string) {
	key := mediaKey(url)
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Warn("failed to delete image", zap.String("key", key), zap.Error(err))
	}
}

// mediaKey recovers the "<folder>/<name>" key from the URL of a stored image.
func mediaKey(url string) string {
	if url == "" || strings.ContainsAny(url, "?#") {
		return ""
	}
	name := path.Base(url)
	folder := path.Base(path.Dir(url))
	if folder != PostImagesFolder && folder != AvatarsFolder {
		return ""
	}
	if name == "" || name == "." || name == "/" || name == ".." {
		return ""
	}
	return folder + "/" + name
}
