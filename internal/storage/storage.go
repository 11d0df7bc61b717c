// Package storage saves uploaded media and returns the URL it is served from.
package storage

import (
	"context"
)

// Store persists media objects under slash-separated keys such as
// "posts/<uuid>.jpeg".
type Store interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
