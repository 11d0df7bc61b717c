package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// MaxUploadSize bounds a single uploaded image.
	MaxUploadSize int64 = 5 << 20
	maxWidth            = 1024
	maxHeight           = 768
)

// ImageError explains why an upload was rejected.
type ImageError struct {
	Msg string
}

func (e *ImageError) Error() string { return e.Msg }

var allowedTypes = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

// ProcessedImage is an upload shrunk to fit the feed layout.
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Extension   string
}

// ProcessImage validates an upload and shrinks it to fit 1024x768, keeping
// the aspect ratio. Smaller images are re-encoded unchanged in size.
func ProcessImage(filename string, r io.Reader) (*ProcessedImage, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return nil, &ImageError{Msg: fmt.Sprintf("Image %s invalid extension, must be .jpeg, .png or .gif.", filename)}
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, &ImageError{Msg: fmt.Sprintf("Image %s exceeds upload size limit of %dMB.", filename, MaxUploadSize>>20)}
	}

	contentType := http.DetectContentType(data)
	format, ok := allowedTypes[contentType]
	if !ok {
		return nil, &ImageError{Msg: fmt.Sprintf("Image %s invalid content-type, must be image/jpeg, image/png or image/gif.", filename)}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &ImageError{Msg: "Upload a valid image. The file you uploaded was either not an image or a corrupted image."}
	}
	if b := img.Bounds(); b.Dx() > maxWidth || b.Dy() > maxHeight {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &ProcessedImage{
		Data:        buf.Bytes(),
		ContentType: contentType,
		Extension:   "." + strings.TrimPrefix(contentType, "image/"),
	}, nil
}

// IsImageError reports whether err is a rejected upload.
func IsImageError(err error) bool {
	var ie *ImageError
	return errors.As(err, &ie)
}
