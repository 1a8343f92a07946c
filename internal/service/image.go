package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const (
	// MaxImageSize is the largest upload accepted, in bytes.
	MaxImageSize = 5 << 20
	// MaxImageEdge is the longest side kept; bigger images are scaled down.
	MaxImageEdge = 1024
	// MaxImagePixels caps the decoded size so a small, highly compressed file
	// cannot expand into gigabytes of pixels.
	MaxImagePixels = 40_000_000
)

var errTooManyPixels = errors.New("image dimensions too large")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Upload is an image file received from a form.
type Upload struct {
	Filename string
	Data     []byte
}

// ImageService validates uploads and hands them to an ImageStore
type ImageService struct {
	store  ImageStore
	logger *logrus.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(store ImageStore, logger *logrus.Logger) *ImageService {
	return &ImageService{store: store, logger: logger}
}

// Save checks size and content type, downsizes large images and stores the
// result under a fresh name, which it returns.
func (s *ImageService) Save(ctx context.Context, u *Upload) (string, error) {
	if len(u.Data) == 0 {
		return "", &ValidationError{Field: "image", Message: "Image file is required"}
	}
	if len(u.Data) > MaxImageSize {
		return "", &ValidationError{Field: "image", Message: "Image must be 5MB or smaller"}
	}

	mtype := mimetype.Detect(u.Data)
	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		return "", &ValidationError{Field: "image", Message: "Only jpg, jpeg, png and gif images are allowed"}
	}

	data, err := shrinkImage(u.Data, mtype.String())
	if errors.Is(err, errTooManyPixels) {
		return "", &ValidationError{Field: "image", Message: "Image dimensions are too large"}
	}
	if err != nil {
		return "", &ValidationError{Field: "image", Message: "Image could not be read"}
	}

	key := uuid.New().String() + ext
	if err := s.store.Put(ctx, key, mtype.String(), data); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"key":      key,
		"original": path.Base(u.Filename),
		"bytes":    len(data),
	}).Debug("image stored")
	return key, nil
}

// Remove deletes a stored image. Failures are logged, not returned; a stray
// file is harmless.
func (s *ImageService) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("failed to delete image")
	}
}

// URL is where the browser fetches the image from.
func (s *ImageService) URL(key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return s.store.URL(key)
}

// shrinkImage returns data unchanged unless its longest edge exceeds
// MaxImageEdge. Animated gifs keep their first frame only when resized.
func shrinkImage(data []byte, contentType string) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, errTooManyPixels
	}
	if cfg.Width <= MaxImageEdge && cfg.Height <= MaxImageEdge {
		return data, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	w, h := cfg.Width, cfg.Height
	if w >= h {
		h = h * MaxImageEdge / w
		w = MaxImageEdge
	} else {
		w = w * MaxImageEdge / h
		h = MaxImageEdge
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch contentType {
	case "image/png":
		err = png.Encode(&buf, dst)
	case "image/gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
