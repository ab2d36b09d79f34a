package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"havenly/config"
	"havenly/models"
	"havenly/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"
)

// StorageService defines the interface for image storage operations.
type StorageService interface {
	// Upload stores the file and returns its public URL and identifier.
	Upload(ctx context.Context, file io.Reader, filename, contentType string) (models.Image, error)
	// Delete removes a previously uploaded file by its identifier.
	Delete(ctx context.Context, publicID string) error
}

// NewFromConfig picks the backend named by STORAGE_BACKEND. When the chosen
// backend is not configured a disabled service is returned.
func NewFromConfig(ctx context.Context) StorageService {
	cfg := config.AppConfig
	switch strings.ToLower(cfg.StorageBackend) {
	case "s3":
		if cfg.AWSBucket == "" {
			break
		}
		svc, err := NewS3StorageService(ctx, cfg.AWSRegion, cfg.AWSBucket)
		if err != nil {
			utils.GetLogger().Error("Failed to initialize S3 storage", zap.Error(err))
			break
		}
		return svc
	default:
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" {
			break
		}
		cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			utils.GetLogger().Error("Failed to initialize Cloudinary", zap.Error(err))
			break
		}
		return NewCloudinaryStorageService(cld, cfg.CloudinaryFolder)
	}
	utils.GetLogger().Warn("Image storage is not configured; uploads are disabled",
		zap.String("backend", cfg.StorageBackend))
	return DisabledStorage{}
}

// DisabledStorage rejects every call with 503.
type DisabledStorage struct{}

func (DisabledStorage) Upload(context.Context, io.Reader, string, string) (models.Image, error) {
	return models.Image{}, utils.NewUnavailable("image storage is not configured")
}

func (DisabledStorage) Delete(context.Context, string) error {
	return utils.NewUnavailable("image storage is not configured")
}

func objectName(filename string) string {
	name := strings.TrimSuffix(filename, extension(filename))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	return fmt.Sprintf("%s-%s", strings.Trim(name, "-"), utils.ShortID())
}

func extension(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return strings.ToLower(filename[i:])
	}
	return ""
}
