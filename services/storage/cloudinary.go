package storage

import (
	"context"
	"fmt"
	"io"

	"havenly/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorageService implements StorageService using Cloudinary.
type CloudinaryStorageService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStorageService(cld *cloudinary.Cloudinary, folder string) *CloudinaryStorageService {
	return &CloudinaryStorageService{cld: cld, folder: folder}
}

// Upload sends the image into the configured folder.
func (s *CloudinaryStorageService) Upload(ctx context.Context, file io.Reader, filename, _ string) (models.Image, error) {
	params := uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     objectName(filename),
		ResourceType: "image",
		Overwrite:    api.Bool(false),
	}
	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return models.Image{}, fmt.Errorf("cloudinary: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return models.Image{}, fmt.Errorf("cloudinary: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return models.Image{}, fmt.Errorf("cloudinary: no public ID returned")
	}
	return models.Image{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *CloudinaryStorageService) Delete(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary: failed to delete file: %w", err)
	}
	return nil
}
