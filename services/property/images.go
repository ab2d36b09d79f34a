package property

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"havenly/models"
	"havenly/services/events"
	"havenly/utils"

	"go.uber.org/zap"
)

// UploadImages stores every file before touching the property, so a failed
// upload leaves the listing unchanged.
func (s *DefaultPropertyService) UploadImages(ctx context.Context, actor models.Actor, id string, files []ImageUpload) (*models.Property, error) {
	p, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, utils.NewBadRequest("no images provided")
	}
	if len(p.Images)+len(files) > maxImagesPerProperty {
		return nil, utils.NewBadRequest(fmt.Sprintf("a property can have at most %d images", maxImagesPerProperty))
	}
	for _, f := range files {
		if !allowedImageTypes[strings.ToLower(f.ContentType)] {
			return nil, utils.NewBadRequest("only jpeg, png and webp images are accepted")
		}
		if f.Size > maxImageSize {
			return nil, utils.NewBadRequest("images must be 10MB or smaller")
		}
	}

	uploaded := make([]models.Image, 0, len(files))
	for _, f := range files {
		img, err := s.Storage.Upload(ctx, f.Reader, f.Filename, f.ContentType)
		if err != nil {
			s.discard(ctx, uploaded)
			if utils.StatusOf(err) == http.StatusServiceUnavailable {
				return nil, err
			}
			return nil, utils.NewBadGateway("image upload failed", err)
		}
		uploaded = append(uploaded, img)
	}

	updated, err := s.Repo.AddImages(ctx, id, uploaded)
	if err != nil {
		s.discard(ctx, uploaded)
		return nil, utils.NewInternal("failed to save images", err)
	}
	s.publish(ctx, events.PropertyUpdated, updated)
	return updated, nil
}

func (s *DefaultPropertyService) discard(ctx context.Context, images []models.Image) {
	for _, img := range images {
		if err := s.Storage.Delete(ctx, img.PublicID); err != nil {
			utils.GetLogger().Warn("Failed to discard uploaded image", zap.String("publicID", img.PublicID), zap.Error(err))
		}
	}
}

func (s *DefaultPropertyService) DeleteImage(ctx context.Context, actor models.Actor, id, publicID string) (*models.Property, error) {
	p, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	found := false
	for _, img := range p.Images {
		if img.PublicID == publicID {
			found = true
			break
		}
	}
	if !found {
		return nil, utils.NewNotFound("image not found")
	}

	updated, err := s.Repo.RemoveImage(ctx, id, publicID)
	if err != nil {
		return nil, utils.NewInternal("failed to remove image", err)
	}
	if err := s.Storage.Delete(ctx, publicID); err != nil {
		utils.GetLogger().Warn("DeleteImage: storage cleanup failed", zap.String("publicID", publicID), zap.Error(err))
	}
	s.publish(ctx, events.PropertyUpdated, updated)
	return updated, nil
}
