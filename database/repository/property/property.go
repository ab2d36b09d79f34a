package propertyRepo

import (
	"context"

	"havenly/models"
)

// PropertyRepository defines persistence for listings.
type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id string) (*models.Property, error)
	// GetByIDs resolves a set of ids, silently skipping missing ones.
	GetByIDs(ctx context.Context, ids []string) ([]models.Property, error)
	// Update replaces the mutable fields of an existing property.
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id string) error
	// Search returns a page of properties matching filter and the total count.
	Search(ctx context.Context, filter models.PropertyFilter) ([]models.Property, int64, error)
	SetApproval(ctx context.Context, id string, approved bool, reason string) (*models.Property, error)
	AddImages(ctx context.Context, id string, images []models.Image) (*models.Property, error)
	RemoveImage(ctx context.Context, id, publicID string) (*models.Property, error)
	UpdateRating(ctx context.Context, id string, rating models.Rating) error
	// Count counts properties; a nil approved counts all of them.
	Count(ctx context.Context, approved *bool) (int64, error)
}
