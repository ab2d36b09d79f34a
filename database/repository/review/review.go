package reviewRepo

import (
	"context"

	"havenly/models"
)

// ReviewRepository defines persistence for reviews.
type ReviewRepository interface {
	// Create inserts a review; a second review for a booking yields database.ErrDuplicate.
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ListByProperty(ctx context.Context, propertyID string, includeHidden bool, page, limit int) ([]models.Review, int64, error)
	ListReported(ctx context.Context, page, limit int) ([]models.Review, int64, error)
	SetHostResponse(ctx context.Context, id string, response models.HostResponse) (*models.Review, error)
	// AddReport records a report unless the user already reported the review.
	AddReport(ctx context.Context, id string, report models.ReviewReport) (*models.Review, error)
	ClearReports(ctx context.Context, id string) (*models.Review, error)
	SetHidden(ctx context.Context, id string, hidden bool) (*models.Review, error)
	Delete(ctx context.Context, id string) error
	DeleteByProperty(ctx context.Context, propertyID string) error
	// RatingSummary averages the visible ratings of a property.
	RatingSummary(ctx context.Context, propertyID string) (models.Rating, error)
	Count(ctx context.Context) (int64, error)
	CountReported(ctx context.Context) (int64, error)
}
