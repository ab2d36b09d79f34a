package property

import (
	"context"
	"io"
	"time"

	blockedRepo "havenly/database/repository/blocked"
	propertyRepo "havenly/database/repository/property"
	reviewRepo "havenly/database/repository/review"
	userRepo "havenly/database/repository/user"
	"havenly/models"
	"havenly/services/availability"
	"havenly/services/events"
	"havenly/services/geocoding"
	"havenly/services/storage"
)

// ImageUpload is one file of a multipart upload.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

type PropertyService interface {
	CreateProperty(ctx context.Context, actor models.Actor, input models.PropertyInput) (*models.Property, error)
	UpdateProperty(ctx context.Context, actor models.Actor, id string, input models.PropertyInput) (*models.Property, error)
	DeleteProperty(ctx context.Context, actor models.Actor, id string) error
	// GetProperty hides unapproved listings from everyone but the owner and admins.
	GetProperty(ctx context.Context, viewer *models.Actor, id string) (*models.Property, error)
	SearchProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, models.Pagination, error)
	ListHostProperties(ctx context.Context, hostID string, page, limit int) ([]models.Property, models.Pagination, error)

	GetCalendar(ctx context.Context, viewer *models.Actor, id string, from, to time.Time) (*models.AvailabilityCalendar, error)
	GetQuote(ctx context.Context, viewer *models.Actor, id, checkIn, checkOut string) (*models.PriceQuote, error)

	UploadImages(ctx context.Context, actor models.Actor, id string, files []ImageUpload) (*models.Property, error)
	DeleteImage(ctx context.Context, actor models.Actor, id, publicID string) (*models.Property, error)

	BlockDates(ctx context.Context, actor models.Actor, id string, req models.BlockDatesRequest) ([]models.BlockedDate, error)
	UnblockDates(ctx context.Context, actor models.Actor, id string, req models.UnblockDatesRequest) (int64, error)
	ListBlockedDates(ctx context.Context, viewer *models.Actor, id string, from, to time.Time) ([]models.BlockedDate, error)
}

// DefaultPropertyService is the production implementation.
type DefaultPropertyService struct {
	Repo         propertyRepo.PropertyRepository
	Blocked      blockedRepo.BlockedDateRepository
	Reviews      reviewRepo.ReviewRepository
	Users        userRepo.UserRepository
	Availability *availability.Checker
	Storage      storage.StorageService
	Geocoder     geocoding.GeocodingService
	Events       events.Publisher
}
