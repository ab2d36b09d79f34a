package blockedRepo

import (
	"context"
	"time"

	"havenly/models"
)

// BlockedDateRepository stores host-blocked calendar days.
type BlockedDateRepository interface {
	// InsertMany stores the given days, skipping days already blocked.
	// It returns the number of new documents.
	InsertMany(ctx context.Context, dates []models.BlockedDate) (int, error)
	// DeleteDates unblocks the given days of a property.
	DeleteDates(ctx context.Context, propertyID string, dates []time.Time) (int64, error)
	// ListInRange returns blocked days in [from, to). A zero bound is open.
	ListInRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.BlockedDate, error)
	// PropertiesBlockedBetween returns ids of properties with a blocked day in [from, to).
	PropertiesBlockedBetween(ctx context.Context, from, to time.Time) ([]string, error)
	DeleteByProperty(ctx context.Context, propertyID string) error
}
