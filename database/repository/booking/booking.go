package bookingRepo

import (
	"context"
	"time"

	"havenly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// BookingFilter narrows List; empty fields are ignored.
type BookingFilter struct {
	GuestID    string
	HostID     string
	PropertyID string
	Status     string
	Page       int
	Limit      int
}

// BookingRepository defines persistence for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]models.Booking, int64, error)
	// FindOverlapping returns active bookings of a property that intersect
	// the half-open interval [checkIn, checkOut).
	FindOverlapping(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]models.Booking, error)
	// PropertiesBookedBetween returns ids of properties holding an active
	// booking that intersects [checkIn, checkOut).
	PropertiesBookedBetween(ctx context.Context, checkIn, checkOut time.Time) ([]string, error)
	// Transition moves a booking to a new status only while it is in one of
	// the from statuses. Returns ErrNotFound when the guard does not match.
	Transition(ctx context.Context, id string, from []string, set bson.M) (*models.Booking, error)
	// UpdatePayment applies set only while the booking's status is in statuses
	// and its paymentStatus is in paymentStatuses; an empty list matches any.
	// Returns ErrNotFound when the guard does not match.
	UpdatePayment(ctx context.Context, id string, statuses, paymentStatuses []string, set bson.M) (*models.Booking, error)
	// CountActiveAfter counts active bookings of a property ending after t.
	CountActiveAfter(ctx context.Context, propertyID string, t time.Time) (int64, error)
	// CompleteEnded marks confirmed bookings whose checkOut is before t as completed.
	CompleteEnded(ctx context.Context, t time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	// RevenueByCurrency sums totalPrice of paid, non-refunded bookings.
	RevenueByCurrency(ctx context.Context) (map[string]float64, error)
}
