package booking

import (
	"context"

	bookingRepo "havenly/database/repository/booking"
	propertyRepo "havenly/database/repository/property"
	userRepo "havenly/database/repository/user"
	"havenly/models"
	"havenly/services/availability"
	"havenly/services/notification"
	"havenly/services/payment"
)

type BookingService interface {
	CreateBooking(ctx context.Context, actor models.Actor, req models.BookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)
	ListGuestBookings(ctx context.Context, guestID, status string, page, limit int) ([]models.Booking, models.Pagination, error)
	ListHostBookings(ctx context.Context, hostID, status string, page, limit int) ([]models.Booking, models.Pagination, error)
	ListAllBookings(ctx context.Context, status string, page, limit int) ([]models.Booking, models.Pagination, error)

	ConfirmBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Actor, id, reason string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)
	// CompleteEndedBookings completes every confirmed booking whose checkOut passed.
	CompleteEndedBookings(ctx context.Context) (int64, error)

	CreatePaymentIntent(ctx context.Context, actor models.Actor, id string) (*models.PaymentIntentResponse, error)
	ConfirmPayment(ctx context.Context, actor models.Actor, id string) (*models.Booking, error)

	// CheckInReminder builds the reminder email, or nil when the booking no
	// longer needs one.
	CheckInReminder(ctx context.Context, id string) (*models.EmailPayload, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Properties   propertyRepo.PropertyRepository
	Users        userRepo.UserRepository
	Availability *availability.Checker
	Notifier     notification.NotificationService
	Payments     payment.Gateway
}
