package booking

import (
	"context"
	"strings"

	bookingRepo "havenly/database/repository/booking"
	"havenly/models"
	"havenly/services/availability"
	"havenly/services/notification"
	"havenly/utils"

	"go.uber.org/zap"
)

// CreateBooking validates the stay, checks availability and prices it.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, actor models.Actor, req models.BookingRequest) (*models.Booking, error) {
	checkIn, checkOut, err := availability.ParseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if err := availability.RequireFuture(checkIn); err != nil {
		return nil, err
	}
	if req.Guests < 1 {
		return nil, utils.NewBadRequest("at least one guest is required")
	}

	property, err := s.Properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, notFound(err, "property not found")
	}
	if !property.IsApproved {
		return nil, utils.NewNotFound("property not found")
	}
	if !property.IsAvailable {
		return nil, utils.NewBadRequest("this property is not accepting bookings")
	}
	if property.HostID == actor.ID {
		return nil, utils.NewBadRequest("you cannot book your own property")
	}
	if req.Guests > property.MaxGuests {
		return nil, utils.NewBadRequest("the property accommodates at most " + itoa(property.MaxGuests) + " guests")
	}

	if err := s.Availability.Check(ctx, property.ID, checkIn, checkOut); err != nil {
		return nil, err
	}

	quote := availability.Quote(property, checkIn, checkOut)
	booking := &models.Booking{
		ID:              utils.NewID(),
		PropertyID:      property.ID,
		GuestID:         actor.ID,
		HostID:          property.HostID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		Nights:          quote.Nights,
		TotalPrice:      quote.Total,
		Currency:        quote.Currency,
		Status:          models.BookingPending,
		PaymentStatus:   models.PaymentPending,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}
	if err := s.Repo.Create(ctx, booking); err != nil {
		return nil, utils.NewInternal("failed to create booking", err)
	}

	utils.GetLogger().Info("Booking created",
		zap.String("bookingID", booking.ID),
		zap.String("propertyID", property.ID),
		zap.String("guestID", actor.ID),
		zap.Float64("total", booking.TotalPrice),
	)

	guest, host := s.parties(ctx, booking)
	if guest != nil && host != nil {
		s.email(ctx, notification.BookingRequestedEmail(host, guest, property, booking))
	}
	return booking, nil
}

// GetBooking is visible to the guest, the host and admins.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	if booking.GuestID != actor.ID && booking.HostID != actor.ID && !actor.IsAdmin() {
		return nil, utils.NewForbidden("you cannot view this booking")
	}
	return booking, nil
}

func (s *DefaultBookingService) list(ctx context.Context, filter bookingRepo.BookingFilter) ([]models.Booking, models.Pagination, error) {
	if filter.Status != "" && !isStatus(filter.Status) {
		return nil, models.Pagination{}, utils.NewBadRequest("unknown status " + filter.Status)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	bookings, total, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, utils.NewInternal("failed to list bookings", err)
	}
	return bookings, models.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *DefaultBookingService) ListGuestBookings(ctx context.Context, guestID, status string, page, limit int) ([]models.Booking, models.Pagination, error) {
	return s.list(ctx, bookingRepo.BookingFilter{GuestID: guestID, Status: status, Page: page, Limit: limit})
}

func (s *DefaultBookingService) ListHostBookings(ctx context.Context, hostID, status string, page, limit int) ([]models.Booking, models.Pagination, error) {
	return s.list(ctx, bookingRepo.BookingFilter{HostID: hostID, Status: status, Page: page, Limit: limit})
}

func (s *DefaultBookingService) ListAllBookings(ctx context.Context, status string, page, limit int) ([]models.Booking, models.Pagination, error) {
	return s.list(ctx, bookingRepo.BookingFilter{Status: status, Page: page, Limit: limit})
}
