package booking

import (
	"context"
	"strconv"

	"havenly/models"
	"havenly/utils"

	"go.uber.org/zap"
)

func itoa(n int) string { return strconv.Itoa(n) }

func isStatus(s string) bool {
	switch s {
	case models.BookingPending, models.BookingConfirmed, models.BookingCancelled, models.BookingCompleted:
		return true
	}
	return false
}

// parties loads the guest and host; either may be nil if the lookup failed.
func (s *DefaultBookingService) parties(ctx context.Context, b *models.Booking) (guest, host *models.User) {
	var err error
	if guest, err = s.Users.GetByID(ctx, b.GuestID); err != nil {
		utils.GetLogger().Warn("Booking guest lookup failed", zap.String("bookingID", b.ID), zap.Error(err))
		guest = nil
	}
	if host, err = s.Users.GetByID(ctx, b.HostID); err != nil {
		utils.GetLogger().Warn("Booking host lookup failed", zap.String("bookingID", b.ID), zap.Error(err))
		host = nil
	}
	return guest, host
}

// email queues a message; failures never undo the booking change.
func (s *DefaultBookingService) email(ctx context.Context, payload models.EmailPayload) {
	if err := s.Notifier.SendEmail(ctx, payload); err != nil {
		utils.GetLogger().Warn("Booking email not queued",
			zap.String("to", payload.ToEmail),
			zap.String("subject", payload.Subject),
			zap.Error(err),
		)
	}
}

func (s *DefaultBookingService) property(ctx context.Context, id string) *models.Property {
	p, err := s.Properties.GetByID(ctx, id)
	if err != nil {
		utils.GetLogger().Warn("Booking property lookup failed", zap.String("propertyID", id), zap.Error(err))
		return nil
	}
	return p
}
