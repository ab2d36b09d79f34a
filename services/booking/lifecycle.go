package booking

import (
	"context"
	"errors"
	"time"

	"havenly/database"
	"havenly/models"
	"havenly/services/availability"
	"havenly/services/notification"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// reminderLead is how long before check-in the guest is reminded.
const reminderLead = 24 * time.Hour

func (s *DefaultBookingService) load(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	return b, nil
}

// transition applies set while the booking is still in one of from.
func (s *DefaultBookingService) transition(ctx context.Context, id string, from []string, set bson.M) (*models.Booking, error) {
	b, err := s.Repo.Transition(ctx, id, from, set)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewConflict("the booking was changed by someone else; reload and retry")
		}
		return nil, utils.NewInternal("failed to update booking", err)
	}
	return b, nil
}

// ConfirmBooking is pending -> confirmed, by the host or an admin.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.HostID != actor.ID && !actor.IsAdmin() {
		return nil, utils.NewForbidden("only the host can confirm this booking")
	}
	if b.Status != models.BookingPending {
		return nil, TransitionError("confirm", b.Status)
	}

	b, err = s.transition(ctx, id, []string{models.BookingPending}, bson.M{"status": models.BookingConfirmed})
	if err != nil {
		return nil, err
	}

	if p := s.property(ctx, b.PropertyID); p != nil {
		if guest, _ := s.parties(ctx, b); guest != nil {
			s.email(ctx, notification.BookingConfirmedEmail(guest, p, b))
		}
	}
	if err := s.Notifier.ScheduleCheckInReminder(ctx, b.ID, b.CheckIn.Add(-reminderLead)); err != nil {
		utils.GetLogger().Warn("Check-in reminder not scheduled", zap.String("bookingID", b.ID), zap.Error(err))
	}
	return b, nil
}

// CancelBooking is pending|confirmed -> cancelled. A paid booking is moved to
// refund_pending with the status change and refunded afterwards; a failed
// refund leaves it refund_pending for ConfirmPayment to retry.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, actor models.Actor, id, reason string) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.GuestID != actor.ID && b.HostID != actor.ID && !actor.IsAdmin() {
		return nil, utils.NewForbidden("you cannot cancel this booking")
	}
	if !b.IsActive() {
		return nil, TransitionError("cancel", b.Status)
	}
	if !availability.Now().Before(b.CheckOut) {
		return nil, utils.NewBadRequest("the stay has already ended")
	}

	set := bson.M{
		"status":             models.BookingCancelled,
		"cancellationReason": reason,
		"cancelledBy":        actor.ID,
	}
	paid := b.PaymentStatus == models.PaymentPaid && b.PaymentIntentID != ""
	if paid {
		set["paymentStatus"] = models.PaymentRefundPending
	}

	b, err = s.transition(ctx, id, models.ActiveBookingStatuses, set)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Booking cancelled", zap.String("bookingID", id), zap.String("by", actor.ID))

	if paid {
		if refunded, err := s.refund(ctx, b); err == nil {
			b = refunded
		}
	}

	if p := s.property(ctx, b.PropertyID); p != nil {
		guest, host := s.parties(ctx, b)
		for _, u := range []*models.User{guest, host} {
			if u != nil {
				s.email(ctx, notification.BookingCancelledEmail(u, p, b))
			}
		}
	}
	return b, nil
}

// CompleteBooking is confirmed -> completed once the stay has ended.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.HostID != actor.ID && !actor.IsAdmin() {
		return nil, utils.NewForbidden("only the host can complete this booking")
	}
	if b.Status != models.BookingConfirmed {
		return nil, TransitionError("complete", b.Status)
	}
	if availability.Now().Before(b.CheckOut) {
		return nil, utils.NewBadRequest("a booking can only be completed after checkout")
	}
	return s.transition(ctx, id, []string{models.BookingConfirmed}, bson.M{"status": models.BookingCompleted})
}

func (s *DefaultBookingService) CompleteEndedBookings(ctx context.Context) (int64, error) {
	n, err := s.Repo.CompleteEnded(ctx, availability.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		utils.GetLogger().Info("Completed ended bookings", zap.Int64("count", n))
	}
	return n, nil
}

func (s *DefaultBookingService) CheckInReminder(ctx context.Context, id string) (*models.EmailPayload, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingConfirmed || !availability.Now().Before(b.CheckIn) {
		return nil, nil
	}
	p, err := s.Properties.GetByID(ctx, b.PropertyID)
	if err != nil {
		return nil, notFound(err, "property not found")
	}
	guest, err := s.Users.GetByID(ctx, b.GuestID)
	if err != nil {
		return nil, notFound(err, "guest not found")
	}
	payload := notification.CheckInReminderEmail(guest, p, b)
	return &payload, nil
}
