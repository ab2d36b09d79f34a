package booking

import (
	"context"
	"errors"

	"havenly/database"
	"havenly/models"
	"havenly/services/payment"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// unsettled payment statuses can still move to paid.
var unsettled = []string{models.PaymentPending, models.PaymentFailed}

// updatePayment applies set under the given guards, mapping a guard miss to 409.
func (s *DefaultBookingService) updatePayment(ctx context.Context, id string, statuses, paymentStatuses []string, set bson.M) (*models.Booking, error) {
	b, err := s.Repo.UpdatePayment(ctx, id, statuses, paymentStatuses, set)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewConflict("the booking was changed by someone else; reload and retry")
		}
		return nil, utils.NewInternal("failed to record payment", err)
	}
	return b, nil
}

// CreatePaymentIntent starts a card payment for the booking total.
func (s *DefaultBookingService) CreatePaymentIntent(ctx context.Context, actor models.Actor, id string) (*models.PaymentIntentResponse, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.GuestID != actor.ID {
		return nil, utils.NewForbidden("only the guest can pay for this booking")
	}
	if !b.IsActive() {
		return nil, TransitionError("pay for", b.Status)
	}
	if b.PaymentStatus != models.PaymentPending && b.PaymentStatus != models.PaymentFailed {
		return nil, utils.NewConflict("this booking is already " + b.PaymentStatus)
	}

	attempt := b.PaymentAttempts + 1
	intent, err := s.Payments.CreateIntent(ctx, b.ID, attempt, utils.ToMinorUnits(b.TotalPrice, b.Currency), b.Currency)
	if err != nil {
		return nil, err
	}
	if _, err := s.updatePayment(ctx, b.ID, models.ActiveBookingStatuses, unsettled, bson.M{
		"paymentIntentId": intent.ID,
		"paymentStatus":   models.PaymentPending,
		"paymentAttempts": attempt,
	}); err != nil {
		return nil, err
	}

	return &models.PaymentIntentResponse{
		BookingID:       b.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          b.TotalPrice,
		Currency:        b.Currency,
	}, nil
}

// ConfirmPayment syncs the booking with the provider's view of the intent.
// Money that lands on a cancelled booking is refunded, and a refund left
// pending by CancelBooking is retried.
func (s *DefaultBookingService) ConfirmPayment(ctx context.Context, actor models.Actor, id string) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.GuestID != actor.ID && !actor.IsAdmin() {
		return nil, utils.NewForbidden("you cannot confirm this payment")
	}
	if b.PaymentIntentID == "" {
		return nil, utils.NewBadRequest("no payment has been started for this booking")
	}

	switch b.PaymentStatus {
	case models.PaymentPaid, models.PaymentRefunded:
		return b, nil
	case models.PaymentRefundPending:
		return s.refund(ctx, b)
	}

	intent, err := s.Payments.GetIntent(ctx, b.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	switch intent.Status {
	case payment.StatusSucceeded:
		if b.Status == models.BookingCancelled {
			b, err = s.updatePayment(ctx, b.ID, []string{models.BookingCancelled}, unsettled,
				bson.M{"paymentStatus": models.PaymentRefundPending})
			if err != nil {
				return nil, err
			}
			return s.refund(ctx, b)
		}
		b, err = s.updatePayment(ctx, b.ID,
			[]string{models.BookingPending, models.BookingConfirmed, models.BookingCompleted}, unsettled,
			bson.M{"paymentStatus": models.PaymentPaid})
	case payment.StatusCanceled:
		if b.PaymentStatus == models.PaymentFailed {
			return b, nil
		}
		b, err = s.updatePayment(ctx, b.ID, nil, []string{models.PaymentPending},
			bson.M{"paymentStatus": models.PaymentFailed})
	default:
		return nil, utils.NewConflict("payment is not complete yet (" + intent.Status + ")")
	}
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Booking payment updated", zap.String("bookingID", b.ID), zap.String("paymentStatus", b.PaymentStatus))
	return b, nil
}

// refund returns the money of a refund_pending booking and marks it refunded.
// On failure the booking stays refund_pending so the refund can be retried.
func (s *DefaultBookingService) refund(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if err := s.Payments.Refund(ctx, b.PaymentIntentID); err != nil {
		utils.GetLogger().Error("Booking refund failed",
			zap.String("bookingID", b.ID),
			zap.String("paymentIntentID", b.PaymentIntentID),
			zap.Error(err),
		)
		return nil, err
	}
	refunded, err := s.updatePayment(ctx, b.ID, nil, []string{models.PaymentRefundPending},
		bson.M{"paymentStatus": models.PaymentRefunded})
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("Booking refunded", zap.String("bookingID", b.ID))
	return refunded, nil
}
