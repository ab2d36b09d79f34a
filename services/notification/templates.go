package notification

import (
	"fmt"

	"havenly/models"
	"havenly/utils"
)

func stay(b *models.Booking) string {
	return fmt.Sprintf("%s to %s", utils.FormatDate(b.CheckIn), utils.FormatDate(b.CheckOut))
}

func WelcomeEmail(u *models.User) models.EmailPayload {
	return models.EmailPayload{
		ToName:  u.Name,
		ToEmail: u.Email,
		Subject: "Welcome to Havenly",
		Text:    fmt.Sprintf("Hi %s, your account is ready. Happy travels!", u.Name),
	}
}

func BookingRequestedEmail(host *models.User, guest *models.User, p *models.Property, b *models.Booking) models.EmailPayload {
	return models.EmailPayload{
		ToName:  host.Name,
		ToEmail: host.Email,
		Subject: "New booking request for " + p.Title,
		Text: fmt.Sprintf("%s requested %s for %d guest(s), %s. Total %.2f %s. Confirm it from your dashboard.",
			guest.Name, p.Title, b.Guests, stay(b), b.TotalPrice, b.Currency),
	}
}

func BookingConfirmedEmail(guest *models.User, p *models.Property, b *models.Booking) models.EmailPayload {
	return models.EmailPayload{
		ToName:  guest.Name,
		ToEmail: guest.Email,
		Subject: "Your stay at " + p.Title + " is confirmed",
		Text:    fmt.Sprintf("Good news, your booking at %s for %s is confirmed.", p.Title, stay(b)),
	}
}

func BookingCancelledEmail(to *models.User, p *models.Property, b *models.Booking) models.EmailPayload {
	text := fmt.Sprintf("The booking at %s for %s was cancelled.", p.Title, stay(b))
	if b.CancellationReason != "" {
		text += " Reason: " + b.CancellationReason
	}
	switch b.PaymentStatus {
	case models.PaymentRefunded:
		text += " A refund has been issued."
	case models.PaymentRefundPending:
		text += " A refund is being processed."
	}
	return models.EmailPayload{
		ToName:  to.Name,
		ToEmail: to.Email,
		Subject: "Booking cancelled: " + p.Title,
		Text:    text,
	}
}

func CheckInReminderEmail(guest *models.User, p *models.Property, b *models.Booking) models.EmailPayload {
	return models.EmailPayload{
		ToName:  guest.Name,
		ToEmail: guest.Email,
		Subject: "Check-in tomorrow at " + p.Title,
		Text: fmt.Sprintf("Your stay at %s, %s starts on %s. Have a great trip!",
			p.Title, p.Address.OneLine(), utils.FormatDate(b.CheckIn)),
	}
}

func PropertyModeratedEmail(host *models.User, p *models.Property) models.EmailPayload {
	if p.IsApproved {
		return models.EmailPayload{
			ToName:  host.Name,
			ToEmail: host.Email,
			Subject: p.Title + " is live",
			Text:    fmt.Sprintf("Your listing %s was approved and is now visible to guests.", p.Title),
		}
	}
	text := fmt.Sprintf("Your listing %s was not approved.", p.Title)
	if p.RejectionReason != "" {
		text += " Reason: " + p.RejectionReason
	}
	return models.EmailPayload{
		ToName:  host.Name,
		ToEmail: host.Email,
		Subject: p.Title + " needs changes",
		Text:    text,
	}
}
