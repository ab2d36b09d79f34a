package models

import "time"

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

// PaymentRefundPending marks a cancelled, paid booking whose refund has not
// gone through yet.
const PaymentRefundPending = "refund_pending"

// ActiveBookingStatuses hold a property's nights.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed}

// Booking represents a guest's stay at a property.
type Booking struct {
	ID                 string    `bson:"id" json:"id"`
	PropertyID         string    `bson:"propertyId" json:"propertyId"`
	GuestID            string    `bson:"guestId" json:"guestId"`
	HostID             string    `bson:"hostId" json:"hostId"`
	CheckIn            time.Time `bson:"checkIn" json:"checkIn"`
	CheckOut           time.Time `bson:"checkOut" json:"checkOut"`
	Guests             int       `bson:"guests" json:"guests"`
	Nights             int       `bson:"nights" json:"nights"`
	TotalPrice         float64   `bson:"totalPrice" json:"totalPrice"`
	Currency           string    `bson:"currency" json:"currency"`
	Status             string    `bson:"status" json:"status"`
	PaymentStatus      string    `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID    string    `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	PaymentAttempts    int       `bson:"paymentAttempts,omitempty" json:"-"`
	SpecialRequests    string    `bson:"specialRequests,omitempty" json:"specialRequests,omitempty"`
	CancellationReason string    `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy        string    `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsActive reports whether the booking still holds its nights.
func (b Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

type BookingRequest struct {
	PropertyID      string `json:"propertyId" binding:"required"`
	CheckIn         string `json:"checkIn" binding:"required"`
	CheckOut        string `json:"checkOut" binding:"required"`
	Guests          int    `json:"guests" binding:"required,min=1"`
	SpecialRequests string `json:"specialRequests" binding:"omitempty,max=1000"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// PaymentIntentResponse hands the client what it needs to finish paying.
type PaymentIntentResponse struct {
	BookingID       string  `json:"bookingId"`
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}
