package models

import "time"

// EmailPayload is the body of an email delivery task.
type EmailPayload struct {
	ToName  string `json:"toName"`
	ToEmail string `json:"toEmail"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html,omitempty"`
}

// ReminderPayload schedules a check-in reminder for a booking.
type ReminderPayload struct {
	BookingID string    `json:"bookingId"`
	FireAt    time.Time `json:"fireAt"`
}

// PropertyEvent is published whenever a listing changes.
type PropertyEvent struct {
	Action     string    `json:"action"`
	PropertyID string    `json:"property_id"`
	HostID     string    `json:"host_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AdminStats summarizes the marketplace for the dashboard.
type AdminStats struct {
	Users            int64              `json:"users"`
	Hosts            int64              `json:"hosts"`
	Properties       int64              `json:"properties"`
	PendingApprovals int64              `json:"pendingApprovals"`
	Bookings         int64              `json:"bookings"`
	BookingsByStatus map[string]int64   `json:"bookingsByStatus"`
	Revenue          map[string]float64 `json:"revenue"`
	Reviews          int64              `json:"reviews"`
	ReportedReviews  int64              `json:"reportedReviews"`
}

// LegalSection is one policy document shown in the apps.
type LegalSection struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Audience string `json:"audience"` // "guest", "host" or "all"
	Version  string `json:"version"`
	Updated  string `json:"updated"`
}

type RoleUpdateRequest struct {
	Role string `json:"role" binding:"required,oneof=user host admin"`
}

type StatusUpdateRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

type HideRequest struct {
	Hidden *bool `json:"hidden" binding:"required"`
}
