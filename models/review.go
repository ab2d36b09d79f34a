package models

import "time"

type HostResponse struct {
	Comment     string    `bson:"comment" json:"comment"`
	RespondedAt time.Time `bson:"respondedAt" json:"respondedAt"`
}

type ReviewReport struct {
	UserID    string    `bson:"userId" json:"userId"`
	Reason    string    `bson:"reason" json:"reason"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Review is a guest's rating of a completed stay.
type Review struct {
	ID           string         `bson:"id" json:"id"`
	PropertyID   string         `bson:"propertyId" json:"propertyId"`
	BookingID    string         `bson:"bookingId" json:"bookingId"`
	ReviewerID   string         `bson:"reviewerId" json:"reviewerId"`
	Rating       int            `bson:"rating" json:"rating"`
	Comment      string         `bson:"comment" json:"comment"`
	HostResponse *HostResponse  `bson:"hostResponse,omitempty" json:"hostResponse,omitempty"`
	Reports      []ReviewReport `bson:"reports" json:"reports,omitempty"`
	IsHidden     bool           `bson:"isHidden" json:"isHidden"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type ReviewRequest struct {
	BookingID string `json:"bookingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required,min=1,max=2000"`
}

type HostResponseRequest struct {
	Comment string `json:"comment" binding:"required,min=1,max=2000"`
}

type ReportRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}
