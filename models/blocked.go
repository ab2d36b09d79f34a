package models

import "time"

// BlockedDate is a calendar day a host marked unavailable.
type BlockedDate struct {
	ID         string    `bson:"id" json:"id"`
	PropertyID string    `bson:"propertyId" json:"propertyId"`
	Date       time.Time `bson:"date" json:"date"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
	BlockedBy  string    `bson:"blockedBy" json:"blockedBy"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// BlockDatesRequest accepts an explicit list, a [from, to] range, or both.
type BlockDatesRequest struct {
	Dates  []string `json:"dates"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Reason string   `json:"reason" binding:"omitempty,max=200"`
}

type UnblockDatesRequest struct {
	Dates []string `json:"dates" binding:"required,min=1"`
}
