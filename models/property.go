package models

import "time"

const (
	PriceUnitNight = "night"
	PriceUnitWeek  = "week"
	PriceUnitMonth = "month"
)

// PropertyTypes lists the accepted listing types.
var PropertyTypes = []string{"apartment", "house", "villa", "cabin", "room", "cottage", "other"}

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state,omitempty" json:"state,omitempty"`
	Country string `bson:"country" json:"country"`
	ZipCode string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
}

// OneLine joins the non-empty address parts for geocoding.
func (a Address) OneLine() string {
	out := ""
	for _, part := range []string{a.Street, a.City, a.State, a.ZipCode, a.Country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"publicId" json:"publicId"`
}

type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Property is a rentable listing owned by a host.
type Property struct {
	ID              string    `bson:"id" json:"id"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description" json:"description"`
	Type            string    `bson:"type" json:"type"`
	Price           float64   `bson:"price" json:"price"`
	PriceUnit       string    `bson:"priceUnit" json:"priceUnit"`
	Currency        string    `bson:"currency" json:"currency"`
	CleaningFee     float64   `bson:"cleaningFee" json:"cleaningFee"`
	ServiceFee      float64   `bson:"serviceFee" json:"serviceFee"`
	MaxGuests       int       `bson:"maxGuests" json:"maxGuests"`
	Bedrooms        int       `bson:"bedrooms" json:"bedrooms"`
	Bathrooms       int       `bson:"bathrooms" json:"bathrooms"`
	Address         Address   `bson:"address" json:"address"`
	Location        GeoPoint  `bson:"location" json:"location"`
	Amenities       []string  `bson:"amenities" json:"amenities"`
	Images          []Image   `bson:"images" json:"images"`
	HostID          string    `bson:"hostId" json:"hostId"`
	IsApproved      bool      `bson:"isApproved" json:"isApproved"`
	IsAvailable     bool      `bson:"isAvailable" json:"isAvailable"`
	RejectionReason string    `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Rating          Rating    `bson:"rating" json:"rating"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// VisibleTo reports whether viewer may see the listing. Approved listings are
// public; unapproved ones only to their host and admins. viewer is nil for
// anonymous callers.
func (p *Property) VisibleTo(viewer *Actor) bool {
	if p.IsApproved {
		return true
	}
	return viewer != nil && (viewer.ID == p.HostID || viewer.IsAdmin())
}

// PropertyInput is the body of create and update requests. Pointer fields
// let an update touch only what the caller sent.
type PropertyInput struct {
	Title       *string   `json:"title" binding:"omitempty,min=3,max=120"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	Type        *string   `json:"type" binding:"omitempty,oneof=apartment house villa cabin room cottage other"`
	Price       *float64  `json:"price" binding:"omitempty,gt=0"`
	PriceUnit   *string   `json:"priceUnit" binding:"omitempty,oneof=night week month"`
	Currency    *string   `json:"currency" binding:"omitempty,len=3"`
	CleaningFee *float64  `json:"cleaningFee" binding:"omitempty,gte=0"`
	ServiceFee  *float64  `json:"serviceFee" binding:"omitempty,gte=0"`
	MaxGuests   *int      `json:"maxGuests" binding:"omitempty,min=1,max=50"`
	Bedrooms    *int      `json:"bedrooms" binding:"omitempty,min=0,max=50"`
	Bathrooms   *int      `json:"bathrooms" binding:"omitempty,min=0,max=50"`
	Address     *Address  `json:"address"`
	Location    *GeoPoint `json:"location"`
	Amenities   []string  `json:"amenities"`
	IsAvailable *bool     `json:"isAvailable"`
}

// PropertyFilter drives the public search.
type PropertyFilter struct {
	City      string
	Country   string
	Type      string
	MinPrice  float64
	MaxPrice  float64
	Guests    int
	Amenities []string
	Near      *GeoPoint
	RadiusKm  float64
	CheckIn   *time.Time
	CheckOut  *time.Time
	HostID    string
	// OnlyPublic restricts results to approved and available listings.
	OnlyPublic bool
	Approved   *bool
	Sort       string
	Page       int
	Limit      int
	// ExcludeIDs removes properties already known to be unavailable.
	ExcludeIDs []string
}

// PriceQuote is the price breakdown of a stay.
type PriceQuote struct {
	PropertyID  string    `json:"propertyId"`
	CheckIn     time.Time `json:"checkIn"`
	CheckOut    time.Time `json:"checkOut"`
	Nights      int       `json:"nights"`
	NightlyRate float64   `json:"nightlyRate"`
	Subtotal    float64   `json:"subtotal"`
	CleaningFee float64   `json:"cleaningFee"`
	ServiceFee  float64   `json:"serviceFee"`
	Total       float64   `json:"total"`
	Currency    string    `json:"currency"`
}

// AvailabilityCalendar lists what is taken in a window.
type AvailabilityCalendar struct {
	PropertyID   string        `json:"propertyId"`
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	BookedRanges []DateRange   `json:"bookedRanges"`
	BlockedDates []BlockedDate `json:"blockedDates"`
}

type DateRange struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}
