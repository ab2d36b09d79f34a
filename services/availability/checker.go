package availability

import (
	"context"
	"time"

	blockedRepo "havenly/database/repository/blocked"
	bookingRepo "havenly/database/repository/booking"
	"havenly/models"
	"havenly/utils"
)

// Checker decides whether a property can take a stay.
type Checker struct {
	Bookings bookingRepo.BookingRepository
	Blocked  blockedRepo.BlockedDateRepository
}

func NewChecker(bookings bookingRepo.BookingRepository, blocked blockedRepo.BlockedDateRepository) *Checker {
	return &Checker{Bookings: bookings, Blocked: blocked}
}

// Check returns a 409 when an active booking overlaps [checkIn, checkOut)
// or one of its nights is blocked. A blocked checkOut day is not a conflict.
func (c *Checker) Check(ctx context.Context, propertyID string, checkIn, checkOut time.Time) error {
	overlapping, err := c.Bookings.FindOverlapping(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return utils.NewInternal("failed to check availability", err)
	}
	if len(overlapping) > 0 {
		return utils.NewConflict("the property is already booked for the selected dates")
	}

	blocked, err := c.Blocked.ListInRange(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return utils.NewInternal("failed to check availability", err)
	}
	if nights := BlockedNights(checkIn, checkOut, blocked); len(nights) > 0 {
		return utils.NewConflict("the property is unavailable on " + utils.FormatDate(nights[0]))
	}
	return nil
}

// BlockedNights returns the nights of [checkIn, checkOut) present in blocked.
func BlockedNights(checkIn, checkOut time.Time, blocked []models.BlockedDate) []time.Time {
	if len(blocked) == 0 {
		return nil
	}
	set := make(map[int64]struct{}, len(blocked))
	for _, b := range blocked {
		set[utils.StartOfDay(b.Date).Unix()] = struct{}{}
	}
	var hits []time.Time
	for _, night := range utils.EnumerateNights(checkIn, checkOut) {
		if _, ok := set[night.Unix()]; ok {
			hits = append(hits, night)
		}
	}
	return hits
}

// Calendar lists the booked ranges and blocked days intersecting [from, to).
func (c *Checker) Calendar(ctx context.Context, propertyID string, from, to time.Time) (*models.AvailabilityCalendar, error) {
	bookings, err := c.Bookings.FindOverlapping(ctx, propertyID, from, to)
	if err != nil {
		return nil, utils.NewInternal("failed to load calendar", err)
	}
	blocked, err := c.Blocked.ListInRange(ctx, propertyID, from, to)
	if err != nil {
		return nil, utils.NewInternal("failed to load calendar", err)
	}

	ranges := make([]models.DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, models.DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut})
	}
	return &models.AvailabilityCalendar{
		PropertyID:   propertyID,
		From:         from,
		To:           to,
		BookedRanges: ranges,
		BlockedDates: blocked,
	}, nil
}

// UnavailablePropertyIDs lists properties that cannot take [checkIn, checkOut).
func (c *Checker) UnavailablePropertyIDs(ctx context.Context, checkIn, checkOut time.Time) ([]string, error) {
	booked, err := c.Bookings.PropertiesBookedBetween(ctx, checkIn, checkOut)
	if err != nil {
		return nil, utils.NewInternal("failed to filter by availability", err)
	}
	blocked, err := c.Blocked.PropertiesBlockedBetween(ctx, checkIn, checkOut)
	if err != nil {
		return nil, utils.NewInternal("failed to filter by availability", err)
	}

	seen := make(map[string]struct{}, len(booked)+len(blocked))
	ids := make([]string, 0, len(booked)+len(blocked))
	for _, id := range append(booked, blocked...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
