package availability

import (
	"time"

	"havenly/utils"
)

// MaxNights caps a single stay.
const MaxNights = 365

// Now is the clock used for "not in the past" checks.
var Now = time.Now

// ParseStay parses and validates a half-open stay [checkIn, checkOut).
func ParseStay(checkInRaw, checkOutRaw string) (time.Time, time.Time, error) {
	checkIn, err := utils.ParseDate(checkInRaw)
	if err != nil {
		return time.Time{}, time.Time{}, utils.NewBadRequest("checkIn: " + err.Error())
	}
	checkOut, err := utils.ParseDate(checkOutRaw)
	if err != nil {
		return time.Time{}, time.Time{}, utils.NewBadRequest("checkOut: " + err.Error())
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, utils.NewBadRequest("checkOut must be after checkIn")
	}
	if utils.NightsBetween(checkIn, checkOut) > MaxNights {
		return time.Time{}, time.Time{}, utils.NewBadRequest("a stay cannot exceed 365 nights")
	}
	return checkIn, checkOut, nil
}

// RequireFuture rejects a check-in before today (UTC).
func RequireFuture(checkIn time.Time) error {
	if checkIn.Before(utils.StartOfDay(Now())) {
		return utils.NewBadRequest("checkIn cannot be in the past")
	}
	return nil
}

// Overlaps reports whether [aIn, aOut) and [bIn, bOut) intersect.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}
