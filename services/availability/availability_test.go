package availability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"havenly/database/repository/memory"
	"havenly/models"
	"havenly/utils"
)

func day(s string) time.Time {
	d, err := utils.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newChecker() (*Checker, *memory.BookingRepo, *memory.BlockedDateRepo) {
	bookings := memory.NewBookingRepo()
	blocked := memory.NewBlockedDateRepo()
	return NewChecker(bookings, blocked), bookings, blocked
}

func addBooking(t *testing.T, repo *memory.BookingRepo, id, status, in, out string) {
	t.Helper()
	err := repo.Create(context.Background(), &models.Booking{
		ID:         id,
		PropertyID: "p1",
		CheckIn:    day(in),
		CheckOut:   day(out),
		Status:     status,
	})
	if err != nil {
		t.Fatalf("Expected no error creating booking, got %v", err)
	}
}

func TestCheck_OverlappingActiveBookingConflicts(t *testing.T) {
	checker, bookings, _ := newChecker()
	addBooking(t, bookings, "b1", models.BookingConfirmed, "2030-05-10", "2030-05-15")

	err := checker.Check(context.Background(), "p1", day("2030-05-12"), day("2030-05-18"))
	if utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409, got %v", err)
	}

	addBooking(t, bookings, "b2", models.BookingPending, "2030-06-01", "2030-06-05")
	err = checker.Check(context.Background(), "p1", day("2030-05-30"), day("2030-06-02"))
	if utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected pending booking to hold its nights, got %v", err)
	}
}

func TestCheck_CancelledBookingDoesNotConflict(t *testing.T) {
	checker, bookings, _ := newChecker()
	addBooking(t, bookings, "b1", models.BookingCancelled, "2030-05-10", "2030-05-15")

	if err := checker.Check(context.Background(), "p1", day("2030-05-10"), day("2030-05-15")); err != nil {
		t.Errorf("Expected no conflict with a cancelled booking, got %v", err)
	}
}

func TestCheck_BackToBackStaysAreAllowed(t *testing.T) {
	checker, bookings, _ := newChecker()
	addBooking(t, bookings, "b1", models.BookingConfirmed, "2030-05-10", "2030-05-15")

	if err := checker.Check(context.Background(), "p1", day("2030-05-15"), day("2030-05-20")); err != nil {
		t.Errorf("Expected checkIn on previous checkOut to be allowed, got %v", err)
	}
	if err := checker.Check(context.Background(), "p1", day("2030-05-05"), day("2030-05-10")); err != nil {
		t.Errorf("Expected checkOut on next checkIn to be allowed, got %v", err)
	}
}

func TestCheck_OtherPropertyIgnored(t *testing.T) {
	checker, bookings, _ := newChecker()
	addBooking(t, bookings, "b1", models.BookingConfirmed, "2030-05-10", "2030-05-15")

	if err := checker.Check(context.Background(), "p2", day("2030-05-10"), day("2030-05-15")); err != nil {
		t.Errorf("Expected bookings of other properties to be ignored, got %v", err)
	}
}

func TestCheck_BlockedNights(t *testing.T) {
	checker, _, blocked := newChecker()
	_, err := blocked.InsertMany(context.Background(), []models.BlockedDate{
		{ID: "d1", PropertyID: "p1", Date: day("2030-07-03")},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	err = checker.Check(context.Background(), "p1", day("2030-07-01"), day("2030-07-05"))
	if utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409 for a blocked night, got %v", err)
	}

	// The blocked day is the checkOut day, not a night of the stay.
	if err := checker.Check(context.Background(), "p1", day("2030-07-01"), day("2030-07-03")); err != nil {
		t.Errorf("Expected blocked checkOut day to be allowed, got %v", err)
	}
}

func TestBlockedNights(t *testing.T) {
	blocked := []models.BlockedDate{
		{Date: day("2030-01-02")},
		{Date: day("2030-01-04")},
		{Date: day("2030-01-05")},
	}
	hits := BlockedNights(day("2030-01-01"), day("2030-01-05"), blocked)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 blocked nights, got %d", len(hits))
	}
	if !hits[0].Equal(day("2030-01-02")) || !hits[1].Equal(day("2030-01-04")) {
		t.Errorf("Unexpected blocked nights %v", hits)
	}
}

func TestUnavailablePropertyIDs(t *testing.T) {
	checker, bookings, blocked := newChecker()
	addBooking(t, bookings, "b1", models.BookingConfirmed, "2030-05-10", "2030-05-15")
	_, _ = blocked.InsertMany(context.Background(), []models.BlockedDate{
		{ID: "d1", PropertyID: "p9", Date: day("2030-05-11")},
		{ID: "d2", PropertyID: "p1", Date: day("2030-05-12")},
	})

	ids, err := checker.UnavailablePropertyIDs(context.Background(), day("2030-05-11"), day("2030-05-13"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected p1 and p9 once each, got %v", ids)
	}
}

func TestParseStay(t *testing.T) {
	in, out, err := ParseStay("2030-01-01", "2030-01-08")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if utils.NightsBetween(in, out) != 7 {
		t.Errorf("Expected 7 nights, got %d", utils.NightsBetween(in, out))
	}

	invalid := [][2]string{
		{"2030-01-08", "2030-01-01"},
		{"2030-01-01", "2030-01-01"},
		{"2030-01-01", "2031-06-01"},
		{"soon", "2030-01-01"},
	}
	for _, pair := range invalid {
		if _, _, err := ParseStay(pair[0], pair[1]); utils.StatusOf(err) != http.StatusBadRequest {
			t.Errorf("ParseStay(%s, %s): expected 400, got %v", pair[0], pair[1], err)
		}
	}
}

func TestRequireFuture(t *testing.T) {
	Now = func() time.Time { return time.Date(2030, 3, 10, 15, 0, 0, 0, time.UTC) }
	defer func() { Now = time.Now }()

	if err := RequireFuture(day("2030-03-10")); err != nil {
		t.Errorf("Expected today to be accepted, got %v", err)
	}
	if err := RequireFuture(day("2030-03-09")); err == nil {
		t.Error("Expected yesterday to be rejected")
	}
}
