package property

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"havenly/database/repository/memory"
	"havenly/models"
	"havenly/services/availability"
	"havenly/utils"
)

// ============================================
// Fakes
// ============================================

type fakeGeocoder struct {
	point *models.GeoPoint
	calls int
}

func (g *fakeGeocoder) Search(context.Context, string) (json.RawMessage, error) {
	return json.RawMessage(`[]`), nil
}

func (g *fakeGeocoder) Reverse(context.Context, float64, float64) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (g *fakeGeocoder) Locate(context.Context, string) (*models.GeoPoint, error) {
	g.calls++
	return g.point, nil
}

type fakeStorage struct {
	uploaded []string
	deleted  []string
	failOn   int // 1-based upload that fails; 0 never fails
}

func (s *fakeStorage) Upload(_ context.Context, r io.Reader, filename, _ string) (models.Image, error) {
	if s.failOn > 0 && len(s.uploaded)+1 == s.failOn {
		return models.Image{}, errors.New("upstream timeout")
	}
	_, _ = io.ReadAll(r)
	id := "havenly/" + filename
	s.uploaded = append(s.uploaded, id)
	return models.Image{URL: "https://cdn.example.com/" + id, PublicID: id}, nil
}

func (s *fakeStorage) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}

type recordingPublisher struct {
	actions []string
}

func (p *recordingPublisher) PublishProperty(_ context.Context, action string, _ *models.Property) error {
	p.actions = append(p.actions, action)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	svc        *DefaultPropertyService
	properties *memory.PropertyRepo
	bookings   *memory.BookingRepo
	blocked    *memory.BlockedDateRepo
	reviews    *memory.ReviewRepo
	users      *memory.UserRepo
	geocoder   *fakeGeocoder
	storage    *fakeStorage
	events     *recordingPublisher
}

var (
	host  = models.Actor{ID: "host-1", Role: models.RoleHost}
	other = models.Actor{ID: "host-2", Role: models.RoleHost}
	admin = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
)

func newFixture() *fixture {
	point := models.NewGeoPoint(41.39, 2.17)
	f := &fixture{
		properties: memory.NewPropertyRepo(),
		bookings:   memory.NewBookingRepo(),
		blocked:    memory.NewBlockedDateRepo(),
		reviews:    memory.NewReviewRepo(),
		users:      memory.NewUserRepo(),
		geocoder:   &fakeGeocoder{point: &point},
		storage:    &fakeStorage{},
		events:     &recordingPublisher{},
	}
	f.svc = &DefaultPropertyService{
		Repo:         f.properties,
		Blocked:      f.blocked,
		Reviews:      f.reviews,
		Users:        f.users,
		Availability: availability.NewChecker(f.bookings, f.blocked),
		Storage:      f.storage,
		Geocoder:     f.geocoder,
		Events:       f.events,
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func validInput() models.PropertyInput {
	return models.PropertyInput{
		Title:       ptr("Sunny loft"),
		Description: ptr("Two steps from the beach"),
		Type:        ptr("apartment"),
		Price:       ptr(120.0),
		MaxGuests:   ptr(4),
		Address:     &models.Address{Street: "Carrer 1", City: "Barcelona", Country: "Spain"},
		Amenities:   []string{"WiFi", " wifi ", "Pool"},
	}
}

func (f *fixture) create(t *testing.T, actor models.Actor) *models.Property {
	t.Helper()
	p, err := f.svc.CreateProperty(context.Background(), actor, validInput())
	if err != nil {
		t.Fatalf("Expected no error creating property, got %v", err)
	}
	return p
}

var timeZero time.Time

// ============================================
// Tests
// ============================================

func TestCreateProperty_HostListingAwaitsApproval(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)

	if p.IsApproved {
		t.Error("Expected a host's listing to start unapproved")
	}
	if p.HostID != host.ID {
		t.Errorf("Expected host %s, got %s", host.ID, p.HostID)
	}
	if !p.Location.IsValid() || f.geocoder.calls != 1 {
		t.Errorf("Expected the address to be geocoded once, got %+v after %d calls", p.Location, f.geocoder.calls)
	}
	if len(p.Amenities) != 2 || p.Amenities[0] != "wifi" {
		t.Errorf("Expected cleaned amenities [wifi pool], got %v", p.Amenities)
	}
	if len(f.events.actions) != 1 {
		t.Errorf("Expected one event, got %v", f.events.actions)
	}
}

func TestCreateProperty_AdminListingIsApproved(t *testing.T) {
	f := newFixture()
	if p := f.create(t, admin); !p.IsApproved {
		t.Error("Expected an admin's listing to be approved")
	}
}

func TestCreateProperty_UnlocatableAddress(t *testing.T) {
	f := newFixture()
	f.geocoder.point = nil

	_, err := f.svc.CreateProperty(context.Background(), host, validInput())
	if utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400, got %v", err)
	}
}

func TestCreateProperty_ExplicitLocationSkipsGeocoding(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.Location = ptr(models.NewGeoPoint(40.4, -3.7))

	if _, err := f.svc.CreateProperty(context.Background(), host, in); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.geocoder.calls != 0 {
		t.Errorf("Expected no geocoding, got %d calls", f.geocoder.calls)
	}
}

func TestGetProperty_UnapprovedVisibility(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()

	if _, err := f.svc.GetProperty(ctx, nil, p.ID); utils.StatusOf(err) != http.StatusNotFound {
		t.Errorf("Expected 404 for anonymous viewers, got %v", err)
	}
	if _, err := f.svc.GetProperty(ctx, &other, p.ID); utils.StatusOf(err) != http.StatusNotFound {
		t.Errorf("Expected 404 for other hosts, got %v", err)
	}
	if _, err := f.svc.GetProperty(ctx, &host, p.ID); err != nil {
		t.Errorf("Expected the owner to see the listing, got %v", err)
	}
	if _, err := f.svc.GetProperty(ctx, &admin, p.ID); err != nil {
		t.Errorf("Expected an admin to see the listing, got %v", err)
	}
}

func TestUpdateProperty_OwnershipAndPartialUpdate(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()

	_, err := f.svc.UpdateProperty(ctx, other, p.ID, models.PropertyInput{Price: ptr(99.0)})
	if utils.StatusOf(err) != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", err)
	}

	updated, err := f.svc.UpdateProperty(ctx, host, p.ID, models.PropertyInput{Price: ptr(99.0)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Price != 99 || updated.Title != "Sunny loft" {
		t.Errorf("Expected only price to change, got price %v title %q", updated.Price, updated.Title)
	}

	_, err = f.svc.UpdateProperty(ctx, host, p.ID, models.PropertyInput{Price: ptr(-1.0)})
	if utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 for a negative price, got %v", err)
	}
}

func TestDeleteProperty_BlockedByUpcomingBooking(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()
	checkIn, _ := utils.ParseDate("2031-01-10")
	checkOut, _ := utils.ParseDate("2031-01-12")
	_ = f.bookings.Create(ctx, &models.Booking{ID: "b1", PropertyID: p.ID, CheckIn: checkIn, CheckOut: checkOut, Status: models.BookingConfirmed})

	if err := f.svc.DeleteProperty(ctx, host, p.ID); utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409, got %v", err)
	}
}

func TestDeleteProperty_CleansUp(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()

	_, _ = f.properties.AddImages(ctx, p.ID, []models.Image{{URL: "u", PublicID: "img-1"}})
	_ = f.users.Create(ctx, &models.User{ID: "guest-1", Email: "g@example.com"})
	_ = f.users.AddFavorite(ctx, "guest-1", p.ID)
	_ = f.reviews.Create(ctx, &models.Review{ID: "r1", PropertyID: p.ID, BookingID: "b1", Rating: 5})
	if _, err := f.svc.BlockDates(ctx, host, p.ID, models.BlockDatesRequest{Dates: []string{"2031-03-01"}}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := f.svc.DeleteProperty(ctx, host, p.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := f.properties.GetByID(ctx, p.ID); err == nil {
		t.Error("Expected the property to be gone")
	}
	if u, _ := f.users.GetByID(ctx, "guest-1"); len(u.Favorites) != 0 {
		t.Errorf("Expected favorites cleared, got %v", u.Favorites)
	}
	if n, _ := f.reviews.Count(ctx); n != 0 {
		t.Errorf("Expected reviews removed, got %d", n)
	}
	if dates, _ := f.blocked.ListInRange(ctx, p.ID, timeZero, timeZero); len(dates) != 0 {
		t.Errorf("Expected blocked dates removed, got %d", len(dates))
	}
	if len(f.storage.deleted) != 1 || f.storage.deleted[0] != "img-1" {
		t.Errorf("Expected img-1 deleted from storage, got %v", f.storage.deleted)
	}
}

func TestSearchProperties_OnlyApprovedAndAvailable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	pending := f.create(t, host)
	listed := f.create(t, admin)
	booked := f.create(t, admin)

	checkIn, _ := utils.ParseDate("2031-05-01")
	checkOut, _ := utils.ParseDate("2031-05-05")
	_ = f.bookings.Create(ctx, &models.Booking{ID: "b1", PropertyID: booked.ID, CheckIn: checkIn, CheckOut: checkOut, Status: models.BookingPending})

	all, page, err := f.svc.SearchProperties(ctx, models.PropertyFilter{City: "barcelona"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 2 || page.Total != 2 {
		t.Errorf("Expected 2 approved listings, got %d (total %d)", len(all), page.Total)
	}
	for _, p := range all {
		if p.ID == pending.ID {
			t.Error("Expected the unapproved listing to be hidden")
		}
	}

	in, out := checkIn.AddDate(0, 0, 2), checkOut.AddDate(0, 0, 2)
	free, _, err := f.svc.SearchProperties(ctx, models.PropertyFilter{CheckIn: &in, CheckOut: &out})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(free) != 1 || free[0].ID != listed.ID {
		t.Errorf("Expected only %s to be free, got %v", listed.ID, free)
	}

	_, _, err = f.svc.SearchProperties(ctx, models.PropertyFilter{CheckIn: &in})
	if utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 for a lone checkIn, got %v", err)
	}
}

func TestBlockDates(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()

	blocked, err := f.svc.BlockDates(ctx, host, p.ID, models.BlockDatesRequest{From: "2031-02-01", To: "2031-02-03", Reason: "maintenance"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(blocked) != 3 {
		t.Errorf("Expected the inclusive range to block 3 days, got %d", len(blocked))
	}

	// Blocking again is a no-op.
	again, err := f.svc.BlockDates(ctx, host, p.ID, models.BlockDatesRequest{Dates: []string{"2031-02-02"}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(again) != 1 {
		t.Errorf("Expected 1 blocked day in the window, got %d", len(again))
	}
	all, _ := f.svc.ListBlockedDates(ctx, &host, p.ID, timeZero, timeZero)
	if len(all) != 3 {
		t.Errorf("Expected 3 blocked days in total, got %d", len(all))
	}

	if _, err := f.svc.BlockDates(ctx, other, p.ID, models.BlockDatesRequest{Dates: []string{"2031-02-10"}}); utils.StatusOf(err) != http.StatusForbidden {
		t.Errorf("Expected 403 for another host, got %v", err)
	}
	if _, err := f.svc.BlockDates(ctx, host, p.ID, models.BlockDatesRequest{Dates: []string{"2001-01-01"}}); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 for a past date, got %v", err)
	}

	removed, err := f.svc.UnblockDates(ctx, host, p.ID, models.UnblockDatesRequest{Dates: []string{"2031-02-01", "2031-02-20"}})
	if err != nil || removed != 1 {
		t.Errorf("Expected 1 day unblocked, got %d (%v)", removed, err)
	}
}

func TestBlockDates_BookedNightConflicts(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()
	checkIn, _ := utils.ParseDate("2031-04-10")
	checkOut, _ := utils.ParseDate("2031-04-12")
	_ = f.bookings.Create(ctx, &models.Booking{ID: "b1", PropertyID: p.ID, CheckIn: checkIn, CheckOut: checkOut, Status: models.BookingConfirmed})

	_, err := f.svc.BlockDates(ctx, host, p.ID, models.BlockDatesRequest{Dates: []string{"2031-04-11"}})
	if utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409, got %v", err)
	}
	// The checkOut day is free.
	if _, err := f.svc.BlockDates(ctx, host, p.ID, models.BlockDatesRequest{Dates: []string{"2031-04-12"}}); err != nil {
		t.Errorf("Expected checkOut day to be blockable, got %v", err)
	}
}

func TestGetQuote(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)

	q, err := f.svc.GetQuote(context.Background(), &host, p.ID, "2031-01-01", "2031-01-04")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if q.Nights != 3 || q.Total != 360 {
		t.Errorf("Expected 3 nights for 360, got %d for %v", q.Nights, q.Total)
	}
	if _, err := f.svc.GetQuote(context.Background(), &host, p.ID, "2031-01-04", "2031-01-01"); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 for reversed dates, got %v", err)
	}
}

func TestPublicReads_HideUnapprovedListing(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()
	from, _ := utils.ParseDate("2031-01-01")
	to, _ := utils.ParseDate("2031-02-01")

	for _, viewer := range []*models.Actor{nil, &other} {
		if _, err := f.svc.GetQuote(ctx, viewer, p.ID, "2031-01-01", "2031-01-04"); utils.StatusOf(err) != http.StatusNotFound {
			t.Errorf("Expected 404 quoting for %v, got %v", viewer, err)
		}
		if _, err := f.svc.GetCalendar(ctx, viewer, p.ID, from, to); utils.StatusOf(err) != http.StatusNotFound {
			t.Errorf("Expected 404 calendar for %v, got %v", viewer, err)
		}
		if _, err := f.svc.ListBlockedDates(ctx, viewer, p.ID, from, to); utils.StatusOf(err) != http.StatusNotFound {
			t.Errorf("Expected 404 blocked dates for %v, got %v", viewer, err)
		}
	}
	if _, err := f.svc.GetCalendar(ctx, &admin, p.ID, from, to); err != nil {
		t.Errorf("Expected admins to read the calendar, got %v", err)
	}

	if _, err := f.properties.SetApproval(ctx, p.ID, true, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := f.svc.GetQuote(ctx, nil, p.ID, "2031-01-01", "2031-01-04"); err != nil {
		t.Errorf("Expected an approved listing to be quoted publicly, got %v", err)
	}
}

func TestUploadImages_RollsBackOnFailure(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	f.storage.failOn = 2

	files := []ImageUpload{
		{Reader: strings.NewReader("a"), Filename: "a.jpg", ContentType: "image/jpeg", Size: 1},
		{Reader: strings.NewReader("b"), Filename: "b.png", ContentType: "image/png", Size: 1},
	}
	_, err := f.svc.UploadImages(context.Background(), host, p.ID, files)
	if utils.StatusOf(err) != http.StatusBadGateway {
		t.Errorf("Expected 502, got %v", err)
	}
	if len(f.storage.deleted) != 1 || f.storage.deleted[0] != "havenly/a.jpg" {
		t.Errorf("Expected the first upload discarded, got %v", f.storage.deleted)
	}
	stored, _ := f.properties.GetByID(context.Background(), p.ID)
	if len(stored.Images) != 0 {
		t.Errorf("Expected no images saved, got %v", stored.Images)
	}
}

func TestUploadImages_RejectsUnsupportedType(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)

	files := []ImageUpload{{Reader: strings.NewReader("x"), Filename: "x.gif", ContentType: "image/gif", Size: 1}}
	if _, err := f.svc.UploadImages(context.Background(), host, p.ID, files); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400, got %v", err)
	}
	if len(f.storage.uploaded) != 0 {
		t.Errorf("Expected nothing uploaded, got %v", f.storage.uploaded)
	}
}

func TestUploadAndDeleteImage(t *testing.T) {
	f := newFixture()
	p := f.create(t, host)
	ctx := context.Background()

	files := []ImageUpload{{Reader: strings.NewReader("a"), Filename: "a.webp", ContentType: "image/webp", Size: 1}}
	updated, err := f.svc.UploadImages(ctx, host, p.ID, files)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(updated.Images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(updated.Images))
	}

	if _, err := f.svc.DeleteImage(ctx, host, p.ID, "unknown"); utils.StatusOf(err) != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown image, got %v", err)
	}
	updated, err = f.svc.DeleteImage(ctx, host, p.ID, updated.Images[0].PublicID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(updated.Images) != 0 || len(f.storage.deleted) != 1 {
		t.Errorf("Expected the image removed everywhere, got %v / %v", updated.Images, f.storage.deleted)
	}
}
