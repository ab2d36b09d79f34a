package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"havenly/database"
	"havenly/database/repository/memory"
	"havenly/models"
	"havenly/services/availability"
	"havenly/services/payment"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// ============================================
// Fakes
// ============================================

type reminder struct {
	bookingID string
	fireAt    time.Time
}

type recordingNotifier struct {
	emails    []models.EmailPayload
	reminders []reminder
}

func (n *recordingNotifier) SendEmail(_ context.Context, email models.EmailPayload) error {
	n.emails = append(n.emails, email)
	return nil
}

func (n *recordingNotifier) ScheduleCheckInReminder(_ context.Context, bookingID string, fireAt time.Time) error {
	n.reminders = append(n.reminders, reminder{bookingID, fireAt})
	return nil
}

type fakeGateway struct {
	status    string
	refundErr error
	refunded  []string
	created   []int64
	keys      []string
}

func (g *fakeGateway) CreateIntent(_ context.Context, bookingID string, attempt int, amountMinor int64, _ string) (*payment.Intent, error) {
	g.created = append(g.created, amountMinor)
	g.keys = append(g.keys, payment.IdempotencyKey(bookingID, attempt, amountMinor))
	id := fmt.Sprintf("pi_%s_%d", bookingID, attempt)
	return &payment.Intent{ID: id, ClientSecret: "secret_" + id, Status: "requires_payment_method"}, nil
}

func (g *fakeGateway) GetIntent(_ context.Context, intentID string) (*payment.Intent, error) {
	return &payment.Intent{ID: intentID, Status: g.status}, nil
}

func (g *fakeGateway) Refund(_ context.Context, intentID string) error {
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunded = append(g.refunded, intentID)
	return nil
}

var (
	guest    = models.Actor{ID: "guest-1", Role: models.RoleUser}
	host     = models.Actor{ID: "host-1", Role: models.RoleHost}
	stranger = models.Actor{ID: "someone", Role: models.RoleUser}
	admin    = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
)

type fixture struct {
	svc      *DefaultBookingService
	bookings *memory.BookingRepo
	props    *memory.PropertyRepo
	notifier *recordingNotifier
	gateway  *fakeGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		bookings: memory.NewBookingRepo(),
		props:    memory.NewPropertyRepo(),
		notifier: &recordingNotifier{},
		gateway:  &fakeGateway{},
	}
	users := memory.NewUserRepo()
	_ = users.Create(ctx, &models.User{ID: guest.ID, Name: "Gina", Email: "gina@example.com", Role: models.RoleUser, Active: true})
	_ = users.Create(ctx, &models.User{ID: host.ID, Name: "Hugo", Email: "hugo@example.com", Role: models.RoleHost, Active: true})
	_ = f.props.Create(ctx, &models.Property{
		ID: "p1", Title: "Cabin", Type: "cabin", Price: 100, PriceUnit: models.PriceUnitNight,
		Currency: "USD", CleaningFee: 20, MaxGuests: 2, HostID: host.ID,
		IsApproved: true, IsAvailable: true,
	})

	f.svc = &DefaultBookingService{
		Repo:         f.bookings,
		Properties:   f.props,
		Users:        users,
		Availability: availability.NewChecker(f.bookings, memory.NewBlockedDateRepo()),
		Notifier:     f.notifier,
		Payments:     f.gateway,
	}
	return f
}

func (f *fixture) book(t *testing.T, checkIn, checkOut string) *models.Booking {
	t.Helper()
	b, err := f.svc.CreateBooking(context.Background(), guest, models.BookingRequest{
		PropertyID: "p1", CheckIn: checkIn, CheckOut: checkOut, Guests: 2,
	})
	if err != nil {
		t.Fatalf("Expected no error creating booking, got %v", err)
	}
	return b
}

func (f *fixture) confirmed(t *testing.T, checkIn, checkOut string) *models.Booking {
	t.Helper()
	b := f.book(t, checkIn, checkOut)
	b, err := f.svc.ConfirmBooking(context.Background(), host, b.ID)
	if err != nil {
		t.Fatalf("Expected no error confirming booking, got %v", err)
	}
	return b
}

func (f *fixture) markPaid(t *testing.T, id string) {
	t.Helper()
	set := bson.M{"paymentStatus": models.PaymentPaid, "paymentIntentId": "pi_1"}
	if _, err := f.bookings.UpdatePayment(context.Background(), id, nil, nil, set); err != nil {
		t.Fatalf("Expected no error marking paid, got %v", err)
	}
}

func freezeClock(t *testing.T, date string) {
	t.Helper()
	now, err := utils.ParseDate(date)
	if err != nil {
		t.Fatal(err)
	}
	availability.Now = func() time.Time { return now.Add(12 * time.Hour) }
	t.Cleanup(func() { availability.Now = time.Now })
}

// ============================================
// Creation
// ============================================

func TestCreateBooking_PricesAndNotifiesHost(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")

	if b.Status != models.BookingPending || b.PaymentStatus != models.PaymentPending {
		t.Errorf("Expected pending/pending, got %s/%s", b.Status, b.PaymentStatus)
	}
	if b.Nights != 3 || b.TotalPrice != 320 {
		t.Errorf("Expected 3 nights for 320, got %d for %v", b.Nights, b.TotalPrice)
	}
	if b.HostID != host.ID {
		t.Errorf("Expected host %s, got %s", host.ID, b.HostID)
	}
	if len(f.notifier.emails) != 1 || f.notifier.emails[0].ToEmail != "hugo@example.com" {
		t.Errorf("Expected one email to the host, got %+v", f.notifier.emails)
	}
}

func TestCreateBooking_OverlapConflicts(t *testing.T) {
	f := newFixture(t)
	f.book(t, "2031-06-01", "2031-06-04")

	_, err := f.svc.CreateBooking(context.Background(), guest, models.BookingRequest{
		PropertyID: "p1", CheckIn: "2031-06-03", CheckOut: "2031-06-06", Guests: 1,
	})
	if utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409, got %v", err)
	}

	// Checking in on the previous checkout day is fine.
	f.book(t, "2031-06-04", "2031-06-06")
}

func TestCreateBooking_CancelledStayFreesDates(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")
	if _, err := f.svc.CancelBooking(context.Background(), guest, b.ID, "plans changed"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.book(t, "2031-06-01", "2031-06-04")
}

func TestCreateBooking_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.props.Create(ctx, &models.Property{ID: "p2", HostID: host.ID, Price: 50, PriceUnit: models.PriceUnitNight, MaxGuests: 2, IsAvailable: true})

	tests := []struct {
		name   string
		actor  models.Actor
		req    models.BookingRequest
		status int
	}{
		{"own property", host, models.BookingRequest{PropertyID: "p1", CheckIn: "2031-06-01", CheckOut: "2031-06-02", Guests: 1}, http.StatusBadRequest},
		{"too many guests", guest, models.BookingRequest{PropertyID: "p1", CheckIn: "2031-06-01", CheckOut: "2031-06-02", Guests: 5}, http.StatusBadRequest},
		{"checkOut before checkIn", guest, models.BookingRequest{PropertyID: "p1", CheckIn: "2031-06-02", CheckOut: "2031-06-01", Guests: 1}, http.StatusBadRequest},
		{"in the past", guest, models.BookingRequest{PropertyID: "p1", CheckIn: "2001-06-01", CheckOut: "2001-06-02", Guests: 1}, http.StatusBadRequest},
		{"unapproved property", guest, models.BookingRequest{PropertyID: "p2", CheckIn: "2031-06-01", CheckOut: "2031-06-02", Guests: 1}, http.StatusNotFound},
		{"unknown property", guest, models.BookingRequest{PropertyID: "nope", CheckIn: "2031-06-01", CheckOut: "2031-06-02", Guests: 1}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBooking(ctx, tt.actor, tt.req)
			if got := utils.StatusOf(err); got != tt.status {
				t.Errorf("Expected %d, got %d (%v)", tt.status, got, err)
			}
		})
	}
}

func TestGetBooking_Visibility(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()

	for _, a := range []models.Actor{guest, host, admin} {
		if _, err := f.svc.GetBooking(ctx, a, b.ID); err != nil {
			t.Errorf("Expected %s to see the booking, got %v", a.ID, err)
		}
	}
	if _, err := f.svc.GetBooking(ctx, stranger, b.ID); utils.StatusOf(err) != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", err)
	}
}

func TestListBookings_UnknownStatus(t *testing.T) {
	f := newFixture(t)
	f.book(t, "2031-06-01", "2031-06-04")

	mine, page, err := f.svc.ListGuestBookings(context.Background(), guest.ID, models.BookingPending, 1, 10)
	if err != nil || len(mine) != 1 || page.Total != 1 {
		t.Errorf("Expected one pending booking, got %d (%v)", len(mine), err)
	}
	if _, _, err := f.svc.ListHostBookings(context.Background(), host.ID, "archived", 1, 10); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400, got %v", err)
	}
}

// ============================================
// Lifecycle
// ============================================

func TestConfirmBooking(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()

	if _, err := f.svc.ConfirmBooking(ctx, guest, b.ID); utils.StatusOf(err) != http.StatusForbidden {
		t.Errorf("Expected 403 for the guest, got %v", err)
	}

	confirmed, err := f.svc.ConfirmBooking(ctx, host, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if confirmed.Status != models.BookingConfirmed {
		t.Errorf("Expected confirmed, got %s", confirmed.Status)
	}
	if len(f.notifier.reminders) != 1 || !f.notifier.reminders[0].fireAt.Equal(b.CheckIn.Add(-24*time.Hour)) {
		t.Errorf("Expected a reminder 24h before check-in, got %+v", f.notifier.reminders)
	}

	if _, err := f.svc.ConfirmBooking(ctx, host, b.ID); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 confirming twice, got %v", err)
	}
}

func TestCancelBooking_RefundsPaidBooking(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()
	f.markPaid(t, b.ID)

	if _, err := f.svc.CancelBooking(ctx, stranger, b.ID, ""); utils.StatusOf(err) != http.StatusForbidden {
		t.Errorf("Expected 403 for a stranger, got %v", err)
	}

	cancelled, err := f.svc.CancelBooking(ctx, host, b.ID, "maintenance")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cancelled.Status != models.BookingCancelled || cancelled.PaymentStatus != models.PaymentRefunded {
		t.Errorf("Expected cancelled/refunded, got %s/%s", cancelled.Status, cancelled.PaymentStatus)
	}
	if cancelled.CancelledBy != host.ID || cancelled.CancellationReason != "maintenance" {
		t.Errorf("Expected cancellation by host with reason, got %q %q", cancelled.CancelledBy, cancelled.CancellationReason)
	}
	if len(f.gateway.refunded) != 1 || f.gateway.refunded[0] != "pi_1" {
		t.Errorf("Expected pi_1 refunded, got %v", f.gateway.refunded)
	}

	if _, err := f.svc.CancelBooking(ctx, guest, b.ID, ""); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 cancelling twice, got %v", err)
	}
}

func TestCancelBooking_FailedRefundIsRetried(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()
	f.markPaid(t, b.ID)
	f.gateway.refundErr = utils.NewBadGateway("refund failed", errors.New("card_declined"))

	cancelled, err := f.svc.CancelBooking(ctx, guest, b.ID, "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cancelled.Status != models.BookingCancelled || cancelled.PaymentStatus != models.PaymentRefundPending {
		t.Errorf("Expected cancelled/refund_pending, got %s/%s", cancelled.Status, cancelled.PaymentStatus)
	}

	if _, err := f.svc.ConfirmPayment(ctx, guest, b.ID); utils.StatusOf(err) != http.StatusBadGateway {
		t.Errorf("Expected 502 while the provider still fails, got %v", err)
	}

	f.gateway.refundErr = nil
	refunded, err := f.svc.ConfirmPayment(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if refunded.PaymentStatus != models.PaymentRefunded {
		t.Errorf("Expected refunded, got %s", refunded.PaymentStatus)
	}
	if len(f.gateway.refunded) != 1 {
		t.Errorf("Expected one refund, got %v", f.gateway.refunded)
	}
}

// lostRaceRepo simulates another request changing the booking status first.
type lostRaceRepo struct {
	*memory.BookingRepo
}

func (lostRaceRepo) Transition(context.Context, string, []string, bson.M) (*models.Booking, error) {
	return nil, database.ErrNotFound
}

func TestCancelBooking_LostRaceDoesNotRefund(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()
	f.markPaid(t, b.ID)
	f.svc.Repo = lostRaceRepo{f.bookings}

	if _, err := f.svc.CancelBooking(ctx, guest, b.ID, ""); utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409, got %v", err)
	}
	if len(f.gateway.refunded) != 0 {
		t.Errorf("Expected no refund, got %v", f.gateway.refunded)
	}
	stored, _ := f.bookings.GetByID(ctx, b.ID)
	if stored.Status != models.BookingConfirmed || stored.PaymentStatus != models.PaymentPaid {
		t.Errorf("Expected confirmed/paid, got %s/%s", stored.Status, stored.PaymentStatus)
	}
}

func TestCompleteBooking(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()

	if _, err := f.svc.CompleteBooking(ctx, host, b.ID); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 before checkout, got %v", err)
	}

	freezeClock(t, "2031-06-05")
	if _, err := f.svc.CompleteBooking(ctx, guest, b.ID); utils.StatusOf(err) != http.StatusForbidden {
		t.Errorf("Expected 403 for the guest, got %v", err)
	}
	done, err := f.svc.CompleteBooking(ctx, host, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if done.Status != models.BookingCompleted {
		t.Errorf("Expected completed, got %s", done.Status)
	}
}

func TestCompleteEndedBookings(t *testing.T) {
	f := newFixture(t)
	ended := f.confirmed(t, "2031-06-01", "2031-06-04")
	ongoing := f.confirmed(t, "2031-06-04", "2031-06-10")
	pending := f.book(t, "2031-05-01", "2031-05-03")

	freezeClock(t, "2031-06-05")
	n, err := f.svc.CompleteEndedBookings(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("Expected 1 booking completed, got %d (%v)", n, err)
	}

	ctx := context.Background()
	want := map[string]string{
		ended.ID:   models.BookingCompleted,
		ongoing.ID: models.BookingConfirmed,
		pending.ID: models.BookingPending,
	}
	for id, status := range want {
		b, _ := f.bookings.GetByID(ctx, id)
		if b.Status != status {
			t.Errorf("Expected %s to be %s, got %s", id, status, b.Status)
		}
	}
}

func TestCheckInReminder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending := f.book(t, "2031-06-01", "2031-06-04")
	confirmed := f.confirmed(t, "2031-07-01", "2031-07-04")

	if email, err := f.svc.CheckInReminder(ctx, pending.ID); err != nil || email != nil {
		t.Errorf("Expected no reminder for a pending booking, got %+v (%v)", email, err)
	}
	email, err := f.svc.CheckInReminder(ctx, confirmed.ID)
	if err != nil || email == nil {
		t.Fatalf("Expected a reminder, got %v", err)
	}
	if email.ToEmail != "gina@example.com" {
		t.Errorf("Expected the guest as recipient, got %s", email.ToEmail)
	}
	if _, err := f.svc.CheckInReminder(ctx, "missing"); utils.StatusOf(err) != http.StatusNotFound {
		t.Errorf("Expected 404, got %v", err)
	}
}

// ============================================
// Payments
// ============================================

func TestCreatePaymentIntent(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()

	if _, err := f.svc.CreatePaymentIntent(ctx, host, b.ID); utils.StatusOf(err) != http.StatusForbidden {
		t.Errorf("Expected 403 for the host, got %v", err)
	}

	resp, err := f.svc.CreatePaymentIntent(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.PaymentIntentID != "pi_"+b.ID+"_1" || resp.ClientSecret == "" {
		t.Errorf("Expected intent details, got %+v", resp)
	}
	if len(f.gateway.created) != 1 || f.gateway.created[0] != 32000 {
		t.Errorf("Expected 32000 minor units charged, got %v", f.gateway.created)
	}
	stored, _ := f.bookings.GetByID(ctx, b.ID)
	if stored.PaymentIntentID != resp.PaymentIntentID {
		t.Errorf("Expected the intent recorded, got %q", stored.PaymentIntentID)
	}
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()

	if _, err := f.svc.ConfirmPayment(ctx, guest, b.ID); utils.StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 before an intent exists, got %v", err)
	}
	if _, err := f.svc.CreatePaymentIntent(ctx, guest, b.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f.gateway.status = payment.StatusProcessing
	if _, err := f.svc.ConfirmPayment(ctx, guest, b.ID); utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409 while processing, got %v", err)
	}

	f.gateway.status = payment.StatusSucceeded
	paid, err := f.svc.ConfirmPayment(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if paid.PaymentStatus != models.PaymentPaid {
		t.Errorf("Expected paid, got %s", paid.PaymentStatus)
	}

	if _, err := f.svc.CreatePaymentIntent(ctx, guest, b.ID); utils.StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409 paying twice, got %v", err)
	}
}

func TestConfirmPayment_RefundedStaysRefunded(t *testing.T) {
	f := newFixture(t)
	b := f.confirmed(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()
	if _, err := f.svc.CreatePaymentIntent(ctx, guest, b.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.gateway.status = payment.StatusSucceeded
	if _, err := f.svc.ConfirmPayment(ctx, guest, b.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := f.svc.CancelBooking(ctx, guest, b.ID, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A refunded intent still reports succeeded.
	again, err := f.svc.ConfirmPayment(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if again.Status != models.BookingCancelled || again.PaymentStatus != models.PaymentRefunded {
		t.Errorf("Expected cancelled/refunded, got %s/%s", again.Status, again.PaymentStatus)
	}
	if len(f.gateway.refunded) != 1 {
		t.Errorf("Expected exactly one refund, got %v", f.gateway.refunded)
	}

	revenue, _ := f.bookings.RevenueByCurrency(ctx)
	if revenue["USD"] != 0 {
		t.Errorf("Expected no revenue from a refunded booking, got %v", revenue)
	}
}

func TestConfirmPayment_SettledAfterCancelIsRefunded(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()
	resp, err := f.svc.CreatePaymentIntent(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := f.svc.CancelBooking(ctx, guest, b.ID, "plans changed"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	f.gateway.status = payment.StatusSucceeded
	settled, err := f.svc.ConfirmPayment(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if settled.Status != models.BookingCancelled || settled.PaymentStatus != models.PaymentRefunded {
		t.Errorf("Expected cancelled/refunded, got %s/%s", settled.Status, settled.PaymentStatus)
	}
	if len(f.gateway.refunded) != 1 || f.gateway.refunded[0] != resp.PaymentIntentID {
		t.Errorf("Expected %s refunded, got %v", resp.PaymentIntentID, f.gateway.refunded)
	}
}

func TestCreatePaymentIntent_RetryAfterCanceledIntent(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, "2031-06-01", "2031-06-04")
	ctx := context.Background()
	first, err := f.svc.CreatePaymentIntent(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	f.gateway.status = payment.StatusCanceled
	failed, err := f.svc.ConfirmPayment(ctx, guest, b.ID)
	if err != nil || failed.PaymentStatus != models.PaymentFailed {
		t.Fatalf("Expected failed, got %+v (%v)", failed, err)
	}

	second, err := f.svc.CreatePaymentIntent(ctx, guest, b.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if second.PaymentIntentID == first.PaymentIntentID {
		t.Errorf("Expected a fresh intent, got %s twice", first.PaymentIntentID)
	}
	if len(f.gateway.keys) != 2 || f.gateway.keys[0] == f.gateway.keys[1] {
		t.Errorf("Expected distinct idempotency keys, got %v", f.gateway.keys)
	}
	stored, _ := f.bookings.GetByID(ctx, b.ID)
	if stored.PaymentStatus != models.PaymentPending || stored.PaymentIntentID != second.PaymentIntentID {
		t.Errorf("Expected pending with the new intent, got %s %s", stored.PaymentStatus, stored.PaymentIntentID)
	}
}
