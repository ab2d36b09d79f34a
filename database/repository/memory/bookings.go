package memory

import (
	"context"
	"time"

	"havenly/database"
	bookingRepo "havenly/database/repository/booking"
	"havenly/models"

	"go.mongodb.org/mongo-driver/bson"
)

type BookingRepo struct {
	s store[models.Booking]
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{s: newStore[models.Booking]()}
}

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)

func (r *BookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[b.ID]; ok {
		return database.ErrDuplicate
	}
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now
	r.s.put(b.ID, clone(b))
	return nil
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return clone(b), nil
}

func (r *BookingRepo) List(_ context.Context, f bookingRepo.BookingFilter) ([]models.Booking, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := []models.Booking{}
	r.s.each(func(b *models.Booking) {
		switch {
		case f.GuestID != "" && b.GuestID != f.GuestID,
			f.HostID != "" && b.HostID != f.HostID,
			f.PropertyID != "" && b.PropertyID != f.PropertyID,
			f.Status != "" && b.Status != f.Status:
			return
		}
		matched = append(matched, *clone(b))
	})
	return page(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func overlaps(b *models.Booking, checkIn, checkOut time.Time) bool {
	return b.IsActive() && b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

func (r *BookingRepo) FindOverlapping(_ context.Context, propertyID string, checkIn, checkOut time.Time) ([]models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Booking
	for _, id := range r.s.order {
		b := r.s.docs[id]
		if b.PropertyID == propertyID && overlaps(b, checkIn, checkOut) {
			out = append(out, *clone(b))
		}
	}
	return out, nil
}

func (r *BookingRepo) PropertiesBookedBetween(_ context.Context, checkIn, checkOut time.Time) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := map[string]struct{}{}
	for _, b := range r.s.docs {
		if overlaps(b, checkIn, checkOut) {
			set[b.PropertyID] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (r *BookingRepo) Transition(_ context.Context, id string, from []string, set bson.M) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.docs[id]
	if !ok || !contains(from, b.Status) {
		return nil, database.ErrNotFound
	}
	if err := applySet(b, set); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now().UTC()
	return clone(b), nil
}

func (r *BookingRepo) UpdatePayment(_ context.Context, id string, statuses, paymentStatuses []string, set bson.M) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.docs[id]
	if !ok ||
		(len(statuses) > 0 && !contains(statuses, b.Status)) ||
		(len(paymentStatuses) > 0 && !contains(paymentStatuses, b.PaymentStatus)) {
		return nil, database.ErrNotFound
	}
	if err := applySet(b, set); err != nil {
		return nil, err
	}
	b.UpdatedAt = time.Now().UTC()
	return clone(b), nil
}

func (r *BookingRepo) CountActiveAfter(_ context.Context, propertyID string, t time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, b := range r.s.docs {
		if b.PropertyID == propertyID && b.IsActive() && b.CheckOut.After(t) {
			n++
		}
	}
	return n, nil
}

func (r *BookingRepo) CompleteEnded(_ context.Context, t time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.docs {
		if b.Status == models.BookingConfirmed && !b.CheckOut.After(t) {
			b.Status = models.BookingCompleted
			b.UpdatedAt = time.Now().UTC()
			n++
		}
	}
	return n, nil
}

func (r *BookingRepo) Count(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.docs)), nil
}

func (r *BookingRepo) CountByStatus(context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int64{}
	for _, b := range r.s.docs {
		out[b.Status]++
	}
	return out, nil
}

func (r *BookingRepo) RevenueByCurrency(context.Context) (map[string]float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]float64{}
	for _, b := range r.s.docs {
		if b.PaymentStatus == models.PaymentPaid {
			out[b.Currency] += b.TotalPrice
		}
	}
	return out, nil
}
