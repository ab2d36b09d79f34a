package memory

import (
	"context"
	"math"
	"time"

	"havenly/database"
	reviewRepo "havenly/database/repository/review"
	"havenly/models"
)

type ReviewRepo struct {
	s store[models.Review]
}

func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{s: newStore[models.Review]()}
}

var _ reviewRepo.ReviewRepository = (*ReviewRepo)(nil)

func (r *ReviewRepo) Create(_ context.Context, rv *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.docs {
		if existing.ID == rv.ID || existing.BookingID == rv.BookingID {
			return database.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	rv.CreatedAt, rv.UpdatedAt = now, now
	if rv.Reports == nil {
		rv.Reports = []models.ReviewReport{}
	}
	r.s.put(rv.ID, clone(rv))
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rv, ok := r.s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return clone(rv), nil
}

func (r *ReviewRepo) list(keep func(*models.Review) bool, p, limit int) ([]models.Review, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := []models.Review{}
	r.s.each(func(rv *models.Review) {
		if keep(rv) {
			matched = append(matched, *clone(rv))
		}
	})
	return page(matched, p, limit), int64(len(matched)), nil
}

func (r *ReviewRepo) ListByProperty(_ context.Context, propertyID string, includeHidden bool, p, limit int) ([]models.Review, int64, error) {
	return r.list(func(rv *models.Review) bool {
		return rv.PropertyID == propertyID && (includeHidden || !rv.IsHidden)
	}, p, limit)
}

func (r *ReviewRepo) ListReported(_ context.Context, p, limit int) ([]models.Review, int64, error) {
	return r.list(func(rv *models.Review) bool { return len(rv.Reports) > 0 }, p, limit)
}

func (r *ReviewRepo) mutate(id string, fn func(*models.Review)) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	fn(rv)
	rv.UpdatedAt = time.Now().UTC()
	return clone(rv), nil
}

func (r *ReviewRepo) SetHostResponse(_ context.Context, id string, response models.HostResponse) (*models.Review, error) {
	return r.mutate(id, func(rv *models.Review) { rv.HostResponse = &response })
}

func (r *ReviewRepo) AddReport(_ context.Context, id string, report models.ReviewReport) (*models.Review, error) {
	return r.mutate(id, func(rv *models.Review) {
		for _, existing := range rv.Reports {
			if existing.UserID == report.UserID {
				return
			}
		}
		rv.Reports = append(rv.Reports, report)
	})
}

func (r *ReviewRepo) ClearReports(_ context.Context, id string) (*models.Review, error) {
	return r.mutate(id, func(rv *models.Review) { rv.Reports = []models.ReviewReport{} })
}

func (r *ReviewRepo) SetHidden(_ context.Context, id string, hidden bool) (*models.Review, error) {
	return r.mutate(id, func(rv *models.Review) { rv.IsHidden = hidden })
}

func (r *ReviewRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.remove(id) {
		return database.ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) DeleteByProperty(_ context.Context, propertyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, rv := range r.s.docs {
		if rv.PropertyID == propertyID {
			r.s.remove(id)
		}
	}
	return nil
}

func (r *ReviewRepo) RatingSummary(_ context.Context, propertyID string) (models.Rating, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sum, count := 0, 0
	for _, rv := range r.s.docs {
		if rv.PropertyID == propertyID && !rv.IsHidden {
			sum += rv.Rating
			count++
		}
	}
	if count == 0 {
		return models.Rating{}, nil
	}
	return models.Rating{Average: math.Round(float64(sum)/float64(count)*10) / 10, Count: count}, nil
}

func (r *ReviewRepo) Count(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.docs)), nil
}

func (r *ReviewRepo) CountReported(context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, rv := range r.s.docs {
		if len(rv.Reports) > 0 {
			n++
		}
	}
	return n, nil
}
