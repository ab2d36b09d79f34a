package memory

import (
	"context"
	"sort"
	"time"

	blockedRepo "havenly/database/repository/blocked"
	"havenly/models"
)

type BlockedDateRepo struct {
	s store[models.BlockedDate]
}

func NewBlockedDateRepo() *BlockedDateRepo {
	return &BlockedDateRepo{s: newStore[models.BlockedDate]()}
}

var _ blockedRepo.BlockedDateRepository = (*BlockedDateRepo)(nil)

func (r *BlockedDateRepo) exists(propertyID string, day time.Time) bool {
	for _, d := range r.s.docs {
		if d.PropertyID == propertyID && dayKey(d.Date) == dayKey(day) {
			return true
		}
	}
	return false
}

func (r *BlockedDateRepo) InsertMany(_ context.Context, dates []models.BlockedDate) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inserted := 0
	for i := range dates {
		if r.exists(dates[i].PropertyID, dates[i].Date) {
			continue
		}
		r.s.put(dates[i].ID, clone(&dates[i]))
		inserted++
	}
	return inserted, nil
}

func (r *BlockedDateRepo) DeleteDates(_ context.Context, propertyID string, dates []time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, day := range dates {
		for id, d := range r.s.docs {
			if d.PropertyID == propertyID && d.Date.Equal(day) {
				r.s.remove(id)
				n++
			}
		}
	}
	return n, nil
}

func inRange(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && !d.Before(to) {
		return false
	}
	return true
}

func (r *BlockedDateRepo) ListInRange(_ context.Context, propertyID string, from, to time.Time) ([]models.BlockedDate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.BlockedDate{}
	for _, d := range r.s.docs {
		if d.PropertyID == propertyID && inRange(d.Date, from, to) {
			out = append(out, *clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *BlockedDateRepo) PropertiesBlockedBetween(_ context.Context, from, to time.Time) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	set := map[string]struct{}{}
	for _, d := range r.s.docs {
		if inRange(d.Date, from, to) {
			set[d.PropertyID] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (r *BlockedDateRepo) DeleteByProperty(_ context.Context, propertyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, d := range r.s.docs {
		if d.PropertyID == propertyID {
			r.s.remove(id)
		}
	}
	return nil
}
