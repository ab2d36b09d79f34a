package memory

import (
	"context"
	"sort"
	"time"

	"havenly/database"
	propertyRepo "havenly/database/repository/property"
	"havenly/models"
)

// PropertyRepo ignores the geo part of a search filter.
type PropertyRepo struct {
	s store[models.Property]
}

func NewPropertyRepo() *PropertyRepo {
	return &PropertyRepo{s: newStore[models.Property]()}
}

var _ propertyRepo.PropertyRepository = (*PropertyRepo)(nil)

func (r *PropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.docs[p.ID]; ok {
		return database.ErrDuplicate
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.put(p.ID, clone(p))
	return nil
}

func (r *PropertyRepo) GetByID(_ context.Context, id string) (*models.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return clone(p), nil
}

func (r *PropertyRepo) GetByIDs(_ context.Context, ids []string) ([]models.Property, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Property{}
	for _, id := range ids {
		if p, ok := r.s.docs[id]; ok {
			out = append(out, *clone(p))
		}
	}
	return out, nil
}

// Update keeps images, rating, host and creation time, as the Mongo $set does.
func (r *PropertyRepo) Update(_ context.Context, p *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.docs[p.ID]
	if !ok {
		return database.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	next := clone(p)
	next.Images = existing.Images
	next.Rating = existing.Rating
	next.HostID = existing.HostID
	next.CreatedAt = existing.CreatedAt
	r.s.docs[p.ID] = next
	return nil
}

func (r *PropertyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.remove(id) {
		return database.ErrNotFound
	}
	return nil
}

func matches(p *models.Property, f models.PropertyFilter) bool {
	if f.OnlyPublic {
		if !p.IsApproved || !p.IsAvailable {
			return false
		}
	} else if f.Approved != nil && p.IsApproved != *f.Approved {
		return false
	}
	switch {
	case f.HostID != "" && p.HostID != f.HostID,
		f.City != "" && !equalFold(p.Address.City, f.City),
		f.Country != "" && !equalFold(p.Address.Country, f.Country),
		f.Type != "" && p.Type != f.Type,
		f.MinPrice > 0 && p.Price < f.MinPrice,
		f.MaxPrice > 0 && p.Price > f.MaxPrice,
		f.Guests > 0 && p.MaxGuests < f.Guests,
		contains(f.ExcludeIDs, p.ID):
		return false
	}
	for _, a := range f.Amenities {
		if !contains(p.Amenities, a) {
			return false
		}
	}
	return true
}

func (r *PropertyRepo) Search(_ context.Context, f models.PropertyFilter) ([]models.Property, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	matched := []models.Property{}
	r.s.each(func(p *models.Property) {
		if matches(p, f) {
			matched = append(matched, *clone(p))
		}
	})
	switch f.Sort {
	case "price":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case "-price":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price > matched[j].Price })
	case "rating":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rating.Average > matched[j].Rating.Average })
	}
	return page(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (r *PropertyRepo) mutate(id string, fn func(p *models.Property)) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now().UTC()
	return clone(p), nil
}

func (r *PropertyRepo) SetApproval(_ context.Context, id string, approved bool, reason string) (*models.Property, error) {
	return r.mutate(id, func(p *models.Property) {
		p.IsApproved = approved
		p.RejectionReason = reason
	})
}

func (r *PropertyRepo) AddImages(_ context.Context, id string, images []models.Image) (*models.Property, error) {
	return r.mutate(id, func(p *models.Property) { p.Images = append(p.Images, images...) })
}

func (r *PropertyRepo) RemoveImage(_ context.Context, id, publicID string) (*models.Property, error) {
	return r.mutate(id, func(p *models.Property) {
		kept := p.Images[:0]
		for _, img := range p.Images {
			if img.PublicID != publicID {
				kept = append(kept, img)
			}
		}
		p.Images = kept
	})
}

func (r *PropertyRepo) UpdateRating(_ context.Context, id string, rating models.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.docs[id]; ok {
		p.Rating = rating
	}
	return nil
}

func (r *PropertyRepo) Count(_ context.Context, approved *bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, p := range r.s.docs {
		if approved == nil || p.IsApproved == *approved {
			n++
		}
	}
	return n, nil
}
