package memory

import (
	"context"
	"strings"
	"time"

	"havenly/database"
	userRepo "havenly/database/repository/user"
	"havenly/models"

	"go.mongodb.org/mongo-driver/bson"
)

type UserRepo struct {
	s store[models.User]
}

func NewUserRepo() *UserRepo {
	return &UserRepo{s: newStore[models.User]()}
}

var _ userRepo.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.docs {
		if existing.ID == u.ID || existing.Email == u.Email {
			return database.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Favorites == nil {
		u.Favorites = []string{}
	}
	r.s.put(u.ID, clone(u))
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.docs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return clone(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.docs {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *UserRepo) UpdateSetDocument(_ context.Context, id string, set bson.M) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.docs[id]
	if !ok {
		return database.ErrNotFound
	}
	if err := applySet(u, set); err != nil {
		return err
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *UserRepo) AddFavorite(_ context.Context, userID, propertyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.docs[userID]
	if !ok {
		return database.ErrNotFound
	}
	if !contains(u.Favorites, propertyID) {
		u.Favorites = append(u.Favorites, propertyID)
	}
	return nil
}

func (r *UserRepo) RemoveFavorite(_ context.Context, userID, propertyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.docs[userID]
	if !ok {
		return database.ErrNotFound
	}
	u.Favorites = without(u.Favorites, propertyID)
	return nil
}

func (r *UserRepo) RemoveFavoriteEverywhere(_ context.Context, propertyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.docs {
		u.Favorites = without(u.Favorites, propertyID)
	}
	return nil
}

func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func (r *UserRepo) List(_ context.Context, c userRepo.UserSearchCriteria) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []models.User
	r.s.each(func(u *models.User) {
		if c.Role != "" && u.Role != c.Role {
			return
		}
		if c.Email != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(c.Email)) {
			return
		}
		matched = append(matched, *clone(u))
	})
	return page(matched, c.Page, c.Limit), int64(len(matched)), nil
}

func (r *UserRepo) Count(_ context.Context, role string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, u := range r.s.docs {
		if role == "" || u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.remove(id) {
		return database.ErrNotFound
	}
	return nil
}
