package user

import (
	"context"

	"havenly/models"
	"havenly/utils"
)

// AddFavorite stores the property once; repeated adds are no-ops. Listings
// the actor cannot see are reported as missing.
func (s *DefaultUserService) AddFavorite(ctx context.Context, actor models.Actor, propertyID string) ([]string, error) {
	p, err := s.Properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, notFound(err, "property not found")
	}
	if !p.VisibleTo(&actor) {
		return nil, utils.NewNotFound("property not found")
	}
	if err := s.Repo.AddFavorite(ctx, actor.ID, propertyID); err != nil {
		return nil, notFound(err, "user not found")
	}
	return s.favoriteIDs(ctx, actor.ID)
}

// RemoveFavorite is idempotent; removing an unknown id succeeds.
func (s *DefaultUserService) RemoveFavorite(ctx context.Context, userID, propertyID string) ([]string, error) {
	if err := s.Repo.RemoveFavorite(ctx, userID, propertyID); err != nil {
		return nil, notFound(err, "user not found")
	}
	return s.favoriteIDs(ctx, userID)
}

// ListFavorites resolves favorites to properties, dropping any that were
// deleted or are no longer visible to the actor.
func (s *DefaultUserService) ListFavorites(ctx context.Context, actor models.Actor) ([]models.Property, error) {
	ids, err := s.favoriteIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	properties, err := s.Properties.GetByIDs(ctx, ids)
	if err != nil {
		return nil, utils.NewInternal("failed to load favorites", err)
	}

	// Keep the order in which they were favorited.
	byID := make(map[string]models.Property, len(properties))
	for _, p := range properties {
		byID[p.ID] = p
	}
	out := make([]models.Property, 0, len(properties))
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.VisibleTo(&actor) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *DefaultUserService) favoriteIDs(ctx context.Context, userID string) ([]string, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	if u.Favorites == nil {
		return []string{}, nil
	}
	return u.Favorites, nil
}
