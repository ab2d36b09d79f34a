package property

import (
	"context"
	"time"

	"havenly/models"
	"havenly/services/events"
	"havenly/utils"

	"go.uber.org/zap"
)

func (s *DefaultPropertyService) CreateProperty(ctx context.Context, actor models.Actor, input models.PropertyInput) (*models.Property, error) {
	p := &models.Property{
		ID:          utils.NewID(),
		PriceUnit:   models.PriceUnitNight,
		Currency:    "USD",
		Amenities:   []string{},
		Images:      []models.Image{},
		HostID:      actor.ID,
		IsAvailable: true,
		// Listings by hosts wait for moderation.
		IsApproved: actor.IsAdmin(),
	}
	applyInput(p, input)

	if input.Location == nil {
		if err := s.locate(ctx, p); err != nil {
			return nil, err
		}
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, utils.NewInternal("failed to create property", err)
	}
	utils.GetLogger().Info("Property created",
		zap.String("propertyID", p.ID),
		zap.String("hostID", p.HostID),
		zap.Bool("approved", p.IsApproved),
	)
	s.publish(ctx, events.PropertyCreated, p)
	return p, nil
}

// locate fills p.Location from its address.
func (s *DefaultPropertyService) locate(ctx context.Context, p *models.Property) error {
	address := p.Address.OneLine()
	if address == "" {
		return utils.NewBadRequest("address is required")
	}
	point, err := s.Geocoder.Locate(ctx, address)
	if err != nil {
		return err
	}
	if point == nil {
		return utils.NewBadRequest("could not locate the address; provide a location")
	}
	p.Location = *point
	return nil
}

func (s *DefaultPropertyService) UpdateProperty(ctx context.Context, actor models.Actor, id string, input models.PropertyInput) (*models.Property, error) {
	p, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	previousAddress := p.Address
	applyInput(p, input)

	// A moved address without coordinates is geocoded again; on failure
	// the previous location is kept.
	if input.Address != nil && input.Location == nil && previousAddress != p.Address {
		if err := s.locate(ctx, p); err != nil {
			utils.GetLogger().Warn("UpdateProperty: keeping previous location", zap.String("propertyID", id), zap.Error(err))
		}
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		return nil, utils.NewInternal("failed to update property", err)
	}
	s.publish(ctx, events.PropertyUpdated, p)
	return p, nil
}

// DeleteProperty refuses while active bookings still end in the future.
func (s *DefaultPropertyService) DeleteProperty(ctx context.Context, actor models.Actor, id string) error {
	p, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}

	active, err := s.Availability.Bookings.CountActiveAfter(ctx, id, time.Now().UTC())
	if err != nil {
		return utils.NewInternal("failed to delete property", err)
	}
	if active > 0 {
		return utils.NewConflict("the property has upcoming bookings; cancel them first")
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return utils.NewInternal("failed to delete property", err)
	}

	log := utils.GetLogger().With(zap.String("propertyID", id))
	if err := s.Blocked.DeleteByProperty(ctx, id); err != nil {
		log.Warn("DeleteProperty: blocked dates not removed", zap.Error(err))
	}
	if err := s.Reviews.DeleteByProperty(ctx, id); err != nil {
		log.Warn("DeleteProperty: reviews not removed", zap.Error(err))
	}
	if err := s.Users.RemoveFavoriteEverywhere(ctx, id); err != nil {
		log.Warn("DeleteProperty: favorites not removed", zap.Error(err))
	}
	for _, img := range p.Images {
		if err := s.Storage.Delete(ctx, img.PublicID); err != nil {
			log.Warn("DeleteProperty: image not removed", zap.String("publicID", img.PublicID), zap.Error(err))
		}
	}

	log.Info("Property deleted", zap.String("by", actor.ID))
	s.publish(ctx, events.PropertyDeleted, p)
	return nil
}

func (s *DefaultPropertyService) GetProperty(ctx context.Context, viewer *models.Actor, id string) (*models.Property, error) {
	return s.loadVisible(ctx, viewer, id)
}

// SearchProperties only ever returns approved, available listings.
func (s *DefaultPropertyService) SearchProperties(ctx context.Context, filter models.PropertyFilter) ([]models.Property, models.Pagination, error) {
	filter.OnlyPublic = true
	filter.Page, filter.Limit = pageBounds(filter.Page, filter.Limit, 50)

	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MinPrice > filter.MaxPrice {
		return nil, models.Pagination{}, utils.NewBadRequest("minPrice cannot exceed maxPrice")
	}
	if filter.Near != nil {
		if !filter.Near.IsValid() {
			return nil, models.Pagination{}, utils.NewBadRequest("invalid coordinates")
		}
		if filter.RadiusKm <= 0 {
			filter.RadiusKm = 25
		}
	}
	if (filter.CheckIn == nil) != (filter.CheckOut == nil) {
		return nil, models.Pagination{}, utils.NewBadRequest("checkIn and checkOut must be given together")
	}
	if filter.CheckIn != nil {
		if !filter.CheckIn.Before(*filter.CheckOut) {
			return nil, models.Pagination{}, utils.NewBadRequest("checkOut must be after checkIn")
		}
		ids, err := s.Availability.UnavailablePropertyIDs(ctx, *filter.CheckIn, *filter.CheckOut)
		if err != nil {
			return nil, models.Pagination{}, err
		}
		filter.ExcludeIDs = ids
	}

	properties, total, err := s.Repo.Search(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, utils.NewInternal("failed to search properties", err)
	}
	return properties, models.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *DefaultPropertyService) ListHostProperties(ctx context.Context, hostID string, page, limit int) ([]models.Property, models.Pagination, error) {
	page, limit = pageBounds(page, limit, 50)
	properties, total, err := s.Repo.Search(ctx, models.PropertyFilter{HostID: hostID, Page: page, Limit: limit})
	if err != nil {
		return nil, models.Pagination{}, utils.NewInternal("failed to list properties", err)
	}
	return properties, models.NewPagination(page, limit, total), nil
}

func pageBounds(page, limit, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > max {
		limit = max
	}
	return page, limit
}
