package property

import (
	"context"
	"errors"
	"strings"

	"havenly/database"
	"havenly/models"
	"havenly/utils"

	"go.uber.org/zap"
)

const (
	maxImagesPerProperty = 20
	maxImageSize         = 10 << 20
	maxBlockRangeDays    = 366
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (s *DefaultPropertyService) load(ctx context.Context, id string) (*models.Property, error) {
	p, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewNotFound("property not found")
		}
		return nil, utils.NewInternal("failed to load property", err)
	}
	return p, nil
}

// loadVisible loads a property, hiding unapproved listings from everyone but
// their host and admins.
func (s *DefaultPropertyService) loadVisible(ctx context.Context, viewer *models.Actor, id string) (*models.Property, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.VisibleTo(viewer) {
		return nil, utils.NewNotFound("property not found")
	}
	return p, nil
}

// loadOwned loads a property the actor may modify.
func (s *DefaultPropertyService) loadOwned(ctx context.Context, actor models.Actor, id string) (*models.Property, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.HostID != actor.ID && !actor.IsAdmin() {
		return nil, utils.NewForbidden("you do not own this property")
	}
	return p, nil
}

func (s *DefaultPropertyService) publish(ctx context.Context, action string, p *models.Property) {
	if err := s.Events.PublishProperty(ctx, action, p); err != nil {
		utils.GetLogger().Warn("Failed to publish property event",
			zap.String("action", action),
			zap.String("propertyID", p.ID),
			zap.Error(err),
		)
	}
}

func isPropertyType(t string) bool {
	for _, known := range models.PropertyTypes {
		if t == known {
			return true
		}
	}
	return false
}

func cleanAmenities(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// applyInput copies the present fields of in onto p.
func applyInput(p *models.Property, in models.PropertyInput) {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Type != nil {
		p.Type = *in.Type
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.PriceUnit != nil {
		p.PriceUnit = *in.PriceUnit
	}
	if in.Currency != nil {
		p.Currency = utils.NormalizeCurrency(*in.Currency)
	}
	if in.CleaningFee != nil {
		p.CleaningFee = *in.CleaningFee
	}
	if in.ServiceFee != nil {
		p.ServiceFee = *in.ServiceFee
	}
	if in.MaxGuests != nil {
		p.MaxGuests = *in.MaxGuests
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.Amenities != nil {
		p.Amenities = cleanAmenities(in.Amenities)
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
}

// validate checks the fields every stored property must carry.
func validate(p *models.Property) error {
	switch {
	case len(p.Title) < 3:
		return utils.NewBadRequest("title must be at least 3 characters")
	case p.Description == "":
		return utils.NewBadRequest("description is required")
	case !isPropertyType(p.Type):
		return utils.NewBadRequest("type must be one of " + strings.Join(models.PropertyTypes, ", "))
	case p.Price <= 0:
		return utils.NewBadRequest("price must be greater than zero")
	case p.PriceUnit != models.PriceUnitNight && p.PriceUnit != models.PriceUnitWeek && p.PriceUnit != models.PriceUnitMonth:
		return utils.NewBadRequest("priceUnit must be night, week or month")
	case p.CleaningFee < 0 || p.ServiceFee < 0:
		return utils.NewBadRequest("fees cannot be negative")
	case p.MaxGuests < 1:
		return utils.NewBadRequest("maxGuests must be at least 1")
	case strings.TrimSpace(p.Address.City) == "" || strings.TrimSpace(p.Address.Country) == "":
		return utils.NewBadRequest("address city and country are required")
	case !p.Location.IsValid():
		return utils.NewBadRequest("location must be a GeoJSON Point with [longitude, latitude]")
	}
	return nil
}
