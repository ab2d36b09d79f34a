package handlers

import (
	"havenly/middleware"
	"havenly/services/admin"
	"havenly/services/booking"
	"havenly/services/geocoding"
	"havenly/services/property"
	"havenly/services/review"
	"havenly/services/user"
	"havenly/utils"
)

// HandlerBundle groups all route handlers and what the auth middleware needs.
type HandlerBundle struct {
	Auth     *AuthHandler
	Property *PropertyHandler
	Booking  *BookingHandler
	Review   *ReviewHandler
	Admin    *AdminHandler
	Geocode  *GeocodeHandler

	Users       middleware.UserLookup
	Tokens      utils.TokenStore
	AuthLimiter *middleware.RateLimiterStore
	APILimiter  *middleware.RateLimiterStore
}

// Services is everything NewHandlerBundle wires into handlers.
type Services struct {
	Users      user.UserService
	Properties property.PropertyService
	Bookings   booking.BookingService
	Reviews    review.ReviewService
	Admin      admin.AdminService
	Geocoder   geocoding.GeocodingService
}

func NewHandlerBundle(s Services, users middleware.UserLookup, tokens utils.TokenStore, authLimiter, apiLimiter *middleware.RateLimiterStore) *HandlerBundle {
	return &HandlerBundle{
		Auth:     &AuthHandler{UserService: s.Users},
		Property: &PropertyHandler{PropertyService: s.Properties, ReviewService: s.Reviews},
		Booking:  &BookingHandler{BookingService: s.Bookings},
		Review:   &ReviewHandler{ReviewService: s.Reviews},
		Admin:    &AdminHandler{AdminService: s.Admin, BookingService: s.Bookings, ReviewService: s.Reviews},
		Geocode:  &GeocodeHandler{Geocoder: s.Geocoder},

		Users:       users,
		Tokens:      tokens,
		AuthLimiter: authLimiter,
		APILimiter:  apiLimiter,
	}
}
