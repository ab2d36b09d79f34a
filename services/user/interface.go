package user

import (
	"context"
	"time"

	propertyRepo "havenly/database/repository/property"
	userRepo "havenly/database/repository/user"
	"havenly/models"
	"havenly/services/notification"
	"havenly/utils"
)

type UserService interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error

	// Profile
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error

	// Favorites
	AddFavorite(ctx context.Context, actor models.Actor, propertyID string) ([]string, error)
	RemoveFavorite(ctx context.Context, userID, propertyID string) ([]string, error)
	ListFavorites(ctx context.Context, actor models.Actor) ([]models.Property, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo       userRepo.UserRepository
	Properties propertyRepo.PropertyRepository
	Tokens     utils.TokenStore
	Notifier   notification.NotificationService
	TokenTTL   time.Duration
}

func NewUserService(
	repo userRepo.UserRepository,
	properties propertyRepo.PropertyRepository,
	tokens utils.TokenStore,
	notifier notification.NotificationService,
	tokenTTL time.Duration,
) *DefaultUserService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &DefaultUserService{
		Repo:       repo,
		Properties: properties,
		Tokens:     tokens,
		Notifier:   notifier,
		TokenTTL:   tokenTTL,
	}
}
