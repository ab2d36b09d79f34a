package userRepo

import (
	"context"

	"havenly/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by their unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by their email, password hash included.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateSetDocument applies a $set update to the user.
	UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error
	// AddFavorite stores a property id once.
	AddFavorite(ctx context.Context, userID, propertyID string) error
	// RemoveFavorite pulls a property id; removing a missing id is not an error.
	RemoveFavorite(ctx context.Context, userID, propertyID string) error
	// RemoveFavoriteEverywhere drops a deleted property from every user.
	RemoveFavoriteEverywhere(ctx context.Context, propertyID string) error
	// List returns a page of users and the total match count.
	List(ctx context.Context, criteria UserSearchCriteria) ([]models.User, int64, error)
	// Count counts users, optionally by role.
	Count(ctx context.Context, role string) (int64, error)
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
}

// UserSearchCriteria holds parameters for the admin user listing.
type UserSearchCriteria struct {
	Role  string
	Email string // Partial, case-insensitive.
	Page  int
	Limit int
}
