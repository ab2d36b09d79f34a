package user

import (
	"context"
	"strings"

	"havenly/models"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return u, nil
}

// UpdateProfile applies only the fields present in req.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, req models.UserUpdateRequest) (*models.User, error) {
	updateDoc := bson.M{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 2 {
			return nil, utils.NewBadRequest("name must be at least 2 characters")
		}
		updateDoc["name"] = name
	}
	if req.Phone != nil {
		updateDoc["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Avatar != nil {
		updateDoc["avatar"] = strings.TrimSpace(*req.Avatar)
	}
	if len(updateDoc) == 0 {
		return nil, utils.NewBadRequest("no fields to update")
	}

	if err := s.Repo.UpdateSetDocument(ctx, userID, updateDoc); err != nil {
		return nil, notFound(err, "user not found")
	}
	return s.GetUserByID(ctx, userID)
}

func (s *DefaultUserService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return utils.NewUnauthorized("current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return utils.NewBadRequest("new password must differ from the current one")
	}
	if err := VerifyPasswordComplexity(req.NewPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewInternal("failed to update password", err)
	}
	if err := s.Repo.UpdateSetDocument(ctx, userID, bson.M{"passwordHash": string(hash)}); err != nil {
		return notFound(err, "user not found")
	}
	return nil
}
