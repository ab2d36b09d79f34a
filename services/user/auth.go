package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"havenly/database"
	"havenly/models"
	"havenly/services/notification"
	"havenly/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Register creates a user or host account and signs it in.
func (s *DefaultUserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleHost {
		return nil, utils.NewBadRequest("role must be user or host")
	}
	if err := VerifyPasswordComplexity(req.Password); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, utils.NewInternal("registration failed, please try again", err)
	}
	if existing != nil {
		return nil, utils.NewConflict("a user with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternal("registration failed, please try again", err)
	}

	newUser := &models.User{
		ID:           utils.NewID(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        strings.TrimSpace(req.Phone),
		Favorites:    []string{},
		Active:       true,
	}
	if err := s.Repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.NewConflict("a user with this email already exists")
		}
		return nil, utils.NewInternal("registration failed, please try again", err)
	}

	if err := s.Notifier.SendEmail(ctx, notification.WelcomeEmail(newUser)); err != nil {
		utils.GetLogger().Warn("Register: welcome email not queued", zap.String("userID", newUser.ID), zap.Error(err))
	}
	utils.GetLogger().Info("User registered", zap.String("userID", newUser.ID), zap.String("role", role))

	return s.issueToken(newUser)
}

// Login verifies credentials and issues a token.
func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	userRec, err := s.Repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, utils.NewUnauthorized("invalid email or password")
		}
		return nil, utils.NewInternal("authentication failed, please try again", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userRec.PasswordHash), []byte(req.Password)); err != nil {
		return nil, utils.NewUnauthorized("invalid email or password")
	}
	if !userRec.Active {
		return nil, utils.NewForbidden("this account has been deactivated")
	}
	return s.issueToken(userRec)
}

// Logout puts the token on the deny-list until it would have expired.
func (s *DefaultUserService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.Tokens.Revoke(ctx, utils.HashToken(token), ttl); err != nil {
		return utils.NewInternal("failed to sign out", err)
	}
	return nil
}

func (s *DefaultUserService) issueToken(u *models.User) (*models.AuthResponse, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, u.Role, s.TokenTTL)
	if err != nil {
		return nil, utils.NewInternal("authentication failed, please try again", err)
	}
	return &models.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.TokenTTL).UTC(),
		User:      u,
	}, nil
}
