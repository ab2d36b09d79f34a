package admin

import (
	"context"
	"errors"

	"havenly/database"
	bookingRepo "havenly/database/repository/booking"
	propertyRepo "havenly/database/repository/property"
	reviewRepo "havenly/database/repository/review"
	userRepo "havenly/database/repository/user"
	"havenly/models"
	"havenly/services/events"
	"havenly/services/notification"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type AdminService interface {
	ListUsers(ctx context.Context, role, email string, page, limit int) ([]models.User, models.Pagination, error)
	UpdateUserRole(ctx context.Context, actor models.Actor, userID, role string) (*models.User, error)
	SetUserActive(ctx context.Context, actor models.Actor, userID string, active bool) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Actor, userID string) error

	ListPendingProperties(ctx context.Context, page, limit int) ([]models.Property, models.Pagination, error)
	ApproveProperty(ctx context.Context, id string) (*models.Property, error)
	RejectProperty(ctx context.Context, id, reason string) (*models.Property, error)

	Stats(ctx context.Context) (*models.AdminStats, error)

	GetLegalSections() []models.LegalSection
	GetLegalSectionsFor(role string) []models.LegalSection
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	Users      userRepo.UserRepository
	Properties propertyRepo.PropertyRepository
	Bookings   bookingRepo.BookingRepository
	Reviews    reviewRepo.ReviewRepository
	Notifier   notification.NotificationService
	Events     events.Publisher
}

func notFound(err error, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return utils.NewNotFound(msg)
	}
	return utils.NewInternal(msg, err)
}

func bounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func (a *DefaultAdminService) ListUsers(ctx context.Context, role, email string, page, limit int) ([]models.User, models.Pagination, error) {
	if role != "" && !models.IsValidRole(role) {
		return nil, models.Pagination{}, utils.NewBadRequest("unknown role " + role)
	}
	page, limit = bounds(page, limit)
	users, total, err := a.Users.List(ctx, userRepo.UserSearchCriteria{Role: role, Email: email, Page: page, Limit: limit})
	if err != nil {
		return nil, models.Pagination{}, utils.NewInternal("failed to list users", err)
	}
	return users, models.NewPagination(page, limit, total), nil
}

func (a *DefaultAdminService) UpdateUserRole(ctx context.Context, actor models.Actor, userID, role string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, utils.NewBadRequest("unknown role " + role)
	}
	if actor.ID == userID {
		return nil, utils.NewBadRequest("you cannot change your own role")
	}
	if err := a.Users.UpdateSetDocument(ctx, userID, bson.M{"role": role}); err != nil {
		return nil, notFound(err, "user not found")
	}
	utils.GetLogger().Info("User role changed", zap.String("userID", userID), zap.String("role", role), zap.String("by", actor.ID))
	return a.user(ctx, userID)
}

func (a *DefaultAdminService) SetUserActive(ctx context.Context, actor models.Actor, userID string, active bool) (*models.User, error) {
	if actor.ID == userID {
		return nil, utils.NewBadRequest("you cannot deactivate yourself")
	}
	if err := a.Users.UpdateSetDocument(ctx, userID, bson.M{"active": active}); err != nil {
		return nil, notFound(err, "user not found")
	}
	return a.user(ctx, userID)
}

func (a *DefaultAdminService) DeleteUser(ctx context.Context, actor models.Actor, userID string) error {
	if actor.ID == userID {
		return utils.NewBadRequest("you cannot delete yourself")
	}
	// A host's listings must be deleted or reassigned first.
	_, owned, err := a.Properties.Search(ctx, models.PropertyFilter{HostID: userID, Page: 1, Limit: 1})
	if err != nil {
		return utils.NewInternal("failed to check the user's listings", err)
	}
	if owned > 0 {
		return utils.NewConflict("the user still owns listings; delete them first")
	}
	if err := a.Users.Delete(ctx, userID); err != nil {
		return notFound(err, "user not found")
	}
	utils.GetLogger().Info("User deleted", zap.String("userID", userID), zap.String("by", actor.ID))
	return nil
}

func (a *DefaultAdminService) user(ctx context.Context, id string) (*models.User, error) {
	u, err := a.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return u, nil
}

func (a *DefaultAdminService) ListPendingProperties(ctx context.Context, page, limit int) ([]models.Property, models.Pagination, error) {
	page, limit = bounds(page, limit)
	approved := false
	properties, total, err := a.Properties.Search(ctx, models.PropertyFilter{Approved: &approved, Page: page, Limit: limit})
	if err != nil {
		return nil, models.Pagination{}, utils.NewInternal("failed to list pending properties", err)
	}
	return properties, models.NewPagination(page, limit, total), nil
}

func (a *DefaultAdminService) ApproveProperty(ctx context.Context, id string) (*models.Property, error) {
	return a.moderate(ctx, id, true, "")
}

func (a *DefaultAdminService) RejectProperty(ctx context.Context, id, reason string) (*models.Property, error) {
	if reason == "" {
		return nil, utils.NewBadRequest("a rejection reason is required")
	}
	return a.moderate(ctx, id, false, reason)
}

func (a *DefaultAdminService) moderate(ctx context.Context, id string, approved bool, reason string) (*models.Property, error) {
	p, err := a.Properties.SetApproval(ctx, id, approved, reason)
	if err != nil {
		return nil, notFound(err, "property not found")
	}

	action := events.PropertyRejected
	if approved {
		action = events.PropertyApproved
	}
	if err := a.Events.PublishProperty(ctx, action, p); err != nil {
		utils.GetLogger().Warn("Failed to publish moderation event", zap.String("propertyID", id), zap.Error(err))
	}
	if host, err := a.Users.GetByID(ctx, p.HostID); err == nil {
		if err := a.Notifier.SendEmail(ctx, notification.PropertyModeratedEmail(host, p)); err != nil {
			utils.GetLogger().Warn("Moderation email not queued", zap.String("propertyID", id), zap.Error(err))
		}
	}
	return p, nil
}

// Stats gathers dashboard counters.
func (a *DefaultAdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	var (
		stats models.AdminStats
		err   error
	)
	pending := false
	steps := []func() error{
		func() error { stats.Users, err = a.Users.Count(ctx, ""); return err },
		func() error { stats.Hosts, err = a.Users.Count(ctx, models.RoleHost); return err },
		func() error { stats.Properties, err = a.Properties.Count(ctx, nil); return err },
		func() error { stats.PendingApprovals, err = a.Properties.Count(ctx, &pending); return err },
		func() error { stats.Bookings, err = a.Bookings.Count(ctx); return err },
		func() error { stats.BookingsByStatus, err = a.Bookings.CountByStatus(ctx); return err },
		func() error { stats.Revenue, err = a.Bookings.RevenueByCurrency(ctx); return err },
		func() error { stats.Reviews, err = a.Reviews.Count(ctx); return err },
		func() error { stats.ReportedReviews, err = a.Reviews.CountReported(ctx); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, utils.NewInternal("failed to compute stats", err)
		}
	}
	return &stats, nil
}
