package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"havenly/database"
	bookingRepo "havenly/database/repository/booking"
	propertyRepo "havenly/database/repository/property"
	reviewRepo "havenly/database/repository/review"
	"havenly/models"
	"havenly/services/availability"
	"havenly/utils"

	"go.uber.org/zap"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor models.Actor, req models.ReviewRequest) (*models.Review, error)
	// ListPropertyReviews lists visible reviews of a listing the viewer may see.
	ListPropertyReviews(ctx context.Context, viewer *models.Actor, propertyID string, page, limit int) ([]models.Review, models.Pagination, error)
	RespondToReview(ctx context.Context, actor models.Actor, id, comment string) (*models.Review, error)
	ReportReview(ctx context.Context, actor models.Actor, id, reason string) (*models.Review, error)
	DeleteReview(ctx context.Context, actor models.Actor, id string) error

	// Moderation
	ListReportedReviews(ctx context.Context, page, limit int) ([]models.Review, models.Pagination, error)
	SetHidden(ctx context.Context, id string, hidden bool) (*models.Review, error)
	DismissReports(ctx context.Context, id string) (*models.Review, error)
}

type DefaultReviewService struct {
	Repo       reviewRepo.ReviewRepository
	Bookings   bookingRepo.BookingRepository
	Properties propertyRepo.PropertyRepository
}

func notFound(err error, msg string) error {
	if errors.Is(err, database.ErrNotFound) {
		return utils.NewNotFound(msg)
	}
	return utils.NewInternal(msg, err)
}

func (s *DefaultReviewService) load(ctx context.Context, id string) (*models.Review, error) {
	r, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "review not found")
	}
	return r, nil
}

// stayEnded reports whether the booking may be reviewed.
func stayEnded(b *models.Booking, now time.Time) bool {
	if b.Status == models.BookingCompleted {
		return true
	}
	return b.Status == models.BookingConfirmed && !now.Before(b.CheckOut)
}

// CreateReview accepts one review per finished stay, written by its guest.
func (s *DefaultReviewService) CreateReview(ctx context.Context, actor models.Actor, req models.ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, utils.NewBadRequest("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" || len(comment) > 2000 {
		return nil, utils.NewBadRequest("comment must be between 1 and 2000 characters")
	}

	b, err := s.Bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, notFound(err, "booking not found")
	}
	if b.GuestID != actor.ID {
		return nil, utils.NewForbidden("only the guest of this booking can review it")
	}
	if !stayEnded(b, availability.Now()) {
		return nil, utils.NewBadRequest("you can review a stay once it is completed")
	}

	r := &models.Review{
		ID:         utils.NewID(),
		PropertyID: b.PropertyID,
		BookingID:  b.ID,
		ReviewerID: actor.ID,
		Rating:     req.Rating,
		Comment:    comment,
		Reports:    []models.ReviewReport{},
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, utils.NewConflict("this booking has already been reviewed")
		}
		return nil, utils.NewInternal("failed to create review", err)
	}
	s.refreshRating(ctx, r.PropertyID)
	return r, nil
}

// refreshRating recomputes the property's aggregate from visible reviews.
func (s *DefaultReviewService) refreshRating(ctx context.Context, propertyID string) {
	rating, err := s.Repo.RatingSummary(ctx, propertyID)
	if err == nil {
		err = s.Properties.UpdateRating(ctx, propertyID, rating)
	}
	if err != nil {
		utils.GetLogger().Error("Failed to refresh property rating", zap.String("propertyID", propertyID), zap.Error(err))
	}
}

func (s *DefaultReviewService) ListPropertyReviews(ctx context.Context, viewer *models.Actor, propertyID string, page, limit int) ([]models.Review, models.Pagination, error) {
	p, err := s.Properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, models.Pagination{}, notFound(err, "property not found")
	}
	if !p.VisibleTo(viewer) {
		return nil, models.Pagination{}, utils.NewNotFound("property not found")
	}

	page, limit = bounds(page, limit)
	reviews, total, err := s.Repo.ListByProperty(ctx, propertyID, false, page, limit)
	if err != nil {
		return nil, models.Pagination{}, utils.NewInternal("failed to list reviews", err)
	}
	// Reporters are only shown to moderators.
	for i := range reviews {
		reviews[i].Reports = nil
	}
	return reviews, models.NewPagination(page, limit, total), nil
}

func (s *DefaultReviewService) RespondToReview(ctx context.Context, actor models.Actor, id, comment string) (*models.Review, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, utils.NewBadRequest("comment is required")
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.Properties.GetByID(ctx, r.PropertyID)
	if err != nil {
		return nil, notFound(err, "property not found")
	}
	if p.HostID != actor.ID {
		return nil, utils.NewForbidden("only the host can respond to this review")
	}

	updated, err := s.Repo.SetHostResponse(ctx, id, models.HostResponse{Comment: comment, RespondedAt: time.Now().UTC()})
	if err != nil {
		return nil, notFound(err, "review not found")
	}
	return updated, nil
}

// ReportReview flags a review; reporting twice has no further effect.
func (s *DefaultReviewService) ReportReview(ctx context.Context, actor models.Actor, id, reason string) (*models.Review, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < 3 {
		return nil, utils.NewBadRequest("reason must be at least 3 characters")
	}
	r, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.ReviewerID == actor.ID {
		return nil, utils.NewBadRequest("you cannot report your own review")
	}

	updated, err := s.Repo.AddReport(ctx, id, models.ReviewReport{
		UserID:    actor.ID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, notFound(err, "review not found")
	}
	return updated, nil
}

func (s *DefaultReviewService) DeleteReview(ctx context.Context, actor models.Actor, id string) error {
	r, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if r.ReviewerID != actor.ID && !actor.IsAdmin() {
		return utils.NewForbidden("you cannot delete this review")
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, "review not found")
	}
	s.refreshRating(ctx, r.PropertyID)
	return nil
}

func (s *DefaultReviewService) ListReportedReviews(ctx context.Context, page, limit int) ([]models.Review, models.Pagination, error) {
	page, limit = bounds(page, limit)
	reviews, total, err := s.Repo.ListReported(ctx, page, limit)
	if err != nil {
		return nil, models.Pagination{}, utils.NewInternal("failed to list reported reviews", err)
	}
	return reviews, models.NewPagination(page, limit, total), nil
}

// SetHidden hides or restores a review and refreshes the rating.
func (s *DefaultReviewService) SetHidden(ctx context.Context, id string, hidden bool) (*models.Review, error) {
	updated, err := s.Repo.SetHidden(ctx, id, hidden)
	if err != nil {
		return nil, notFound(err, "review not found")
	}
	s.refreshRating(ctx, updated.PropertyID)
	return updated, nil
}

func (s *DefaultReviewService) DismissReports(ctx context.Context, id string) (*models.Review, error) {
	updated, err := s.Repo.ClearReports(ctx, id)
	if err != nil {
		return nil, notFound(err, "review not found")
	}
	return updated, nil
}

func bounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}
