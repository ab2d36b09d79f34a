package reviewRepo

import (
	"context"
	"fmt"
	"math"
	"time"

	"havenly/database"
	"havenly/models"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) ReviewRepository {
	repo := &MongoReviewRepo{coll: db.Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create review indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "propertyId", Value: 1}, {Key: "isHidden", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "reports.0", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

var reportedFilter = bson.M{"reports.0": bson.M{"$exists": true}}

func (r *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	review.CreatedAt = now
	review.UpdatedAt = now
	if review.Reports == nil {
		review.Reports = []models.ReviewReport{}
	}
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		return fmt.Errorf("failed to create review: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		return nil, fmt.Errorf("failed to fetch review %s: %w", id, database.Translate(err))
	}
	return &review, nil
}

func (r *MongoReviewRepo) find(ctx context.Context, filter bson.M, page, limit int) ([]models.Review, int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	skip, lim := database.Paging(page, limit, 50)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(skip).SetLimit(lim)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, total, nil
}

func (r *MongoReviewRepo) ListByProperty(ctx context.Context, propertyID string, includeHidden bool, page, limit int) ([]models.Review, int64, error) {
	filter := bson.M{"propertyId": propertyID}
	if !includeHidden {
		filter["isHidden"] = false
	}
	return r.find(ctx, filter, page, limit)
}

func (r *MongoReviewRepo) ListReported(ctx context.Context, page, limit int) ([]models.Review, int64, error) {
	return r.find(ctx, reportedFilter, page, limit)
}

func (r *MongoReviewRepo) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.Review, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var review models.Review
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", database.Translate(err))
	}
	return &review, nil
}

func (r *MongoReviewRepo) SetHostResponse(ctx context.Context, id string, response models.HostResponse) (*models.Review, error) {
	return r.findAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"hostResponse": response,
		"updatedAt":    time.Now().UTC(),
	}})
}

func (r *MongoReviewRepo) AddReport(ctx context.Context, id string, report models.ReviewReport) (*models.Review, error) {
	filter := bson.M{"id": id, "reports.userId": bson.M{"$ne": report.UserID}}
	review, err := r.findAndUpdate(ctx, filter, bson.M{"$push": bson.M{"reports": report}})
	if err == nil {
		return review, nil
	}
	// Already reported by this user, or missing; GetByID tells them apart.
	return r.GetByID(ctx, id)
}

func (r *MongoReviewRepo) ClearReports(ctx context.Context, id string) (*models.Review, error) {
	return r.findAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"reports":   []models.ReviewReport{},
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *MongoReviewRepo) SetHidden(ctx context.Context, id string, hidden bool) (*models.Review, error) {
	return r.findAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"isHidden":  hidden,
		"updatedAt": time.Now().UTC(),
	}})
}

func (r *MongoReviewRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("review %s: %w", id, database.ErrNotFound)
	}
	return nil
}

func (r *MongoReviewRepo) DeleteByProperty(ctx context.Context, propertyID string) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"propertyId": propertyID}); err != nil {
		return fmt.Errorf("failed to delete reviews of %s: %w", propertyID, err)
	}
	return nil
}

func (r *MongoReviewRepo) RatingSummary(ctx context.Context, propertyID string) (models.Rating, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "propertyId", Value: propertyID}, {Key: "isHidden", Value: false}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Rating{}, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.Rating{}, fmt.Errorf("failed to decode ratings: %w", err)
	}
	if len(rows) == 0 {
		return models.Rating{}, nil
	}
	return models.Rating{Average: math.Round(rows[0].Average*10) / 10, Count: rows[0].Count}, nil
}

func (r *MongoReviewRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *MongoReviewRepo) CountReported(ctx context.Context) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.coll.CountDocuments(ctx, reportedFilter)
}
