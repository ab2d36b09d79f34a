package blockedRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"havenly/database"
	"havenly/models"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoBlockedDateRepo struct {
	coll *mongo.Collection
}

func NewMongoBlockedDateRepo(db *mongo.Database) BlockedDateRepository {
	repo := &MongoBlockedDateRepo{coll: db.Collection("blocked_dates")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create blocked date indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoBlockedDateRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "propertyId", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func rangeFilter(from, to time.Time) bson.M {
	date := bson.M{}
	if !from.IsZero() {
		date["$gte"] = from
	}
	if !to.IsZero() {
		date["$lt"] = to
	}
	if len(date) == 0 {
		return bson.M{}
	}
	return bson.M{"date": date}
}

func (r *MongoBlockedDateRepo) InsertMany(ctx context.Context, dates []models.BlockedDate) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs := make([]interface{}, len(dates))
	for i := range dates {
		docs[i] = dates[i]
	}

	// Unordered so one duplicate does not stop the remaining inserts.
	result, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted := 0
	if result != nil {
		inserted = len(result.InsertedIDs)
	}
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) && onlyDuplicates(bulkErr) {
			return len(dates) - len(bulkErr.WriteErrors), nil
		}
		return inserted, fmt.Errorf("failed to block dates: %w", err)
	}
	return inserted, nil
}

func onlyDuplicates(bulkErr mongo.BulkWriteException) bool {
	if bulkErr.WriteConcernError != nil {
		return false
	}
	for _, we := range bulkErr.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return true
}

func (r *MongoBlockedDateRepo) DeleteDates(ctx context.Context, propertyID string, dates []time.Time) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := r.coll.DeleteMany(ctx, bson.M{"propertyId": propertyID, "date": bson.M{"$in": dates}})
	if err != nil {
		return 0, fmt.Errorf("failed to unblock dates: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *MongoBlockedDateRepo) ListInRange(ctx context.Context, propertyID string, from, to time.Time) ([]models.BlockedDate, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := rangeFilter(from, to)
	filter["propertyId"] = propertyID

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked dates: %w", err)
	}
	defer cursor.Close(ctx)

	dates := []models.BlockedDate{}
	if err := cursor.All(ctx, &dates); err != nil {
		return nil, fmt.Errorf("failed to decode blocked dates: %w", err)
	}
	return dates, nil
}

func (r *MongoBlockedDateRepo) PropertiesBlockedBetween(ctx context.Context, from, to time.Time) ([]string, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "propertyId", rangeFilter(from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked properties: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *MongoBlockedDateRepo) DeleteByProperty(ctx context.Context, propertyID string) error {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"propertyId": propertyID}); err != nil {
		return fmt.Errorf("failed to delete blocked dates of %s: %w", propertyID, err)
	}
	return nil
}
