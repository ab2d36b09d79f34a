package propertyRepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"havenly/database"
	"havenly/models"
	"havenly/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const earthRadiusKm = 6378.1

// MongoPropertyRepo implements PropertyRepository using MongoDB.
type MongoPropertyRepo struct {
	coll *mongo.Collection
}

// NewMongoPropertyRepo creates the repository and ensures its indexes.
func NewMongoPropertyRepo(db *mongo.Database) PropertyRepository {
	repo := &MongoPropertyRepo{coll: db.Collection("properties")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create property indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoPropertyRepo) Create(ctx context.Context, property *models.Property) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, property); err != nil {
		return fmt.Errorf("failed to create property: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoPropertyRepo) GetByID(ctx context.Context, id string) (*models.Property, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var property models.Property
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&property); err != nil {
		return nil, fmt.Errorf("failed to fetch property %s: %w", id, database.Translate(err))
	}
	return &property, nil
}

func (r *MongoPropertyRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Property, error) {
	properties := []models.Property{}
	if len(ids) == 0 {
		return properties, nil
	}

	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch properties: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, nil
}

func (r *MongoPropertyRepo) Update(ctx context.Context, property *models.Property) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	property.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":           property.Title,
		"description":     property.Description,
		"type":            property.Type,
		"price":           property.Price,
		"priceUnit":       property.PriceUnit,
		"currency":        property.Currency,
		"cleaningFee":     property.CleaningFee,
		"serviceFee":      property.ServiceFee,
		"maxGuests":       property.MaxGuests,
		"bedrooms":        property.Bedrooms,
		"bathrooms":       property.Bathrooms,
		"address":         property.Address,
		"location":        property.Location,
		"amenities":       property.Amenities,
		"isAvailable":     property.IsAvailable,
		"isApproved":      property.IsApproved,
		"rejectionReason": property.RejectionReason,
		"updatedAt":       property.UpdatedAt,
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": property.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update property %s: %w", property.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("property %s: %w", property.ID, database.ErrNotFound)
	}
	return nil
}

func (r *MongoPropertyRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("property %s: %w", id, database.ErrNotFound)
	}
	return nil
}

// buildSearchFilter turns a PropertyFilter into a Mongo query.
func buildSearchFilter(f models.PropertyFilter) bson.M {
	filter := bson.M{}
	if f.OnlyPublic {
		filter["isApproved"] = true
		filter["isAvailable"] = true
	} else if f.Approved != nil {
		filter["isApproved"] = *f.Approved
	}
	if f.HostID != "" {
		filter["hostId"] = f.HostID
	}
	if f.City != "" {
		filter["address.city"] = bson.M{"$regex": "^" + regexp.QuoteMeta(strings.TrimSpace(f.City)) + "$", "$options": "i"}
	}
	if f.Country != "" {
		filter["address.country"] = bson.M{"$regex": "^" + regexp.QuoteMeta(strings.TrimSpace(f.Country)) + "$", "$options": "i"}
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	price := bson.M{}
	if f.MinPrice > 0 {
		price["$gte"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		price["$lte"] = f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if f.Guests > 0 {
		filter["maxGuests"] = bson.M{"$gte": f.Guests}
	}
	if len(f.Amenities) > 0 {
		filter["amenities"] = bson.M{"$all": f.Amenities}
	}
	if f.Near != nil && f.RadiusKm > 0 {
		// $geoWithin works with CountDocuments, unlike $near.
		filter["location"] = bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{f.Near.Coordinates, f.RadiusKm / earthRadiusKm},
			},
		}
	}
	if len(f.ExcludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": f.ExcludeIDs}
	}
	return filter
}

func sortFor(key string) bson.D {
	switch key {
	case "price":
		return bson.D{{Key: "price", Value: 1}, {Key: "createdAt", Value: -1}}
	case "-price":
		return bson.D{{Key: "price", Value: -1}, {Key: "createdAt", Value: -1}}
	case "rating":
		return bson.D{{Key: "rating.average", Value: -1}, {Key: "rating.count", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

func (r *MongoPropertyRepo) Search(ctx context.Context, f models.PropertyFilter) ([]models.Property, int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := buildSearchFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	skip, limit := database.Paging(f.Page, f.Limit, 50)
	opts := options.Find().SetSort(sortFor(f.Sort)).SetSkip(skip).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, total, nil
}

// findAndUpdate applies update and returns the document after the change.
func (r *MongoPropertyRepo) findAndUpdate(ctx context.Context, id string, update bson.M) (*models.Property, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var property models.Property
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&property); err != nil {
		return nil, fmt.Errorf("failed to update property %s: %w", id, database.Translate(err))
	}
	return &property, nil
}

func (r *MongoPropertyRepo) SetApproval(ctx context.Context, id string, approved bool, reason string) (*models.Property, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"isApproved":      approved,
		"rejectionReason": reason,
		"updatedAt":       time.Now().UTC(),
	}})
}

func (r *MongoPropertyRepo) AddImages(ctx context.Context, id string, images []models.Image) (*models.Property, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$push": bson.M{"images": bson.M{"$each": images}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoPropertyRepo) RemoveImage(ctx context.Context, id, publicID string) (*models.Property, error) {
	return r.findAndUpdate(ctx, id, bson.M{
		"$pull": bson.M{"images": bson.M{"publicId": publicID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *MongoPropertyRepo) UpdateRating(ctx context.Context, id string, rating models.Rating) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"rating": rating}})
	if err != nil {
		return fmt.Errorf("failed to update rating of property %s: %w", id, err)
	}
	return nil
}

func (r *MongoPropertyRepo) Count(ctx context.Context, approved *bool) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if approved != nil {
		filter["isApproved"] = *approved
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}
