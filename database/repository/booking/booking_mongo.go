package bookingRepo

import (
	"context"
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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Error("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

// overlapFilter matches active bookings intersecting [checkIn, checkOut).
func overlapFilter(checkIn, checkOut time.Time) bson.M {
	return bson.M{
		"status":   bson.M{"$in": models.ActiveBookingStatuses},
		"checkIn":  bson.M{"$lt": checkOut},
		"checkOut": bson.M{"$gt": checkIn},
	}
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, database.Translate(err))
	}
	return &booking, nil
}

func (r *MongoBookingRepo) List(ctx context.Context, f BookingFilter) ([]models.Booking, int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.GuestID != "" {
		filter["guestId"] = f.GuestID
	}
	if f.HostID != "" {
		filter["hostId"] = f.HostID
	}
	if f.PropertyID != "" {
		filter["propertyId"] = f.PropertyID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	skip, limit := database.Paging(f.Page, f.Limit, 100)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(skip).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *MongoBookingRepo) FindOverlapping(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := overlapFilter(checkIn, checkOut)
	filter["propertyId"] = propertyID

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "checkIn", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) PropertiesBookedBetween(ctx context.Context, checkIn, checkOut time.Time) ([]string, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	values, err := r.coll.Distinct(ctx, "propertyId", overlapFilter(checkIn, checkOut))
	if err != nil {
		return nil, fmt.Errorf("failed to query booked properties: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *MongoBookingRepo) Transition(ctx context.Context, id string, from []string, set bson.M) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set["updatedAt"] = time.Now().UTC()
	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to transition booking %s: %w", id, database.Translate(err))
	}
	return &booking, nil
}

func (r *MongoBookingRepo) UpdatePayment(ctx context.Context, id string, statuses, paymentStatuses []string, set bson.M) (*models.Booking, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	if len(paymentStatuses) > 0 {
		filter["paymentStatus"] = bson.M{"$in": paymentStatuses}
	}
	set["updatedAt"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking); err != nil {
		return nil, fmt.Errorf("failed to update payment of booking %s: %w", id, database.Translate(err))
	}
	return &booking, nil
}

func (r *MongoBookingRepo) CountActiveAfter(ctx context.Context, propertyID string, t time.Time) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"propertyId": propertyID,
		"status":     bson.M{"$in": models.ActiveBookingStatuses},
		"checkOut":   bson.M{"$gt": t},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings: %w", err)
	}
	return count, nil
}

func (r *MongoBookingRepo) CompleteEnded(ctx context.Context, t time.Time) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{"status": models.BookingConfirmed, "checkOut": bson.M{"$lte": t}}
	update := bson.M{"$set": bson.M{"status": models.BookingCompleted, "updatedAt": time.Now().UTC()}}
	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to complete ended bookings: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *MongoBookingRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (r *MongoBookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$status"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *MongoBookingRepo) RevenueByCurrency(ctx context.Context) (map[string]float64, error) {
	ctx, cancel := database.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "paymentStatus", Value: models.PaymentPaid}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$currency"}, {Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}}}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Currency string  `bson:"_id"`
		Total    float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode revenue: %w", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Currency] = utils.RoundForCurrency(row.Total, row.Currency)
	}
	return out, nil
}
