package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hangarhub/pkg/config"
	"hangarhub/pkg/model"
)

// MetricsRepository runs the dashboard aggregations. It reads across the
// Bookings, Hangars, Users and Reviews collections directly: the dashboard
// is a read model, not an owner of any of them.
type MetricsRepository interface {
	BookingStatusCounts(ctx context.Context, filter bson.M) (map[string]int64, error)
	Revenue(ctx context.Context, filter bson.M) (*model.RevenueSummary, error)
	RecentBookings(ctx context.Context, filter bson.M, limit int64) ([]*model.Booking, error)
	CountHangars(ctx context.Context, filter bson.M) (int64, error)
	HangarIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	UserRoleCounts(ctx context.Context) (map[string]int64, error)
	RatingForHangars(ctx context.Context, hangarIDs []string) (*model.RatingSummary, error)
}

type mongoMetricsRepository struct {
	cfg      *config.Config
	bookings *mongo.Collection
	hangars  *mongo.Collection
	users    *mongo.Collection
	reviews  *mongo.Collection
}

func NewMongoMetricsRepository(cfg *config.Config) MetricsRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMetricsRepository{
		cfg:      cfg,
		bookings: db.Collection("Bookings"),
		hangars:  db.Collection("Hangars"),
		users:    db.Collection("Users"),
		reviews:  db.Collection("Reviews"),
	}
}

func (r *mongoMetricsRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < r.cfg.ReadTimeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoMetricsRepository) BookingStatusCounts(ctx context.Context, filter bson.M) (map[string]int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking statuses: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Revenue sums and averages total_price over paid bookings matching filter.
func (r *mongoMetricsRepository) Revenue(ctx context.Context, filter bson.M) (*model.RevenueSummary, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	match := bson.M{"payment_status": model.PaymentPaid}
	for k, v := range filter {
		match[k] = v
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"total":   bson.M{"$sum": "$total_price"},
			"average": bson.M{"$avg": "$total_price"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.bookings.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var results []model.RevenueSummary
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode revenue summary: %w", err)
	}

	if len(results) == 0 {
		return &model.RevenueSummary{}, nil
	}
	return &results[0], nil
}

func (r *mongoMetricsRepository) RecentBookings(ctx context.Context, filter bson.M, limit int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode recent bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoMetricsRepository) CountHangars(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	count, err := r.hangars.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count hangars: %w", err)
	}
	return count, nil
}

func (r *mongoMetricsRepository) HangarIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.hangars.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner hangars: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode hangar ids: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID.Hex())
	}
	return ids, nil
}

func (r *mongoMetricsRepository) UserRoleCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$role",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user roles: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Role  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode role counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Role] = row.Count
	}
	return counts, nil
}

func (r *mongoMetricsRepository) RatingForHangars(ctx context.Context, hangarIDs []string) (*model.RatingSummary, error) {
	if len(hangarIDs) == 0 {
		return &model.RatingSummary{}, nil
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"hangar_id": bson.M{"$in": hangarIDs},
			"status":    model.ReviewActive,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := r.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []model.RatingSummary
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode rating summary: %w", err)
	}

	if len(results) == 0 {
		return &model.RatingSummary{}, nil
	}
	return &results[0], nil
}
