package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	hangarserrors "hangarhub/internal/hangars/errors"
	"hangarhub/pkg/config"
	"hangarhub/pkg/model"
)

const (
	CollectionName = "Hangars"
)

type HangarRepository interface {
	Create(ctx context.Context, hangar *model.Hangar) error
	FindByID(ctx context.Context, id string) (*model.Hangar, error)
	FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	Find(ctx context.Context, filter model.HangarFilter, limit int, offset int64) ([]*model.Hangar, error)
	Count(ctx context.Context, filter model.HangarFilter) (int64, error)
	FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Hangar, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, id string, fields bson.M) (*model.Hangar, error)
	Delete(ctx context.Context, id string) error
}

type mongoHangarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHangarRepository(cfg *config.Config) HangarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHangarRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoHangarRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if hasDeadline && time.Until(deadline) < timeout {
		return context.WithTimeout(ctx, time.Until(deadline))
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHangarRepository) Create(ctx context.Context, hangar *model.Hangar) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	hangar.CreatedAt = now
	hangar.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, hangar)
	if err != nil {
		return fmt.Errorf("failed to create hangar: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		hangar.ID = oid.Hex()
	}
	return nil
}

func (r *mongoHangarRepository) FindByID(ctx context.Context, id string) (*model.Hangar, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", hangarserrors.ErrInvalidID, id)
	}

	var hangar model.Hangar
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hangar)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hangarserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find hangar: %w", err)
	}

	return &hangar, nil
}

// FindIDsByOwner projects just the _id field: callers only need the id list
// to scope booking queries.
func (r *mongoHangarRepository) FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
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

func (r *mongoHangarRepository) Find(ctx context.Context, filter model.HangarFilter, limit int, offset int64) ([]*model.Hangar, error) {
	return r.findMany(ctx, buildFilter(filter), limit, offset)
}

func (r *mongoHangarRepository) Count(ctx context.Context, filter model.HangarFilter) (int64, error) {
	return r.count(ctx, buildFilter(filter))
}

func (r *mongoHangarRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Hangar, error) {
	return r.findMany(ctx, bson.M{"owner_id": ownerID}, limit, offset)
}

func (r *mongoHangarRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.count(ctx, bson.M{"owner_id": ownerID})
}

func (r *mongoHangarRepository) Update(ctx context.Context, id string, fields bson.M) (*model.Hangar, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", hangarserrors.ErrInvalidID, id)
	}

	fields["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var hangar model.Hangar
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": fields},
		opts,
	).Decode(&hangar)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, hangarserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update hangar: %w", err)
	}

	return &hangar, nil
}

func (r *mongoHangarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", hangarserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete hangar: %w", err)
	}
	if result.DeletedCount == 0 {
		return hangarserrors.ErrNotFound
	}
	return nil
}

// buildFilter translates the listing filters into a Mongo query. City is a
// case-insensitive substring match, quoted so user input cannot inject
// regex metacharacters.
func buildFilter(f model.HangarFilter) bson.M {
	filter := bson.M{}

	if f.City != "" {
		filter["location.city"] = bson.M{
			"$regex":   regexp.QuoteMeta(f.City),
			"$options": "i",
		}
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Size != "" {
		filter["size"] = f.Size
	}

	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price_per_day"] = price
	}

	return filter
}

func (r *mongoHangarRepository) findMany(ctx context.Context, filter bson.M, limit int, offset int64) ([]*model.Hangar, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find hangars: %w", err)
	}
	defer cursor.Close(ctx)

	var hangars []*model.Hangar
	if err = cursor.All(ctx, &hangars); err != nil {
		return nil, fmt.Errorf("failed to decode hangars: %w", err)
	}

	return hangars, nil
}

func (r *mongoHangarRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count hangars: %w", err)
	}
	return count, nil
}
