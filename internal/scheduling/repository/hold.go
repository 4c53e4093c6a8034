package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	schedulingerrors "github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	HoldCollectionName = "SlotHolds"
)

// HoldRepository stores advisory slot holds. A unique index on
// (appointment_date, appointment_time, groomer_id) keeps at most one hold
// per slot; a TTL index on expires_at sweeps stale documents in the
// background, with DeleteExpired covering the gap until the sweep runs.
type HoldRepository interface {
	Create(ctx context.Context, hold *model.SlotHold) error
	FindByID(ctx context.Context, id string) (*model.SlotHold, error)
	Renew(ctx context.Context, id string, expiresAt, now time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, date, slotTime, groomerID string, now time.Time) (int64, error)
}

type mongoHoldRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHoldRepository(cfg *config.Config) HoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldRepository{
		cfg:        cfg,
		collection: db.Collection(HoldCollectionName),
	}
}

func (r *mongoHoldRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHoldRepository) Create(ctx context.Context, hold *model.SlotHold) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	hold.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return schedulingerrors.ErrHoldTaken
		}
		return fmt.Errorf("failed to create hold: %w", err)
	}

	return nil
}

func (r *mongoHoldRepository) FindByID(ctx context.Context, id string) (*model.SlotHold, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var hold model.SlotHold
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&hold)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schedulingerrors.ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to find hold: %w", err)
	}

	return &hold, nil
}

// Renew extends a hold that has not yet expired. Expired holds cannot be
// renewed; the caller must take a fresh hold instead.
func (r *mongoHoldRepository) Renew(ctx context.Context, id string, expiresAt, now time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"_id":        id,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"expires_at": expiresAt}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to renew hold: %w", err)
	}

	if result.MatchedCount == 0 {
		return schedulingerrors.ErrHoldNotFound
	}

	return nil
}

func (r *mongoHoldRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete hold: %w", err)
	}

	if result.DeletedCount == 0 {
		return schedulingerrors.ErrHoldNotFound
	}

	return nil
}

// DeleteExpired removes expired holds for a slot so a new hold can take it
// without waiting for the TTL monitor to run.
func (r *mongoHoldRepository) DeleteExpired(ctx context.Context, date, slotTime, groomerID string, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"appointment_date": date,
		"appointment_time": slotTime,
		"groomer_id":       groomerID,
		"expires_at":       bson.M{"$lte": now},
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired holds: %w", err)
	}

	return result.DeletedCount, nil
}
