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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	GroomerCollectionName = "Groomers"
)

type mongoGroomerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type GroomerRepository interface {
	FindActive(ctx context.Context) ([]*model.Groomer, error)
	FindByID(ctx context.Context, id string) (*model.Groomer, error)
}

func NewMongoGroomerRepository(cfg *config.Config) GroomerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoGroomerRepository{
		cfg:        cfg,
		collection: db.Collection(GroomerCollectionName),
	}
}

func (r *mongoGroomerRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoGroomerRepository) FindActive(ctx context.Context) ([]*model.Groomer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "display_name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active groomers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []groomerDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode groomers: %w", err)
	}

	groomers := make([]*model.Groomer, 0, len(docs))
	for i := range docs {
		groomers = append(groomers, docs[i].toModel())
	}
	return groomers, nil
}

func (r *mongoGroomerRepository) FindByID(ctx context.Context, id string) (*model.Groomer, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schedulingerrors.ErrInvalidID, id)
	}

	var doc groomerDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schedulingerrors.ErrGroomerNotFound
		}
		return nil, fmt.Errorf("failed to find groomer: %w", err)
	}

	return doc.toModel(), nil
}

type groomerDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	DisplayName string             `bson:"display_name"`
	Active      bool               `bson:"active"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d *groomerDoc) toModel() *model.Groomer {
	return &model.Groomer{
		ID:          d.ID.Hex(),
		DisplayName: d.DisplayName,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
	}
}
