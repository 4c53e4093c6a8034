package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	schedulingerrors "github.com/r1cko23/Novo-pets-website-sub001/internal/scheduling/errors"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/config"
	mongotx "github.com/r1cko23/Novo-pets-website-sub001/pkg/db/mongo"
	"github.com/r1cko23/Novo-pets-website-sub001/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingCollectionName = "Bookings"
)

// activeStatuses are the statuses that occupy a slot. The partial unique
// index on (appointment_date, appointment_time, groomer_id) covers exactly
// these, so a cancelled booking frees its slot for reuse.
var activeStatuses = []string{config.Pending, config.Confirmed}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type BookingRepository interface {
	Insert(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByDate(ctx context.Context, date string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error)
	ExistsActive(ctx context.Context, date, slotTime, groomerID string) (bool, error)
	FindDuplicates(ctx context.Context) ([]model.DuplicateGroup, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(BookingCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

// Insert writes the booking. A duplicate-key failure from the partial unique
// index means another active booking already occupies the slot.
func (r *mongoBookingRepository) Insert(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc := bson.M{
		"appointment_date": booking.AppointmentDate,
		"appointment_time": booking.AppointmentTime,
		"groomer_id":       booking.GroomerID,
		"pet_name":         booking.PetName,
		"customer_name":    booking.CustomerName,
		"customer_phone":   booking.CustomerPhone,
		"status":           booking.Status,
		"created_at":       booking.CreatedAt,
	}
	if booking.PetBreed != "" {
		doc["pet_breed"] = booking.PetBreed
	}
	if booking.PetNotes != "" {
		doc["pet_notes"] = booking.PetNotes
	}
	if booking.CustomerEmail != "" {
		doc["customer_email"] = booking.CustomerEmail
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return schedulingerrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schedulingerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}

	var booking bookingDoc
	err = r.collection.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schedulingerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return booking.toModel(), nil
}

func (r *mongoBookingRepository) FindByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "appointment_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"appointment_date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookingDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	bookings := make([]*model.Booking, 0, len(docs))
	for i := range docs {
		bookings = append(bookings, docs[i].toModel())
	}
	return bookings, nil
}

// UpdateStatus transitions a booking. Reactivating a cancelled booking pulls
// it back under the partial unique index, so a duplicate-key failure here
// means another active booking took the slot in the meantime.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schedulingerrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID}
	update := bson.M{"$set": bson.M{"status": status}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking bookingDoc
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schedulingerrors.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, schedulingerrors.ErrSlotTaken
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking.toModel(), nil
}

// ExistsActive reports whether a non-cancelled booking occupies the slot.
func (r *mongoBookingRepository) ExistsActive(ctx context.Context, date, slotTime, groomerID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"appointment_date": date,
		"appointment_time": slotTime,
		"groomer_id":       groomerID,
		"status":           bson.M{"$in": activeStatuses},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slot occupancy: %w", err)
	}

	return count > 0, nil
}

// FindDuplicates groups active bookings that share a slot. It is an audit
// query; a non-empty result means the unique index was breached or predates
// the constraint.
func (r *mongoBookingRepository) FindDuplicates(ctx context.Context) ([]model.DuplicateGroup, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$in": activeStatuses}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"appointment_date": "$appointment_date",
				"appointment_time": "$appointment_time",
				"groomer_id":       "$groomer_id",
			},
			"count":    bson.M{"$sum": 1},
			"bookings": bson.M{"$push": "$$ROOT"},
		}}},
		{{Key: "$match", Value: bson.M{"count": bson.M{"$gt": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate duplicates: %w", err)
	}
	defer cursor.Close(ctx)

	var raw []struct {
		ID struct {
			AppointmentDate string `bson:"appointment_date"`
			AppointmentTime string `bson:"appointment_time"`
			GroomerID       string `bson:"groomer_id"`
		} `bson:"_id"`
		Count    int          `bson:"count"`
		Bookings []bookingDoc `bson:"bookings"`
	}
	if err = cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode duplicate groups: %w", err)
	}

	groups := make([]model.DuplicateGroup, 0, len(raw))
	for _, g := range raw {
		bookings := make([]*model.Booking, 0, len(g.Bookings))
		for i := range g.Bookings {
			bookings = append(bookings, g.Bookings[i].toModel())
		}
		groups = append(groups, model.DuplicateGroup{
			AppointmentDate: g.ID.AppointmentDate,
			AppointmentTime: g.ID.AppointmentTime,
			GroomerID:       g.ID.GroomerID,
			Count:           g.Count,
			Bookings:        bookings,
		})
	}

	return groups, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// bookingDoc mirrors the stored document. The model keeps ID as a hex string
// while Mongo stores an ObjectID, so decoding goes through this shape.
type bookingDoc struct {
	ID              primitive.ObjectID `bson:"_id"`
	AppointmentDate string             `bson:"appointment_date"`
	AppointmentTime string             `bson:"appointment_time"`
	GroomerID       string             `bson:"groomer_id"`
	PetName         string             `bson:"pet_name"`
	PetBreed        string             `bson:"pet_breed,omitempty"`
	PetNotes        string             `bson:"pet_notes,omitempty"`
	CustomerName    string             `bson:"customer_name"`
	CustomerPhone   string             `bson:"customer_phone"`
	CustomerEmail   string             `bson:"customer_email,omitempty"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d *bookingDoc) toModel() *model.Booking {
	return &model.Booking{
		ID:              d.ID.Hex(),
		AppointmentDate: d.AppointmentDate,
		AppointmentTime: d.AppointmentTime,
		GroomerID:       d.GroomerID,
		PetName:         d.PetName,
		PetBreed:        d.PetBreed,
		PetNotes:        d.PetNotes,
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		CustomerEmail:   d.CustomerEmail,
		Status:          d.Status,
		CreatedAt:       d.CreatedAt,
	}
}
