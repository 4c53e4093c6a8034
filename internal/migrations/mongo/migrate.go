package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/r1cko23/Novo-pets-website-sub001/internal/migrations/mongo/validators"
)

var (
	// The partial unique index is the double-booking guard: it covers only
	// pending and confirmed bookings, so cancelled rows stay for audit while
	// their slot opens up again.
	BookingsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "appointment_date", Value: 1},
				{Key: "appointment_time", Value: 1},
				{Key: "groomer_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"status": bson.M{"$in": []string{"pending", "confirmed"}},
				}),
		},
		{Keys: bson.D{{Key: "appointment_date", Value: 1}}},
	}

	GroomersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}

	// One live hold per slot, swept by the TTL monitor once expires_at
	// passes. expireAfterSeconds of 0 expires documents at expires_at itself.
	SlotHoldsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "appointment_date", Value: 1},
				{Key: "appointment_time", Value: 1},
				{Key: "groomer_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("Running Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Bookings": {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		"Groomers": {
			Indexes:   GroomersIndexes,
			Validator: validators.GroomerValidator,
		},
		"SlotHolds": {
			Indexes:   SlotHoldsIndexes,
			Validator: validators.SlotHoldValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("Collection %s already exists, updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("Ensured indexes for %s\n", name)
	return nil
}
