package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the collections and indexes the repositories rely on.
// Collections are created up front because older servers cannot create them
// inside a transaction.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}
	for _, name := range []string{collectionActors, collectionPatients, collectionExaminations, collectionMedications, collectionCounters} {
		if have[name] {
			continue
		}
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}

	stringField := func(field string) bson.M {
		return bson.M{field: bson.M{"$type": "string"}}
	}

	plan := map[string][]mongo.IndexModel{
		collectionActors: {
			{Keys: bson.D{{Key: "phone_number", Value: 1}}, Options: options.Index().SetName(indexActorPhone).SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(indexActorEmail).SetUnique(true).
				SetPartialFilterExpression(stringField("email"))},
			{Keys: bson.D{{Key: "profile.license_number", Value: 1}}, Options: options.Index().SetName(indexActorLicense).SetUnique(true).
				SetPartialFilterExpression(stringField("profile.license_number"))},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		collectionPatients: {
			{Keys: bson.D{{Key: "phone_number", Value: 1}}},
		},
		collectionExaminations: {
			{Keys: bson.D{{Key: "patient_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "consultant_id", Value: 1}, {Key: "is_completed", Value: 1}}},
		},
		collectionMedications: {
			{Keys: bson.D{{Key: "examination_id", Value: 1}}},
		},
	}
	for name, indexes := range plan {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
