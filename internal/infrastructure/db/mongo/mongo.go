package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eyeclinic/clinic-system/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

const (
	collectionActors       = "actors"
	collectionPatients     = "patients"
	collectionExaminations = "examinations"
	collectionMedications  = "medications"
	collectionCounters     = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// NewStores wires every repository against db. Transactions need a replica
// set or sharded cluster.
func NewStores(client *mongo.Client, db *mongo.Database) ports.Stores {
	ids := newSequences(db)
	return ports.Stores{
		Actors:       NewActorRepository(db, ids),
		Patients:     NewPatientRepository(db, ids),
		Examinations: NewExaminationRepository(db, ids),
		Medications:  NewMedicationRepository(db, ids),
		Tx:           NewTransactor(client),
	}
}
