package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sequences hands out integer ids per collection from the counters
// collection, one document per sequence.
type sequences struct {
	col *mongo.Collection
}

func newSequences(db *mongo.Database) *sequences {
	return &sequences{col: db.Collection(collectionCounters)}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// reserve advances the named sequence by n and returns the first id of the
// reserved block.
func (s *sequences) reserve(ctx context.Context, name string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("reserve %d ids from %s", n, name)
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc counterDoc
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(n)}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq - int64(n) + 1, nil
}

func (s *sequences) next(ctx context.Context, name string) (int64, error) {
	return s.reserve(ctx, name, 1)
}
