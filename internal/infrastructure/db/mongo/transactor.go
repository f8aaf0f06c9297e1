package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs a unit of work inside a multi-document transaction. The
// session travels in the context handed to fn, so repositories called with
// that context take part in the transaction.
type Transactor struct {
	client *mongo.Client
}

func NewTransactor(client *mongo.Client) *Transactor {
	return &Transactor{client: client}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		_, err := sc.WithTransaction(sc, func(txCtx mongo.SessionContext) (interface{}, error) {
			return nil, fn(txCtx)
		})
		return err
	})
}
