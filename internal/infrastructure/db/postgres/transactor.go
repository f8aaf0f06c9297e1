package postgres

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor stores the open transaction in the context; repositories pick it
// up through base.conn.
type Transactor struct {
	db *gorm.DB
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

type base struct {
	db *gorm.DB
}

// conn returns the transaction carried by ctx, or the pool.
func (b base) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return b.db.WithContext(ctx)
}
