package ports

import "context"

// Transactor runs fn in a store transaction. Repository calls made with the
// ctx passed to fn take part in it; fn returning an error rolls back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
