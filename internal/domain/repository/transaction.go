package repository

import "context"

// TxManager runs fn inside a database transaction carried by ctx. Every
// repository called with that ctx joins the transaction. Nested calls open a
// savepoint, so an inner failure can be recovered without losing the outer work.
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
