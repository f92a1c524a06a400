package repository

import "context"

// TxManager runs fn as one all-or-nothing unit of work. Repository calls made with the
// ctx handed to fn take part in it; a nested WithinTransaction joins the outer one.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
