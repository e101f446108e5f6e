package order

import "context"

// Repository stores orders. Get returns a copy; callers write changes back with Update.
// Nothing ties a Get to a later Update, so concurrent read-modify-write cycles interleave.
type Repository interface {
	Insert(ctx context.Context, order *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, order *Order) error
	List(ctx context.Context) ([]*Order, error)
}
