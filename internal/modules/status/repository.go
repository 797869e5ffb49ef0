package status

import "context"

// Repository defines data access for status types.
type Repository interface {
	List(ctx context.Context) ([]*StatusType, error)
	GetByName(ctx context.Context, name string) (*StatusType, error)
}
