package store

import "context"

// StoreRepository defines data access for stores.
type StoreRepository interface {
	List(ctx context.Context) ([]*Store, error)
	GetByID(ctx context.Context, id int64) (*Store, error)
}

// PDVRepository defines data access for PDVs.
type PDVRepository interface {
	ListByStore(ctx context.Context, storeID int64) ([]*PDV, error)
	GetByID(ctx context.Context, id int64) (*PDV, error)
	Create(ctx context.Context, pdv *PDV) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ItemRepository defines data access for PDV items.
type ItemRepository interface {
	List(ctx context.Context) ([]*PDVItem, error)
	Create(ctx context.Context, item *PDVItem) error
	Delete(ctx context.Context, id int64) (bool, error)
}
