package audit

import "context"

// Repository defines data access for action logs.
type Repository interface {
	Insert(ctx context.Context, log *ActionLog) error
	List(ctx context.Context) ([]*ActionLog, error)
}
