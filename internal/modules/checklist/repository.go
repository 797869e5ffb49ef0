package checklist

import (
	"context"

	"github.com/wesribeiro/painel-ti/internal/modules/tracker"
)

// Repository defines data access for checklists. Save persists the checklist
// row together with any finalization fan-out in one transaction.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Checklist, error)

	// GetByStoreAndDate returns nil without error when no checklist exists
	// for the store on that day.
	GetByStoreAndDate(ctx context.Context, storeID int64, date string) (*Checklist, error)

	ListCompleted(ctx context.Context, storeID *int64) ([]*Checklist, error)

	// Save upserts the checklist (update when c.ID is set, insert otherwise)
	// and writes the given ledger entries and problems in the same
	// transaction. Returns the checklist id.
	Save(ctx context.Context, c *Checklist, entries []*tracker.StatusHistoryEntry, problems []*tracker.Problem) (int64, error)
}
