package tracker

import (
	"context"
	"time"
)

// openProblemStatus is what the resolver needs from the newest unresolved
// problem of a PDV.
type openProblemStatus struct {
	Title          string    `db:"title"`
	CreatedAt      time.Time `db:"created_at"`
	OriginStatusID int64     `db:"originStatusId"`
	TechName       *string   `db:"techName"`
}

// resolveParams carries a problem resolution through the repository. The
// reconciliation entry is only written when no other unresolved problem
// remains on the same PDV.
type resolveParams struct {
	ProblemID    int64
	Notes        string
	ActingUserID int64
	Now          time.Time
	OKStatusID   int64
	Description  string
}

// Repository defines data access for the status ledger and problems. The
// compound operations (InsertEvent, Resolve) run in a single transaction.
type Repository interface {
	LatestOpenProblem(ctx context.Context, pdvID int64) (*openProblemStatus, error)
	LatestEntry(ctx context.Context, pdvID int64) (*StatusHistoryEntry, error)
	GetEntry(ctx context.Context, id int64) (*StatusHistoryEntry, error)

	// InsertEvent appends entry to the ledger and, when problem is non-nil,
	// creates it in the same transaction. Returns the new entry id.
	InsertEvent(ctx context.Context, entry *StatusHistoryEntry, problem *Problem) (int64, error)

	// Resolve marks the problem resolved and, when it was the PDV's last open
	// problem, appends the reconciliation "Ok" ledger entry, atomically.
	// Reports whether the reconciliation entry was written.
	Resolve(ctx context.Context, p resolveParams) (bool, error)

	ListHistory(ctx context.Context, pdvID int64, limit int) ([]*StatusHistoryEntry, error)
	ListProblems(ctx context.Context, pdvID int64, limit int) ([]*ProblemSummary, error)
	GetProblem(ctx context.Context, id int64) (*ProblemDetail, error)
	RecurringIssues(ctx context.Context, pdvID int64) ([]*RecurringIssue, error)
	StoreLedger(ctx context.Context, storeID int64) ([]*LedgerEntry, error)
}
