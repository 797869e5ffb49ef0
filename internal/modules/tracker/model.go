package tracker

import "time"

// ProblemStatus values follow the labels the dashboard displays.
const (
	ProblemOpen       = "Aberto"
	ProblemInProgress = "Em Andamento"
	ProblemResolved   = "Resolvido"
)

// StatusHistoryEntry is one row of the append-only status ledger. Entries are
// never updated or deleted; they only disappear when their PDV is removed.
type StatusHistoryEntry struct {
	ID          int64     `db:"id" json:"id"`
	PDVID       int64     `db:"pdvId" json:"pdvId"`
	StatusID    int64     `db:"statusId" json:"statusId"`
	Description string    `db:"description" json:"description"`
	TechID      *int64    `db:"techId" json:"techId,omitempty"`
	ItemID      *int64    `db:"itemId" json:"itemId,omitempty"`
	Timestamp   time.Time `db:"timestamp" json:"timestamp"`
	TechName    *string   `db:"techName" json:"techName,omitempty"`
}

// Problem is a mutable incident record for a PDV, opened from a non-"Ok"
// status event and closed by an explicit resolution.
type Problem struct {
	ID               int64      `db:"id" json:"id"`
	PDVID            int64      `db:"pdv_id" json:"pdvId"`
	ItemID           *int64     `db:"item_id" json:"itemId,omitempty"`
	ReportedByUserID int64      `db:"reported_by_user_id" json:"reportedByUserId"`
	AssignedToUserID *int64     `db:"assigned_to_user_id" json:"assignedToUserId,omitempty"`
	Title            string     `db:"title" json:"title"`
	Description      string     `db:"description" json:"description"`
	Status           string     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	ResolvedAt       *time.Time `db:"resolved_at" json:"resolvedAt,omitempty"`
	ResolutionNotes  *string    `db:"resolution_notes" json:"resolutionNotes,omitempty"`
	ResolvedByUserID *int64     `db:"resolved_by_user_id" json:"resolvedByUserId,omitempty"`
	OriginStatusID   int64      `db:"originStatusId" json:"originStatusId"`
}

// CurrentStatus is the display status of a PDV as computed by the resolver.
type CurrentStatus struct {
	StatusID    int64     `json:"statusId"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	TechName    string    `json:"techName"`
}

// PDVWithStatus pairs a PDV with its resolved current status for the store
// dashboard view.
type PDVWithStatus struct {
	ID         int64          `json:"id"`
	Number     string         `json:"number"`
	StoreID    int64          `json:"storeId"`
	LastStatus *CurrentStatus `json:"lastStatus"`
}

// ProblemSummary is a problem row joined with display names for listings.
type ProblemSummary struct {
	ID                 int64      `db:"id" json:"id"`
	Status             string     `db:"status" json:"status"`
	Title              string     `db:"title" json:"title"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	ResolvedAt         *time.Time `db:"resolved_at" json:"resolvedAt,omitempty"`
	ReportedByTechName *string    `db:"reportedByTechName" json:"reportedByTechName,omitempty"`
	ResolvedByTechName *string    `db:"resolvedByTechName" json:"resolvedByTechName,omitempty"`
	StatusName         *string    `db:"statusName" json:"statusName,omitempty"`
	StatusColor        *string    `db:"statusColor" json:"statusColor,omitempty"`
	ItemName           *string    `db:"itemName" json:"itemName,omitempty"`
}

// ProblemDetail is the full problem view for the detail endpoint.
type ProblemDetail struct {
	ID                 int64     `db:"id" json:"id"`
	Title              string    `db:"title" json:"title"`
	Description        string    `db:"description" json:"description"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	Status             string    `db:"status" json:"status"`
	ReportedByTechName *string   `db:"reportedByTechName" json:"reportedByTechName,omitempty"`
	ItemName           *string   `db:"itemName" json:"itemName,omitempty"`
}

// RecurringIssue counts how often an equipment item shows up in a PDV's ledger.
type RecurringIssue struct {
	ItemName string `db:"problemText" json:"problemText"`
	Count    int    `db:"count" json:"count"`
}

// LedgerEntry is a store-wide ledger row joined with display fields.
type LedgerEntry struct {
	StatusHistoryEntry
	StatusName  string `db:"statusName" json:"statusName"`
	StatusColor string `db:"statusColor" json:"statusColor"`
	PDVNumber   string `db:"pdvNumber" json:"pdvNumber"`
}

// RecordEventRequest is the payload for a single-PDV status event.
type RecordEventRequest struct {
	PDVID       int64  `json:"pdvId"`
	StatusID    int64  `json:"statusId"`
	Description string `json:"description"`
	ItemID      *int64 `json:"itemId,omitempty"`
	TechID      int64  `json:"techId"`
}

// ResolveProblemRequest is the payload for resolving a problem.
type ResolveProblemRequest struct {
	Notes        string `json:"solutionNotes"`
	ActingUserID int64  `json:"-"`
}
