package checklist

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"
)

const (
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Check result values as the front end reports them.
const (
	ResultOK      = "ok"
	ResultProblem = "problem"
	ResultBusy    = "busy"
)

// Checklist is the daily per-store inspection round. pdvChecks is kept as the
// raw JSON the client sent so the round-trip through the text column is
// lossless and order-preserving.
type Checklist struct {
	ID                int64          `db:"id" json:"id"`
	StoreID           int64          `db:"storeId" json:"storeId"`
	Date              string         `db:"date" json:"date"`
	Status            string         `db:"status" json:"status"`
	PdvChecks         types.JSONText `db:"pdvChecks" json:"pdvChecks"`
	FinalizedByUserID *int64         `db:"finalizedByUserId" json:"finalizedByUserId,omitempty"`
}

// PdvCheck is one PDV's result inside a checklist. A check without a
// newStatusId (a busy PDV, typically) produces no ledger or problem writes
// on finalization.
type PdvCheck struct {
	PDVID       int64    `json:"pdvId"`
	Result      string   `json:"result"`
	NewStatusID *int64   `json:"newStatusId,omitempty"`
	Observation string   `json:"observation,omitempty"`
	Issues      []string `json:"issues,omitempty"`
}

// SaveRequest is the autosave/finalize payload.
type SaveRequest struct {
	ID        int64           `json:"id,omitempty"`
	StoreID   int64           `json:"storeId"`
	Date      string          `json:"date"`
	Status    string          `json:"status"`
	PdvChecks json.RawMessage `json:"pdvChecks"`
}

// SaveResult reports the persisted checklist id and whether this save ran the
// finalization side effects.
type SaveResult struct {
	ID        int64 `json:"id"`
	Created   bool  `json:"-"`
	Finalized bool  `json:"-"`
}
