package audit

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ActionLog records an administrative action for later review.
type ActionLog struct {
	ID          int64          `db:"id" json:"id"`
	Description string         `db:"description" json:"description"`
	Timestamp   time.Time      `db:"timestamp" json:"timestamp"`
	UserID      *int64         `db:"userId" json:"userId,omitempty"`
	UserName    *string        `db:"userName" json:"userName,omitempty"`
	Metadata    types.JSONText `db:"metadata" json:"metadata,omitempty"`
}

// CreateLogRequest is the payload for appending an action log.
type CreateLogRequest struct {
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
}
