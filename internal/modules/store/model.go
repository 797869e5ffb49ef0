package store

import "github.com/jmoiron/sqlx/types"

// Store is a retail location whose PDVs the dashboard tracks.
type Store struct {
	ID              int64          `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	PDVNamingStart  int            `db:"pdvNamingStart" json:"pdvNamingStart"`
	ChecklistConfig types.JSONText `db:"checklistConfig" json:"checklistConfig"`
}

// PDV is a point-of-sale terminal. Numbers are store-local labels, not
// globally unique.
type PDV struct {
	ID      int64  `db:"id" json:"id"`
	Number  string `db:"number" json:"number"`
	StoreID int64  `db:"storeId" json:"storeId"`
}

// PDVItem is an equipment component that can be attached to a status report
// (monitor, keyboard, fiscal printer, ...).
type PDVItem struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// CreatePDVRequest is the payload for registering a PDV in a store.
type CreatePDVRequest struct {
	Number string `json:"number"`
}

// CreateItemRequest is the payload for registering a PDV item.
type CreateItemRequest struct {
	Name string `json:"name"`
}
