package audit

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type sqliteRepo struct{ db *sqlx.DB }

func NewSQLiteRepository(db *sqlx.DB) Repository { return &sqliteRepo{db: db} }

func (r *sqliteRepo) Insert(ctx context.Context, log *ActionLog) error {
	var metadata *string
	if len(log.Metadata) > 0 {
		s := string(log.Metadata)
		metadata = &s
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO actionLogs (description, metadata, timestamp, userId, userName) VALUES (?, ?, ?, ?, ?)",
		log.Description, metadata, log.Timestamp, log.UserID, log.UserName)
	if err != nil {
		return err
	}
	log.ID, err = res.LastInsertId()
	return err
}

func (r *sqliteRepo) List(ctx context.Context) ([]*ActionLog, error) {
	var logs []*ActionLog
	// COALESCE keeps NULL metadata scannable as raw JSON.
	err := r.db.SelectContext(ctx, &logs,
		"SELECT id, description, timestamp, userId, userName, COALESCE(metadata, 'null') AS metadata FROM actionLogs ORDER BY timestamp DESC")
	return logs, err
}
