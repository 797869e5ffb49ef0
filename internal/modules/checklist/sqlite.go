package checklist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wesribeiro/painel-ti/internal/modules/tracker"
)

type sqliteRepo struct{ db *sqlx.DB }

func NewSQLiteRepository(db *sqlx.DB) Repository { return &sqliteRepo{db: db} }

const checklistColumns = "id, date, status, pdvChecks, storeId, finalizedByUserId"

func (r *sqliteRepo) GetByID(ctx context.Context, id int64) (*Checklist, error) {
	var c Checklist
	err := r.db.GetContext(ctx, &c, "SELECT "+checklistColumns+" FROM checklists WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checklist %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepo) GetByStoreAndDate(ctx context.Context, storeID int64, date string) (*Checklist, error) {
	var c Checklist
	err := r.db.GetContext(ctx, &c,
		"SELECT "+checklistColumns+" FROM checklists WHERE storeId = ? AND date = ?", storeID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepo) ListCompleted(ctx context.Context, storeID *int64) ([]*Checklist, error) {
	query := "SELECT " + checklistColumns + " FROM checklists WHERE status = ?"
	args := []interface{}{StatusCompleted}
	if storeID != nil {
		query += " AND storeId = ?"
		args = append(args, *storeID)
	}
	query += " ORDER BY date DESC"

	var lists []*Checklist
	err := r.db.SelectContext(ctx, &lists, query, args...)
	return lists, err
}

func (r *sqliteRepo) Save(ctx context.Context, c *Checklist, entries []*tracker.StatusHistoryEntry, problems []*tracker.Problem) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	id := c.ID
	if id != 0 {
		_, err = tx.ExecContext(ctx,
			"UPDATE checklists SET status = ?, pdvChecks = ?, finalizedByUserId = ? WHERE id = ?",
			c.Status, string(c.PdvChecks), c.FinalizedByUserID, id)
		if err != nil {
			return 0, err
		}
	} else {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO checklists (storeId, date, status, pdvChecks, finalizedByUserId) VALUES (?, ?, ?, ?, ?)",
			c.StoreID, c.Date, c.Status, string(c.PdvChecks), c.FinalizedByUserID)
		if err != nil {
			return 0, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	}

	if len(entries) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO statusHistory (pdvId, statusId, description, techId, timestamp) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return 0, err
		}
		defer stmt.Close()
		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, e.PDVID, e.StatusID, e.Description, e.TechID, e.Timestamp); err != nil {
				return 0, err
			}
		}
	}

	if len(problems) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO problems
			  (pdv_id, item_id, reported_by_user_id, title, description, status, created_at, originStatusId)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()
		for _, p := range problems {
			if _, err := stmt.ExecContext(ctx, p.PDVID, p.ItemID, p.ReportedByUserID, p.Title,
				p.Description, p.Status, p.CreatedAt, p.OriginStatusID); err != nil {
				return 0, err
			}
		}
	}

	return id, tx.Commit()
}
